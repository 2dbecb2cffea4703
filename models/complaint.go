package models

import "time"

// Complaint is a message left through the public contact form.
type Complaint struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SenderName  string    `gorm:"type:varchar(255);not null" json:"senderName"`
	SenderEmail string    `gorm:"type:varchar(255);not null" json:"senderEmail"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	CreatedAt   time.Time `gorm:"not null;index" json:"createdAt"`
	Seq         int64     `gorm:"not null;default:0;index" json:"-"`
}

func (m *Complaint) RecordID() string   { return m.ID }
func (m *Complaint) Created() time.Time { return m.CreatedAt }

func (m *Complaint) SetSeq(n int64) { m.Seq = n }

func (m *Complaint) Assign(id string, createdAt time.Time) {
	m.ID = id
	m.CreatedAt = createdAt
}

func (m *Complaint) Validate() error {
	return requireFields("contact form",
		field{"name", &m.SenderName},
		field{"email", &m.SenderEmail},
		field{"message", &m.Message},
	)
}
