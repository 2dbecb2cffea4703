package models

import "time"

type Appointment struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Time            string    `gorm:"column:scheduled_time;type:varchar(255);not null" json:"time"`
	ClientName      string    `gorm:"type:varchar(255);not null" json:"clientName"`
	TypeOfService   string    `gorm:"type:varchar(255);not null" json:"typeOfService"`
	CleanerAssigned string    `gorm:"type:varchar(255);not null" json:"cleanerAssigned"`
	CreatedAt       time.Time `gorm:"not null;index" json:"createdAt"`
	Seq             int64     `gorm:"not null;default:0;index" json:"-"`
}

func (a *Appointment) RecordID() string   { return a.ID }
func (a *Appointment) Created() time.Time { return a.CreatedAt }

func (a *Appointment) SetSeq(n int64) { a.Seq = n }

func (a *Appointment) Assign(id string, createdAt time.Time) {
	a.ID = id
	a.CreatedAt = createdAt
}

func (a *Appointment) Validate() error {
	return requireFields("appointment",
		field{"time", &a.Time},
		field{"clientName", &a.ClientName},
		field{"typeOfService", &a.TypeOfService},
		field{"cleanerAssigned", &a.CleanerAssigned},
	)
}
