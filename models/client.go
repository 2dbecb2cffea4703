package models

import "time"

type Client struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Address       string    `gorm:"type:varchar(255);not null" json:"address"`
	ContactNumber string    `gorm:"type:varchar(50);not null" json:"contactNumber"`
	CreatedAt     time.Time `gorm:"not null;index" json:"createdAt"`
	Seq           int64     `gorm:"not null;default:0;index" json:"-"`
}

func (cl *Client) RecordID() string   { return cl.ID }
func (cl *Client) Created() time.Time { return cl.CreatedAt }

func (cl *Client) SetSeq(n int64) { cl.Seq = n }

func (cl *Client) Assign(id string, createdAt time.Time) {
	cl.ID = id
	cl.CreatedAt = createdAt
}

func (cl *Client) Validate() error {
	return requireFields("client",
		field{"name", &cl.Name},
		field{"address", &cl.Address},
		field{"contactNumber", &cl.ContactNumber},
	)
}
