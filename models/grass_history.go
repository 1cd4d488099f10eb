package models

import "time"

// Flag values for GrassHistory columns.
const (
	FlagYes = "Y"
	FlagNo  = "N"
)

// GrassHistory records one calendar day of user activity. At most one row per
// (user, date); the three flags are upserted independently and idempotently.
type GrassHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_grass_user_date" json:"user_id"`
	RecordDate  string    `gorm:"type:date;not null;uniqueIndex:idx_grass_user_date" json:"record_date"`
	Attendance  string    `gorm:"size:1;default:'N'" json:"attendance"`
	VideoWatch  string    `gorm:"size:1;default:'N'" json:"video_watch"`
	Measurement string    `gorm:"size:1;default:'N'" json:"measurement"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (GrassHistory) TableName() string { return "grass_history" }
