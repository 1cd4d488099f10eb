package models

import "time"

// Measurement stores one measured value. Rows sharing a SessionUUID form one
// measurement session; items are immutable once written.
type Measurement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	SessionUUID string    `gorm:"column:measurement_uuid;size:12;index;not null" json:"measurement_uuid"`
	Code        string    `gorm:"column:measurement_code;size:16;not null" json:"measurement_code"`
	Value       string    `gorm:"column:measurement_data;size:255;not null" json:"measurement_data"`
	CreatedAt   time.Time `json:"created_at"`
}

// MeasurementCode is the read-only catalog of known measurement codes.
type MeasurementCode struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"column:measurement_code_name;size:64;not null" json:"measurement_code_name"`
	GuideVideo string `gorm:"size:512" json:"guide_video"`
}

func (MeasurementCode) TableName() string { return "measurement_code" }
