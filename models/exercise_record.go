package models

import "time"

// ExerciseRecord is a user's best attempt at a named exercise. One row per
// (user, title); later submissions overwrite the earlier one.
type ExerciseRecord struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;uniqueIndex:idx_exercise_user_title" json:"user_id"`
	Title            string    `gorm:"size:128;not null;uniqueIndex:idx_exercise_user_title" json:"title"`
	AverageAccuracy  float64   `gorm:"not null" json:"average_accuracy"`
	ExerciseDuration int       `gorm:"not null" json:"exercise_duration"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (ExerciseRecord) TableName() string { return "exercise_records" }
