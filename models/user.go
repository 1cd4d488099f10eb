package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an OAuth-authenticated member. There is no local password
// login; identity is the (provider, provider_id) pair.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Provider     string         `gorm:"size:32;not null;uniqueIndex:idx_users_provider_identity" json:"provider"`
	ProviderID   string         `gorm:"size:255;not null;uniqueIndex:idx_users_provider_identity" json:"provider_id"`
	Email        string         `gorm:"size:255" json:"email"`
	Name         string         `gorm:"size:64" json:"name"`
	FitnessGrade string         `gorm:"size:16" json:"fitness_grade"`
	FitnessScore int            `gorm:"default:0" json:"fitness_score"`
	IsPremium    bool           `gorm:"default:false" json:"is_premium"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
