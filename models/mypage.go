package models

import "time"

// MyPage holds the derived badge set for a user. BadgeInfo is a comma-joined
// list of badge IDs, fully regenerated on every aggregator run.
type MyPage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	BadgeInfo string    `gorm:"size:64" json:"badge_info"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MyPage) TableName() string { return "mypage" }
