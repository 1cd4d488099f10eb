package models

import "time"

// Club is a read-only directory entry for a local sports club.
type Club struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ClubName      string    `gorm:"size:128;index;not null" json:"clubName"`
	SidoName      string    `gorm:"size:64" json:"sidoName"`
	SigunguName   string    `gorm:"size:64" json:"sigunguName"`
	ItemName      string    `gorm:"size:64;index" json:"itemName"`
	ItemClassName string    `gorm:"size:64" json:"itemClassName"`
	GenderType    string    `gorm:"size:16" json:"genderType"`
	MemberCount   int       `gorm:"default:0" json:"memberCount"`
	FoundedDate   string    `gorm:"size:16" json:"foundedDate"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Club) TableName() string { return "club_info" }
