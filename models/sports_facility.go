package models

import "time"

// SportsFacility is a read-only directory entry for a public sports facility.
// DelFlag is a soft-delete marker kept as Y/N for parity with the source data.
type SportsFacility struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FacilityName  string    `gorm:"size:128;index;not null" json:"facilityName"`
	FacilityType  string    `gorm:"size:64;index" json:"facilityType"`
	StateValue    string    `gorm:"size:32" json:"stateValue"`
	ZipCode       string    `gorm:"size:16" json:"zipCode"`
	AddressMain   string    `gorm:"size:255" json:"addressMain"`
	AddressDetail string    `gorm:"size:255" json:"addressDetail"`
	TelNo         string    `gorm:"size:32" json:"telNo"`
	SidoName      string    `gorm:"size:64" json:"sidoName"`
	SigunguName   string    `gorm:"size:64" json:"sigunguName"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	DelFlag       string    `gorm:"size:1;default:'N'" json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (SportsFacility) TableName() string { return "sports_facility" }
