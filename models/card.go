package models

// Card is a read-only exercise catalog entry. VideoDuration keeps the legacy
// string format ("27:30:00", "1:27", "45") and is parsed on read.
type Card struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	ExerciseName    string `gorm:"size:128;index;not null" json:"exercise_name"`
	Description     string `gorm:"type:text" json:"description"`
	VideoURL        string `gorm:"size:512" json:"video_url"`
	ImageURL        string `gorm:"size:512" json:"image_url"`
	VideoDuration   string `gorm:"size:16" json:"video_duration"`
	FitnessCategory string `gorm:"size:64" json:"fitness_category"`
	Equipment       string `gorm:"size:64" json:"equipment"`
	BodyPart        string `gorm:"size:64" json:"body_part"`
	TargetAudience  string `gorm:"size:64" json:"target_audience"`
}

func (Card) TableName() string { return "card" }
