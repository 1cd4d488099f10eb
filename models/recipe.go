package models

import "time"

// Recipe is a generated exercise program tied to one measurement session.
// The three phase columns hold comma-joined card IDs, deduplicated within
// each phase; the same card may appear in different phases.
type Recipe struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	SessionUUID   string    `gorm:"column:measurement_uuid;size:12;index;not null" json:"measurement_uuid"`
	Title         string    `gorm:"column:recipe_title;size:255;not null" json:"recipe_title"`
	Intro         string    `gorm:"column:recipe_intro;type:text" json:"recipe_intro"`
	Difficulty    string    `gorm:"size:16" json:"difficulty"`
	DurationMin   int       `gorm:"default:0" json:"duration_min"`
	FitnessGrade  string    `gorm:"size:16" json:"fitness_grade"`
	FitnessScore  int       `gorm:"default:0" json:"fitness_score"`
	WarmUpCards   string    `gorm:"column:warm_up_cards;size:512" json:"warm_up_cards"`
	MainCards     string    `gorm:"column:main_cards;size:512" json:"main_cards"`
	CoolDownCards string    `gorm:"column:cool_down_cards;size:512" json:"cool_down_cards"`
	CreatedAt     time.Time `json:"created_at"`
}
