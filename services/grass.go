package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitkeeper/fitkeeper/models"
	"github.com/fitkeeper/fitkeeper/utils"
)

// Grass flag columns that can be marked for a day.
const (
	GrassAttendance  = "attendance"
	GrassVideoWatch  = "video_watch"
	GrassMeasurement = "measurement"
)

// MarkGrassToday sets one activity flag to Y on today's grass row for the
// user, creating the row if the day has no record yet. Repeats are no-ops.
func MarkGrassToday(db *gorm.DB, userID uint, flag string) error {
	return MarkGrassOn(db, userID, time.Now(), flag)
}

// MarkGrassOn is MarkGrassToday for an explicit date. Exposed for the
// aggregator tests that need historical rows.
func MarkGrassOn(db *gorm.DB, userID uint, day time.Time, flag string) error {
	row := models.GrassHistory{
		UserID:      userID,
		RecordDate:  day.Format("2006-01-02"),
		Attendance:  models.FlagNo,
		VideoWatch:  models.FlagNo,
		Measurement: models.FlagNo,
	}
	switch flag {
	case GrassAttendance:
		row.Attendance = models.FlagYes
	case GrassVideoWatch:
		row.VideoWatch = models.FlagYes
	case GrassMeasurement:
		row.Measurement = models.FlagYes
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "record_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{flag: models.FlagYes, "updated_at": time.Now()}),
	}).Create(&row).Error
}

// MarkGrassTodayQuiet performs MarkGrassToday but only logs failures. Callers
// on the login and measurement paths must not fail the request over a missed
// activity flag.
func MarkGrassTodayQuiet(db *gorm.DB, userID uint, flag string) {
	if err := MarkGrassToday(db, userID, flag); err != nil {
		utils.Sugar.Errorf("grass update failed user_id=%d flag=%s err=%v", userID, flag, err)
	}
}
