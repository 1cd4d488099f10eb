package services

import (
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitkeeper/fitkeeper/models"
)

// Badge IDs stored comma-joined in mypage.badge_info.
//
//	1 seven-day attendance streak
//	2 fitness grade A
//	3 top 2 percent of fitness scores
//	4 thirty lifetime attendance days
//	5 three lifetime measurement days
//	6 premium member
const (
	BadgeStreak      = "1"
	BadgeGradeA      = "2"
	BadgeTopPercent  = "3"
	BadgeAttendance  = "4"
	BadgeMeasurement = "5"
	BadgePremium     = "6"
)

// BadgeResult is the output of one aggregator run.
type BadgeResult struct {
	BadgeInfo        string
	CurrentStreak    int
	UserRank         int64
	TotalUsers       int64
	TopPercent       int
	TotalAttendance  int64
	TotalMeasurement int64
}

// RefreshBadges recomputes every badge for the user from current state and
// replaces the stored badge set. The computation reads only persisted rows,
// so repeated runs without state changes produce identical results.
func RefreshBadges(db *gorm.DB, user *models.User) (*BadgeResult, error) {
	result := &BadgeResult{}
	earned := []string{}

	streak, err := currentStreak(db, user.ID, time.Now())
	if err != nil {
		return nil, err
	}
	result.CurrentStreak = streak
	if streak >= 7 {
		earned = append(earned, BadgeStreak)
	}

	if strings.HasPrefix(strings.ToUpper(user.FitnessGrade), "A") {
		earned = append(earned, BadgeGradeA)
	}

	rank, total, err := scoreRank(db, user.FitnessScore)
	if err != nil {
		return nil, err
	}
	result.UserRank = rank
	result.TotalUsers = total
	result.TopPercent = 100
	if total > 0 {
		result.TopPercent = int(math.Round(float64(rank) / float64(total) * 100))
	}
	if result.TopPercent <= 2 {
		earned = append(earned, BadgeTopPercent)
	}

	if err := db.Model(&models.GrassHistory{}).
		Where("user_id = ? AND attendance = ?", user.ID, models.FlagYes).
		Count(&result.TotalAttendance).Error; err != nil {
		return nil, err
	}
	if result.TotalAttendance >= 30 {
		earned = append(earned, BadgeAttendance)
	}

	if err := db.Model(&models.GrassHistory{}).
		Where("user_id = ? AND measurement = ?", user.ID, models.FlagYes).
		Count(&result.TotalMeasurement).Error; err != nil {
		return nil, err
	}
	if result.TotalMeasurement >= 3 {
		earned = append(earned, BadgeMeasurement)
	}

	if user.IsPremium {
		earned = append(earned, BadgePremium)
	}

	result.BadgeInfo = strings.Join(earned, ",")

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"badge_info": result.BadgeInfo, "updated_at": time.Now()}),
	}).Create(&models.MyPage{UserID: user.ID, BadgeInfo: result.BadgeInfo}).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

// currentStreak counts consecutive attended days ending today. Any calendar
// gap or an unattended day breaks the run.
func currentStreak(db *gorm.DB, userID uint, now time.Time) (int, error) {
	var rows []models.GrassHistory
	if err := db.Where("user_id = ?", userID).
		Order("record_date DESC").
		Find(&rows).Error; err != nil {
		return 0, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	streak := 0
	for i, row := range rows {
		expected := today.AddDate(0, 0, -i).Format("2006-01-02")
		if normalizeDate(row.RecordDate) != expected || row.Attendance != models.FlagYes {
			break
		}
		streak++
	}
	return streak, nil
}

// scoreRank is 1 plus the number of strictly higher fitness scores.
func scoreRank(db *gorm.DB, score int) (rank int64, total int64, err error) {
	if err = db.Model(&models.User{}).
		Where("fitness_score > ?", score).
		Count(&rank).Error; err != nil {
		return 0, 0, err
	}
	rank++
	if err = db.Model(&models.User{}).
		Where("fitness_score IS NOT NULL").
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	return rank, total, nil
}

// normalizeDate trims a date column value down to YYYY-MM-DD. Some drivers
// return date columns with a time suffix.
func normalizeDate(raw string) string {
	if len(raw) >= 10 {
		return raw[:10]
	}
	return raw
}
