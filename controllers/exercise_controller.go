package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitkeeper/fitkeeper/middleware"
	"github.com/fitkeeper/fitkeeper/models"
	"github.com/fitkeeper/fitkeeper/utils"
)

// ExerciseController tracks per-exercise best records and rankings.
type ExerciseController struct {
	db *gorm.DB
}

// NewExerciseController creates an ExerciseController.
func NewExerciseController(db *gorm.DB) *ExerciseController {
	return &ExerciseController{db: db}
}

// Add upserts the caller's record for one exercise. A zero accuracy or a
// zero duration is not a real attempt and is rejected.
func (e *ExerciseController) Add(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var req struct {
		Title            string   `json:"title"`
		AverageAccuracy  *float64 `json:"averageAccuracy"`
		ExerciseDuration *int     `json:"exerciseDuration"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.AverageAccuracy == nil || req.ExerciseDuration == nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "title, averageAccuracy and exerciseDuration are required")
		return
	}
	if *req.AverageAccuracy <= 0 || *req.ExerciseDuration <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40032, "records with zero accuracy or zero duration cannot be registered")
		return
	}

	var existing models.ExerciseRecord
	isUpdate := e.db.Where("user_id = ? AND title = ?", userID, req.Title).
		First(&existing).Error == nil

	record := models.ExerciseRecord{
		UserID:           userID,
		Title:            req.Title,
		AverageAccuracy:  *req.AverageAccuracy,
		ExerciseDuration: *req.ExerciseDuration,
	}
	err := e.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "title"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"average_accuracy":  *req.AverageAccuracy,
			"exercise_duration": *req.ExerciseDuration,
			"updated_at":        time.Now(),
		}),
	}).Create(&record).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to store exercise record")
		return
	}

	recordID := record.ID
	status := http.StatusCreated
	if isUpdate {
		recordID = existing.ID
		status = http.StatusOK
	}
	utils.Respond(ctx, status, 0, "success", gin.H{
		"id":       recordID,
		"isUpdate": isUpdate,
	})
}

// Ranking lists the leaderboard for one exercise, best accuracy first with
// duration breaking ties.
func (e *ExerciseController) Ranking(ctx *gin.Context) {
	title := strings.TrimSpace(ctx.Param("title"))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40033, "invalid exercise title")
		return
	}

	limit := 10
	if v := strings.TrimSpace(ctx.Query("limit")); v != "" {
		if n, convErr := strconv.Atoi(v); convErr == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	type rankingRow struct {
		ID               uint      `json:"id"`
		UserID           uint      `json:"user_id"`
		UserName         string    `json:"user_name"`
		Title            string    `json:"title"`
		AverageAccuracy  float64   `json:"average_accuracy"`
		ExerciseDuration int       `json:"exercise_duration"`
		CreatedAt        time.Time `json:"created_at"`
		RankPosition     int       `json:"rank_position"`
	}

	var rows []rankingRow
	err := e.db.Model(&models.ExerciseRecord{}).
		Select("exercise_records.id, exercise_records.user_id, users.name AS user_name, exercise_records.title, exercise_records.average_accuracy, exercise_records.exercise_duration, exercise_records.created_at").
		Joins("JOIN users ON users.id = exercise_records.user_id").
		Where("exercise_records.title = ?", title).
		Order("exercise_records.average_accuracy DESC, exercise_records.exercise_duration DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to load ranking")
		return
	}

	for i := range rows {
		rows[i].RankPosition = i + 1
	}

	utils.Success(ctx, gin.H{
		"count": len(rows),
		"data":  rows,
	})
}

// MyRecord returns the caller's record for one exercise with its rank. Rank
// counts only strictly higher accuracies; equal-accuracy rivals with a
// longer duration sort above this user on the board but do not change the
// reported rank.
func (e *ExerciseController) MyRecord(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	title := strings.TrimSpace(ctx.Param("title"))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40033, "invalid exercise title")
		return
	}

	var record models.ExerciseRecord
	if err := e.db.Where("user_id = ? AND title = ?", userID, title).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Success(ctx, nil)
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load record")
		return
	}

	var higher int64
	if err := e.db.Model(&models.ExerciseRecord{}).
		Where("title = ? AND average_accuracy > ?", title, record.AverageAccuracy).
		Count(&higher).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load record")
		return
	}

	var total int64
	if err := e.db.Model(&models.ExerciseRecord{}).
		Where("title = ?", title).
		Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load record")
		return
	}

	utils.Success(ctx, gin.H{
		"id":                record.ID,
		"title":             record.Title,
		"average_accuracy":  record.AverageAccuracy,
		"exercise_duration": record.ExerciseDuration,
		"created_at":        record.CreatedAt,
		"myRank":            higher + 1,
		"totalParticipants": total,
	})
}

// MyRecords lists every record the caller holds, most recent first.
func (e *ExerciseController) MyRecords(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var records []models.ExerciseRecord
	if err := e.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to list records")
		return
	}

	utils.Success(ctx, gin.H{
		"count": len(records),
		"data":  records,
	})
}
