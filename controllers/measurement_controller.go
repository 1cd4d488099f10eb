package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitkeeper/fitkeeper/middleware"
	"github.com/fitkeeper/fitkeeper/models"
	"github.com/fitkeeper/fitkeeper/services"
	"github.com/fitkeeper/fitkeeper/utils"
)

// MeasurementController handles fitness measurement intake and reads.
type MeasurementController struct {
	db       *gorm.DB
	composer *services.RecipeComposer
}

// NewMeasurementController creates a MeasurementController.
func NewMeasurementController(db *gorm.DB, composer *services.RecipeComposer) *MeasurementController {
	return &MeasurementController{db: db, composer: composer}
}

type measurementItem struct {
	MeasureKey   string `json:"measure_key"`
	MeasureValue string `json:"measure_value"`
}

// Create ingests one measurement session and synchronously composes the
// exercise recipe for it.
func (m *MeasurementController) Create(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var req struct {
		Measurements []measurementItem `json:"measurements"`
		ReqArr       []measurementItem `json:"req_arr"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}
	items := req.Measurements
	if len(items) == 0 {
		items = req.ReqArr
	}
	if len(items) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40011, "measurement items are required as [{measure_key, measure_value}, ...]")
		return
	}

	// Items with an empty key or value are silently skipped, not rejected.
	processed := map[string]string{}
	age := 0
	months := 0
	gender := ""
	for _, item := range items {
		key := strings.TrimSpace(item.MeasureKey)
		value := strings.TrimSpace(item.MeasureValue)
		if key == "" || value == "" {
			continue
		}
		switch key {
		case services.CodeAge, "age":
			if n, err := strconv.Atoi(value); err == nil {
				age = n
			}
			processed[key] = value
		case services.CodeGender, "gender":
			gender = normalizeGender(value)
			processed[key] = value
		case services.CodeMonths, "months":
			if n, err := strconv.Atoi(value); err == nil {
				months = n
			}
			processed[key] = value
		default:
			processed[key] = value
		}
	}

	if age == 0 {
		if months > 0 {
			// Code 55 carries age in months for the infant band; under
			// twelve months this legitimately stays zero years.
			age = months / 12
		} else {
			age = 30
		}
	}
	if gender == "" {
		gender = "M"
	}

	ageGroup := services.GetAgeGroup(age)
	schema := services.GetMeasurementSchema(ageGroup)

	missing := []string{}
	for _, code := range schema.Required {
		if _, ok := processed[code]; !ok {
			missing = append(missing, schema.Items[code])
		}
	}
	if len(missing) > 0 {
		utils.Error(ctx, http.StatusBadRequest, 40012,
			fmt.Sprintf("required measurement items are missing (%s)", strings.Join(missing, ", ")))
		return
	}

	sessionUUID, err := m.nextSessionUUID(userID, time.Now())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to allocate measurement session")
		return
	}

	err = m.db.Transaction(func(tx *gorm.DB) error {
		for code, value := range processed {
			row := models.Measurement{
				UserID:      userID,
				SessionUUID: sessionUUID,
				Code:        code,
				Value:       value,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to store measurements")
		return
	}

	recipe, err := m.composer.Compose(userID, sessionUUID, services.RecommendRequest{
		AgeGroup:         ageGroup,
		Age:              age,
		Gender:           gender,
		ActivityLevel:    "moderate",
		Goal:             "health",
		HealthConditions: nil,
		MeasurementItems: processed,
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to compose recipe")
		return
	}

	// Grade and score come from the composed recipe; keep the profile current.
	_ = m.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"fitness_grade": recipe.FitnessGrade,
			"fitness_score": recipe.FitnessScore,
		}).Error

	services.MarkGrassTodayQuiet(m.db, userID, services.GrassMeasurement)

	utils.Created(ctx, gin.H{
		"measurement_uuid":    sessionUUID,
		"measurements":        processed,
		"recipe_title":        recipe.Title,
		"recipe_intro":        recipe.Intro,
		"difficulty":          recipe.Difficulty,
		"duration_min":        recipe.DurationMin,
		"fitness_grade":       recipe.FitnessGrade,
		"warm_up_card_list":   services.ResolvePhaseCards(m.db, recipe.WarmUpCards),
		"main_card_list":      services.ResolvePhaseCards(m.db, recipe.MainCards),
		"cool_down_card_list": services.ResolvePhaseCards(m.db, recipe.CoolDownCards),
	})
}

// List returns the user's measurement rows with the recipe generated for
// each session, most recent first.
func (m *MeasurementController) List(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var measurements []models.Measurement
	if err := m.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&measurements).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to list measurements")
		return
	}

	var recipes []models.Recipe
	if err := m.db.Where("user_id = ?", userID).Find(&recipes).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to list measurements")
		return
	}
	recipeBySession := make(map[string]models.Recipe, len(recipes))
	for _, r := range recipes {
		recipeBySession[r.SessionUUID] = r
	}

	type measurementRow struct {
		models.Measurement
		RecipeID     uint   `json:"recipe_id,omitempty"`
		RecipeTitle  string `json:"recipe_title,omitempty"`
		FitnessScore int    `json:"fitness_score,omitempty"`
	}
	rows := make([]measurementRow, 0, len(measurements))
	for _, item := range measurements {
		row := measurementRow{Measurement: item}
		if r, ok := recipeBySession[item.SessionUUID]; ok {
			row.RecipeID = r.ID
			row.RecipeTitle = r.Title
			row.FitnessScore = r.FitnessScore
		}
		rows = append(rows, row)
	}

	utils.Success(ctx, rows)
}

// Get returns one measurement session owned by the caller.
func (m *MeasurementController) Get(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	sessionUUID := strings.TrimSpace(ctx.Param("id"))

	var rows []models.Measurement
	if err := m.db.Where("user_id = ? AND measurement_uuid = ?", userID, sessionUUID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load measurement")
		return
	}
	if len(rows) == 0 {
		utils.Error(ctx, http.StatusNotFound, 40410, "measurement not found")
		return
	}

	utils.Success(ctx, gin.H{
		"measurement_uuid": sessionUUID,
		"items":            rows,
	})
}

// GetRecipe returns the recipe composed for one of the caller's measurement
// sessions, with card lists resolved. A session that belongs to somebody
// else is an authorization failure, not a missing resource.
func (m *MeasurementController) GetRecipe(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	sessionUUID := strings.TrimSpace(ctx.Param("id"))

	var owner models.Measurement
	err := m.db.Select("user_id").
		Where("measurement_uuid = ?", sessionUUID).
		First(&owner).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40410, "measurement not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to load measurement")
		return
	}
	if owner.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40300, "permission denied")
		return
	}

	var recipe models.Recipe
	if err := m.db.Where("measurement_uuid = ?", sessionUUID).First(&recipe).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40411, "recipe not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to load recipe")
		return
	}

	utils.Success(ctx, gin.H{
		"id":                   recipe.ID,
		"measurement_uuid":     recipe.SessionUUID,
		"recipe_title":         recipe.Title,
		"recipe_intro":         recipe.Intro,
		"difficulty":           recipe.Difficulty,
		"duration_min":         recipe.DurationMin,
		"fitness_grade":        recipe.FitnessGrade,
		"fitness_score":        recipe.FitnessScore,
		"warm_up_cards_list":   services.ResolvePhaseCards(m.db, recipe.WarmUpCards),
		"main_cards_list":      services.ResolvePhaseCards(m.db, recipe.MainCards),
		"cool_down_cards_list": services.ResolvePhaseCards(m.db, recipe.CoolDownCards),
		"created_at":           recipe.CreatedAt,
	})
}

// Items describes the measurement schema for an age or explicit age group.
func (m *MeasurementController) Items(ctx *gin.Context) {
	ageGroup := strings.TrimSpace(ctx.Query("ageGroup"))
	if ageGroup == "" {
		age := 30
		if v := strings.TrimSpace(ctx.Query("age")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				utils.Error(ctx, http.StatusBadRequest, 40013, "age must be a non-negative integer")
				return
			}
			age = n
		}
		ageGroup = services.GetAgeGroup(age)
	}

	utils.Success(ctx, services.GetMeasurementSchema(ageGroup))
}

// Codes lists the measurement code catalog.
func (m *MeasurementController) Codes(ctx *gin.Context) {
	var codes []models.MeasurementCode
	if err := m.db.Order("measurement_code_name ASC").Find(&codes).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to list measurement codes")
		return
	}
	utils.Success(ctx, codes)
}

// nextSessionUUID builds YYYYMMDD plus a zero-padded per-user daily sequence.
func (m *MeasurementController) nextSessionUUID(userID uint, now time.Time) (string, error) {
	datePrefix := now.Format("20060102")

	var count int64
	err := m.db.Model(&models.Measurement{}).
		Where("user_id = ? AND measurement_uuid LIKE ?", userID, datePrefix+"%").
		Distinct("measurement_uuid").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", datePrefix, count+1), nil
}

func normalizeGender(value string) string {
	switch value {
	case "male", "M":
		return "M"
	case "female", "F":
		return "F"
	default:
		return value
	}
}
