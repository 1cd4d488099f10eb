package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitkeeper/fitkeeper/middleware"
	"github.com/fitkeeper/fitkeeper/models"
	"github.com/fitkeeper/fitkeeper/services"
	"github.com/fitkeeper/fitkeeper/utils"
)

// MyPageController aggregates the profile, ranking, badge, streak and grass
// data shown on the member page.
type MyPageController struct {
	db *gorm.DB
}

// NewMyPageController creates a MyPageController.
func NewMyPageController(db *gorm.DB) *MyPageController {
	return &MyPageController{db: db}
}

// Get recomputes the badge set and returns the full aggregation. Badges are
// derived from persisted state on every read, so the stored badge_info is a
// cache of the latest computation, never an input.
func (m *MyPageController) Get(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var user models.User
	if err := m.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load user")
		return
	}

	badges, err := services.RefreshBadges(m.db, &user)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to compute badges")
		return
	}

	now := time.Now()

	weeklyVideoWatch, err := m.weeklyVideoWatch(userID, now)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load activity history")
		return
	}

	grass, err := m.lastYearGrass(userID, now)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load activity history")
		return
	}

	recentRecipes, err := m.recentRecipes(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to load recipes")
		return
	}

	utils.Success(ctx, gin.H{
		"profile": gin.H{
			"userId":       user.ID,
			"name":         user.Name,
			"email":        user.Email,
			"fitnessGrade": user.FitnessGrade,
			"fitnessScore": user.FitnessScore,
		},
		"ranking": gin.H{
			"totalUsers": badges.TotalUsers,
			"userRank":   badges.UserRank,
			"topPercent": badges.TopPercent,
		},
		"streak": gin.H{
			"currentStreak": badges.CurrentStreak,
		},
		"badgeInfo":        badges.BadgeInfo,
		"weeklyVideoWatch": weeklyVideoWatch,
		"grass":            grass,
		"recipes":          recentRecipes,
	})
}

// weeklyVideoWatch counts watched days since the most recent Monday.
func (m *MyPageController) weeklyVideoWatch(userID uint, now time.Time) (int64, error) {
	weekday := int(now.Weekday())
	// time.Weekday starts the week on Sunday; shift so Monday is day zero.
	daysSinceMonday := (weekday + 6) % 7
	weekStart := now.AddDate(0, 0, -daysSinceMonday).Format("2006-01-02")

	var count int64
	err := m.db.Model(&models.GrassHistory{}).
		Where("user_id = ? AND video_watch = ? AND record_date >= ?", userID, models.FlagYes, weekStart).
		Count(&count).Error
	return count, err
}

type grassDay struct {
	RecordDate  string `json:"recordDate"`
	Attendance  bool   `json:"attendance"`
	VideoWatch  bool   `json:"videoWatch"`
	Measurement bool   `json:"measurement"`
}

func (m *MyPageController) lastYearGrass(userID uint, now time.Time) ([]grassDay, error) {
	yearAgo := now.AddDate(-1, 0, 0).Format("2006-01-02")

	var rows []models.GrassHistory
	err := m.db.Where("user_id = ? AND record_date >= ?", userID, yearAgo).
		Order("record_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	days := make([]grassDay, 0, len(rows))
	for _, row := range rows {
		days = append(days, grassDay{
			RecordDate:  row.RecordDate,
			Attendance:  row.Attendance == models.FlagYes,
			VideoWatch:  row.VideoWatch == models.FlagYes,
			Measurement: row.Measurement == models.FlagYes,
		})
	}
	return days, nil
}

type recipeWithCount struct {
	ID            uint      `json:"id"`
	RecipeTitle   string    `json:"recipeTitle"`
	RecipeIntro   string    `json:"recipeIntro"`
	Difficulty    string    `json:"difficulty"`
	DurationMin   int       `json:"durationMin"`
	FitnessGrade  string    `json:"fitnessGrade"`
	ExerciseCount int       `json:"exerciseCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (m *MyPageController) recentRecipes(userID uint) ([]recipeWithCount, error) {
	var recipes []models.Recipe
	err := m.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(4).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	out := make([]recipeWithCount, 0, len(recipes))
	for _, recipe := range recipes {
		out = append(out, recipeWithCount{
			ID:           recipe.ID,
			RecipeTitle:  recipe.Title,
			RecipeIntro:  recipe.Intro,
			Difficulty:   recipe.Difficulty,
			DurationMin:  recipe.DurationMin,
			FitnessGrade: recipe.FitnessGrade,
			ExerciseCount: services.PhaseCardCount(recipe.WarmUpCards) +
				services.PhaseCardCount(recipe.MainCards) +
				services.PhaseCardCount(recipe.CoolDownCards),
			CreatedAt: recipe.CreatedAt,
		})
	}
	return out, nil
}
