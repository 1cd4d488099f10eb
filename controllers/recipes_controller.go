package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitkeeper/fitkeeper/middleware"
	"github.com/fitkeeper/fitkeeper/models"
	"github.com/fitkeeper/fitkeeper/services"
	"github.com/fitkeeper/fitkeeper/utils"
)

// RecipesController serves the public recipe browsing endpoints.
type RecipesController struct {
	db *gorm.DB
}

// NewRecipesController creates a RecipesController.
func NewRecipesController(db *gorm.DB) *RecipesController {
	return &RecipesController{db: db}
}

// List returns recipe summaries with pagination. `for_me=Y` narrows the
// listing to the authenticated caller and therefore requires a valid token.
func (r *RecipesController) List(ctx *gin.Context) {
	page, limit := parsePagination(ctx, 20)

	query := r.db.Model(&models.Recipe{})

	if title := strings.TrimSpace(ctx.Query("recipe_title")); title != "" {
		query = query.Where("recipe_title LIKE ?", "%"+title+"%")
	}

	if strings.EqualFold(ctx.Query("for_me"), "Y") {
		userID, ok := middleware.CurrentUserID(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40110, "for_me listing requires authentication")
			return
		}
		query = query.Where("user_id = ?", userID)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to list recipes")
		return
	}

	var recipes []models.Recipe
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to list recipes")
		return
	}

	type recipeSummary struct {
		ID          uint   `json:"id"`
		RecipeTitle string `json:"recipe_title"`
		RecipeIntro string `json:"recipe_intro"`
		Difficulty  string `json:"difficulty"`
		DurationMin int    `json:"duration_min"`
		CardCount   int    `json:"card_count"`
	}
	summaries := make([]recipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		summaries = append(summaries, recipeSummary{
			ID:          recipe.ID,
			RecipeTitle: recipe.Title,
			RecipeIntro: recipe.Intro,
			Difficulty:  recipe.Difficulty,
			DurationMin: recipe.DurationMin,
			CardCount: services.PhaseCardCount(recipe.WarmUpCards) +
				services.PhaseCardCount(recipe.MainCards) +
				services.PhaseCardCount(recipe.CoolDownCards),
		})
	}

	ctx.JSON(http.StatusOK, utils.NewPaginated(len(summaries), totalCount, page, limit, summaries))
}

// Get returns one recipe with its card lists resolved per phase, in the
// stored card order. Empty phases come back as empty arrays.
func (r *RecipesController) Get(ctx *gin.Context) {
	id, err := strconv.Atoi(strings.TrimSpace(ctx.Param("id")))
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid recipe id")
		return
	}

	var recipe models.Recipe
	if err := r.db.First(&recipe, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "recipe not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load recipe")
		return
	}

	utils.Success(ctx, gin.H{
		"id":                   recipe.ID,
		"recipe_title":         recipe.Title,
		"recipe_intro":         recipe.Intro,
		"difficulty":           recipe.Difficulty,
		"duration_min":         recipe.DurationMin,
		"fitness_grade":        recipe.FitnessGrade,
		"warm_up_cards_list":   services.ResolvePhaseCards(r.db, recipe.WarmUpCards),
		"main_cards_list":      services.ResolvePhaseCards(r.db, recipe.MainCards),
		"cool_down_cards_list": services.ResolvePhaseCards(r.db, recipe.CoolDownCards),
		"created_at":           recipe.CreatedAt,
	})
}

func parsePagination(ctx *gin.Context, defaultLimit int) (page, limit int) {
	page, limit = 1, defaultLimit
	if v := strings.TrimSpace(ctx.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(ctx.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	return page, limit
}
