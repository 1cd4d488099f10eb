package services

import (
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/fitkeeper/fitkeeper/models"
	"github.com/fitkeeper/fitkeeper/utils"
)

// CardView is the client-facing shape of a catalog card. VideoDuration is
// rendered human readable ("27:30" style) instead of the raw legacy string.
type CardView struct {
	ExerciseName    string `json:"exercise_name"`
	Description     string `json:"description"`
	VideoURL        string `json:"video_url"`
	ImageURL        string `json:"image_url"`
	VideoDuration   string `json:"video_duration"`
	FitnessCategory string `json:"fitness_category"`
	Equipment       string `json:"equipment"`
	BodyPart        string `json:"body_part"`
	TargetAudience  string `json:"target_audience"`
}

// RecipeComposer turns a recommendation plan into a persisted recipe with
// card lists resolved against the exercise catalog.
type RecipeComposer struct {
	db          *gorm.DB
	recommender *Recommender
	textGen     *TextGenerator
}

// NewRecipeComposer wires the composer with its collaborators.
func NewRecipeComposer(db *gorm.DB, recommender *Recommender, textGen *TextGenerator) *RecipeComposer {
	return &RecipeComposer{db: db, recommender: recommender, textGen: textGen}
}

// Compose builds and persists the recipe for one measurement session.
// Collaborator failures degrade to fallbacks inside the clients, so the only
// error paths left are database ones.
func (c *RecipeComposer) Compose(userID uint, sessionUUID string, profile RecommendRequest) (*models.Recipe, error) {
	plan := c.recommender.GenerateRecipe(profile)

	warmUpIDs := c.matchCardIDs(plan.WarmUpExercises)
	mainIDs := c.matchCardIDs(plan.MainExercises)
	coolDownIDs := c.matchCardIDs(plan.CoolDownExercises)

	totalSeconds := c.phaseDurationSeconds(warmUpIDs) +
		c.phaseDurationSeconds(mainIDs) +
		c.phaseDurationSeconds(coolDownIDs)
	durationMin := int(math.Round(float64(totalSeconds) / 60))

	copyText := c.textGen.GenerateCopy(profile.AgeGroup, profile.Gender, profile.Goal, plan.FitnessGrade)

	recipe := models.Recipe{
		UserID:        userID,
		SessionUUID:   sessionUUID,
		Title:         copyText.Title,
		Intro:         copyText.Intro,
		Difficulty:    DifficultyFromGrade(plan.FitnessGrade),
		DurationMin:   durationMin,
		FitnessGrade:  plan.FitnessGrade,
		FitnessScore:  plan.FitnessScore,
		WarmUpCards:   utils.JoinIDList(warmUpIDs),
		MainCards:     utils.JoinIDList(mainIDs),
		CoolDownCards: utils.JoinIDList(coolDownIDs),
	}
	if err := c.db.Create(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// matchCardIDs maps exercise names onto catalog card IDs. Matching is exact
// on exercise_name, first match wins, unmatched names are dropped and the
// result is deduplicated preserving order.
func (c *RecipeComposer) matchCardIDs(exerciseNames []string) []string {
	ids := []string{}
	seen := map[string]bool{}
	for _, name := range exerciseNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var card models.Card
		if err := c.db.Select("id").Where("exercise_name = ?", name).First(&card).Error; err != nil {
			continue
		}
		id := utils.FormatUint(card.ID)
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func (c *RecipeComposer) phaseDurationSeconds(cardIDs []string) int {
	if len(cardIDs) == 0 {
		return 0
	}
	var cards []models.Card
	if err := c.db.Select("video_duration").Where("id IN ?", cardIDs).Find(&cards).Error; err != nil {
		return 0
	}
	total := 0
	for _, card := range cards {
		total += utils.ParseVideoDuration(card.VideoDuration)
	}
	return total
}

// DifficultyFromGrade derives a difficulty label from a fitness grade.
func DifficultyFromGrade(grade string) string {
	switch {
	case strings.HasPrefix(grade, "A"):
		return "advanced"
	case strings.HasPrefix(grade, "B"):
		return "intermediate"
	default:
		return "beginner"
	}
}

// ResolvePhaseCards loads the cards referenced by a comma-joined phase
// column, in the stored ID order, as client views. Unknown IDs are skipped.
func ResolvePhaseCards(db *gorm.DB, cardsColumn string) []CardView {
	ids := utils.SplitIDList(cardsColumn)
	if len(ids) == 0 {
		return []CardView{}
	}

	var cards []models.Card
	if err := db.Where("id IN ?", ids).Find(&cards).Error; err != nil {
		return []CardView{}
	}

	byID := make(map[string]models.Card, len(cards))
	for _, card := range cards {
		byID[utils.FormatUint(card.ID)] = card
	}

	views := []CardView{}
	for _, id := range ids {
		card, ok := byID[id]
		if !ok {
			continue
		}
		views = append(views, CardView{
			ExerciseName:    card.ExerciseName,
			Description:     card.Description,
			VideoURL:        card.VideoURL,
			ImageURL:        card.ImageURL,
			VideoDuration:   utils.FormatSecondsToDuration(utils.ParseVideoDuration(card.VideoDuration)),
			FitnessCategory: card.FitnessCategory,
			Equipment:       card.Equipment,
			BodyPart:        card.BodyPart,
			TargetAudience:  card.TargetAudience,
		})
	}
	return views
}

// PhaseCardCount reports how many unique cards a phase column references.
func PhaseCardCount(cardsColumn string) int {
	return utils.CountIDList(cardsColumn)
}
