package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitkeeper/fitkeeper/models"
	"github.com/fitkeeper/fitkeeper/utils"
)

func seedCards(t *testing.T, db *gorm.DB) {
	t.Helper()
	// Durations parse to 90s, 600s, 330s and 120s respectively.
	cards := []models.Card{
		{ExerciseName: "neck roll", VideoDuration: "1:30"},
		{ExerciseName: "squat", VideoDuration: "10:00:00"},
		{ExerciseName: "lunge", VideoDuration: "5:30:00"},
		{ExerciseName: "hamstring stretch", VideoDuration: "2:00"},
	}
	require.NoError(t, db.Create(&cards).Error)
}

func planServer(t *testing.T, plan RecommendResponse) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(plan)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestComposeDeduplicatesWithinPhaseOnly(t *testing.T) {
	db := newTestDB(t)
	seedCards(t, db)
	user := createTestUser(t, db, "", 0)

	srv := planServer(t, RecommendResponse{
		WarmUpExercises:   []string{"squat", "neck roll", "squat"},
		MainExercises:     []string{"squat", "lunge"},
		CoolDownExercises: []string{"hamstring stretch"},
		FitnessGrade:      "B1",
		FitnessScore:      60,
	})

	composer := NewRecipeComposer(db,
		NewRecommenderWith(srv.URL, 2*time.Second),
		NewTextGeneratorWith("", "", time.Second))

	recipe, err := composer.Compose(user.ID, "202601010001", RecommendRequest{AgeGroup: "adult"})
	require.NoError(t, err)

	// "squat" appears once in warm-up but may repeat in the main phase.
	assert.Equal(t, 2, PhaseCardCount(recipe.WarmUpCards))
	assert.Equal(t, 2, PhaseCardCount(recipe.MainCards))
	assert.Equal(t, 1, PhaseCardCount(recipe.CoolDownCards))

	// 600+90 + 600+330 + 120 seconds, rounded to whole minutes.
	assert.Equal(t, 29, recipe.DurationMin)
	assert.Equal(t, "intermediate", recipe.Difficulty)
	assert.Equal(t, "B1", recipe.FitnessGrade)
	assert.Equal(t, 60, recipe.FitnessScore)
}

func TestComposeDropsUnknownExercises(t *testing.T) {
	db := newTestDB(t)
	seedCards(t, db)
	user := createTestUser(t, db, "", 0)

	srv := planServer(t, RecommendResponse{
		MainExercises: []string{"squat", "underwater basket weaving"},
		FitnessGrade:  "A1",
	})

	composer := NewRecipeComposer(db,
		NewRecommenderWith(srv.URL, 2*time.Second),
		NewTextGeneratorWith("", "", time.Second))

	recipe, err := composer.Compose(user.ID, "202601010001", RecommendRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1, PhaseCardCount(recipe.MainCards))
	assert.Equal(t, "advanced", recipe.Difficulty)
}

func TestComposeSurvivesCollaboratorOutage(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "", 0)

	composer := NewRecipeComposer(db,
		NewRecommenderWith("", time.Second),
		NewTextGeneratorWith("", "", time.Second))

	recipe, err := composer.Compose(user.ID, "202601010001", RecommendRequest{})
	require.NoError(t, err)

	assert.Equal(t, FallbackFitnessGrade, recipe.FitnessGrade)
	assert.NotEmpty(t, recipe.Title)
	assert.NotEmpty(t, recipe.Intro)
	assert.NotEmpty(t, recipe.Difficulty)
}

func TestResolvePhaseCardsKeepsStoredOrder(t *testing.T) {
	db := newTestDB(t)
	seedCards(t, db)

	var squat, neckRoll models.Card
	require.NoError(t, db.Where("exercise_name = ?", "squat").First(&squat).Error)
	require.NoError(t, db.Where("exercise_name = ?", "neck roll").First(&neckRoll).Error)

	column := utils.JoinIDList([]string{utils.FormatUint(squat.ID), utils.FormatUint(neckRoll.ID)})
	views := ResolvePhaseCards(db, column)
	require.Len(t, views, 2)
	assert.Equal(t, "squat", views[0].ExerciseName)
	assert.Equal(t, "neck roll", views[1].ExerciseName)
	assert.Equal(t, "10:00", views[0].VideoDuration)
}
