package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRecipeParsesServerResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate-recipe", r.URL.Path)
		var req RecommendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "adult", req.AgeGroup)

		json.NewEncoder(w).Encode(RecommendResponse{
			WarmUpExercises:   []string{"neck roll"},
			MainExercises:     []string{"squat", "lunge"},
			CoolDownExercises: []string{"hamstring stretch"},
			FitnessGrade:      "B2",
			FitnessScore:      72,
		})
	}))
	defer srv.Close()

	rec := NewRecommenderWith(srv.URL, 2*time.Second)
	out := rec.GenerateRecipe(RecommendRequest{AgeGroup: "adult", Age: 30, Gender: "M"})

	assert.Equal(t, []string{"squat", "lunge"}, out.MainExercises)
	assert.Equal(t, "B2", out.FitnessGrade)
	assert.Equal(t, 72, out.FitnessScore)
}

func TestGenerateRecipeFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	rec := NewRecommenderWith(srv.URL, 2*time.Second)
	out := rec.GenerateRecipe(RecommendRequest{AgeGroup: "adult"})

	assert.Equal(t, FallbackFitnessGrade, out.FitnessGrade)
	assert.Equal(t, 0, out.FitnessScore)
	assert.NotEmpty(t, out.MainExercises)
}

func TestGenerateRecipeFallsBackOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	rec := NewRecommenderWith(srv.URL, 2*time.Second)
	out := rec.GenerateRecipe(RecommendRequest{})

	assert.Equal(t, FallbackFitnessGrade, out.FitnessGrade)
}

func TestGenerateRecipeFallsBackWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	rec := NewRecommenderWith(srv.URL, time.Second)
	out := rec.GenerateRecipe(RecommendRequest{})

	assert.Equal(t, FallbackFitnessGrade, out.FitnessGrade)
}

func TestGenerateRecipeFallsBackWithoutEndpoint(t *testing.T) {
	rec := NewRecommenderWith("", time.Second)
	out := rec.GenerateRecipe(RecommendRequest{})

	assert.Equal(t, FallbackFitnessGrade, out.FitnessGrade)
	assert.NotEmpty(t, out.WarmUpExercises)
	assert.NotEmpty(t, out.CoolDownExercises)
}
