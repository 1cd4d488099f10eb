package services

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fitkeeper/fitkeeper/config"
	"github.com/fitkeeper/fitkeeper/utils"
)

// FallbackFitnessGrade marks recipes composed without the recommendation
// service; such users did not receive a graded assessment.
const FallbackFitnessGrade = "participant"

// RecommendRequest is the profile sent to the exercise recommendation service.
type RecommendRequest struct {
	AgeGroup         string            `json:"ageGroup"`
	Age              int               `json:"age"`
	Gender           string            `json:"gender"`
	ActivityLevel    string            `json:"activityLevel"`
	Goal             string            `json:"goal"`
	HealthConditions []string          `json:"healthConditions"`
	MeasurementItems map[string]string `json:"measurementItems"`
}

// RecommendResponse carries exercise names per workout phase plus the
// computed fitness assessment.
type RecommendResponse struct {
	WarmUpExercises   []string `json:"warmUpExercises"`
	MainExercises     []string `json:"mainExercises"`
	CoolDownExercises []string `json:"coolDownExercises"`
	FitnessGrade      string   `json:"fitnessGrade"`
	FitnessScore      int      `json:"fitnessScore"`
}

// Recommender calls the external recommendation service over HTTP.
type Recommender struct {
	baseURL string
	client  *http.Client
}

// NewRecommender builds a client from loaded config.
func NewRecommender() *Recommender {
	cfg := config.Get()
	return &Recommender{
		baseURL: cfg.RecommendBaseURL,
		client:  &http.Client{Timeout: time.Duration(cfg.RecommendTimeoutSec) * time.Second},
	}
}

// NewRecommenderWith builds a client against an explicit endpoint. Test helper.
func NewRecommenderWith(baseURL string, timeout time.Duration) *Recommender {
	return &Recommender{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

// GenerateRecipe asks the recommendation service for phase exercise lists.
// Any failure, including a missing endpoint, timeout or malformed body,
// yields the deterministic fallback plan instead of an error.
func (r *Recommender) GenerateRecipe(req RecommendRequest) RecommendResponse {
	if r.baseURL == "" {
		utils.Sugar.Warn("recommendation service not configured, using fallback plan")
		return fallbackPlan()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fallbackPlan()
	}

	resp, err := r.client.Post(r.baseURL+"/generate-recipe", "application/json", bytes.NewReader(body))
	if err != nil {
		utils.Sugar.Warnf("recommendation service unreachable: %v", err)
		return fallbackPlan()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.Sugar.Warnf("recommendation service returned %s", resp.Status)
		return fallbackPlan()
	}

	var out RecommendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		utils.Sugar.Warnf("recommendation service sent malformed body: %v", err)
		return fallbackPlan()
	}
	if out.FitnessGrade == "" {
		out.FitnessGrade = FallbackFitnessGrade
	}
	return out
}

func fallbackPlan() RecommendResponse {
	return RecommendResponse{
		WarmUpExercises:   []string{"full body stretch"},
		MainExercises:     []string{"aerobic walk", "bodyweight squat"},
		CoolDownExercises: []string{"cool down stretch"},
		FitnessGrade:      FallbackFitnessGrade,
		FitnessScore:      0,
	}
}
