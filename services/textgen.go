package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fitkeeper/fitkeeper/config"
	"github.com/fitkeeper/fitkeeper/utils"
)

const (
	defaultRecipeTitle      = "personalized exercise recipe"
	defaultRecipeIntro      = "A balanced exercise program composed for your fitness profile."
	defaultRecipeDifficulty = "beginner"
)

// RecipeCopy is the display text generated for a composed recipe.
type RecipeCopy struct {
	Title      string `json:"title"`
	Intro      string `json:"intro"`
	Difficulty string `json:"difficulty"`
}

// TextGenerator asks a text-generation service for recipe title and intro
// copy. The model is instructed to answer with a single JSON object holding
// only title, intro and difficulty.
type TextGenerator struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewTextGenerator builds a client from loaded config.
func NewTextGenerator() *TextGenerator {
	cfg := config.Get()
	return &TextGenerator{
		baseURL: cfg.TextGenBaseURL,
		apiKey:  cfg.TextGenAPIKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// NewTextGeneratorWith builds a client against an explicit endpoint. Test helper.
func NewTextGeneratorWith(baseURL, apiKey string, timeout time.Duration) *TextGenerator {
	return &TextGenerator{baseURL: baseURL, apiKey: apiKey, client: &http.Client{Timeout: timeout}}
}

// GenerateCopy produces title, intro and difficulty text for a recipe.
// Failures never propagate: missing endpoint, transport errors, non-JSON
// bodies and empty fields all fall back to fixed defaults. Generated text
// is sanitized before it reaches storage.
func (t *TextGenerator) GenerateCopy(ageGroup, gender, goal, fitnessGrade string) RecipeCopy {
	copyText := defaultCopy()
	if t.baseURL == "" {
		return copyText
	}

	payload := map[string]interface{}{
		"prompt": fmt.Sprintf(
			"Compose a short workout recipe title and one-sentence intro for a %s %s whose goal is %s and fitness grade is %s. Respond with a JSON object containing only title, intro and difficulty.",
			ageGroup, gender, goal, fitnessGrade,
		),
		"format": "json",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return copyText
	}

	req, err := http.NewRequest(http.MethodPost, t.baseURL, bytes.NewReader(body))
	if err != nil {
		return copyText
	}
	req.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		utils.Sugar.Warnf("text generation unreachable: %v", err)
		return copyText
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.Sugar.Warnf("text generation returned %s", resp.Status)
		return copyText
	}

	var generated RecipeCopy
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		utils.Sugar.Warnf("text generation sent malformed body: %v", err)
		return copyText
	}

	if title := utils.Sanitize(generated.Title); title != "" {
		copyText.Title = title
	}
	if intro := utils.Sanitize(generated.Intro); intro != "" {
		copyText.Intro = intro
	}
	if difficulty := utils.Sanitize(generated.Difficulty); difficulty != "" {
		copyText.Difficulty = difficulty
	}
	return copyText
}

func defaultCopy() RecipeCopy {
	return RecipeCopy{
		Title:      defaultRecipeTitle,
		Intro:      defaultRecipeIntro,
		Difficulty: defaultRecipeDifficulty,
	}
}
