package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitkeeper/fitkeeper/middleware"
	"github.com/fitkeeper/fitkeeper/services"
)

func newMyPageRouter(db *gorm.DB) *gin.Engine {
	engine := gin.New()
	engine.GET("/api/mypage", middleware.AuthRequired(), NewMyPageController(db).Get)
	return engine
}

func TestMyPageAggregation(t *testing.T) {
	db := newTestDB(t)
	engine := newMyPageRouter(db)
	user := createUser(t, db, "p-1")
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"fitness_grade": "A1",
		"fitness_score": 90,
	}).Error)

	now := time.Now()
	for d := 0; d < 3; d++ {
		require.NoError(t, services.MarkGrassOn(db, user.ID, now.AddDate(0, 0, -d), services.GrassAttendance))
	}
	require.NoError(t, services.MarkGrassOn(db, user.ID, now, services.GrassVideoWatch))
	// Ten days back is past any Monday boundary, so this watched day shows
	// up in the grass but never in the weekly count.
	require.NoError(t, services.MarkGrassOn(db, user.ID, now.AddDate(0, 0, -10), services.GrassVideoWatch))

	seedRecipe(t, db, user.ID, "latest plan", "1,2", "3", "")

	w := performJSON(engine, "GET", "/api/mypage", nil, bearerFor(t, user))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := dataMap(t, w)

	profile := data["profile"].(map[string]interface{})
	assert.Equal(t, "A1", profile["fitnessGrade"])

	ranking := data["ranking"].(map[string]interface{})
	assert.Equal(t, float64(1), ranking["userRank"])
	assert.Equal(t, float64(1), ranking["totalUsers"])

	streak := data["streak"].(map[string]interface{})
	assert.Equal(t, float64(3), streak["currentStreak"])

	assert.Equal(t, float64(1), data["weeklyVideoWatch"])

	grass := data["grass"].([]interface{})
	assert.Len(t, grass, 4)

	recipes := data["recipes"].([]interface{})
	require.Len(t, recipes, 1)
	recipe := recipes[0].(map[string]interface{})
	assert.Equal(t, "latest plan", recipe["recipeTitle"])
	assert.Equal(t, float64(3), recipe["exerciseCount"])
}

func TestMyPageWeeklyVideoWatchWindow(t *testing.T) {
	db := newTestDB(t)
	engine := newMyPageRouter(db)
	user := createUser(t, db, "p-3")

	// Two full weeks of watched days; only those since the most recent
	// Monday count, so the expected total tracks today's weekday.
	now := time.Now()
	for d := 0; d < 14; d++ {
		require.NoError(t, services.MarkGrassOn(db, user.ID, now.AddDate(0, 0, -d), services.GrassVideoWatch))
	}
	expected := (int(now.Weekday())+6)%7 + 1

	w := performJSON(engine, "GET", "/api/mypage", nil, bearerFor(t, user))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(expected), dataMap(t, w)["weeklyVideoWatch"])
}

func TestMyPageRecipesCappedAtFour(t *testing.T) {
	db := newTestDB(t)
	engine := newMyPageRouter(db)
	user := createUser(t, db, "p-2")

	for i := 0; i < 6; i++ {
		seedRecipe(t, db, user.ID, "plan", "1", "", "")
	}

	w := performJSON(engine, "GET", "/api/mypage", nil, bearerFor(t, user))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataMap(t, w)["recipes"].([]interface{}), 4)
}
