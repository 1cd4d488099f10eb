package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitkeeper/fitkeeper/middleware"
	"github.com/fitkeeper/fitkeeper/models"
	"github.com/fitkeeper/fitkeeper/services"
)

// offline collaborators: the recommender and text generator fall back to
// their built-in defaults, which is exactly what intake must survive.
func newMeasurementRouter(db *gorm.DB) *gin.Engine {
	composer := services.NewRecipeComposer(db,
		services.NewRecommenderWith("", time.Second),
		services.NewTextGeneratorWith("", "", time.Second))

	engine := gin.New()
	mc := NewMeasurementController(db, composer)
	group := engine.Group("/api/measurement", middleware.AuthRequired())
	group.POST("", mc.Create)
	group.GET("", mc.List)
	group.GET("/items", mc.Items)
	group.GET("/:id", mc.Get)
	group.GET("/:id/recipe", mc.GetRecipe)
	return engine
}

func adultIntake() gin.H {
	return gin.H{
		"measurements": []gin.H{
			{"measure_key": "1", "measure_value": "175"},
			{"measure_key": "2", "measure_value": "70"},
			{"measure_key": "53", "measure_value": "30"},
			{"measure_key": "54", "measure_value": "male"},
		},
	}
}

func TestMeasurementCreateAllocatesDailySessionUUID(t *testing.T) {
	db := newTestDB(t)
	engine := newMeasurementRouter(db)
	user := createUser(t, db, "m-1")
	auth := bearerFor(t, user)

	w := performJSON(engine, "POST", "/api/measurement", adultIntake(), auth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := dataMap(t, w)
	datePrefix := time.Now().Format("20060102")
	assert.Equal(t, datePrefix+"0001", data["measurement_uuid"])
	assert.NotEmpty(t, data["recipe_title"])
	assert.NotEmpty(t, data["difficulty"])

	// The second session of the day gets the next sequence number.
	w = performJSON(engine, "POST", "/api/measurement", adultIntake(), auth)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, datePrefix+"0002", dataMap(t, w)["measurement_uuid"])
}

func TestMeasurementCreateRejectsMissingRequiredItems(t *testing.T) {
	db := newTestDB(t)
	engine := newMeasurementRouter(db)
	user := createUser(t, db, "m-2")

	w := performJSON(engine, "POST", "/api/measurement", gin.H{
		"measurements": []gin.H{
			{"measure_key": "1", "measure_value": "175"},
			{"measure_key": "53", "measure_value": "30"},
		},
	}, bearerFor(t, user))
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, 40012, decodeEnvelope(t, w).Code)

	// A rejected intake persists nothing at all.
	var count int64
	require.NoError(t, db.Model(&models.Measurement{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestMeasurementCreateSkipsEmptyItems(t *testing.T) {
	db := newTestDB(t)
	engine := newMeasurementRouter(db)
	user := createUser(t, db, "m-3")

	payload := adultIntake()
	payload["measurements"] = append(payload["measurements"].([]gin.H),
		gin.H{"measure_key": "", "measure_value": "ignored"},
		gin.H{"measure_key": "9", "measure_value": ""},
	)

	w := performJSON(engine, "POST", "/api/measurement", payload, bearerFor(t, user))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var count int64
	require.NoError(t, db.Model(&models.Measurement{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}

func TestMeasurementCreateUpdatesProfileAndGrass(t *testing.T) {
	db := newTestDB(t)
	engine := newMeasurementRouter(db)
	user := createUser(t, db, "m-4")

	w := performJSON(engine, "POST", "/api/measurement", adultIntake(), bearerFor(t, user))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, services.FallbackFitnessGrade, fresh.FitnessGrade)

	var grass models.GrassHistory
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&grass).Error)
	assert.Equal(t, models.FlagYes, grass.Measurement)
	assert.Equal(t, models.FlagNo, grass.Attendance)
}

func TestMeasurementGetHidesForeignSessions(t *testing.T) {
	db := newTestDB(t)
	engine := newMeasurementRouter(db)
	owner := createUser(t, db, "m-5")
	intruder := createUser(t, db, "m-6")

	w := performJSON(engine, "POST", "/api/measurement", adultIntake(), bearerFor(t, owner))
	require.Equal(t, http.StatusCreated, w.Code)
	sessionUUID := dataMap(t, w)["measurement_uuid"].(string)

	w = performJSON(engine, "GET", "/api/measurement/"+sessionUUID, nil, bearerFor(t, owner))
	assert.Equal(t, http.StatusOK, w.Code)

	// Another user sees a missing resource, not somebody else's data.
	w = performJSON(engine, "GET", "/api/measurement/"+sessionUUID, nil, bearerFor(t, intruder))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40410, decodeEnvelope(t, w).Code)
}

func TestMeasurementRecipeOwnership(t *testing.T) {
	db := newTestDB(t)
	engine := newMeasurementRouter(db)
	owner := createUser(t, db, "m-7")
	intruder := createUser(t, db, "m-8")

	w := performJSON(engine, "POST", "/api/measurement", adultIntake(), bearerFor(t, owner))
	require.Equal(t, http.StatusCreated, w.Code)
	sessionUUID := dataMap(t, w)["measurement_uuid"].(string)

	w = performJSON(engine, "GET", "/api/measurement/"+sessionUUID+"/recipe", nil, bearerFor(t, owner))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := dataMap(t, w)
	assert.Equal(t, sessionUUID, data["measurement_uuid"])

	// The session exists but belongs to somebody else.
	w = performJSON(engine, "GET", "/api/measurement/"+sessionUUID+"/recipe", nil, bearerFor(t, intruder))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 40300, decodeEnvelope(t, w).Code)

	w = performJSON(engine, "GET", "/api/measurement/nope/recipe", nil, bearerFor(t, intruder))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMeasurementCreateDerivesInfantBandFromMonths(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "m-10")

	var got services.RecommendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"warmUpExercises":[],"mainExercises":[],"coolDownExercises":[],"fitnessGrade":"participant","fitnessScore":0}`))
	}))
	defer srv.Close()

	composer := services.NewRecipeComposer(db,
		services.NewRecommenderWith(srv.URL, 2*time.Second),
		services.NewTextGeneratorWith("", "", time.Second))
	engine := gin.New()
	mc := NewMeasurementController(db, composer)
	engine.POST("/api/measurement", middleware.AuthRequired(), mc.Create)

	// Code 55 carries age in months; an eight-month-old must land in the
	// infant band instead of the adult default applied when age is absent.
	w := performJSON(engine, "POST", "/api/measurement", gin.H{
		"measurements": []gin.H{
			{"measure_key": "1", "measure_value": "70"},
			{"measure_key": "2", "measure_value": "9"},
			{"measure_key": "55", "measure_value": "8"},
		},
	}, bearerFor(t, user))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Equal(t, services.AgeGroupInfant, got.AgeGroup)
	assert.Equal(t, 0, got.Age)
}

func TestMeasurementItemsSchemaSelection(t *testing.T) {
	db := newTestDB(t)
	engine := newMeasurementRouter(db)
	user := createUser(t, db, "m-9")
	auth := bearerFor(t, user)

	w := performJSON(engine, "GET", "/api/measurement/items?age=70", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "senior", dataMap(t, w)["ageGroup"])

	w = performJSON(engine, "GET", "/api/measurement/items?ageGroup=child", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "child", dataMap(t, w)["ageGroup"])

	w = performJSON(engine, "GET", "/api/measurement/items?age=-3", nil, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
