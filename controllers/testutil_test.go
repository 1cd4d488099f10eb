package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fitkeeper/fitkeeper/config"
	"github.com/fitkeeper/fitkeeper/models"
	"github.com/fitkeeper/fitkeeper/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.SetForTest(config.AppConfig{
		AppPort:         "8080",
		JWTSecret:       "test-secret",
		JWTExpireHr:     1,
		BackendBaseURL:  "http://localhost:8080",
		FrontendBaseURL: "http://localhost:3000",
	})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Measurement{},
		&models.MeasurementCode{},
		&models.Recipe{},
		&models.Card{},
		&models.ExerciseRecord{},
		&models.GrassHistory{},
		&models.MyPage{},
		&models.Club{},
		&models.SportsFacility{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, providerID string) *models.User {
	t.Helper()
	user := &models.User{
		Provider:   "kakao",
		ProviderID: providerID,
		Name:       "tester " + providerID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func bearerFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(user.ID, user.Provider, user.ProviderID, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func performJSON(engine *gin.Engine, method, path string, body interface{}, authorization string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) utils.JSONResponse {
	t.Helper()
	var out utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func dataMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	env := decodeEnvelope(t, w)
	m, ok := env.Data.(map[string]interface{})
	require.True(t, ok, "expected object data, got %T (%s)", env.Data, w.Body.String())
	return m
}
