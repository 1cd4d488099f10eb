package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fitkeeper/fitkeeper/models"
)

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
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, grade string, score int) *models.User {
	t.Helper()
	user := &models.User{
		Provider:     "kakao",
		ProviderID:   fmt.Sprintf("uid-%s-%d", t.Name(), score),
		Name:         "tester",
		FitnessGrade: grade,
		FitnessScore: score,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
