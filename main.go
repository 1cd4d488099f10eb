package main

import (
	"github.com/fitkeeper/fitkeeper/config"
	"github.com/fitkeeper/fitkeeper/models"
	"github.com/fitkeeper/fitkeeper/routes"
	"github.com/fitkeeper/fitkeeper/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
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
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
