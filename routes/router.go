package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitkeeper/fitkeeper/config"
	"github.com/fitkeeper/fitkeeper/controllers"
	"github.com/fitkeeper/fitkeeper/middleware"
	"github.com/fitkeeper/fitkeeper/services"
	"github.com/fitkeeper/fitkeeper/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	recommender := services.NewRecommender()
	textGen := services.NewTextGenerator()
	composer := services.NewRecipeComposer(db, recommender, textGen)

	authController := controllers.NewAuthController(db)
	measurementController := controllers.NewMeasurementController(db, composer)
	recipesController := controllers.NewRecipesController(db)
	exerciseController := controllers.NewExerciseController(db)
	myPageController := controllers.NewMyPageController(db)
	clubsController := controllers.NewClubsController(db)
	facilitiesController := controllers.NewFacilitiesController(db)

	api := r.Group("/api")

	api.GET("/health", controllers.Health)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit("auth"))
	authGroup.POST("/authenticate", authController.Authenticate)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.POST("/logout", authController.Logout)
	authGroup.GET("/:provider", authController.OAuthAuthorizeURL)
	authGroup.GET("/:provider/callback", authController.OAuthCallback)

	measurementGroup := api.Group("/measurement")
	measurementGroup.Use(middleware.AuthRequired())
	measurementGroup.POST("", measurementController.Create)
	measurementGroup.GET("", measurementController.List)
	measurementGroup.GET("/items", measurementController.Items)
	measurementGroup.GET("/codes", measurementController.Codes)
	measurementGroup.GET("/:id", measurementController.Get)
	measurementGroup.GET("/:id/recipe", measurementController.GetRecipe)

	recipesGroup := api.Group("/recipes")
	recipesGroup.GET("", middleware.OptionalAuth(), recipesController.List)
	recipesGroup.GET("/:id", recipesController.Get)

	exerciseGroup := api.Group("/exercise")
	exerciseGroup.GET("/ranking/:title", exerciseController.Ranking)
	exerciseGroup.POST("", middleware.AuthRequired(), exerciseController.Add)
	exerciseGroup.GET("/my-records", middleware.AuthRequired(), exerciseController.MyRecords)
	exerciseGroup.GET("/my-record/:title", middleware.AuthRequired(), exerciseController.MyRecord)

	api.GET("/mypage", middleware.AuthRequired(), myPageController.Get)

	api.GET("/clubs", clubsController.List)
	api.GET("/clubs/stats", clubsController.Stats)

	api.GET("/sports-facilities", facilitiesController.List)
	api.GET("/sports-facilities/nearby", facilitiesController.Nearby)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
	})

	return r
}
