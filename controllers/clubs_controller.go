package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitkeeper/fitkeeper/models"
	"github.com/fitkeeper/fitkeeper/utils"
)

// ClubsController serves the read-only local club directory.
type ClubsController struct {
	db *gorm.DB
}

// NewClubsController creates a ClubsController.
func NewClubsController(db *gorm.DB) *ClubsController {
	return &ClubsController{db: db}
}

// List returns clubs with pagination, a free-text keyword over club, sido
// and sigungu names, and a sport category filter.
func (c *ClubsController) List(ctx *gin.Context) {
	page, limit := parsePagination(ctx, 20)
	keyword := strings.TrimSpace(ctx.Query("keyword"))
	category := strings.TrimSpace(ctx.Query("category"))

	cacheKey := fmt.Sprintf("cache:clubs:list:%d:%d:%s:%s", page, limit, keyword, category)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	query := c.db.Model(&models.Club{})
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("club_name LIKE ? OR sido_name LIKE ? OR sigungu_name LIKE ?", like, like, like)
	}
	if category != "" {
		query = query.Where("item_name LIKE ?", "%"+category+"%")
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list clubs")
		return
	}

	var clubs []models.Club
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&clubs).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list clubs")
		return
	}

	payload := utils.NewPaginated(len(clubs), totalCount, page, limit, clubs)
	utils.CacheSetJSON(cacheKey, payload, 10*time.Minute)
	ctx.JSON(http.StatusOK, payload)
}

// Stats reports directory-wide totals and per-sport club counts.
func (c *ClubsController) Stats(ctx *gin.Context) {
	const cacheKey = "cache:clubs:stats"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var totalClubs int64
	if err := c.db.Model(&models.Club{}).Count(&totalClubs).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load club stats")
		return
	}

	var totalMembers int64
	err := c.db.Model(&models.Club{}).
		Select("COALESCE(SUM(member_count), 0)").
		Scan(&totalMembers).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load club stats")
		return
	}

	type categoryCount struct {
		ItemName  string `json:"itemName"`
		ClubCount int64  `json:"clubCount"`
	}
	var categories []categoryCount
	err = c.db.Model(&models.Club{}).
		Select("item_name, COUNT(*) AS club_count").
		Group("item_name").
		Order("club_count DESC").
		Scan(&categories).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load club stats")
		return
	}

	wrapper := utils.JSONResponse{
		Code:    0,
		Message: "success",
		Data: gin.H{
			"totalClubs":   totalClubs,
			"totalMembers": totalMembers,
			"categories":   categories,
		},
	}
	utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	utils.Success(ctx, wrapper.Data)
}
