package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitkeeper/fitkeeper/models"
	"github.com/fitkeeper/fitkeeper/utils"
)

// haversineExpr computes the great-circle distance in kilometers between the
// query point and a facility row.
const haversineExpr = `ROUND(
	6371 * ACOS(
		COS(RADIANS(?)) * COS(RADIANS(latitude)) *
		COS(RADIANS(longitude) - RADIANS(?)) +
		SIN(RADIANS(?)) * SIN(RADIANS(latitude))
	), 2
)`

// FacilitiesController serves the read-only public sports facility directory.
type FacilitiesController struct {
	db *gorm.DB
}

// NewFacilitiesController creates a FacilitiesController.
func NewFacilitiesController(db *gorm.DB) *FacilitiesController {
	return &FacilitiesController{db: db}
}

type facilityRow struct {
	models.SportsFacility
	Distance *float64 `json:"distance,omitempty"`
}

// List searches facilities by keyword and type. When lat and lng are both
// present, each row carries its distance and the listing is ordered nearest
// first instead of by ID.
func (f *FacilitiesController) List(ctx *gin.Context) {
	page, limit := parsePagination(ctx, 20)
	keyword := strings.TrimSpace(ctx.Query("keyword"))
	category := strings.TrimSpace(ctx.Query("category"))

	lat, latOK := parseCoord(ctx.Query("lat"))
	lng, lngOK := parseCoord(ctx.Query("lng"))
	withDistance := latOK && lngOK

	base := f.db.Model(&models.SportsFacility{}).Where("del_flag = ?", models.FlagNo)
	if keyword != "" {
		like := "%" + keyword + "%"
		base = base.Where(
			"facility_name LIKE ? OR sido_name LIKE ? OR sigungu_name LIKE ? OR address_main LIKE ?",
			like, like, like, like,
		)
	}
	if category != "" {
		base = base.Where("facility_type LIKE ?", "%"+category+"%")
	}

	var totalCount int64
	if err := base.Session(&gorm.Session{}).Count(&totalCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to list facilities")
		return
	}

	query := base.Session(&gorm.Session{})
	if withDistance {
		query = query.
			Select("*, "+haversineExpr+" AS distance", lat, lng, lat).
			Order("distance ASC")
	} else {
		query = query.Order("id ASC")
	}

	var rows []facilityRow
	if err := query.Offset((page - 1) * limit).Limit(limit).Scan(&rows).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to list facilities")
		return
	}

	ctx.JSON(http.StatusOK, utils.NewPaginated(len(rows), totalCount, page, limit, rows))
}

// Nearby returns facilities within a radius of a point, nearest first.
// Latitude and longitude are mandatory; radius defaults to 5 km.
func (f *FacilitiesController) Nearby(ctx *gin.Context) {
	lat, latOK := parseCoord(ctx.Query("lat"))
	lng, lngOK := parseCoord(ctx.Query("lng"))
	if !latOK || !lngOK {
		utils.Error(ctx, http.StatusBadRequest, 40060, "lat and lng are required parameters")
		return
	}

	page, limit := parsePagination(ctx, 20)
	radius := 5.0
	if v := strings.TrimSpace(ctx.Query("radius")); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil && r > 0 {
			radius = r
		}
	}
	facilityType := strings.TrimSpace(ctx.Query("facilityType"))

	base := f.db.Model(&models.SportsFacility{}).Where("del_flag = ?", models.FlagNo)
	if facilityType != "" {
		base = base.Where("facility_type LIKE ?", "%"+facilityType+"%")
	}

	// HAVING keeps the distance filter on the computed column.
	var totalCount int64
	err := f.db.Table("(?) AS within", base.Session(&gorm.Session{}).
		Select("id, "+haversineExpr+" AS distance", lat, lng, lat).
		Having("distance <= ?", radius).
		Group("id")).
		Count(&totalCount).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to load nearby facilities")
		return
	}

	var rows []facilityRow
	err = base.Session(&gorm.Session{}).
		Select("*, "+haversineExpr+" AS distance", lat, lng, lat).
		Group("id").
		Having("distance <= ?", radius).
		Order("distance ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to load nearby facilities")
		return
	}

	payload := utils.NewPaginated(len(rows), totalCount, page, limit, rows)
	payload.Meta = gin.H{
		"centerLat": lat,
		"centerLng": lng,
		"radius":    radius,
	}
	ctx.JSON(http.StatusOK, payload)
}

func parseCoord(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
