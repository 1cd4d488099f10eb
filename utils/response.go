package utils

import "github.com/gin-gonic/gin"

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, 200, 0, "success", data)
}

// Created returns a standard success response with 201 status.
func Created(ctx *gin.Context, data interface{}) {
	Respond(ctx, 201, 0, "success", data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// PaginatedResponse is the envelope used by directory style listings. The
// shape is part of the public API contract consumed by existing clients.
type PaginatedResponse struct {
	Success     bool        `json:"success"`
	Count       int         `json:"count"`
	TotalCount  int64       `json:"totalCount"`
	Page        int         `json:"page"`
	TotalPages  int         `json:"totalPages"`
	HasNextPage bool        `json:"hasNextPage"`
	Data        interface{} `json:"data"`
	Meta        interface{} `json:"meta,omitempty"`
}

// NewPaginated assembles the listing envelope from page math.
func NewPaginated(count int, totalCount int64, page, limit int, data interface{}) PaginatedResponse {
	totalPages := 0
	if limit > 0 {
		totalPages = int((totalCount + int64(limit) - 1) / int64(limit))
	}
	return PaginatedResponse{
		Success:     true,
		Count:       count,
		TotalCount:  totalCount,
		Page:        page,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		Data:        data,
	}
}
