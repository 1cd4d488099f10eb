package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitkeeper/fitkeeper/utils"
)

var startedAt = time.Now()

// Health reports process liveness.
func Health(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(startedAt).Seconds(),
	})
}
