package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SystemHandler handles health and readiness endpoints
type SystemHandler struct {
	db      *gorm.DB
	appName string
	env     string
	started time.Time
}

// NewSystemHandler creates a system handler
func NewSystemHandler(db *gorm.DB, appName, env string) *SystemHandler {
	return &SystemHandler{
		db:      db,
		appName: appName,
		env:     env,
		started: time.Now(),
	}
}

// Health godoc
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"app":     h.appName,
		"env":     h.env,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
		"version": "1",
	})
}

// Ready godoc
// @Summary Readiness probe
// @Description Verifies database connectivity
// @Tags system
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
