package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medinext-server/internal/config"
	"medinext-server/internal/metrics"
	"medinext-server/internal/store"
	"medinext-server/internal/utils"
)

// DashboardHandler serves the summary cards, analytics distributions and
// the activity feed.
type DashboardHandler struct {
	Store  *store.Store
	Config *config.Config
	Logger *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(st *store.Store, cfg *config.Config, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{Store: st, Config: cfg, Logger: logger}
}

// GetSummary handles fetching the derived dashboard metrics.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	d := loadDataset(h.Store, h.Config.DataFile, h.Logger)
	summary := metrics.Compute(d.Table, time.Now())

	utils.Success(c, "Dashboard summary computed", gin.H{
		"summary":    summary,
		"dataSource": d.Source,
		"banner":     d.Banner,
	})
}

// GetActivity handles fetching the recent-activity feed.
func (h *DashboardHandler) GetActivity(c *gin.Context) {
	limit := metrics.DefaultFeedLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	d := loadDataset(h.Store, h.Config.DataFile, h.Logger)
	feed := metrics.Feed(d.Table, time.Now(), limit)

	utils.Success(c, "Activity feed computed", gin.H{
		"activities": feed,
		"dataSource": d.Source,
		"banner":     d.Banner,
	})
}
