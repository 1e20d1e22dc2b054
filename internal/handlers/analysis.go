package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medinext-server/internal/analysis"
	"medinext-server/internal/config"
	"medinext-server/internal/store"
	"medinext-server/internal/utils"
)

// AnalysisHandler runs the external analysis for one patient record.
type AnalysisHandler struct {
	Store  *store.Store
	Client *analysis.Client
	Config *config.Config
	Logger *zap.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(st *store.Store, client *analysis.Client, cfg *config.Config, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{Store: st, Client: client, Config: cfg, Logger: logger}
}

// RequestAnalysis handles the analysis action for a single patient. The
// outcome is always a 200 with a tagged result; a failed call is content
// the detail page renders inline, not a failed page.
func (h *AnalysisHandler) RequestAnalysis(c *gin.Context) {
	d := loadDataset(h.Store, h.Config.DataFile, h.Logger)

	p, ok := d.Table.FindByID(c.Param("id"))
	if !ok {
		utils.NotFound(c, "Patient not found")
		return
	}

	result := h.Client.RequestAnalysis(c.Request.Context(), p)

	message := "Analysis completed"
	if result.Status == analysis.StatusFailure {
		message = "Analysis failed"
	}
	utils.Success(c, message, gin.H{
		"result":     result,
		"dataSource": d.Source,
	})
}
