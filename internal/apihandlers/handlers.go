package apihandlers

import (
	"context"
	"net/http"
	"strings"

	"memcat/pkg/categorizer"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// MemoryCategorizer is the categorization surface used by the HTTP API.
type MemoryCategorizer interface {
	Categorize(ctx context.Context, memory string) ([]string, error)
	Enabled() bool
	Provider() categorizer.Provider
}

type APIHandler struct {
	Categorizer MemoryCategorizer
}

func NewAPIHandler(c MemoryCategorizer) *APIHandler {
	return &APIHandler{Categorizer: c}
}

// CategorizeRequest is the body of POST /api/v1/categories.
type CategorizeRequest struct {
	Memory string `json:"memory"`
}

// CategorizeResponse lists the categories assigned to a memory.
type CategorizeResponse struct {
	Categories []string `json:"categories"`
}

func (h *APIHandler) CategorizeHandler(c *gin.Context) {
	var req CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Memory) == "" {
		BadRequest(c, "missing required field: memory")
		return
	}

	categories, err := h.Categorizer.Categorize(c.Request.Context(), req.Memory)
	if err != nil {
		requestLogger(c).Errorf("CategorizeHandler: categorization failed: %v", err)
		BadGateway(c, "categorization failed: "+err.Error())
		return
	}
	if categories == nil {
		categories = []string{}
	}

	requestLogger(c).WithField("categories", categories).Debug("Categorized memory")
	c.JSON(http.StatusOK, CategorizeResponse{Categories: categories})
}

func (h *APIHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":                 "ok",
		"categorization_enabled": h.Categorizer.Enabled(),
		"provider":               h.Categorizer.Provider(),
	})
}

func requestLogger(c *gin.Context) log.FieldLogger {
	return log.WithField("request_id", c.GetString(requestIDKey))
}
