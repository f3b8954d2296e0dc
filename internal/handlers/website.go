package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sincherer/wui/internal/store"
	"github.com/sincherer/wui/internal/validation"
)

// WebsiteHandler serves editor configuration and deployment history.
type WebsiteHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewWebsiteHandler(st *store.Store, logger *slog.Logger) *WebsiteHandler {
	return &WebsiteHandler{store: st, logger: logger}
}

// Editor returns the stored editor configuration for a website. A website
// that was never saved gets an empty configuration, not a 404, so the
// editor can open fresh.
// GET /website/:websiteId/editor
func (h *WebsiteHandler) Editor(c *gin.Context) {
	websiteID, err := validation.ValidateWebsiteID(c.Param("websiteId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_WEBSITE_ID",
			"Invalid website ID format", err.Error(), "ValidationError")
		return
	}

	configuration := json.RawMessage("{}")
	site, err := h.store.GetWebsite(websiteID)
	switch {
	case err == nil:
		if site.Configuration != "" {
			configuration = json.RawMessage(site.Configuration)
		}
	case errors.Is(err, store.ErrWebsiteNotFound):
		// fresh site
	default:
		h.logger.Error("website lookup failed", "website_id", websiteID, "error", err)
		respondError(c, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to load website configuration", "", "IOError")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "editor_loaded",
		"websiteId":     websiteID,
		"configuration": configuration,
	})
}

// Deployments lists the recorded deployment attempts for a website, newest
// first.
// GET /api/websites/:websiteId/deployments
func (h *WebsiteHandler) Deployments(c *gin.Context) {
	websiteID, err := validation.ValidateWebsiteID(c.Param("websiteId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_WEBSITE_ID",
			"Invalid website ID format", err.Error(), "ValidationError")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondError(c, http.StatusBadRequest, "INVALID_LIMIT",
				"Invalid limit parameter", "", "ValidationError")
			return
		}
	}

	deployments, err := h.store.ListDeployments(websiteID, limit)
	if err != nil {
		h.logger.Error("deployment history lookup failed", "website_id", websiteID, "error", err)
		respondError(c, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to load deployment history", "", "IOError")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"websiteId":   websiteID,
		"deployments": deployments,
		"timestamp":   timestamp(),
	})
}
