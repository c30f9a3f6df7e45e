package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"real-estate-catalog/internal/apperr"
	"real-estate-catalog/internal/catalog"
	"real-estate-catalog/internal/cleanup"
	"real-estate-catalog/internal/history"
	"real-estate-catalog/internal/models"
	"real-estate-catalog/internal/ratelimit"
)

// AdminHandler handles admin-related requests
type AdminHandler struct {
	db             *gorm.DB
	catalog        *catalog.Service
	historyService *history.Service
	cleanupService *cleanup.Service
	rateLimiter    *ratelimit.RateLimiter
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, svc *catalog.Service, hist *history.Service, clean *cleanup.Service, rl *ratelimit.RateLimiter) *AdminHandler {
	return &AdminHandler{
		db:             db,
		catalog:        svc,
		historyService: hist,
		cleanupService: clean,
		rateLimiter:    rl,
	}
}

// GetStats returns system statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()
	db := h.db.WithContext(ctx)
	stats := make(map[string]interface{})

	// Property counts by status
	var availableCount, soldCount, featuredCount int64
	if err := db.Model(&models.Property{}).Where("status = ?", models.PropertyStatusAvailable).Count(&availableCount).Error; err != nil {
		respondError(c, apperr.Unexpected("failed to count properties", err))
		return
	}
	db.Model(&models.Property{}).Where("status = ?", models.PropertyStatusSold).Count(&soldCount)
	db.Model(&models.Property{}).Where("featured = ?", true).Count(&featuredCount)

	stats["properties"] = map[string]interface{}{
		"available": availableCount,
		"sold":      soldCount,
		"featured":  featuredCount,
		"total":     availableCount + soldCount,
	}

	var contactCount, newContacts int64
	db.Model(&models.Contact{}).Count(&contactCount)
	db.Model(&models.Contact{}).Where("status = ?", models.ContactStatusNew).Count(&newContacts)
	stats["contacts"] = map[string]interface{}{
		"total": contactCount,
		"new":   newContacts,
	}

	// Property changes (last 7 days)
	recentChanges, err := h.historyService.CountSince(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		requestLogger(c).Warn("failed to count recent changes", "error", err)
	} else {
		stats["changes"] = map[string]interface{}{
			"last_7_days": recentChanges,
		}
	}

	deleteStats, err := h.cleanupService.GetDeleteStats(ctx)
	if err != nil {
		requestLogger(c).Warn("failed to get delete stats", "error", err)
	} else {
		stats["deletions"] = deleteStats
	}

	if h.rateLimiter != nil {
		stats["rate_limit"] = h.rateLimiter.GetStats()
	}

	c.JSON(http.StatusOK, stats)
}

// GetDeleteLogs returns recent delete log entries
func (h *AdminHandler) GetDeleteLogs(c *gin.Context) {
	limit, err := clampedLimit(c, 100, 1000)
	if err != nil {
		respondError(c, err)
		return
	}

	logs, err := h.cleanupService.GetRecentDeleteLogs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, apperr.Unexpected("failed to load delete logs", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}

// GetPropertyHistory returns the change history of a property
func (h *AdminHandler) GetPropertyHistory(c *gin.Context) {
	propertyID := c.Param("id")
	limit, err := clampedLimit(c, 30, 500)
	if err != nil {
		respondError(c, err)
		return
	}

	changes, err := h.historyService.GetPropertyHistory(c.Request.Context(), propertyID, limit)
	if err != nil {
		respondError(c, apperr.Unexpected("failed to load property history", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"property_id": propertyID,
		"changes":     changes,
		"count":       len(changes),
	})
}

// GetRecentChanges returns recent property changes
func (h *AdminHandler) GetRecentChanges(c *gin.Context) {
	limit, err := clampedLimit(c, 100, 1000)
	if err != nil {
		respondError(c, err)
		return
	}

	changes, err := h.historyService.GetRecentChanges(c.Request.Context(), limit)
	if err != nil {
		respondError(c, apperr.Unexpected("failed to load recent changes", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes": changes,
		"count":   len(changes),
	})
}

// CleanupContacts detaches enquiries from deleted properties.
// "dry_run=true" only counts them.
func (h *AdminHandler) CleanupContacts(c *gin.Context) {
	dryRun, _ := strconv.ParseBool(c.DefaultQuery("dry_run", "false"))

	result, err := h.cleanupService.CleanupOrphanedContacts(c.Request.Context(), dryRun)
	if err != nil {
		respondError(c, apperr.Unexpected("contact cleanup failed", err))
		return
	}

	c.JSON(http.StatusOK, result)
}

// Reindex rebuilds the search index from the database
func (h *AdminHandler) Reindex(c *gin.Context) {
	n, err := h.catalog.Reindex(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"indexed": n})
}

// ClearCache evicts the featured and detail caches
func (h *AdminHandler) ClearCache(c *gin.Context) {
	h.catalog.ClearCaches(c.Request.Context())
	requestLogger(c).Info("caches cleared manually")
	c.JSON(http.StatusOK, gin.H{"message": "caches cleared"})
}
