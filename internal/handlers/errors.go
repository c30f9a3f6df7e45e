package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"real-estate-catalog/internal/apperr"
)

// statusFor maps an error kind to its HTTP status
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindBadRequest:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUploadFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": message}. Unexpected errors are logged
// and their details withheld from the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(apperr.KindOf(err))
	if status >= http.StatusInternalServerError {
		requestLogger(c).Error("request failed", "status", status, "error", err)
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

// queryInt reads an integer query parameter, falling back when absent
func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.BadRequest("%s must be an integer, got %q", name, raw)
	}
	return n, nil
}

// clampedLimit reads "limit" with a default, capped at max
func clampedLimit(c *gin.Context, fallback, max int) (int, error) {
	limit, err := queryInt(c, "limit", fallback)
	if err != nil {
		return 0, err
	}
	if max > 0 && limit > max {
		limit = max
	}
	return limit, nil
}

func paramUint(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperr.BadRequest("invalid %s: %q", name, raw)
	}
	return uint(n), nil
}

func requestLogger(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}
