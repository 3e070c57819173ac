package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"car-rental-backend/internal/availability"
	"car-rental-backend/internal/calendar"
	"car-rental-backend/internal/parse"
	"car-rental-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	calendar *calendar.Service
	webpush  *webpush.Options
	logger   *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, cal *calendar.Service, webpushOptions *webpush.Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:    s,
		calendar: cal,
		webpush:  webpushOptions,
		logger:   logger,
	}
}

// abortWithError maps domain errors onto HTTP statuses.
func (h *Handler) abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, parse.ErrInvalidDate), errors.Is(err, calendar.ErrInvalidRange):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrVehicleNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
	case errors.Is(err, availability.ErrInvalidInterval):
		h.logger.Error("Stored booking is invalid", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "invalid booking data"})
	default:
		h.logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
	_ = c.Error(err)
}
