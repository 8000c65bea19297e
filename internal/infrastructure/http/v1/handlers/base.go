package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"optiretail/internal/core/apperror"
	"optiretail/internal/core/daterange"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct {
	dates *daterange.Normalizer
}

// NewBaseHandler creates a base handler that normalizes dates with dates.
func NewBaseHandler(dates *daterange.Normalizer) *BaseHandler {
	return &BaseHandler{dates: dates}
}

// Location returns the zone responses are rendered in.
func (h *BaseHandler) Location() *time.Location {
	return h.dates.Location()
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers err on the gin context and aborts.
// The response is rendered by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// ParseID parses a positive integer identifier. An empty value is reported as required.
func (h *BaseHandler) ParseID(field, value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, apperror.NewInvalidField(field, field+" is required")
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewInvalidField(field, field+" must be a positive integer").WithDetail("value", value)
	}
	return id, nil
}

// ParseOptionalID is ParseID for parameters that may be omitted.
func (h *BaseHandler) ParseOptionalID(field, value string) (*int64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	id, err := h.ParseID(field, value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseOptionalBool parses "true"/"false" style values; empty means absent.
func (h *BaseHandler) ParseOptionalBool(field, value string) (*bool, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, apperror.NewInvalidField(field, field+" must be true or false").WithDetail("value", value)
	}
	return &b, nil
}

// DateRange normalizes start/end dates into the configured zone.
func (h *BaseHandler) DateRange(start, end string) (daterange.Range, error) {
	r, err := h.dates.Range(start, end)
	if err != nil {
		return daterange.Range{}, dateError(err, start, end)
	}
	return r, nil
}

// Day normalizes one date; empty means today.
func (h *BaseHandler) Day(value string) (daterange.Range, error) {
	r, err := h.dates.Day(value)
	if err != nil {
		return daterange.Range{}, dateError(err, value, "")
	}
	return r, nil
}

func dateError(err error, start, end string) error {
	if errors.Is(err, daterange.ErrInvalid) {
		return apperror.NewInvalidDateRange("dates must be YYYY-MM-DD or YYYY/MM/DD and start must not be after end").
			WithDetail("start_date", start).
			WithDetail("end_date", end)
	}
	return err
}
