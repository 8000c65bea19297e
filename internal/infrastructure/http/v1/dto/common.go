// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"optiretail/internal/core/apperror"
	"optiretail/internal/core/types"
	"optiretail/internal/domain/reports"
)

// ErrorResponse is the single error envelope of the API.
type ErrorResponse struct {
	Status  string         `json:"status"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// NewErrorResponse converts an AppError into the envelope.
func NewErrorResponse(err *apperror.AppError) ErrorResponse {
	details := err.Details
	if details == nil {
		details = map[string]any{}
	}
	return ErrorResponse{
		Status:  "error",
		Code:    err.Code,
		Message: err.Message,
		Details: details,
	}
}

// PaginationResponse contains pagination metadata.
type PaginationResponse struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalItems  int  `json:"total_items"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewPaginationResponse copies the metadata of a page.
func NewPaginationResponse[T any](p reports.Page[T]) PaginationResponse {
	return PaginationResponse{
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalItems:  p.TotalItems,
		TotalPages:  p.TotalPages,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
}

// Money formats an amount with two decimals.
func Money(m types.Money) string {
	return types.FormatMoney(m)
}

// Timestamp renders t in loc as RFC 3339, or nil.
func Timestamp(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(time.RFC3339)
	return &s
}

// jsonValue prepares an additional_info value: amounts become two-decimal strings.
func jsonValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return types.FormatMoney(x)
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		return types.FormatMoney(*x)
	case decimal.NullDecimal:
		return types.FormatNullMoney(x)
	default:
		return v
	}
}
