package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"optiretail/internal/domain/audit"
	"optiretail/internal/domain/banking"
	"optiretail/internal/infrastructure/http/v1/dto"
)

// BankingService is the part of banking.Service the handlers use.
type BankingService interface {
	Report(ctx context.Context, f banking.Filter) (*banking.Report, error)
	SetConfirmed(ctx context.Context, id int64, isConfirmed bool) (*banking.BankDeposit, error)
	History(ctx context.Context, id int64, limit int) ([]audit.HistoryEntry, error)
}

// BankingHandler handles the banking report and deposit confirmation.
type BankingHandler struct {
	*BaseHandler
	service BankingService
}

// NewBankingHandler creates a new banking handler.
func NewBankingHandler(base *BaseHandler, service BankingService) *BankingHandler {
	return &BankingHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes mounts the banking endpoints with their guards.
func (h *BankingHandler) RegisterRoutes(rg gin.IRoutes, readGuard, confirmGuard gin.HandlerFunc) {
	rg.GET("/banking-report/", chain(readGuard, h.Report)...)
	rg.PATCH("/banking-report/confirm/:id/", chain(confirmGuard, h.Confirm)...)
	rg.GET("/banking-report/confirm/:id/history/", chain(readGuard, h.History)...)
}

// Report handles GET /banking-report/
func (h *BankingHandler) Report(c *gin.Context) {
	var q dto.BankingReportQuery
	if !h.BindQuery(c, &q) {
		return
	}

	branchID, err := h.ParseOptionalID("branch_id", q.BranchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	confirmed, err := h.ParseOptionalBool("is_confirmed", q.IsConfirmed)
	if err != nil {
		h.Error(c, err)
		return
	}

	f := banking.Filter{BranchID: branchID, IsConfirmed: confirmed}
	if q.StartDate != "" || q.EndDate != "" {
		r, err := h.DateRange(q.StartDate, q.EndDate)
		if err != nil {
			h.Error(c, err)
			return
		}
		f.From, f.To = r.Start, r.End
	}

	report, err := h.service.Report(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBankingReport(report, h.Location()))
}

// Confirm handles PATCH /banking-report/confirm/:id/
func (h *BankingHandler) Confirm(c *gin.Context) {
	id, err := h.ParseID("id", c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.ConfirmDepositRequest
	if !h.BindJSON(c, &req) {
		return
	}

	dep, err := h.service.SetConfirmed(c.Request.Context(), id, *req.IsConfirmed)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBankDeposit(*dep, h.Location()))
}

// History handles GET /banking-report/confirm/:id/history/
func (h *BankingHandler) History(c *gin.Context) {
	id, err := h.ParseID("id", c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var q dto.DepositHistoryQuery
	if !h.BindQuery(c, &q) {
		return
	}

	entries, err := h.service.History(c.Request.Context(), id, q.Limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromDepositHistory(id, entries, h.Location()))
}

// chain prepends an optional guard to a handler.
func chain(guard gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	if guard == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{guard, h}
}
