package handlers

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"optiretail/internal/core/apperror"
	"optiretail/internal/core/daterange"
	"optiretail/internal/domain/reports"
	"optiretail/internal/infrastructure/export"
	"optiretail/internal/infrastructure/http/v1/dto"
)

// ReportService is the part of reports.Service the handlers use.
type ReportService interface {
	BranchTimeReport(ctx context.Context, req reports.TimeReportRequest) (*reports.TimeReport, error)
	BranchLedger(ctx context.Context, branchID int64, from, to time.Time) ([]reports.TransactionRecord, reports.Summary, error)
	DailyMoney(ctx context.Context, day daterange.Range, branchID *int64) (*reports.DailyMoneyReport, error)
}

// ReportsHandler handles the ledger report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service ReportService
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service ReportService) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes mounts the report endpoints on rg behind guard. A nil guard mounts them open.
func (h *ReportsHandler) RegisterRoutes(rg gin.IRoutes, guard gin.HandlerFunc) {
	rg.GET("/branch-time-report/", chain(guard, h.BranchTimeReport)...)
	rg.GET("/branch-time-report/export/", chain(guard, h.ExportBranchTimeReport)...)
	rg.POST("/daily-money-report/", chain(guard, h.DailyMoney)...)
}

// timeReportParams validates the shared branch time report parameters.
func (h *ReportsHandler) timeReportParams(c *gin.Context) (dto.TimeReportQuery, int64, daterange.Range, bool) {
	var q dto.TimeReportQuery
	if !h.BindQuery(c, &q) {
		return q, 0, daterange.Range{}, false
	}

	branchID, err := h.ParseID("branch_id", q.BranchID)
	if err != nil {
		h.Error(c, err)
		return q, 0, daterange.Range{}, false
	}

	r, err := h.DateRange(q.StartDate, q.EndDate)
	if err != nil {
		h.Error(c, err)
		return q, 0, daterange.Range{}, false
	}
	return q, branchID, r, true
}

// BranchTimeReport handles GET /branch-time-report/
func (h *ReportsHandler) BranchTimeReport(c *gin.Context) {
	q, branchID, r, ok := h.timeReportParams(c)
	if !ok {
		return
	}

	report, err := h.service.BranchTimeReport(c.Request.Context(), reports.TimeReportRequest{
		BranchID: branchID,
		From:     r.Start,
		To:       r.End,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTimeReport(report, h.Location()))
}

// ExportBranchTimeReport handles GET /branch-time-report/export/
func (h *ReportsHandler) ExportBranchTimeReport(c *gin.Context) {
	_, branchID, r, ok := h.timeReportParams(c)
	if !ok {
		return
	}

	records, summary, err := h.service.BranchLedger(c.Request.Context(), branchID, r.Start, r.End)
	if err != nil {
		h.Error(c, err)
		return
	}

	meta := export.LedgerMeta{BranchID: branchID, From: r.Start, To: r.End, Location: h.Location()}
	if len(records) > 0 {
		meta.BranchName = records[0].BranchName
	}

	var buf bytes.Buffer
	if err := export.WriteLedger(&buf, meta, records, summary); err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.LedgerFileName(meta)+`"`)
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}

// DailyMoney handles POST /daily-money-report/
func (h *ReportsHandler) DailyMoney(c *gin.Context) {
	var req dto.DailyMoneyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if req.BranchID != nil && *req.BranchID <= 0 {
		h.Error(c, apperror.NewInvalidField("branch_id", "branch_id must be a positive integer"))
		return
	}

	day, err := h.Day(req.Date)
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.DailyMoney(c.Request.Context(), day, req.BranchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromDailyMoney(report, h.Location()))
}
