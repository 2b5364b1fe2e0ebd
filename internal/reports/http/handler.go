package reportshttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/paulpark6/salesvision/internal/aging"
	"github.com/paulpark6/salesvision/internal/commission"
	"github.com/paulpark6/salesvision/internal/periodic"
	"github.com/paulpark6/salesvision/internal/platform/httpx"
	"github.com/paulpark6/salesvision/internal/reports"
	"github.com/paulpark6/salesvision/internal/reports/export"
	"github.com/paulpark6/salesvision/internal/shared"
	"github.com/paulpark6/salesvision/internal/target"
)

var periodRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

const (
	requestTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
)

// ReportService defines the report contract used by the handler.
type ReportService interface {
	Commissions(ctx context.Context, p shared.Principal, period string) (reports.CommissionReport, error)
	CalculateCommission(p shared.Principal, lines []commission.SaleLine) (reports.Calculation, error)
	CalculateTarget(p shared.Principal, in target.Input) (reports.TargetQuote, error)
	CreditStatus(ctx context.Context, p shared.Principal, asOf time.Time, groupBy aging.GroupBy) (aging.StatusReport, error)
	DueSchedule(ctx context.Context, p shared.Principal, asOf time.Time) (reports.DueScheduleReport, error)
	OverdueCredits(ctx context.Context, p shared.Principal, asOf time.Time) ([]aging.ScheduleEntry, error)
	CreditNoteAging(ctx context.Context, p shared.Principal, asOf time.Time, groupBy aging.GroupBy) (aging.BucketReport, error)
	Checks(ctx context.Context, p shared.Principal, asOf time.Time) (reports.ChecksReport, error)
	CashReport(ctx context.Context, p shared.Principal, from, to time.Time, g periodic.Granularity) (periodic.Report, error)
	CumulativeReport(ctx context.Context, p shared.Principal, year int) (target.CumulativeReport, error)
	TargetPlan(ctx context.Context, p shared.Principal, period string) (target.Plan, error)
	BumpCache(ctx context.Context, p shared.Principal) (int64, error)
}

// Handler serves the report endpoints.
type Handler struct {
	logger  *slog.Logger
	service ReportService
	csvPool sync.Pool
	now     func() time.Time
}

// NewHandler constructs the report HTTP handler.
func NewHandler(logger *slog.Logger, service ReportService) *Handler {
	h := &Handler{
		logger:  logger,
		service: service,
		now:     time.Now,
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

func (h *Handler) handleCommissions(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	period, err := h.parsePeriod(r)
	if err != nil {
		h.respondError(w, "parse period", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Commissions(ctx, p, period)
	if err != nil {
		h.respondError(w, "commissions", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

type commissionRequest struct {
	Lines []commission.SaleLine `json:"lines"`
}

func (h *Handler) handleCalcCommission(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req commissionRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.respondError(w, "decode commission request", err)
		return
	}
	result, err := h.service.CalculateCommission(p, req.Lines)
	if err != nil {
		h.respondError(w, "calculate commission", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleCalcTarget(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var in target.Input
	if err := decodeBody(w, r, &in); err != nil {
		h.respondError(w, "decode target request", err)
		return
	}
	quote, err := h.service.CalculateTarget(p, in)
	if err != nil {
		h.respondError(w, "calculate target", err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) handleCreditStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	asOf, err := h.parseAsOf(r)
	if err != nil {
		h.respondError(w, "parse as_of", err)
		return
	}
	groupBy, err := aging.ParseGroupBy(r.URL.Query().Get("group_by"))
	if err != nil {
		h.respondError(w, "parse group_by", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.CreditStatus(ctx, p, asOf, groupBy)
	if err != nil {
		h.respondError(w, "credit status", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleCreditDue(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	asOf, err := h.parseAsOf(r)
	if err != nil {
		h.respondError(w, "parse as_of", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.DueSchedule(ctx, p, asOf)
	if err != nil {
		h.respondError(w, "due schedule", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleOverdueCSV(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	asOf, err := h.parseAsOf(r)
	if err != nil {
		h.respondError(w, "parse as_of", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entries, err := h.service.OverdueCredits(ctx, p, asOf)
	if err != nil {
		h.respondError(w, "overdue credits", err)
		return
	}
	h.streamCSV(w, fmt.Sprintf("overdue-credit-%s.csv", asOf.Format("2006-01-02")), func(buf io.Writer) error {
		return export.WriteOverdueCSV(buf, entries)
	})
}

func (h *Handler) handleCreditNoteAging(w http.ResponseWriter, r *http.Request) {
	report, ok := h.loadCreditNoteAging(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleCreditNoteAgingCSV(w http.ResponseWriter, r *http.Request) {
	report, ok := h.loadCreditNoteAging(w, r)
	if !ok {
		return
	}
	h.streamCSV(w, fmt.Sprintf("credit-note-aging-%s.csv", report.AsOf.Format("2006-01-02")), func(buf io.Writer) error {
		return export.WriteAgingCSV(buf, report.Records)
	})
}

func (h *Handler) loadCreditNoteAging(w http.ResponseWriter, r *http.Request) (aging.BucketReport, bool) {
	p, ok := h.principal(w, r)
	if !ok {
		return aging.BucketReport{}, false
	}
	asOf, err := h.parseAsOf(r)
	if err != nil {
		h.respondError(w, "parse as_of", err)
		return aging.BucketReport{}, false
	}
	groupBy, err := aging.ParseGroupBy(r.URL.Query().Get("group_by"))
	if err != nil {
		h.respondError(w, "parse group_by", err)
		return aging.BucketReport{}, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.CreditNoteAging(ctx, p, asOf, groupBy)
	if err != nil {
		h.respondError(w, "credit note aging", err)
		return aging.BucketReport{}, false
	}
	return report, true
}

func (h *Handler) handleChecks(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	asOf, err := h.parseAsOf(r)
	if err != nil {
		h.respondError(w, "parse as_of", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Checks(ctx, p, asOf)
	if err != nil {
		h.respondError(w, "checks", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleCash(w http.ResponseWriter, r *http.Request) {
	report, ok := h.loadCash(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleCashCSV(w http.ResponseWriter, r *http.Request) {
	report, ok := h.loadCash(w, r)
	if !ok {
		return
	}
	h.streamCSV(w, fmt.Sprintf("cash-%s.csv", report.Granularity), func(buf io.Writer) error {
		return export.WriteCashCSV(buf, report)
	})
}

func (h *Handler) loadCash(w http.ResponseWriter, r *http.Request) (periodic.Report, bool) {
	p, ok := h.principal(w, r)
	if !ok {
		return periodic.Report{}, false
	}
	from, to, err := h.parseRange(r)
	if err != nil {
		h.respondError(w, "parse range", err)
		return periodic.Report{}, false
	}
	g, err := periodic.ParseGranularity(r.URL.Query().Get("granularity"))
	if err != nil {
		h.respondError(w, "parse granularity", err)
		return periodic.Report{}, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.CashReport(ctx, p, from, to, g)
	if err != nil {
		h.respondError(w, "cash report", err)
		return periodic.Report{}, false
	}
	return report, true
}

func (h *Handler) handleCumulative(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	year, err := h.parseYear(r)
	if err != nil {
		h.respondError(w, "parse year", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.CumulativeReport(ctx, p, year)
	if err != nil {
		h.respondError(w, "cumulative report", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleTargetPlan(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	period, err := h.parsePeriod(r)
	if err != nil {
		h.respondError(w, "parse period", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	plan, err := h.service.TargetPlan(ctx, p, period)
	if err != nil {
		h.respondError(w, "target plan", err)
		return
	}
	httpx.JSON(w, http.StatusOK, plan)
}

func (h *Handler) handleCacheBump(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	version, err := h.service.BumpCache(r.Context(), p)
	if err != nil {
		h.respondError(w, "bump cache", err)
		return
	}
	if h.logger != nil {
		h.logger.Info("report cache bumped", slog.String("user", p.UserID), slog.Int64("version", version))
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"version": version})
}

func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (shared.Principal, bool) {
	p, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return shared.Principal{}, false
	}
	return p, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, httpx.ErrValidation), shared.IsAuthError(err):
	case errors.Is(err, context.DeadlineExceeded):
		h.logError(op, err)
		httpx.Problem(w, http.StatusGatewayTimeout, "Timeout", "report took too long to build")
		return
	default:
		h.logError(op, err)
	}
	httpx.RespondError(w, err)
}

func (h *Handler) streamCSV(w http.ResponseWriter, filename string, write func(io.Writer) error) {
	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := write(buf); err != nil {
		h.respondError(w, "write csv", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func (h *Handler) logError(op string, err error) {
	if h.logger != nil {
		h.logger.Error("reports request failed", slog.String("op", op), slog.Any("error", err))
	}
}

func (h *Handler) today() time.Time {
	y, m, d := h.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (h *Handler) parseAsOf(r *http.Request) (time.Time, error) {
	return parseDate(r, "as_of", h.today())
}

func (h *Handler) parseRange(r *http.Request) (time.Time, time.Time, error) {
	to, err := parseDate(r, "to", h.today())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from, err := parseDate(r, "from", to.AddDate(0, 0, -(reports.CashWindowDays-1)))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func (h *Handler) parsePeriod(r *http.Request) (string, error) {
	period := strings.TrimSpace(r.URL.Query().Get("period"))
	if period == "" {
		return h.today().Format("2006-01"), nil
	}
	if !periodRegex.MatchString(period) {
		return "", shared.NewValidationError("period", "must be YYYY-MM")
	}
	if _, err := time.Parse("2006-01", period); err != nil {
		return "", shared.NewValidationError("period", "must be YYYY-MM")
	}
	return period, nil
}

func (h *Handler) parseYear(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("year"))
	if raw == "" {
		return h.today().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 9999 {
		return 0, shared.NewValidationError("year", "must be a four digit year")
	}
	return year, nil
}

func parseDate(r *http.Request, field string, fallback time.Time) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(field))
	if raw == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, shared.NewValidationError(field, "must be YYYY-MM-DD")
	}
	return t, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := httpx.DecodeJSON(r, dest); err != nil {
		return shared.NewValidationError("body", err.Error())
	}
	return nil
}
