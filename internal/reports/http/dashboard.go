package reportshttp

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/paulpark6/salesvision/internal/aging"
	"github.com/paulpark6/salesvision/internal/periodic"
	"github.com/paulpark6/salesvision/internal/platform/httpx"
	"github.com/paulpark6/salesvision/internal/reports"
	"github.com/paulpark6/salesvision/internal/shared"
	"github.com/paulpark6/salesvision/internal/target"
)

// Dashboard bundles every report the principal may see for one as-of date.
// Sections the principal lacks a capability for are omitted.
type Dashboard struct {
	AsOf        time.Time                  `json:"as_of"`
	Principal   shared.Principal           `json:"principal"`
	Credit      *aging.StatusReport        `json:"credit,omitempty"`
	Due         *reports.DueScheduleReport `json:"due,omitempty"`
	CreditNotes *aging.BucketReport        `json:"credit_notes,omitempty"`
	Checks      *reports.ChecksReport      `json:"checks,omitempty"`
	Cash        *periodic.Report           `json:"cash,omitempty"`
	Commissions *reports.CommissionReport  `json:"commissions,omitempty"`
	Cumulative  *target.CumulativeReport   `json:"cumulative,omitempty"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
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

	data, err := h.loadDashboard(ctx, p, asOf)
	if err != nil {
		h.respondError(w, "dashboard", err)
		return
	}
	httpx.JSON(w, http.StatusOK, data)
}

func (h *Handler) loadDashboard(ctx context.Context, p shared.Principal, asOf time.Time) (Dashboard, error) {
	data := Dashboard{AsOf: asOf, Principal: p}
	g, ctx := errgroup.WithContext(ctx)

	if p.Can(shared.CapViewCredit) {
		g.Go(func() error {
			report, err := h.service.CreditStatus(ctx, p, asOf, aging.GroupByCustomer)
			if err != nil {
				return err
			}
			data.Credit = &report
			return nil
		})
		g.Go(func() error {
			report, err := h.service.DueSchedule(ctx, p, asOf)
			if err != nil {
				return err
			}
			data.Due = &report
			return nil
		})
		g.Go(func() error {
			report, err := h.service.CreditNoteAging(ctx, p, asOf, aging.GroupByCustomer)
			if err != nil {
				return err
			}
			data.CreditNotes = &report
			return nil
		})
	}

	if p.Can(shared.CapViewChecks) {
		g.Go(func() error {
			report, err := h.service.Checks(ctx, p, asOf)
			if err != nil {
				return err
			}
			data.Checks = &report
			return nil
		})
	}

	if p.Can(shared.CapViewCash) {
		g.Go(func() error {
			from := asOf.AddDate(0, 0, -(reports.CashWindowDays - 1))
			report, err := h.service.CashReport(ctx, p, from, asOf, periodic.Week)
			if err != nil {
				return err
			}
			data.Cash = &report
			return nil
		})
	}

	if p.Can(shared.CapViewCommissions) {
		g.Go(func() error {
			report, err := h.service.Commissions(ctx, p, asOf.Format("2006-01"))
			if err != nil {
				return err
			}
			data.Commissions = &report
			return nil
		})
	}

	if p.Can(shared.CapViewTargets) {
		g.Go(func() error {
			report, err := h.service.CumulativeReport(ctx, p, asOf.Year())
			if err != nil {
				return err
			}
			data.Cumulative = &report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return data, nil
}
