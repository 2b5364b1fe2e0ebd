package reportshttp

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/paulpark6/salesvision/internal/shared"
)

// MountRoutes registers report and calculator endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Post("/calc/commission", h.handleCalcCommission)
	r.Post("/calc/target", h.handleCalcTarget)

	r.Route("/reports", func(r chi.Router) {
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/commissions", h.handleCommissions)
		r.Get("/credit/status", h.handleCreditStatus)
		r.Get("/credit/due", h.handleCreditDue)
		r.Get("/credit-notes/aging", h.handleCreditNoteAging)
		r.Get("/checks", h.handleChecks)
		r.Get("/cash", h.handleCash)
		r.Get("/cumulative", h.handleCumulative)
		r.Get("/targets/plan", h.handleTargetPlan)
		r.Post("/cache/bump", h.handleCacheBump)

		r.Group(func(gr chi.Router) {
			gr.Use(limiter)
			gr.Get("/credit/overdue.csv", h.handleOverdueCSV)
			gr.Get("/credit-notes/aging.csv", h.handleCreditNoteAgingCSV)
			gr.Get("/cash.csv", h.handleCashCSV)
		})
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if user := strings.TrimSpace(sess.User()); user != "" {
			return "user:" + user, nil
		}
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
