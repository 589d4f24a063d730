package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func NewRouter(handler *Handler, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(Timeout)
	r.Use(CORS)

	r.Get("/healthz", handler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ingest/sales", handler.IngestSales)
		r.Post("/ingest/pos", handler.IngestPOS)
		r.Post("/ingest/quarterly", handler.IngestQuarterly)
		r.Post("/ingest/cashbook", handler.IngestCashbook)

		r.Get("/sales", handler.ListSales)
		r.Get("/ledger", handler.ListLedger)

		r.Get("/reports/monthly", handler.MonthlyReport)
		r.Get("/reports/costs/fixed", handler.FixedCostReport)
		r.Get("/reports/costs/variable", handler.VariableCostReport)
		r.Get("/reports/sales/monthly", handler.SalesByMonth)
		r.Get("/reports/sales/categories", handler.SalesByCategory)
	})

	return r
}
