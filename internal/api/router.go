package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Billboard-Partnership-Backend/internal/api/middleware"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/config"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/service"
)

// Services bundles the services the HTTP layer exposes.
type Services struct {
	System      *service.SystemService
	Billboard   *service.BillboardService
	Import      *service.ImportService
	Partner     *service.PartnerService
	Partnership *service.PartnershipService
	Revenue     *service.RevenueService
	Snapshot    *service.SnapshotService
	Statement   *service.StatementService
	Pricing     *service.PricingService
}

// NewRouter creates and configures the HTTP router.
// Reads are open; writes require the API key and time token and are rate limited per client.
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	limiter := custommiddleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	protected := func(r chi.Router) chi.Router {
		return r.With(limiter.Handler, custommiddleware.APIKeyMiddleware(cfg.Auth.InternalAPIKey))
	}

	systemHandler := handlers.NewSystemHandler(svc.System)
	billboardHandler := handlers.NewBillboardHandler(svc.Billboard, svc.Import)
	partnerHandler := handlers.NewPartnerHandler(svc.Partner)
	partnershipHandler := handlers.NewPartnershipHandler(svc.Partnership, svc.Revenue, svc.Snapshot, svc.Statement)
	pricingHandler := handlers.NewPricingHandler(svc.Pricing)
	settingsHandler := handlers.NewSettingsHandler(svc.Statement)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/billboard", func(r chi.Router) {
			r.Get("/", billboardHandler.Billboards)
			protected(r).Post("/", billboardHandler.CreateBillboard)
			protected(r).Post("/import", billboardHandler.ImportBillboards)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", billboardHandler.GetBillboard)
			})
		})

		r.Route("/partner", func(r chi.Router) {
			r.Get("/", partnerHandler.Partners)
			protected(r).Post("/", partnerHandler.CreatePartner)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", partnerHandler.GetPartner)
				protected(r).Put("/", partnerHandler.UpdatePartner)
				protected(r).Delete("/", partnerHandler.DeletePartner)
			})
		})

		r.Route("/partnership/{uuid}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateUUIDMiddleware)

			r.Get("/", partnershipHandler.GetPartnership)
			r.Get("/draft", partnershipHandler.GetDraft)
			r.Get("/revenue", partnershipHandler.Postings)
			r.Get("/revenue/summary", partnershipHandler.RevenueSummary)
			r.Get("/history", partnershipHandler.History)
			r.Get("/statement", partnershipHandler.Statement)

			r.Group(func(r chi.Router) {
				r.Use(limiter.Handler)
				r.Use(custommiddleware.APIKeyMiddleware(cfg.Auth.InternalAPIKey))

				r.Put("/draft/company-pre", partnershipHandler.SetCompanyPre)
				r.Put("/draft/capital-deduction", partnershipHandler.SetCapitalDeduction)
				r.Put("/draft/company-post", partnershipHandler.SetCompanyPost)
				r.Put("/draft/capital", partnershipHandler.SetCapital)
				r.Post("/draft/partners", partnershipHandler.AddPartner)
				r.Delete("/draft/partners/{partnerId}", partnershipHandler.RemovePartner)
				r.Delete("/draft", partnershipHandler.Discard)
				r.Post("/save", partnershipHandler.Save)
				r.Post("/deactivate", partnershipHandler.Deactivate)
				r.Post("/revenue", partnershipHandler.PostRevenue)
			})
		})

		r.Route("/pricing", func(r chi.Router) {
			r.Get("/", pricingHandler.Companies)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", pricingHandler.CompanyPricing)
				protected(r).Post("/total", pricingHandler.ApplyManualTotal)
			})
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/statement", settingsHandler.StatementSettings)
			protected(r).Put("/statement", settingsHandler.UpdateStatementSettings)
		})
	})

	return r
}
