package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openrwa/fracshare/internal/eventlog"
	"github.com/openrwa/fracshare/internal/service"
)

// NewRouter creates a chi router with all routes registered, request logging,
// identity extraction, and Content-Type validation middleware.
func NewRouter(
	assetSvc *service.AssetService,
	marketSvc *service.MarketService,
	valuationSvc *service.ValuationService,
	events *eventlog.MemoryLog,
	pageLimit int,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)
	r.Use(withIdentity)

	// Create handlers.
	assetH := NewAssetHandler(assetSvc, marketSvc, events, pageLimit)
	marketH := NewMarketHandler(marketSvc, pageLimit)
	valuationH := NewValuationHandler(valuationSvc)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Asset routes.
	r.Post("/assets", assetH.Create)
	r.Get("/assets", assetH.List)
	r.Get("/assets/{asset_id}", assetH.Get)
	r.Post("/assets/{asset_id}/deactivate", assetH.Deactivate)
	r.Get("/assets/{asset_id}/valuation", valuationH.GetValuation)
	r.Get("/assets/{asset_id}/holdings/{holder_id}", assetH.GetHolding)
	r.Get("/assets/{asset_id}/listings", marketH.ListListings)
	r.Get("/assets/{asset_id}/events", assetH.ListEvents)
	r.Post("/assets/{asset_id}/purchase", marketH.BuyPrimary)

	// Listing routes.
	r.Post("/listings", marketH.CreateListing)
	r.Get("/listings/{listing_id}", marketH.GetListing)
	r.Post("/listings/{listing_id}/purchase", marketH.BuyResale)
	r.Delete("/listings/{listing_id}", marketH.CancelListing)

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT, and
// PATCH requests. If the Content-Type header doesn't start with
// "application/json", it returns 400 Bad Request before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
