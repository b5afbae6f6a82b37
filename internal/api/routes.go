package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reviews-sentiment-orchestrator/internal/metrics"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/reviews", instrument("submit_review", h.SubmitReview))
		r.Get("/reviews", instrument("list_reviews", h.ListReviewsBySentiment))
		r.Get("/reviews/{reviewId}", instrument("get_review", func(w http.ResponseWriter, r *http.Request) {
			h.GetReview(w, r, chi.URLParam(r, "reviewId"))
		}))
		r.Get("/runs/partial-failures", instrument("partial_failures", h.PartialFailures))
		r.Get("/runs/{runId}", instrument("get_run", func(w http.ResponseWriter, r *http.Request) {
			h.GetRun(w, r, chi.URLParam(r, "runId"))
		}))
		r.Get("/runs/{runId}/event", instrument("get_run_event", func(w http.ResponseWriter, r *http.Request) {
			h.GetRunEvent(w, r, chi.URLParam(r, "runId"))
		}))
	})

	return r
}

func instrument(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next(ww, r)

		metrics.HTTPRequestsTotal.WithLabelValues(name, r.Method, strconv.Itoa(ww.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(name, r.Method).Observe(time.Since(start).Seconds())
	}
}
