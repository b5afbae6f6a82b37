package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"reviews-sentiment-orchestrator/internal/config"
	"reviews-sentiment-orchestrator/internal/domain"
	"reviews-sentiment-orchestrator/internal/events"
	"reviews-sentiment-orchestrator/internal/metrics"
	"reviews-sentiment-orchestrator/internal/storage"
)

type QueryStore interface {
	GetReview(ctx context.Context, reviewID string) (domain.ReviewRecord, error)
	ListReviewsBySentiment(ctx context.Context, label domain.SentimentLabel) ([]domain.ReviewRecord, error)
	GetRun(ctx context.Context, runID string) (domain.RunRecord, error)
	ListPartialFailures(ctx context.Context) ([]domain.RunRecord, error)
	Ping(ctx context.Context) error
}

// EventReader looks up the archived copy of the event that started a run.
type EventReader interface {
	GetEvent(ctx context.Context, runID string) ([]byte, error)
}

type Handler struct {
	cfg     config.Config
	store   QueryStore
	bus     events.Publisher
	archive EventReader
}

type submitReviewRequest struct {
	ReviewText string `json:"reviewText"`
}

func NewHandler(cfg config.Config, store QueryStore, bus events.Publisher, archive EventReader) *Handler {
	return &Handler{cfg: cfg, store: store, bus: bus, archive: archive}
}

// SubmitReview validates the submission and publishes a PutReview event.
// It acknowledges immediately with the run id minted for the event; the
// workflow the event triggers runs asynchronously and its outcome is never
// reported here.
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.ReviewsRejectedTotal.Inc()
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}

	if err := domain.ValidateReviewText(req.ReviewText, h.cfg.MaxReviewBytes); err != nil {
		metrics.ReviewsRejectedTotal.Inc()
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	event := events.NewPutReviewEvent(req.ReviewText)
	if err := h.bus.Publish(ctx, event); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to publish review event"})
		return
	}

	metrics.ReviewsSubmittedTotal.Inc()
	metrics.ReviewEventsPublishedTotal.Inc()
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "accepted", "runId": event.ID})
}

func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request, reviewID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, err := h.store.GetReview(ctx, reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "review not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to fetch review"})
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) ListReviewsBySentiment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	label := r.URL.Query().Get("sentiment")
	if label == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "sentiment query parameter is required"})
		return
	}

	records, err := h.store.ListReviewsBySentiment(ctx, domain.SentimentLabel(label))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to list reviews"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": records})
}

// GetRun exposes the audit row for one run, the operator's answer to
// "what happened to my submission".
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request, runID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, err := h.store.GetRun(ctx, runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "run not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to fetch run"})
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// GetRunEvent replays the archived event that started a run, so a lost
// notification can be reconciled from the original submission.
func (h *Handler) GetRunEvent(w http.ResponseWriter, r *http.Request, runID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	payload, err := h.archive.GetEvent(ctx, runID)
	if err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "archived event not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to fetch archived event"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// PartialFailures lists runs where the record was persisted but the
// notification was lost, for out-of-band reconciliation.
func (h *Handler) PartialFailures(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.store.ListPartialFailures(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to list partial failures"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
