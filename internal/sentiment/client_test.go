package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reviews-sentiment-orchestrator/internal/domain"
)

func TestDetectSentiment(t *testing.T) {
	var gotBody detectSentimentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"Sentiment": "NEGATIVE",
			"SentimentScore": map[string]float64{
				"Positive": 0.01,
				"Negative": 0.95,
				"Neutral":  0.03,
				"Mixed":    0.01,
			},
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "test-key", 5*time.Second)
	detection, err := client.DetectSentiment(context.Background(), "Terrible service, never again.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if detection.Sentiment != domain.SentimentNegative {
		t.Fatalf("sentiment mismatch: got %q", detection.Sentiment)
	}
	if detection.Scores.Negative != 0.95 {
		t.Fatalf("negative score mismatch: got %v", detection.Scores.Negative)
	}
	if gotBody.LanguageCode != "en" {
		t.Fatalf("language code mismatch: got %q", gotBody.LanguageCode)
	}
	if gotBody.Text != "Terrible service, never again." {
		t.Fatalf("text mismatch: got %q", gotBody.Text)
	}
}

func TestNewHTTPClientIgnoresEnvironment(t *testing.T) {
	t.Setenv("SENTIMENT_BASE_URL", "http://should-not-be-used.invalid")

	client := NewHTTPClient("", "", 5*time.Second)
	if client.baseURL != defaultBaseURL {
		t.Fatalf("baseURL = %q, want the default %q", client.baseURL, defaultBaseURL)
	}

	configured := NewHTTPClient("http://classifier.internal", "", 5*time.Second)
	if configured.baseURL != "http://classifier.internal" {
		t.Fatalf("baseURL = %q, want the configured endpoint", configured.baseURL)
	}
}

func TestDetectSentimentServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "rate exceeded"})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "test-key", 5*time.Second)
	_, err := client.DetectSentiment(context.Background(), "fine")
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestDetectSentimentMissingLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"SentimentScore": map[string]float64{}})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", 5*time.Second)
	_, err := client.DetectSentiment(context.Background(), "fine")
	if err == nil {
		t.Fatalf("expected error for missing label")
	}
}
