package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"reviews-sentiment-orchestrator/internal/domain"
)

func TestNegativeReviewMessage(t *testing.T) {
	msg := NegativeReviewMessage(domain.SentimentNegative, "Terrible service, never again.", "alerts@example.com", "ops@example.com")

	if msg.Subject != "Negative sentiment customer review" {
		t.Fatalf("subject mismatch: got %q", msg.Subject)
	}
	if msg.From != "alerts@example.com" || msg.To != "ops@example.com" {
		t.Fatalf("addressing mismatch: %q -> %q", msg.From, msg.To)
	}
	if !strings.Contains(msg.Body, "NEGATIVE") {
		t.Fatalf("body missing sentiment label: %q", msg.Body)
	}
	if !strings.Contains(msg.Body, "Terrible service, never again.") {
		t.Fatalf("body missing review text: %q", msg.Body)
	}
}

func TestSend(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message_id": "m-1"})
	}))
	defer srv.Close()

	m := NewHTTPMailer(srv.URL, "key", 5*time.Second)
	msg := NegativeReviewMessage(domain.SentimentNegative, "bad", "from@example.com", "to@example.com")
	if err := m.Send(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != msg {
		t.Fatalf("sent message mismatch: got %+v want %+v", got, msg)
	}
}

func TestSendDeliveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "relay unavailable"})
	}))
	defer srv.Close()

	m := NewHTTPMailer(srv.URL, "", 5*time.Second)
	err := m.Send(context.Background(), Message{From: "a@b.c", To: "d@e.f", Subject: "s", Body: "b"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "relay unavailable") {
		t.Fatalf("error should carry remote message, got %v", err)
	}
}

func TestSendRequiresAddresses(t *testing.T) {
	m := NewHTTPMailer("http://localhost:0", "", time.Second)
	if err := m.Send(context.Background(), Message{Subject: "s", Body: "b"}); err == nil {
		t.Fatalf("expected error for missing addresses")
	}
}
