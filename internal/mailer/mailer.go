package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"reviews-sentiment-orchestrator/internal/domain"
)

const negativeReviewSubject = "Negative sentiment customer review"

// Mailer sends outbound email through the external delivery service.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NegativeReviewMessage builds the alert sent when a review classifies as
// negative: fixed subject, plain-text body carrying the label and the
// original review text.
func NegativeReviewMessage(label domain.SentimentLabel, reviewText string, sender string, recipient string) Message {
	body := fmt.Sprintf("Sentiment analysis: %s\nCustomer Review: %s\n", label, reviewText)
	return Message{
		From:    sender,
		To:      recipient,
		Subject: negativeReviewSubject,
		Body:    body,
	}
}

type HTTPMailer struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func NewHTTPMailer(endpoint string, apiKey string, timeout time.Duration) *HTTPMailer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPMailer{
		apiKey:     apiKey,
		baseURL:    endpoint,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

type sendEmailResponse struct {
	MessageID string `json:"message_id,omitempty"`
	Message   string `json:"message,omitempty"`
}

func (m *HTTPMailer) Send(ctx context.Context, msg Message) error {
	if m.baseURL == "" {
		return fmt.Errorf("mailer endpoint is not configured")
	}
	if msg.From == "" || msg.To == "" {
		return fmt.Errorf("mail message requires sender and recipient")
	}

	reqCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, m.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var parsed sendEmailResponse
		if err := json.Unmarshal(respBody, &parsed); err == nil && parsed.Message != "" {
			return fmt.Errorf("email delivery failed: %s", parsed.Message)
		}
		return fmt.Errorf("email delivery failed with status %d", resp.StatusCode)
	}
	return nil
}
