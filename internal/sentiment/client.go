package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reviews-sentiment-orchestrator/internal/domain"
)

const defaultBaseURL = "https://comprehend.us-east-1.amazonaws.com/"

// Client wraps the external text-classification service.
type Client interface {
	DetectSentiment(ctx context.Context, text string) (Detection, error)
}

type Detection struct {
	Sentiment domain.SentimentLabel  `json:"sentiment"`
	Scores    domain.SentimentScores `json:"scores"`
}

type HTTPClient struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewHTTPClient takes its endpoint from the caller; the adapter itself
// never reads the environment.
func NewHTTPClient(endpoint string, apiKey string, timeout time.Duration) *HTTPClient {
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		apiKey:     apiKey,
		baseURL:    endpoint,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

type detectSentimentRequest struct {
	LanguageCode string `json:"LanguageCode"`
	Text         string `json:"Text"`
}

type detectSentimentResponse struct {
	Sentiment      string `json:"Sentiment"`
	SentimentScore struct {
		Positive float64 `json:"Positive"`
		Negative float64 `json:"Negative"`
		Neutral  float64 `json:"Neutral"`
		Mixed    float64 `json:"Mixed"`
	} `json:"SentimentScore"`
	Message string `json:"message,omitempty"`
}

// DetectSentiment classifies English review text. Classification of empty or
// otherwise invalid text is deferred to the remote service.
func (c *HTTPClient) DetectSentiment(ctx context.Context, text string) (Detection, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(detectSentimentRequest{
		LanguageCode: "en",
		Text:         text,
	})
	if err != nil {
		return Detection{}, err
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return Detection{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Amz-Target", "Comprehend_20171127.DetectSentiment")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Detection{}, fmt.Errorf("sentiment request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Detection{}, err
	}

	var parsed detectSentimentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Detection{}, fmt.Errorf("unable to parse sentiment response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if parsed.Message != "" {
			return Detection{}, fmt.Errorf("sentiment request failed: %s", parsed.Message)
		}
		return Detection{}, fmt.Errorf("sentiment request failed with status %d", resp.StatusCode)
	}

	label := strings.TrimSpace(parsed.Sentiment)
	if label == "" {
		return Detection{}, fmt.Errorf("sentiment response missing label")
	}

	return Detection{
		Sentiment: domain.SentimentLabel(label),
		Scores: domain.SentimentScores{
			Positive: parsed.SentimentScore.Positive,
			Negative: parsed.SentimentScore.Negative,
			Neutral:  parsed.SentimentScore.Neutral,
			Mixed:    parsed.SentimentScore.Mixed,
		},
	}, nil
}
