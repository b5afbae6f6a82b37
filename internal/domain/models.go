package domain

// SentimentLabel is the closed set of labels the classification service
// returns. The workflow only ever matches NEGATIVE exactly; every other
// value, known or not, falls through the catch-all branch.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNegative SentimentLabel = "NEGATIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
	SentimentMixed    SentimentLabel = "MIXED"
)

// SentimentScores carries the per-label confidence returned by the
// classification service alongside the winning label.
type SentimentScores struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Mixed    float64 `json:"mixed"`
}

// ReviewRecord is the persistent shape of one processed review. Records are
// written once by the workflow's save stage and never updated in place.
type ReviewRecord struct {
	ReviewID        string         `json:"review_id"`
	CustomerMessage string         `json:"customer_message"`
	Sentiment       SentimentLabel `json:"sentiment"`
}

// RunRecord is the per-execution audit row. It exists so operators can tell
// a full failure apart from a partial one (record saved, notification lost).
type RunRecord struct {
	RunID         string         `json:"run_id"`
	ReviewID      string         `json:"review_id,omitempty"`
	Sentiment     SentimentLabel `json:"sentiment,omitempty"`
	Status        RunStatus      `json:"status"`
	FailureReason string         `json:"failure_reason,omitempty"`
}
