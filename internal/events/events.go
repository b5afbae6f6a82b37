package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PutReviewDetailType identifies the one event kind this system produces.
// Consumers match on it and ignore everything else on the bus.
const PutReviewDetailType = "PutReview"

type ReviewDetail struct {
	ReviewText string `json:"reviewText"`
}

// ReviewEvent is the immutable domain event published when a review is
// submitted. The wire shape is fixed: the payload lives under "detail";
// the envelope id is assigned at publish time and identifies the run the
// event triggers, so the submitter and the consumer agree on it.
type ReviewEvent struct {
	ID         string       `json:"id"`
	DetailType string       `json:"detailType"`
	Detail     ReviewDetail `json:"detail"`
}

func NewPutReviewEvent(reviewText string) ReviewEvent {
	return ReviewEvent{
		ID:         uuid.NewString(),
		DetailType: PutReviewDetailType,
		Detail:     ReviewDetail{ReviewText: reviewText},
	}
}

// Publisher is the outbound half of the bus. The ingestion gateway publishes
// and returns; it never waits for the workflow the event triggers.
type Publisher interface {
	Publish(ctx context.Context, event ReviewEvent) error
}

// Source is the inbound half. Run blocks, delivering matching events to the
// handler until the context is cancelled; a handler error stops the source.
type Source interface {
	Run(ctx context.Context, handler func(context.Context, ReviewEvent) error) error
}

// EncodeEvent renders the canonical wire form of an event.
func EncodeEvent(event ReviewEvent) ([]byte, error) {
	if strings.TrimSpace(event.DetailType) == "" {
		return nil, fmt.Errorf("event detailType must not be empty")
	}
	return json.Marshal(event)
}

// DecodeEvent parses a wire payload. It does not filter by detail type;
// that is the consumer's job.
func DecodeEvent(payload []byte) (ReviewEvent, error) {
	var event ReviewEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return ReviewEvent{}, fmt.Errorf("decode review event: %w", err)
	}
	if event.DetailType == "" {
		return ReviewEvent{}, fmt.Errorf("review event missing detailType")
	}
	return event, nil
}
