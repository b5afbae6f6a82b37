package temporal

import (
	"context"
	"fmt"
	"strings"

	"reviews-sentiment-orchestrator/internal/domain"
	"reviews-sentiment-orchestrator/internal/mailer"
	"reviews-sentiment-orchestrator/internal/sentiment"
)

type ActivityStore interface {
	InsertReview(ctx context.Context, rec domain.ReviewRecord) error
	SetRunClassification(ctx context.Context, runID string, label domain.SentimentLabel) error
	SetRunReviewID(ctx context.Context, runID string, reviewID string) error
	UpdateRunStatus(ctx context.Context, runID string, status domain.RunStatus) error
	MarkRunPartialFailure(ctx context.Context, runID string, reason string) error
	MarkRunFailed(ctx context.Context, runID string, reason string) error
}

type IDGenerator interface {
	NewReviewID() (string, error)
}

type Activities struct {
	Store      ActivityStore
	Classifier sentiment.Client
	IDs        IDGenerator
	Mailer     mailer.Mailer
	Sender     string
	Recipient  string
}

type DetectSentimentInput struct {
	RunID      string
	ReviewText string
}

type DetectSentimentOutput struct {
	Sentiment domain.SentimentLabel
	Scores    domain.SentimentScores
}

type GenerateReviewIDInput struct {
	RunID string
}

type GenerateReviewIDOutput struct {
	ReviewID string
}

type SaveReviewInput struct {
	RunID           string
	ReviewID        string
	CustomerMessage string
	Sentiment       domain.SentimentLabel
}

// SaveReviewOutput acknowledges the write; the echoed id is what downstream
// stages and the workflow result report.
type SaveReviewOutput struct {
	ReviewID string
}

type NotifyNegativeInput struct {
	RunID      string
	Sentiment  domain.SentimentLabel
	ReviewText string
}

type RecordRunOutcomeInput struct {
	RunID  string
	Status domain.RunStatus
	Reason string
}

func (a *Activities) DetectSentimentActivity(ctx context.Context, input DetectSentimentInput) (DetectSentimentOutput, error) {
	if strings.TrimSpace(input.ReviewText) == "" {
		return DetectSentimentOutput{}, fmt.Errorf("review text is empty")
	}

	detection, err := a.Classifier.DetectSentiment(ctx, input.ReviewText)
	if err != nil {
		return DetectSentimentOutput{}, fmt.Errorf("detect sentiment: %w", err)
	}
	if err := a.Store.SetRunClassification(ctx, input.RunID, detection.Sentiment); err != nil {
		return DetectSentimentOutput{}, err
	}
	return DetectSentimentOutput{Sentiment: detection.Sentiment, Scores: detection.Scores}, nil
}

func (a *Activities) GenerateReviewIDActivity(ctx context.Context, input GenerateReviewIDInput) (GenerateReviewIDOutput, error) {
	reviewID, err := a.IDs.NewReviewID()
	if err != nil {
		return GenerateReviewIDOutput{}, err
	}
	if err := a.Store.SetRunReviewID(ctx, input.RunID, reviewID); err != nil {
		return GenerateReviewIDOutput{}, err
	}
	return GenerateReviewIDOutput{ReviewID: reviewID}, nil
}

func (a *Activities) SaveReviewActivity(ctx context.Context, input SaveReviewInput) (SaveReviewOutput, error) {
	rec := domain.ReviewRecord{
		ReviewID:        input.ReviewID,
		CustomerMessage: input.CustomerMessage,
		Sentiment:       input.Sentiment,
	}
	if err := a.Store.InsertReview(ctx, rec); err != nil {
		return SaveReviewOutput{}, fmt.Errorf("save review: %w", err)
	}
	if err := a.Store.UpdateRunStatus(ctx, input.RunID, domain.RunSaved); err != nil {
		return SaveReviewOutput{}, err
	}
	return SaveReviewOutput{ReviewID: input.ReviewID}, nil
}

func (a *Activities) NotifyNegativeActivity(ctx context.Context, input NotifyNegativeInput) error {
	msg := mailer.NegativeReviewMessage(input.Sentiment, input.ReviewText, a.Sender, a.Recipient)
	if err := a.Mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify negative review: %w", err)
	}
	return nil
}

func (a *Activities) RecordRunOutcomeActivity(ctx context.Context, input RecordRunOutcomeInput) error {
	switch input.Status {
	case domain.RunPartialFailure:
		return a.Store.MarkRunPartialFailure(ctx, input.RunID, input.Reason)
	case domain.RunFailed:
		return a.Store.MarkRunFailed(ctx, input.RunID, input.Reason)
	default:
		return a.Store.UpdateRunStatus(ctx, input.RunID, input.Status)
	}
}
