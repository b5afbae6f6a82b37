package temporal

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"reviews-sentiment-orchestrator/internal/domain"
)

const ReviewWorkflowName = "ReviewSentimentWorkflow"

// ReviewRunTimeout bounds one run end to end; it is applied as the
// WorkflowRunTimeout where the workflow is started.
const ReviewRunTimeout = 30 * time.Second

// PartialCompletionErrorType tags the one failure where a side effect
// already happened: the record was persisted but the notification was lost.
const PartialCompletionErrorType = "PartialCompletionError"

type ReviewWorkflowInput struct {
	RunID      string
	ReviewText string
}

type ReviewWorkflowResult struct {
	RunID     string
	ReviewID  string
	Sentiment domain.SentimentLabel
	Status    domain.RunStatus
}

// ReviewWorkflow runs the fixed pipeline over one submitted review:
// classify, mint an id, persist, then branch on the label. Stages execute
// strictly in order; each consumes outputs of the stages before it and
// writes its own field exactly once.
func ReviewWorkflow(ctx workflow.Context, input ReviewWorkflowInput) (ReviewWorkflowResult, error) {
	outcomeCtx := mustActivityContext(ctx, ActivityPolicyRecordRunOutcome)

	// An abort before the notification branch is a full failure: nothing
	// (or nothing the caller can use) was persisted. Marking the run FAILED
	// keeps it distinguishable from one still in flight; best effort, the
	// stage error is what the workflow reports either way.
	recordFailed := func(stageErr error) {
		_ = workflow.ExecuteActivity(outcomeCtx, (*Activities).RecordRunOutcomeActivity, RecordRunOutcomeInput{
			RunID:  input.RunID,
			Status: domain.RunFailed,
			Reason: stageErr.Error(),
		}).Get(ctx, nil)
	}

	var detected DetectSentimentOutput
	if err := workflow.ExecuteActivity(
		mustActivityContext(ctx, ActivityPolicyDetectSentiment),
		(*Activities).DetectSentimentActivity,
		DetectSentimentInput{RunID: input.RunID, ReviewText: input.ReviewText},
	).Get(ctx, &detected); err != nil {
		recordFailed(err)
		return ReviewWorkflowResult{}, err
	}

	var generated GenerateReviewIDOutput
	if err := workflow.ExecuteActivity(
		mustActivityContext(ctx, ActivityPolicyGenerateReviewID),
		(*Activities).GenerateReviewIDActivity,
		GenerateReviewIDInput{RunID: input.RunID},
	).Get(ctx, &generated); err != nil {
		recordFailed(err)
		return ReviewWorkflowResult{}, err
	}

	var saved SaveReviewOutput
	if err := workflow.ExecuteActivity(
		mustActivityContext(ctx, ActivityPolicySaveReview),
		(*Activities).SaveReviewActivity,
		SaveReviewInput{
			RunID:           input.RunID,
			ReviewID:        generated.ReviewID,
			CustomerMessage: input.ReviewText,
			Sentiment:       detected.Sentiment,
		},
	).Get(ctx, &saved); err != nil {
		recordFailed(err)
		return ReviewWorkflowResult{}, err
	}

	// NEGATIVE matches exactly; every other label, recognized or not, takes
	// the no-notification path.
	if domain.IsNegative(detected.Sentiment) {
		if err := workflow.ExecuteActivity(
			mustActivityContext(ctx, ActivityPolicyNotifyNegative),
			(*Activities).NotifyNegativeActivity,
			NotifyNegativeInput{
				RunID:      input.RunID,
				Sentiment:  detected.Sentiment,
				ReviewText: input.ReviewText,
			},
		).Get(ctx, nil); err != nil {
			_ = workflow.ExecuteActivity(outcomeCtx, (*Activities).RecordRunOutcomeActivity, RecordRunOutcomeInput{
				RunID:  input.RunID,
				Status: domain.RunPartialFailure,
				Reason: err.Error(),
			}).Get(ctx, nil)
			return ReviewWorkflowResult{}, temporal.NewNonRetryableApplicationError(
				"review persisted but notification failed", PartialCompletionErrorType, err)
		}

		if err := workflow.ExecuteActivity(outcomeCtx, (*Activities).RecordRunOutcomeActivity, RecordRunOutcomeInput{
			RunID:  input.RunID,
			Status: domain.RunNotificationSent,
		}).Get(ctx, nil); err != nil {
			return ReviewWorkflowResult{}, err
		}

		return ReviewWorkflowResult{
			RunID:     input.RunID,
			ReviewID:  saved.ReviewID,
			Sentiment: detected.Sentiment,
			Status:    domain.RunNotificationSent,
		}, nil
	}

	if err := workflow.ExecuteActivity(outcomeCtx, (*Activities).RecordRunOutcomeActivity, RecordRunOutcomeInput{
		RunID:  input.RunID,
		Status: domain.RunSucceeded,
	}).Get(ctx, nil); err != nil {
		return ReviewWorkflowResult{}, err
	}

	return ReviewWorkflowResult{
		RunID:     input.RunID,
		ReviewID:  saved.ReviewID,
		Sentiment: detected.Sentiment,
		Status:    domain.RunSucceeded,
	}, nil
}
