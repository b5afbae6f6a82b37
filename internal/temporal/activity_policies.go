package temporal

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	ActivityPolicyDetectSentiment  = "detect_sentiment"
	ActivityPolicyGenerateReviewID = "generate_review_id"
	ActivityPolicySaveReview       = "save_review"
	ActivityPolicyNotifyNegative   = "notify_negative"
	ActivityPolicyRecordRunOutcome = "record_run_outcome"
)

type activityPolicy struct {
	StartToCloseTimeout time.Duration
	RetryPolicy         temporal.RetryPolicy
}

// Every stage pins MaximumAttempts to 1: a stage failure fails the run.
// Turning on bounded backoff for a stage later is an edit here, not a
// workflow change.
var activityPolicies = map[string]activityPolicy{
	ActivityPolicyDetectSentiment: {
		StartToCloseTimeout: 15 * time.Second,
		RetryPolicy: temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	},
	ActivityPolicyGenerateReviewID: {
		StartToCloseTimeout: 5 * time.Second,
		RetryPolicy: temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	},
	ActivityPolicySaveReview: {
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	},
	ActivityPolicyNotifyNegative: {
		StartToCloseTimeout: 15 * time.Second,
		RetryPolicy: temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	},
	ActivityPolicyRecordRunOutcome: {
		StartToCloseTimeout: 5 * time.Second,
		RetryPolicy: temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	},
}

func ActivityOptionsFor(policyName string) (workflow.ActivityOptions, error) {
	policy, ok := activityPolicies[policyName]
	if !ok {
		return workflow.ActivityOptions{}, fmt.Errorf("unknown activity policy: %s", policyName)
	}

	retry := policy.RetryPolicy
	return workflow.ActivityOptions{
		StartToCloseTimeout: policy.StartToCloseTimeout,
		RetryPolicy:         &retry,
	}, nil
}

func mustActivityContext(ctx workflow.Context, policyName string) workflow.Context {
	ao, err := ActivityOptionsFor(policyName)
	if err != nil {
		panic(err)
	}
	return workflow.WithActivityOptions(ctx, ao)
}
