package temporal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/converter"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"reviews-sentiment-orchestrator/internal/domain"
)

type activityTrace struct {
	mu sync.Mutex

	startedOrder []string

	detectIn *DetectSentimentInput
	saveIn   *SaveReviewInput
	notifyIn *NotifyNegativeInput

	notifyCalls int
}

func (t *activityTrace) recordStarted(info *activity.Info, args converter.EncodedValues) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startedOrder = append(t.startedOrder, info.ActivityType.Name)

	switch info.ActivityType.Name {
	case "DetectSentimentActivity":
		var in DetectSentimentInput
		_ = args.Get(&in)
		t.detectIn = &in
	case "SaveReviewActivity":
		var in SaveReviewInput
		_ = args.Get(&in)
		t.saveIn = &in
	case "NotifyNegativeActivity":
		var in NotifyNegativeInput
		_ = args.Get(&in)
		t.notifyIn = &in
		t.notifyCalls++
	}
}

func newWorkflowEnv(acts *Activities, trace *activityTrace) *testsuite.TestWorkflowEnvironment {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	env.SetOnActivityStartedListener(func(info *activity.Info, _ context.Context, args converter.EncodedValues) {
		trace.recordStarted(info, args)
	})

	env.RegisterWorkflow(ReviewWorkflow)
	env.RegisterActivity(acts.DetectSentimentActivity)
	env.RegisterActivity(acts.GenerateReviewIDActivity)
	env.RegisterActivity(acts.SaveReviewActivity)
	env.RegisterActivity(acts.NotifyNegativeActivity)
	env.RegisterActivity(acts.RecordRunOutcomeActivity)
	return env
}

var _ = Describe("ReviewWorkflow", func() {
	It("persists a negative review and sends exactly one notification", func() {
		store := newFakeStore()
		mail := &fakeMailer{}
		acts := newTestActivities(store, &stubClassifier{label: domain.SentimentNegative}, mail)
		trace := &activityTrace{}
		env := newWorkflowEnv(acts, trace)

		reviewText := "Terrible service, never again."
		env.ExecuteWorkflow(ReviewWorkflow, ReviewWorkflowInput{RunID: "run-neg-1", ReviewText: reviewText})

		Expect(env.IsWorkflowCompleted()).To(BeTrue())
		Expect(env.GetWorkflowError()).ToNot(HaveOccurred())

		var result ReviewWorkflowResult
		Expect(env.GetWorkflowResult(&result)).To(Succeed())
		Expect(result.Status).To(Equal(domain.RunNotificationSent))
		Expect(result.Sentiment).To(Equal(domain.SentimentNegative))
		Expect(result.ReviewID).ToNot(BeEmpty())

		Expect(trace.startedOrder).To(Equal([]string{
			"DetectSentimentActivity",
			"GenerateReviewIDActivity",
			"SaveReviewActivity",
			"NotifyNegativeActivity",
			"RecordRunOutcomeActivity",
		}))

		Expect(trace.detectIn.ReviewText).To(Equal(reviewText))
		Expect(trace.saveIn.CustomerMessage).To(Equal(reviewText))
		Expect(trace.saveIn.Sentiment).To(Equal(domain.SentimentNegative))
		Expect(trace.saveIn.ReviewID).To(Equal(result.ReviewID))
		Expect(trace.notifyIn.ReviewText).To(Equal(reviewText))

		rec, ok := store.reviews[result.ReviewID]
		Expect(ok).To(BeTrue())
		Expect(rec.CustomerMessage).To(Equal(reviewText))
		Expect(rec.Sentiment).To(Equal(domain.SentimentNegative))

		Expect(mail.sent).To(HaveLen(1))
		Expect(mail.sent[0].Body).To(ContainSubstring("NEGATIVE"))
		Expect(mail.sent[0].Body).To(ContainSubstring(reviewText))

		Expect(store.runs["run-neg-1"].Status).To(Equal(domain.RunNotificationSent))
	})

	It("persists a positive review and sends no notification", func() {
		store := newFakeStore()
		mail := &fakeMailer{}
		acts := newTestActivities(store, &stubClassifier{label: domain.SentimentPositive}, mail)
		trace := &activityTrace{}
		env := newWorkflowEnv(acts, trace)

		env.ExecuteWorkflow(ReviewWorkflow, ReviewWorkflowInput{RunID: "run-pos-1", ReviewText: "Great experience!"})

		Expect(env.IsWorkflowCompleted()).To(BeTrue())
		Expect(env.GetWorkflowError()).ToNot(HaveOccurred())

		var result ReviewWorkflowResult
		Expect(env.GetWorkflowResult(&result)).To(Succeed())
		Expect(result.Status).To(Equal(domain.RunSucceeded))

		Expect(trace.startedOrder).To(Equal([]string{
			"DetectSentimentActivity",
			"GenerateReviewIDActivity",
			"SaveReviewActivity",
			"RecordRunOutcomeActivity",
		}))
		Expect(trace.notifyCalls).To(Equal(0))
		Expect(mail.sent).To(BeEmpty())

		rec, ok := store.reviews[result.ReviewID]
		Expect(ok).To(BeTrue())
		Expect(rec.Sentiment).To(Equal(domain.SentimentPositive))
		Expect(store.runs["run-pos-1"].Status).To(Equal(domain.RunSucceeded))
	})

	It("takes the default branch for an unrecognized label", func() {
		store := newFakeStore()
		mail := &fakeMailer{}
		acts := newTestActivities(store, &stubClassifier{label: "negative"}, mail)
		trace := &activityTrace{}
		env := newWorkflowEnv(acts, trace)

		env.ExecuteWorkflow(ReviewWorkflow, ReviewWorkflowInput{RunID: "run-odd-1", ReviewText: "meh"})

		Expect(env.IsWorkflowCompleted()).To(BeTrue())
		Expect(env.GetWorkflowError()).ToNot(HaveOccurred())

		var result ReviewWorkflowResult
		Expect(env.GetWorkflowResult(&result)).To(Succeed())
		Expect(result.Status).To(Equal(domain.RunSucceeded))
		Expect(trace.notifyCalls).To(Equal(0))
		Expect(mail.sent).To(BeEmpty())
	})

	It("fails the run when persistence fails, without reaching the branch", func() {
		store := newFakeStore()
		store.insertErr = fmt.Errorf("table unavailable")
		mail := &fakeMailer{}
		acts := newTestActivities(store, &stubClassifier{label: domain.SentimentNegative}, mail)
		trace := &activityTrace{}
		env := newWorkflowEnv(acts, trace)

		env.ExecuteWorkflow(ReviewWorkflow, ReviewWorkflowInput{RunID: "run-dbfail-1", ReviewText: "Terrible service, never again."})

		Expect(env.IsWorkflowCompleted()).To(BeTrue())
		Expect(env.GetWorkflowError()).To(HaveOccurred())

		Expect(trace.notifyCalls).To(Equal(0))
		Expect(mail.sent).To(BeEmpty())
		Expect(store.reviews).To(BeEmpty())

		// The audit row lands on FAILED, not on the last stage that
		// happened to complete.
		Expect(store.runs["run-dbfail-1"].Status).To(Equal(domain.RunFailed))
		Expect(store.runs["run-dbfail-1"].FailureReason).To(ContainSubstring("table unavailable"))
	})

	It("reports a distinct partial failure when the record saved but the email did not", func() {
		store := newFakeStore()
		mail := &fakeMailer{err: fmt.Errorf("smtp relay down")}
		acts := newTestActivities(store, &stubClassifier{label: domain.SentimentNegative}, mail)
		trace := &activityTrace{}
		env := newWorkflowEnv(acts, trace)

		env.ExecuteWorkflow(ReviewWorkflow, ReviewWorkflowInput{RunID: "run-partial-1", ReviewText: "Terrible service, never again."})

		Expect(env.IsWorkflowCompleted()).To(BeTrue())
		wfErr := env.GetWorkflowError()
		Expect(wfErr).To(HaveOccurred())

		var appErr *temporal.ApplicationError
		Expect(errors.As(wfErr, &appErr)).To(BeTrue())
		Expect(appErr.Type()).To(Equal(PartialCompletionErrorType))

		// The record is durable even though the run failed.
		Expect(store.reviews).To(HaveLen(1))
		Expect(store.runs["run-partial-1"].Status).To(Equal(domain.RunPartialFailure))
		Expect(store.runs["run-partial-1"].FailureReason).To(ContainSubstring("smtp relay down"))
	})
})
