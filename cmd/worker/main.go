package main

import (
	"log"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"reviews-sentiment-orchestrator/internal/config"
	"reviews-sentiment-orchestrator/internal/identity"
	"reviews-sentiment-orchestrator/internal/mailer"
	"reviews-sentiment-orchestrator/internal/sentiment"
	"reviews-sentiment-orchestrator/internal/storage"
	appTemporal "reviews-sentiment-orchestrator/internal/temporal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store, err := storage.NewPostgresStore(cfg.PostgresDSN, cfg.ReviewsTable)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer store.Close()

	classifier := sentiment.NewHTTPClient(cfg.SentimentEndpoint, cfg.SentimentAPIKey, time.Duration(cfg.SentimentTimeoutSec)*time.Second)
	mail := mailer.NewHTTPMailer(cfg.MailerEndpoint, cfg.MailerAPIKey, time.Duration(cfg.MailerTimeoutSec)*time.Second)

	temporalClient, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
	})
	if err != nil {
		log.Fatalf("connect temporal: %v", err)
	}
	defer temporalClient.Close()

	activities := &appTemporal.Activities{
		Store:      store,
		Classifier: classifier,
		IDs:        identity.NewULIDGenerator(),
		Mailer:     mail,
		Sender:     cfg.NotifySender,
		Recipient:  cfg.NotifyRecipient,
	}

	w := worker.New(temporalClient, cfg.TemporalTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(appTemporal.ReviewWorkflow, workflow.RegisterOptions{Name: appTemporal.ReviewWorkflowName})
	w.RegisterActivity(activities.DetectSentimentActivity)
	w.RegisterActivity(activities.GenerateReviewIDActivity)
	w.RegisterActivity(activities.SaveReviewActivity)
	w.RegisterActivity(activities.NotifyNegativeActivity)
	w.RegisterActivity(activities.RecordRunOutcomeActivity)

	log.Printf("worker running on task queue %s", cfg.TemporalTaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker stopped with error: %v", err)
	}
}
