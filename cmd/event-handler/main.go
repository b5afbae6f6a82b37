package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"reviews-sentiment-orchestrator/internal/config"
	"reviews-sentiment-orchestrator/internal/events"
	"reviews-sentiment-orchestrator/internal/metrics"
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

	archive, err := storage.NewEventArchive(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.EventArchiveBucket)
	if err != nil {
		log.Fatalf("connect minio: %v", err)
	}

	temporalClient, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
	})
	if err != nil {
		log.Fatalf("connect temporal: %v", err)
	}
	defer temporalClient.Close()

	source := events.NewKafkaSource(cfg.KafkaBrokers, cfg.EventBusTopic, cfg.KafkaGroupID)
	defer source.Close()

	metrics.Register()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":"+cfg.HTTPPort, mux); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("event-handler consuming %s events from topic=%s", events.PutReviewDetailType, cfg.EventBusTopic)
	err = source.Run(ctx, func(parent context.Context, event events.ReviewEvent) error {
		metrics.ReviewEventsConsumedTotal.Inc()
		// The envelope id minted at publish time is the run id, so the
		// submitter's acknowledgement matches the audit row. Events from
		// other producers may omit it.
		runID := event.ID
		if runID == "" {
			runID = uuid.NewString()
		}
		execCtx, cancel := context.WithTimeout(parent, 15*time.Second)
		defer cancel()

		// Archive first so the event can be replayed or reconciled even if
		// the run later partially fails. Archive errors never block the run.
		if payload, encodeErr := events.EncodeEvent(event); encodeErr == nil {
			if _, archiveErr := archive.PutEvent(execCtx, runID, payload); archiveErr != nil {
				log.Printf("archive event run_id=%s: %v", runID, archiveErr)
			}
		}

		if err := store.CreateRun(execCtx, runID); err != nil {
			return fmt.Errorf("create run %s: %w", runID, err)
		}

		workflowID := fmt.Sprintf("%s-%s", cfg.WorkflowIDPrefix, runID)
		_, startErr := temporalClient.ExecuteWorkflow(execCtx, client.StartWorkflowOptions{
			ID:                 workflowID,
			TaskQueue:          cfg.TemporalTaskQueue,
			WorkflowRunTimeout: appTemporal.ReviewRunTimeout,
		}, appTemporal.ReviewWorkflowName, appTemporal.ReviewWorkflowInput{
			RunID:      runID,
			ReviewText: event.Detail.ReviewText,
		})
		if startErr != nil {
			var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
			if errors.As(startErr, &alreadyStarted) {
				log.Printf("workflow already started workflow_id=%s", workflowID)
				return nil
			}
			return fmt.Errorf("start workflow %s: %w", workflowID, startErr)
		}

		metrics.WorkflowsStartedTotal.Inc()
		log.Printf("started workflow workflow_id=%s run_id=%s", workflowID, runID)
		return nil
	})
	if err != nil {
		log.Fatalf("event-handler stopped with error: %v", err)
	}
}
