package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultHTTPPort           = "8080"
	defaultTemporalAddress    = "localhost:7233"
	defaultTemporalNS         = "default"
	defaultTaskQueue          = "review-sentiment-task-queue"
	defaultKafkaGroupID       = "review-workflow-starter"
	defaultSentimentTimeout   = 10
	defaultMailerTimeout      = 10
	defaultMinioEndpoint      = "localhost:9000"
	defaultEventArchiveBucket = "review-events"
)

type Config struct {
	HTTPPort string

	PostgresDSN  string
	ReviewsTable string

	KafkaBrokers  []string
	EventBusTopic string
	KafkaGroupID  string

	TemporalAddress   string
	TemporalNamespace string
	TemporalTaskQueue string
	WorkflowIDPrefix  string

	SentimentEndpoint   string
	SentimentAPIKey     string
	SentimentTimeoutSec int

	MailerEndpoint   string
	MailerAPIKey     string
	MailerTimeoutSec int
	NotifySender     string
	NotifyRecipient  string

	MinioEndpoint      string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioUseSSL        bool
	EventArchiveBucket string

	MaxReviewBytes int
}

// Load reads the configuration from the environment and validates it once.
// Everything downstream receives this struct explicitly; there are no
// ambient globals.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:            getenv("HTTP_PORT", defaultHTTPPort),
		PostgresDSN:         os.Getenv("POSTGRES_DSN"),
		ReviewsTable:        getenv("REVIEWS_TABLE_NAME", "reviews"),
		KafkaBrokers:        splitList(os.Getenv("KAFKA_BROKERS")),
		EventBusTopic:       os.Getenv("REVIEWS_EVENT_BUS_NAME"),
		KafkaGroupID:        getenv("KAFKA_GROUP_ID", defaultKafkaGroupID),
		TemporalAddress:     getenv("TEMPORAL_ADDRESS", defaultTemporalAddress),
		TemporalNamespace:   getenv("TEMPORAL_NAMESPACE", defaultTemporalNS),
		TemporalTaskQueue:   getenv("TEMPORAL_TASK_QUEUE", defaultTaskQueue),
		WorkflowIDPrefix:    getenv("WORKFLOW_ID_PREFIX", "review-run"),
		SentimentEndpoint:   os.Getenv("SENTIMENT_ENDPOINT"),
		SentimentAPIKey:     os.Getenv("SENTIMENT_API_KEY"),
		SentimentTimeoutSec: getenvInt("SENTIMENT_TIMEOUT_SEC", defaultSentimentTimeout),
		MailerEndpoint:      os.Getenv("MAILER_ENDPOINT"),
		MailerAPIKey:        os.Getenv("MAILER_API_KEY"),
		MailerTimeoutSec:    getenvInt("MAILER_TIMEOUT_SEC", defaultMailerTimeout),
		NotifySender:        os.Getenv("SENDER"),
		NotifyRecipient:     os.Getenv("RECIPIENT"),
		MinioEndpoint:       getenv("MINIO_ENDPOINT", defaultMinioEndpoint),
		MinioAccessKey:      os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:      os.Getenv("MINIO_SECRET_KEY"),
		MinioUseSSL:         getenvBool("MINIO_USE_SSL", false),
		EventArchiveBucket:  getenv("EVENT_ARCHIVE_BUCKET", defaultEventArchiveBucket),
		MaxReviewBytes:      getenvInt("MAX_REVIEW_BYTES", 0),
	}

	if cfg.PostgresDSN == "" {
		return Config{}, fmt.Errorf("POSTGRES_DSN is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return Config{}, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.EventBusTopic == "" {
		return Config{}, fmt.Errorf("REVIEWS_EVENT_BUS_NAME is required")
	}
	if cfg.ReviewsTable == "" {
		return Config{}, fmt.Errorf("REVIEWS_TABLE_NAME must not be empty")
	}
	if cfg.NotifySender == "" {
		return Config{}, fmt.Errorf("SENDER is required")
	}
	if cfg.NotifyRecipient == "" {
		return Config{}, fmt.Errorf("RECIPIENT is required")
	}

	return cfg, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getenv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
