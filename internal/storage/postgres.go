package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"reviews-sentiment-orchestrator/internal/domain"
)

type PostgresStore struct {
	db           *sql.DB
	reviewsTable string
}

// NewPostgresStore opens the connection pool. reviewsTable is the configured
// table name for review records; it is quoted as an identifier in every
// statement.
func NewPostgresStore(dsn string, reviewsTable string) (*PostgresStore, error) {
	if reviewsTable == "" {
		return nil, fmt.Errorf("reviews table name must not be empty")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{db: db, reviewsTable: pq.QuoteIdentifier(reviewsTable)}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// InsertReview writes one record keyed by review id. Ids are fresh per run,
// so the conflict arm is unreachable in normal operation; when a key is
// reused the semantics are last-writer-wins.
func (s *PostgresStore) InsertReview(ctx context.Context, rec domain.ReviewRecord) error {
	if rec.ReviewID == "" || rec.CustomerMessage == "" || rec.Sentiment == "" {
		return fmt.Errorf("review record requires review_id, customer_message and sentiment")
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (review_id, customer_message, sentiment)
		VALUES ($1, $2, $3)
		ON CONFLICT (review_id) DO UPDATE SET
			customer_message = EXCLUDED.customer_message,
			sentiment = EXCLUDED.sentiment
	`, s.reviewsTable), rec.ReviewID, rec.CustomerMessage, rec.Sentiment)
	return err
}

// GetReview performs the point read. Missing ids surface as sql.ErrNoRows.
func (s *PostgresStore) GetReview(ctx context.Context, reviewID string) (domain.ReviewRecord, error) {
	var rec domain.ReviewRecord
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT review_id, customer_message, sentiment
		FROM %s
		WHERE review_id = $1
	`, s.reviewsTable), reviewID)
	if err := row.Scan(&rec.ReviewID, &rec.CustomerMessage, &rec.Sentiment); err != nil {
		return domain.ReviewRecord{}, err
	}
	return rec, nil
}

// ListReviewsBySentiment scans the sentiment index. The result set carries
// no defined order.
func (s *PostgresStore) ListReviewsBySentiment(ctx context.Context, label domain.SentimentLabel) ([]domain.ReviewRecord, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT review_id, customer_message, sentiment
		FROM %s
		WHERE sentiment = $1
	`, s.reviewsTable), label)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.ReviewRecord, 0)
	for rows.Next() {
		var rec domain.ReviewRecord
		if err := rows.Scan(&rec.ReviewID, &rec.CustomerMessage, &rec.Sentiment); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workflow_runs (run_id, status)
		VALUES ($1, $2)
		ON CONFLICT (run_id) DO NOTHING
	`, runID, domain.RunReceived)
	return err
}

func (s *PostgresStore) UpdateRunStatus(ctx context.Context, runID string, status domain.RunStatus) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE workflow_runs
		SET status = $2, updated_at = NOW()
		WHERE run_id = $1
	`, runID, status)
	return err
}

func (s *PostgresStore) SetRunClassification(ctx context.Context, runID string, label domain.SentimentLabel) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE workflow_runs
		SET sentiment = $2, status = $3, updated_at = NOW()
		WHERE run_id = $1
	`, runID, label, domain.RunClassified)
	return err
}

func (s *PostgresStore) SetRunReviewID(ctx context.Context, runID string, reviewID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE workflow_runs
		SET review_id = $2, status = $3, updated_at = NOW()
		WHERE run_id = $1
	`, runID, reviewID, domain.RunIdentified)
	return err
}

// MarkRunPartialFailure records the saved-but-not-notified state with its
// cause, so it is never conflated with a full failure.
func (s *PostgresStore) MarkRunPartialFailure(ctx context.Context, runID string, reason string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE workflow_runs
		SET status = $2, failure_reason = $3, updated_at = NOW()
		WHERE run_id = $1
	`, runID, domain.RunPartialFailure, reason)
	return err
}

// MarkRunFailed records a run aborted before the notification branch, with
// the stage error that stopped it.
func (s *PostgresStore) MarkRunFailed(ctx context.Context, runID string, reason string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE workflow_runs
		SET status = $2, failure_reason = $3, updated_at = NOW()
		WHERE run_id = $1
	`, runID, domain.RunFailed, reason)
	return err
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (domain.RunRecord, error) {
	var rec domain.RunRecord
	var reviewID sql.NullString
	var label sql.NullString
	var reason sql.NullString
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, review_id, sentiment, status, failure_reason
		FROM workflow_runs
		WHERE run_id = $1
	`, runID)
	if err := row.Scan(&rec.RunID, &reviewID, &label, &rec.Status, &reason); err != nil {
		return domain.RunRecord{}, err
	}
	rec.ReviewID = reviewID.String
	rec.Sentiment = domain.SentimentLabel(label.String)
	rec.FailureReason = reason.String
	return rec, nil
}

// ListPartialFailures feeds the operator endpoint used for out-of-band
// reconciliation of lost notifications.
func (s *PostgresStore) ListPartialFailures(ctx context.Context) ([]domain.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, review_id, sentiment, status, failure_reason
		FROM workflow_runs
		WHERE status = $1
		ORDER BY updated_at ASC
	`, domain.RunPartialFailure)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.RunRecord, 0)
	for rows.Next() {
		var rec domain.RunRecord
		var reviewID sql.NullString
		var label sql.NullString
		var reason sql.NullString
		if err := rows.Scan(&rec.RunID, &reviewID, &label, &rec.Status, &reason); err != nil {
			return nil, err
		}
		rec.ReviewID = reviewID.String
		rec.Sentiment = domain.SentimentLabel(label.String)
		rec.FailureReason = reason.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
