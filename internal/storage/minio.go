package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrEventNotFound reports a run id with no archived event, either because
// the run predates the archive or the archive write was lost.
var ErrEventNotFound = errors.New("archived event not found")

// EventArchive keeps a copy of every consumed domain event in object
// storage, keyed by run id. It backs replay and the out-of-band
// reconciliation of partial failures.
type EventArchive struct {
	client *minio.Client
	bucket string
}

func NewEventArchive(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (*EventArchive, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &EventArchive{client: client, bucket: bucket}, nil
}

func (a *EventArchive) PutEvent(ctx context.Context, runID string, payload []byte) (string, error) {
	objectKey := path.Join("events", runID+".json")
	_, err := a.client.PutObject(ctx, a.bucket, objectKey, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

func (a *EventArchive) GetEvent(ctx context.Context, runID string) ([]byte, error) {
	objectKey := path.Join("events", runID+".json")
	obj, err := a.client.GetObject(ctx, a.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data := new(bytes.Buffer)
	if _, err := data.ReadFrom(obj); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("read archived event: %w", err)
	}
	return data.Bytes(), nil
}
