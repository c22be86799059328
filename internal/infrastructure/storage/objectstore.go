package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/velorie/ticketarchive/internal/domain/transcript"
	"github.com/velorie/ticketarchive/internal/shared/config"
	"github.com/velorie/ticketarchive/internal/shared/logger"
)

const recordContentType = "application/json; charset=utf-8"

// NewMinioClient connects to an S3-compatible endpoint.
func NewMinioClient(cfg config.ObjectStorageConfig) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("object storage endpoint is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}
	return client, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func EnsureBucket(ctx context.Context, client *minio.Client, cfg config.ObjectStorageConfig, log logger.Interface) error {
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if exists {
		log.Debugw("bucket already exists", "bucket", cfg.Bucket)
		return nil
	}
	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
	}
	log.Infow("bucket created", "bucket", cfg.Bucket)
	return nil
}

// ObjectStore keeps one JSON object per transcript in a bucket. A single
// PutObject replaces an object atomically for readers. ConflictReject is
// enforced with a per-identifier lock around the existence check, which only
// holds within one process.
type ObjectStore struct {
	client *minio.Client
	bucket string
	prefix string
	policy transcript.ConflictPolicy
	locks  *keyedMutex
	logger logger.Interface
}

func NewObjectStore(client *minio.Client, cfg config.ObjectStorageConfig, policy transcript.ConflictPolicy, logger logger.Interface) (*ObjectStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("object storage bucket is required")
	}
	if !policy.IsValid() {
		return nil, fmt.Errorf("unknown conflict policy %q", policy)
	}
	return &ObjectStore{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		policy: policy,
		locks:  newKeyedMutex(),
		logger: logger,
	}, nil
}

func (s *ObjectStore) key(transcriptID string) string {
	return s.prefix + transcriptID + recordExt
}

func (s *ObjectStore) Create(ctx context.Context, t *transcript.Transcript) error {
	if err := transcript.ValidateIdentifier(t.ID()); err != nil {
		return err
	}

	data, err := encodeRecord(t)
	if err != nil {
		return err
	}
	key := s.key(t.ID())

	if s.policy == transcript.ConflictReject {
		unlock := s.locks.Lock(t.ID())
		defer unlock()

		exists, err := s.exists(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", transcript.ErrTranscriptExists, t.ID())
		}
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: recordContentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}

	s.logger.Debugw("transcript object written", "transcript_id", t.ID(), "key", key, "etag", info.ETag, "bytes", info.Size)
	return nil
}

func (s *ObjectStore) exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNoSuchKey(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat object %s: %w", key, err)
}

func (s *ObjectStore) Fetch(ctx context.Context, transcriptID string) (*transcript.Transcript, error) {
	if err := transcript.ValidateIdentifier(transcriptID); err != nil {
		return nil, fmt.Errorf("%w: %v", transcript.ErrTranscriptNotFound, err)
	}
	key := s.key(transcriptID)

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.fetchError(transcriptID, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.fetchError(transcriptID, key, err)
	}

	return decodeRecord(transcriptID, data)
}

func (s *ObjectStore) fetchError(transcriptID, key string, err error) error {
	if isNoSuchKey(err) {
		return fmt.Errorf("%w: %s", transcript.ErrTranscriptNotFound, transcriptID)
	}
	return fmt.Errorf("failed to get object %s: %w", key, err)
}

func (s *ObjectStore) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("object storage unavailable: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || (resp.StatusCode == http.StatusNotFound && resp.Code != "NoSuchBucket")
}
