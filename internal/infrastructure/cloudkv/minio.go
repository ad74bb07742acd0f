package cloudkv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/lasto/internal/domain/entities"
	"github.com/johnquangdev/lasto/internal/usecase/cloudsync"
	"github.com/johnquangdev/lasto/pkg/config"
)

// MinIOStore keeps the backup document as one JSON object per user
type MinIOStore struct {
	client *minio.Client
	bucket string
	basket string
	ids    IDSource
}

var _ cloudsync.Backend = (*MinIOStore)(nil)

// NewMinIOStore creates a MinIO backend and makes sure the bucket exists
func NewMinIOStore(cfg *config.StorageConfig, basket string, ids IDSource) (*MinIOStore, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	store := &MinIOStore{
		client: minioClient,
		bucket: cfg.BucketName,
		basket: basket,
		ids:    ids,
	}
	if err := store.ensureBucket(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}
	return store, nil
}

// ensureBucket creates the backup bucket if it does not exist. Backups are
// private, so no bucket policy is set.
func (m *MinIOStore) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Name implements cloudsync.Backend
func (m *MinIOStore) Name() string {
	return "minio"
}

func (m *MinIOStore) objectName(ctx context.Context) (string, error) {
	ns, err := namespace(ctx, m.ids)
	if err != nil {
		return "", err
	}
	return path.Join(ns, m.basket+".json"), nil
}

// Load downloads and decodes the backup object
func (m *MinIOStore) Load(ctx context.Context) (cloudsync.Document, error) {
	name, err := m.objectName(ctx)
	if err != nil {
		return nil, err
	}
	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, m.mapError(name, err)
	}
	defer obj.Close()

	var doc cloudsync.Document
	if err := json.NewDecoder(obj).Decode(&doc); err != nil {
		// GetObject is lazy; a missing key surfaces on first read
		return nil, m.mapError(name, err)
	}
	return doc, nil
}

// Store uploads doc, replacing the previous backup
func (m *MinIOStore) Store(ctx context.Context, doc cloudsync.Document) error {
	name, err := m.objectName(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	_, err = m.client.PutObject(ctx, m.bucket, name, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload backup: %w", err)
	}
	return nil
}

func (m *MinIOStore) mapError(name string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return entities.ErrRemoteEmpty
	case "SlowDown":
		return entities.ErrRateLimited
	}
	return fmt.Errorf("failed to read %s: %w", name, err)
}
