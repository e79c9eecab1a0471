package storage

import (
	"context"
	"fmt"
	"strings"

	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/usecase/interfaces"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioEvidenceStore counts job photos uploaded by the apps. Objects are laid
// out as jobs/<job_id>/<category>/<actor_id>/<file>.
type MinioEvidenceStore struct {
	client *minio.Client
	bucket string
}

var _ interfaces.IEvidenceStore = (*MinioEvidenceStore)(nil)

func NewMinioEvidenceStore(cfg MinioConfig) (*MinioEvidenceStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioEvidenceStore{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *MinioEvidenceStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

func (s *MinioEvidenceStore) CountEvidence(ctx context.Context, jobID string, category entities.EvidenceCategory, actorID string) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	n := 0
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    EvidencePrefix(jobID, category, actorID),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return 0, fmt.Errorf("failed to list evidence: %w", obj.Err)
		}
		if obj.Size > 0 && !strings.HasSuffix(obj.Key, "/") {
			n++
		}
	}
	return n, nil
}

func EvidencePrefix(jobID string, category entities.EvidenceCategory, actorID string) string {
	return fmt.Sprintf("jobs/%s/%s/%s/", jobID, category, actorID)
}
