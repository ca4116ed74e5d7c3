package report

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"filelist-diff/core/fault"
	"filelist-diff/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Publisher uploads output files to object storage.
type Publisher struct {
	client storage.Client
	logger *zap.Logger
}

// NewPublisher creates a Publisher. A nil logger disables logging.
func NewPublisher(client storage.Client, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{client: client, logger: logger}
}

// Publish uploads the four files of p under target (s3://bucket/prefix),
// creating the bucket if needed, and returns the object URIs.
func (pub *Publisher) Publish(ctx context.Context, target string, p Paths) ([]string, error) {
	bucket, prefix, err := storage.ParseURI(target)
	if err != nil {
		return nil, fault.NewArgument("publish", target, fmt.Errorf("%w: %w", fault.ErrInvalidArgument, err))
	}

	// Ensure the bucket exists
	exists, err := pub.client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fault.NewResource("publish", target, err)
	}
	if !exists {
		pub.logger.Info("Creating bucket", zap.String("bucket", bucket))
		if err := pub.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fault.NewResource("publish", target, fmt.Errorf("%w: %w", fault.ErrCreate, err))
		}
	}

	// Upload each file under the prefix, keeping its local name
	uris := make([]string, 0, 4)
	for _, local := range p.All() {
		key := path.Join(strings.Trim(prefix, "/"), filepath.Base(local))
		if err := pub.upload(ctx, bucket, key, local); err != nil {
			return uris, err
		}
		uri := storage.Scheme + bucket + "/" + key
		pub.logger.Debug("Published report file", zap.String("uri", uri))
		uris = append(uris, uri)
	}
	return uris, nil
}

func (pub *Publisher) upload(ctx context.Context, bucket, key, local string) error {
	f, err := os.Open(local)
	if err != nil {
		return fault.NewResource("publish", local, fmt.Errorf("%w: %w", fault.ErrOpen, err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fault.NewResource("publish", local, err)
	}

	_, err = pub.client.PutObject(ctx, bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return fault.NewResource("publish", storage.Scheme+bucket+"/"+key, err)
	}
	return nil
}
