// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so manifests can be read straight from a bucket
// (s3://bucket/key locations) and comparison reports can be published back to one.
// The abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: Ensure a publish target exists.
//   - StatObject: Verify an input manifest exists before a run starts.
//   - GetObject: Stream a manifest.
//   - PutObject: Upload a report file.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	bucket, key, err := storage.ParseURI("s3://lists/root_filelist.dat")
//	rc, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
package storage
