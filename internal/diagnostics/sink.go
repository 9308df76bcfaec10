package diagnostics

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"reposter/internal/config"
	"reposter/internal/fileutil"
	"reposter/internal/preflight"
	"reposter/internal/services"
)

// Sink stores one named artifact and returns where it ended up.
type Sink interface {
	Write(ctx context.Context, name string, data []byte) (string, error)
}

// DirSink writes artifacts below a local root directory.
type DirSink struct {
	root    string
	checked sync.Once
	err     error
}

func NewDirSink(root string) *DirSink {
	return &DirSink{root: root}
}

func (d *DirSink) Write(_ context.Context, name string, data []byte) (string, error) {
	d.checked.Do(func() {
		if err := fileutil.EnsureDir(d.root); err != nil {
			d.err = err
			return
		}
		if result := preflight.CheckDirectoryAccess("Diagnostics directory", d.root); !result.Passed {
			d.err = services.Wrap(services.ErrConfiguration, "diagnostics", "preflight", result.Detail, nil)
		}
	})
	if d.err != nil {
		return "", d.err
	}

	target := filepath.Join(d.root, filepath.FromSlash(name))
	if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write diagnostic %s: %w", target, err)
	}
	return target, nil
}

// MinIOSink uploads artifacts to an S3-compatible bucket.
type MinIOSink struct {
	mc     *minio.Client
	bucket string
}

// NewMinIOSink connects to the configured endpoint and creates the bucket
// when it does not exist.
func NewMinIOSink(ctx context.Context, cfg config.Diagnostics) (*MinIOSink, error) {
	if strings.TrimSpace(cfg.MinIOEndpoint) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "diagnostics", "minio", "minio_endpoint is empty", nil)
	}
	mc, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	sink := &MinIOSink{mc: mc, bucket: cfg.MinIOBucket}
	if err := sink.EnsureBucket(ctx); err != nil {
		return nil, services.Wrap(services.ErrExternal, "diagnostics", "minio", cfg.MinIOEndpoint, err)
	}
	return sink, nil
}

func (m *MinIOSink) EnsureBucket(ctx context.Context) error {
	exists, err := m.mc.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := m.mc.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	return nil
}

func (m *MinIOSink) Write(ctx context.Context, name string, data []byte) (string, error) {
	_, err := m.mc.PutObject(ctx, m.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("upload diagnostic %s: %w", name, err)
	}
	return objectURL(m.bucket, name), nil
}

func objectURL(bucket, name string) string {
	return "s3://" + path.Join(bucket, name)
}
