package media

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/imrishuroy/go-storefront-backend/internal/aws"
)

// DefaultUploadTimeout bounds a single object upload. Nothing upstream
// specifies a policy, so each PutObject gets its own deadline.
const DefaultUploadTimeout = 30 * time.Second

// Uploader pushes local temp files into the media bucket and hands back
// their public URLs.
type Uploader struct {
	client  aws.S3API
	bucket  string
	region  string
	timeout time.Duration
	keyFunc func(ext string) string
}

// NewUploader returns an Uploader bound to a bucket. timeout <= 0 selects
// DefaultUploadTimeout.
func NewUploader(client aws.S3API, bucket, region string, timeout time.Duration) *Uploader {
	if timeout <= 0 {
		timeout = DefaultUploadTimeout
	}
	return &Uploader{
		client:  client,
		bucket:  bucket,
		region:  region,
		timeout: timeout,
		keyFunc: func(ext string) string { return "products/" + uuid.NewString() + ext },
	}
}

// UploadFile uploads the file at localPath and returns its public URL.
// The local temp file is removed only after a successful upload; on the
// failure path it is deliberately left on disk (no compensation anywhere
// in this pipeline).
func (u *Uploader) UploadFile(ctx context.Context, localPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open temp file: %w", err)
	}
	defer f.Close()

	ext := filepath.Ext(localPath)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := u.keyFunc(ext)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &u.bucket,
		Key:         &key,
		Body:        f,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	if err := os.Remove(localPath); err != nil {
		log.WithError(err).WithField("path", localPath).Warn("failed to delete temp file")
	} else {
		log.WithField("path", localPath).Debug("temp file deleted")
	}

	return u.PublicURL(key), nil
}

// UploadAll uploads every path concurrently (no concurrency limit) and
// waits for all of them. Results are collected positionally, so the
// returned URLs preserve the input order regardless of completion order.
// The first error is returned; in-flight siblings are not cancelled, they
// run to completion and their results are discarded. Objects already
// uploaded when a sibling fails stay in the bucket with no record pointing
// at them.
func (u *Uploader) UploadAll(ctx context.Context, localPaths []string) ([]string, error) {
	urls := make([]string, len(localPaths))

	var g errgroup.Group
	for i, path := range localPaths {
		i, path := i, path
		g.Go(func() error {
			url, err := u.UploadFile(ctx, path)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// PublicURL builds the virtual-hosted-style URL for an object key.
func (u *Uploader) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}
