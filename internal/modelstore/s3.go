package modelstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds connection settings for an S3-compatible bucket. Google
// Cloud Storage is reachable through its interoperability endpoint.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Object    string
}

// S3Fetcher reads an artifact from an S3-compatible object store.
type S3Fetcher struct {
	client *minio.Client
	bucket string
	object string
}

// NewS3Fetcher creates a minio client for cfg. Empty credentials mean
// anonymous access to a public bucket.
func NewS3Fetcher(cfg S3Config) (*S3Fetcher, error) {
	var creds *credentials.Credentials
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		creds = credentials.NewStatic("", "", "", credentials.SignatureAnonymous)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	return &S3Fetcher{client: client, bucket: cfg.Bucket, object: cfg.Object}, nil
}

func (f *S3Fetcher) Location() string {
	return fmt.Sprintf("s3://%s/%s", f.bucket, f.object)
}

func (f *S3Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	obj, err := f.client.GetObject(ctx, f.bucket, f.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, classifyError(err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, obj); err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.StatusCode != 0 {
			return nil, fmt.Errorf("%w: %s (status %d)", ErrFetchStatus, resp.Code, resp.StatusCode)
		}
		return nil, classifyError(err)
	}
	if buf.Len() == 0 {
		return nil, ErrArtifactEmpty
	}

	return buf.Bytes(), nil
}

var _ Fetcher = (*S3Fetcher)(nil)
