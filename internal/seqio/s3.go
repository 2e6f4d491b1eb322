package seqio

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Environment knobs for s3:// inputs. Credentials come from the usual
// AWS_* / MINIO_* variables or ~/.aws/credentials.
const (
	EnvS3Endpoint = "NOVOKMER_S3_ENDPOINT"
	EnvS3Insecure = "NOVOKMER_S3_INSECURE"
)

const defaultS3Endpoint = "s3.amazonaws.com"

var s3Client = sync.OnceValues(func() (*minio.Client, error) {
	endpoint := os.Getenv(EnvS3Endpoint)
	if endpoint == "" {
		endpoint = defaultS3Endpoint
	}
	creds := credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.EnvMinio{},
		&credentials.FileAWSCredentials{},
	})
	return minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: os.Getenv(EnvS3Insecure) != "1",
		Region: os.Getenv("AWS_REGION"),
	})
})

func openS3(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	cl, err := s3Client()
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	obj, err := cl.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("s3://%s/%s: %w", bucket, key, err)
	}
	// GetObject is lazy; Stat makes a missing object fail here rather
	// than on the first read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("s3://%s/%s: %w", bucket, key, err)
	}
	return obj, nil
}
