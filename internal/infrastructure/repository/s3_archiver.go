package repository

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Archiver copies raw uploaded blobs to an S3-compatible bucket.
// Archival is best-effort: the caller logs failures and never surfaces
// them to the client.
type S3Archiver struct {
	svc    *s3.S3
	bucket string
}

// S3ArchiverOptions configures the archive target
type S3ArchiverOptions struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

// NewS3Archiver creates an archiver against the configured bucket
func NewS3Archiver(opts S3ArchiverOptions) (*S3Archiver, error) {
	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(opts.Endpoint),
		Region:           aws.String(opts.Region),
		Credentials:      credentials.NewStaticCredentials(opts.AccessKey, opts.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return &S3Archiver{
		svc:    s3.New(sess),
		bucket: opts.Bucket,
	}, nil
}

// ArchiveBlob copies the file at path to the archive bucket under key
func (a *S3Archiver) ArchiveBlob(key, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open blob for archival: %w", err)
	}
	defer file.Close()

	_, err = a.svc.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("failed to archive blob %s: %w", key, err)
	}
	return nil
}
