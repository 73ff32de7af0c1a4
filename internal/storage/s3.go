package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	// UploadPrefix namespaces every client upload inside the bucket.
	UploadPrefix = "uploads/"

	uploadContentType = "image/jpeg"
	presignExpiry     = 3600 * time.Second
)

type PresignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type S3API interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// ImageStorage issues presigned upload URLs for the configured bucket and
// deletes objects from whichever bucket a reference points at.
type ImageStorage struct {
	client    S3API
	presigner PresignAPI
	bucket    string
}

func NewImageStorage(client *s3.Client, bucket string) *ImageStorage {
	return &ImageStorage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
	}
}

// PresignUpload returns a one-hour presigned PUT URL scoped to
// uploads/<fileName> with a fixed image/jpeg content type. An empty
// fileName gets a timestamp-based name, matching what browsers that skip
// the fileName parameter end up with.
func (s *ImageStorage) PresignUpload(ctx context.Context, fileName string) (string, error) {
	if fileName == "" {
		fileName = fmt.Sprintf("image_%d.jpg", time.Now().Unix())
	}

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(UploadPrefix + fileName),
		ContentType: aws.String(uploadContentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("[Storage] failed to presign upload for %q: %w", fileName, err)
	}

	return req.URL, nil
}

func (s *ImageStorage) DeleteObject(ctx context.Context, ref ObjectRef) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	})
	if err != nil {
		return fmt.Errorf("[Storage] failed to delete %s: %w", ref, err)
	}
	return nil
}
