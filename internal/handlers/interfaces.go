package handlers

import (
	"context"

	"imageblog/internal/models"
	"imageblog/internal/storage"
)

// PostStore defines the persistence operations the handlers need.
type PostStore interface {
	PutPost(ctx context.Context, post models.Post) error
	ListPosts(ctx context.Context) ([]models.Post, error)
}

// ImageStorage defines object-storage operations.
type ImageStorage interface {
	PresignUpload(ctx context.Context, fileName string) (string, error)
	DeleteObject(ctx context.Context, ref storage.ObjectRef) error
}

// ModerationGate decides whether an image passes moderation. etag is the
// content identity when the caller knows it (S3 events carry one), ""
// otherwise.
type ModerationGate interface {
	Check(ctx context.Context, ref storage.ObjectRef, etag string) (models.ModerationVerdict, error)
}

// AlertPublisher sends operator alerts for flagged images.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, subject, message string) error
}

// PipelineReporter signals job completion to an enclosing pipeline stage.
type PipelineReporter interface {
	ReportJobSuccess(ctx context.Context, jobID string) error
}
