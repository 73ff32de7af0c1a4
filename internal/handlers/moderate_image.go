package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"imageblog/internal/models"
	"imageblog/internal/storage"
)

// ModerateImageHandler enforces the moderation policy on objects that
// reach the bucket without going through post submission. It has no user
// to answer to, so flagged images are purged and alerted on, and every
// per-record failure is logged rather than surfaced: enforcement is
// best-effort across the batch.
type ModerateImageHandler struct {
	Storage  ImageStorage
	Gate     ModerationGate
	Alerts   AlertPublisher
	Pipeline PipelineReporter
}

func NewModerateImageHandler(imageStorage ImageStorage, gate ModerationGate, alerts AlertPublisher, reporter PipelineReporter) *ModerateImageHandler {
	return &ModerateImageHandler{
		Storage:  imageStorage,
		Gate:     gate,
		Alerts:   alerts,
		Pipeline: reporter,
	}
}

func (h *ModerateImageHandler) Handle(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error) {
	// Completion goes out exactly once per invocation, malformed events
	// included.
	defer reportCompletion(ctx, h.Pipeline, event)

	var notification struct {
		Records []events.S3EventRecord `json:"Records"`
	}
	if err := json.Unmarshal(event, &notification); err != nil || notification.Records == nil {
		slog.Error("[ModerateImage] Event is missing Records, nothing to process")
		return jsonResponse(http.StatusBadRequest, models.ErrorResponse{Error: "Malformed event: missing Records"}, false), nil
	}

	for _, record := range notification.Records {
		if err := h.processRecord(ctx, record); err != nil {
			slog.Error("[ModerateImage] Failed to process record",
				slog.String("error", err.Error()))
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Body:       "Moderation process completed",
	}, nil
}

func (h *ModerateImageHandler) processRecord(ctx context.Context, record events.S3EventRecord) error {
	ref := storage.ObjectRef{
		Bucket: record.S3.Bucket.Name,
		Key:    record.S3.Object.Key,
	}
	if ref.Bucket == "" || ref.Key == "" {
		return fmt.Errorf("record is missing bucket name or object key")
	}

	slog.Info("[ModerateImage] Processing image", slog.String("object", ref.String()))

	verdict, err := h.Gate.Check(ctx, ref, record.S3.Object.ETag)
	if err != nil {
		return err
	}
	if !verdict.Flagged {
		return nil
	}

	labels := strings.Join(verdict.Labels, ", ")
	slog.Info("[ModerateImage] Image flagged",
		slog.String("object", ref.String()),
		slog.String("labels", labels))

	message := fmt.Sprintf("Warning: Manually uploaded image flagged for %s.\nImage: %s", labels, ref)
	if err := h.Alerts.PublishAlert(ctx, "Manual Upload Image Moderation Alert", message); err != nil {
		slog.Error("[ModerateImage] Failed to publish moderation alert",
			slog.String("error", err.Error()))
	}

	if err := h.Storage.DeleteObject(ctx, ref); err != nil {
		return err
	}

	slog.Info("[ModerateImage] Deleted flagged image", slog.String("object", ref.String()))
	return nil
}
