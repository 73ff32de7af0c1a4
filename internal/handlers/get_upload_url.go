package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"imageblog/internal/models"
)

// UploadURLHandler issues a presigned upload URL so clients push image
// bytes straight to storage. Purely credential issuance, nothing is
// written here.
type UploadURLHandler struct {
	Storage  ImageStorage
	Pipeline PipelineReporter
}

func NewUploadURLHandler(imageStorage ImageStorage, reporter PipelineReporter) *UploadURLHandler {
	return &UploadURLHandler{Storage: imageStorage, Pipeline: reporter}
}

func (h *UploadURLHandler) Handle(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error) {
	var req struct {
		QueryStringParameters map[string]string `json:"queryStringParameters"`
	}
	if err := json.Unmarshal(event, &req); err != nil {
		slog.Warn("[GetUploadUrl] Ignoring unparseable event", slog.String("error", err.Error()))
	}

	uploadURL, err := h.Storage.PresignUpload(ctx, req.QueryStringParameters["fileName"])
	if err != nil {
		slog.Error("[GetUploadUrl] Failed to presign upload", slog.String("error", err.Error()))
		return jsonResponse(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()}, true), nil
	}

	reportCompletion(ctx, h.Pipeline, event)

	return jsonResponse(http.StatusOK, models.UploadURLResponse{UploadURL: uploadURL}, true), nil
}
