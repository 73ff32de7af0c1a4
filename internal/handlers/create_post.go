package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"imageblog/internal/models"
	"imageblog/internal/storage"
)

// CreatePostHandler accepts a post submission, gates it on image
// moderation, and persists it only on a clear verdict. A flagged image is
// alerted on and purged before the caller hears about the rejection.
type CreatePostHandler struct {
	Store    PostStore
	Storage  ImageStorage
	Gate     ModerationGate
	Alerts   AlertPublisher
	Pipeline PipelineReporter

	NewID func() string
	Now   func() time.Time
}

func NewCreatePostHandler(store PostStore, imageStorage ImageStorage, gate ModerationGate, alerts AlertPublisher, reporter PipelineReporter) *CreatePostHandler {
	return &CreatePostHandler{
		Store:    store,
		Storage:  imageStorage,
		Gate:     gate,
		Alerts:   alerts,
		Pipeline: reporter,
		NewID:    uuid.NewString,
		Now:      time.Now,
	}
}

// Handle takes the raw event so it can serve both API Gateway proxy
// invocations (submission inside the body string) and direct invocations
// (the event is the submission), and still spot a CodePipeline job wrapper.
func (h *CreatePostHandler) Handle(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error) {
	defer reportCompletion(ctx, h.Pipeline, event)

	req, err := parseSubmission(event)
	if err != nil {
		slog.Warn("[CreatePost] Unparseable submission", slog.String("error", err.Error()))
		return jsonResponse(http.StatusBadRequest, models.ErrorResponse{Error: "Missing required fields"}, false), nil
	}
	if req.Title == "" || req.Content == "" || req.ImageURL == "" {
		return jsonResponse(http.StatusBadRequest, models.ErrorResponse{Error: "Missing required fields"}, false), nil
	}

	ref, err := storage.ParseImageURL(req.ImageURL)
	if err != nil {
		slog.Warn("[CreatePost] Rejecting undecomposable image URL",
			slog.String("image_url", req.ImageURL),
			slog.String("error", err.Error()))
		return jsonResponse(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid imageUrl"}, false), nil
	}

	// the submission only references the object by URL, so its content
	// identity is unknown here and the check runs uncached
	verdict, err := h.Gate.Check(ctx, ref, "")
	if err != nil {
		slog.Error("[CreatePost] Moderation check failed",
			slog.String("object", ref.String()),
			slog.String("error", err.Error()))
		return jsonResponse(http.StatusInternalServerError, models.ErrorResponse{Error: "Image moderation failed"}, false), nil
	}

	if verdict.Flagged {
		return h.rejectFlagged(ctx, req, ref, verdict), nil
	}

	post := models.Post{
		PostID:    h.NewID(),
		Title:     req.Title,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		CreatedAt: h.Now().Unix(),
	}
	if err := h.Store.PutPost(ctx, post); err != nil {
		slog.Error("[CreatePost] Failed to persist post", slog.String("error", err.Error()))
		return jsonResponse(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()}, false), nil
	}

	return jsonResponse(http.StatusOK, models.CreatePostResponse{
		Message: "Post created successfully!",
		PostID:  post.PostID,
	}, false), nil
}

// rejectFlagged alerts, purges, and builds the rejection. The alert goes
// out first; a failed delete is logged and swallowed since the caller is
// getting rejected either way.
func (h *CreatePostHandler) rejectFlagged(ctx context.Context, req models.CreatePostRequest, ref storage.ObjectRef, verdict models.ModerationVerdict) events.APIGatewayProxyResponse {
	labels := strings.Join(verdict.Labels, ", ")
	slog.Info("[CreatePost] Image flagged",
		slog.String("object", ref.String()),
		slog.String("labels", labels))

	message := fmt.Sprintf("Warning: Image flagged for %s.\nImage URL: %s", labels, req.ImageURL)
	if err := h.Alerts.PublishAlert(ctx, "Image Moderation Alert", message); err != nil {
		slog.Error("[CreatePost] Failed to publish moderation alert", slog.String("error", err.Error()))
	}

	if err := h.Storage.DeleteObject(ctx, ref); err != nil {
		slog.Error("[CreatePost] Failed to delete flagged image",
			slog.String("object", ref.String()),
			slog.String("error", err.Error()))
	} else {
		slog.Info("[CreatePost] Flagged image deleted", slog.String("object", ref.String()))
	}

	return jsonResponse(http.StatusBadRequest, models.ErrorResponse{
		Error:   fmt.Sprintf("Your image was flagged for %s. The post was rejected.", labels),
		Warning: "Do not upload inappropriate content!",
	}, false)
}

func parseSubmission(event json.RawMessage) (models.CreatePostRequest, error) {
	var envelope struct {
		Body *string `json:"body"`
	}
	var req models.CreatePostRequest

	if err := json.Unmarshal(event, &envelope); err == nil && envelope.Body != nil {
		if err := json.Unmarshal([]byte(*envelope.Body), &req); err != nil {
			return models.CreatePostRequest{}, fmt.Errorf("invalid request body: %w", err)
		}
		return req, nil
	}

	if err := json.Unmarshal(event, &req); err != nil {
		return models.CreatePostRequest{}, fmt.Errorf("invalid request: %w", err)
	}
	return req, nil
}
