package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"imageblog/internal/models"
)

// ListPostsHandler returns every stored post as one JSON array.
type ListPostsHandler struct {
	Store PostStore
}

func NewListPostsHandler(store PostStore) *ListPostsHandler {
	return &ListPostsHandler{Store: store}
}

func (h *ListPostsHandler) Handle(ctx context.Context) (events.APIGatewayProxyResponse, error) {
	posts, err := h.Store.ListPosts(ctx)
	if err != nil {
		slog.Error("[GetPosts] Failed to list posts", slog.String("error", err.Error()))
		return jsonResponse(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()}, true), nil
	}

	if posts == nil {
		posts = []models.Post{}
	}
	return jsonResponse(http.StatusOK, posts, true), nil
}
