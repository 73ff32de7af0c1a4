package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imageblog/internal/models"
	"imageblog/internal/storage"
)

const testImageURL = "https://bucket1.storage.example/uploads/a.jpg"

var testObjectRef = storage.ObjectRef{Bucket: "bucket1", Key: "uploads/a.jpg"}

func newCreatePostFixture() (*CreatePostHandler, *fakeStore, *fakeStorage, *fakeGate, *fakeAlerts, *fakeReporter) {
	store := &fakeStore{}
	imageStorage := &fakeStorage{}
	gate := &fakeGate{verdicts: map[string]models.ModerationVerdict{}}
	alerts := &fakeAlerts{}
	reporter := &fakeReporter{}

	h := NewCreatePostHandler(store, imageStorage, gate, alerts, reporter)
	h.NewID = func() string { return "post-id-1" }
	h.Now = func() time.Time { return time.Unix(1700000000, 0) }
	return h, store, imageStorage, gate, alerts, reporter
}

func submission(title, content, imageURL string) json.RawMessage {
	raw, _ := json.Marshal(models.CreatePostRequest{Title: title, Content: content, ImageURL: imageURL})
	return raw
}

func TestCreatePost_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		event json.RawMessage
	}{
		{"no title", submission("", "World", testImageURL)},
		{"no content", submission("Hi", "", testImageURL)},
		{"no imageUrl", submission("Hi", "World", "")},
		{"empty body", json.RawMessage(`{}`)},
		{"not json", json.RawMessage(`"what"`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store, _, gate, _, _ := newCreatePostFixture()

			resp, err := h.Handle(context.Background(), tt.event)
			require.NoError(t, err)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, resp.Body, "Missing required fields")
			// validation failure must short-circuit before any external call
			assert.Empty(t, gate.checked)
			assert.Empty(t, store.posts)
		})
	}
}

func TestCreatePost_ClearVerdictPersists(t *testing.T) {
	h, store, imageStorage, gate, alerts, _ := newCreatePostFixture()

	resp, err := h.Handle(context.Background(), submission("Hi", "World", testImageURL))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.CreatePostResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "post-id-1", body.PostID)
	assert.Equal(t, "Post created successfully!", body.Message)

	require.Len(t, store.posts, 1)
	post := store.posts[0]
	assert.Equal(t, "post-id-1", post.PostID)
	assert.Equal(t, "Hi", post.Title)
	assert.Equal(t, "World", post.Content)
	assert.Equal(t, testImageURL, post.ImageURL)
	assert.Equal(t, int64(1700000000), post.CreatedAt)

	assert.Equal(t, []storage.ObjectRef{testObjectRef}, gate.checked)
	// a submission carries no content identity, so the check is uncached
	assert.Equal(t, []string{""}, gate.etags)
	assert.Empty(t, alerts.subjects)
	assert.Empty(t, imageStorage.deleted)
}

func TestCreatePost_APIGatewayBodyShape(t *testing.T) {
	h, store, _, _, _, _ := newCreatePostFixture()

	inner := string(submission("Hi", "World", testImageURL))
	event, _ := json.Marshal(map[string]string{"body": inner})

	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, store.posts, 1)
	assert.Equal(t, "Hi", store.posts[0].Title)
}

func TestCreatePost_FlaggedRejects(t *testing.T) {
	h, store, imageStorage, gate, alerts, _ := newCreatePostFixture()
	gate.verdicts[testObjectRef.String()] = models.ModerationVerdict{
		Flagged: true,
		Labels:  []string{"Explicit Nudity", "Violence"},
	}

	resp, err := h.Handle(context.Background(), submission("Hi", "World", testImageURL))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Contains(t, body.Error, "Explicit Nudity, Violence")
	assert.Contains(t, body.Error, "The post was rejected.")
	assert.Equal(t, "Do not upload inappropriate content!", body.Warning)

	// alert names the labels and the image, the object is purged, nothing
	// is persisted
	require.Len(t, alerts.subjects, 1)
	assert.Equal(t, "Image Moderation Alert", alerts.subjects[0])
	assert.Contains(t, alerts.messages[0], "Explicit Nudity, Violence")
	assert.Contains(t, alerts.messages[0], testImageURL)
	assert.Equal(t, []storage.ObjectRef{testObjectRef}, imageStorage.deleted)
	assert.Empty(t, store.posts)
}

func TestCreatePost_AlertFailureStillPurgesAndRejects(t *testing.T) {
	h, store, imageStorage, gate, alerts, _ := newCreatePostFixture()
	gate.verdicts[testObjectRef.String()] = models.ModerationVerdict{Flagged: true, Labels: []string{"Violence"}}
	alerts.err = assert.AnError

	resp, err := h.Handle(context.Background(), submission("Hi", "World", testImageURL))
	require.NoError(t, err)

	// a broker failure changes nothing outwardly: the image is still
	// deleted and the caller still gets the rejection
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Body, "The post was rejected.")
	assert.Equal(t, []storage.ObjectRef{testObjectRef}, imageStorage.deleted)
	assert.Empty(t, store.posts)
}

func TestCreatePost_DeleteFailureStillRejects(t *testing.T) {
	h, store, imageStorage, gate, alerts, _ := newCreatePostFixture()
	gate.verdicts[testObjectRef.String()] = models.ModerationVerdict{Flagged: true, Labels: []string{"Violence"}}
	imageStorage.deleteErr = assert.AnError

	resp, err := h.Handle(context.Background(), submission("Hi", "World", testImageURL))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Len(t, alerts.subjects, 1)
	assert.Empty(t, store.posts)
}

func TestCreatePost_ModerationError(t *testing.T) {
	h, store, _, gate, alerts, _ := newCreatePostFixture()
	gate.err = assert.AnError

	resp, err := h.Handle(context.Background(), submission("Hi", "World", testImageURL))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, resp.Body, "Image moderation failed")
	assert.Empty(t, store.posts)
	assert.Empty(t, alerts.subjects)
}

func TestCreatePost_StoreError(t *testing.T) {
	h, _, imageStorage, _, _, _ := newCreatePostFixture()
	h.Store = &fakeStore{putErr: assert.AnError}

	resp, err := h.Handle(context.Background(), submission("Hi", "World", testImageURL))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	// image passed moderation and stays in storage, no compensation
	assert.Empty(t, imageStorage.deleted)
}

func TestCreatePost_InvalidImageURL(t *testing.T) {
	h, _, _, gate, _, _ := newCreatePostFixture()

	resp, err := h.Handle(context.Background(), submission("Hi", "World", "https://host-only.example"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Body, "Invalid imageUrl")
	assert.Empty(t, gate.checked)
}

func TestCreatePost_ReportsPipelineCompletion(t *testing.T) {
	h, _, _, _, _, reporter := newCreatePostFixture()

	event := json.RawMessage(`{"CodePipeline.job":{"id":"job-42"},"title":"Hi","content":"World","imageUrl":"` + testImageURL + `"}`)
	_, err := h.Handle(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, []string{"job-42"}, reporter.jobIDs)
}

func TestCreatePost_ReportsCompletionOnValidationError(t *testing.T) {
	h, _, _, _, _, reporter := newCreatePostFixture()

	event := json.RawMessage(`{"CodePipeline.job":{"id":"job-42"}}`)
	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"job-42"}, reporter.jobIDs)
}
