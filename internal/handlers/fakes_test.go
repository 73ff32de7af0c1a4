package handlers

import (
	"context"

	"imageblog/internal/models"
	"imageblog/internal/storage"
)

type fakeStore struct {
	posts   []models.Post
	putErr  error
	listErr error
}

func (f *fakeStore) PutPost(ctx context.Context, post models.Post) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.posts = append(f.posts, post)
	return nil
}

func (f *fakeStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.posts, nil
}

type fakeStorage struct {
	presignedNames []string
	presignErr     error
	deleted        []storage.ObjectRef
	deleteErr      error
}

func (f *fakeStorage) PresignUpload(ctx context.Context, fileName string) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	f.presignedNames = append(f.presignedNames, fileName)
	if fileName == "" {
		fileName = "image_1700000000.jpg"
	}
	return "https://test-bucket.s3.amazonaws.com/uploads/" + fileName + "?signed", nil
}

func (f *fakeStorage) DeleteObject(ctx context.Context, ref storage.ObjectRef) error {
	f.deleted = append(f.deleted, ref)
	return f.deleteErr
}

type fakeGate struct {
	verdicts map[string]models.ModerationVerdict
	err      error
	checked  []storage.ObjectRef
	etags    []string
}

func (f *fakeGate) Check(ctx context.Context, ref storage.ObjectRef, etag string) (models.ModerationVerdict, error) {
	f.checked = append(f.checked, ref)
	f.etags = append(f.etags, etag)
	if f.err != nil {
		return models.ModerationVerdict{}, f.err
	}
	return f.verdicts[ref.String()], nil
}

type fakeAlerts struct {
	subjects []string
	messages []string
	err      error
}

func (f *fakeAlerts) PublishAlert(ctx context.Context, subject, message string) error {
	f.subjects = append(f.subjects, subject)
	f.messages = append(f.messages, message)
	return f.err
}

type fakeReporter struct {
	jobIDs []string
	err    error
}

func (f *fakeReporter) ReportJobSuccess(ctx context.Context, jobID string) error {
	f.jobIDs = append(f.jobIDs, jobID)
	return f.err
}
