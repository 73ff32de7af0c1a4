package models

// Post is the persisted blog record. PostID is the DynamoDB partition key.
type Post struct {
	PostID    string `json:"PostID" dynamodbav:"PostID"`
	Title     string `json:"title" dynamodbav:"title"`
	Content   string `json:"content" dynamodbav:"content"`
	ImageURL  string `json:"imageUrl" dynamodbav:"imageUrl"`
	CreatedAt int64  `json:"createdAt" dynamodbav:"createdAt"`
}

type CreatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

type CreatePostResponse struct {
	Message string `json:"message"`
	PostID  string `json:"postId"`
}

type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Warning string `json:"warning,omitempty"`
}
