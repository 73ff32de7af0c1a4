package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"imageblog/internal/models"
)

// DynamoDBAPI is the slice of the DynamoDB client the post store uses.
// dynamodb.NewScanPaginator accepts it directly.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type PostStore struct {
	client DynamoDBAPI
	table  string
}

func NewPostStore(client DynamoDBAPI, table string) *PostStore {
	return &PostStore{client: client, table: table}
}

func (s *PostStore) PutPost(ctx context.Context, post models.Post) error {
	item, err := attributevalue.MarshalMap(post)
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to marshal post %s: %w", post.PostID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to store post %s: %w", post.PostID, err)
	}

	slog.Info("[DynamoDB] Successfully stored post", slog.String("post_id", post.PostID))
	return nil
}

// ListPosts scans the whole posts table, following pagination until the
// scan is exhausted. Order is whatever the table returns.
func (s *PostStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})

	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] Scan for posts failed: %w", err)
		}

		var page []models.Post
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			slog.Error("[DynamoDB] Unable to unmarshal current post page", slog.String("error", err.Error()))
			return nil, err
		}
		posts = append(posts, page...)
	}

	slog.Info("[DynamoDB] Successfully retrieved posts", slog.Int("count", len(posts)))
	return posts, nil
}
