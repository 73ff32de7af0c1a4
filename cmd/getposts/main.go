package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"imageblog/config"
	"imageblog/internal/clients"
	"imageblog/internal/db"
	"imageblog/internal/handlers"
	"imageblog/internal/logging"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	handler := handlers.NewListPostsHandler(
		db.NewPostStore(clients.GetDynamoDBClient(), os.Getenv("BLOG_TABLE")),
	)

	lambda.Start(handler.Handle)
}
