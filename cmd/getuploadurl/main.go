package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"imageblog/config"
	"imageblog/internal/clients"
	"imageblog/internal/handlers"
	"imageblog/internal/logging"
	"imageblog/internal/pipeline"
	"imageblog/internal/storage"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	handler := handlers.NewUploadURLHandler(
		storage.NewImageStorage(clients.GetS3Client(), os.Getenv("IMAGE_BUCKET")),
		pipeline.NewReporter(clients.GetCodePipelineClient()),
	)

	lambda.Start(handler.Handle)
}
