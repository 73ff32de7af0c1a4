package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"imageblog/config"
	"imageblog/internal/alerts"
	"imageblog/internal/clients"
	"imageblog/internal/handlers"
	"imageblog/internal/logging"
	"imageblog/internal/moderation"
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

	// no Close pairing here: lambda.Start never returns, connections die
	// with the execution environment
	var cache moderation.VerdictCache
	if vc := clients.InitValkey(); vc != nil {
		cache = vc
	}

	gate := moderation.NewGate(
		moderation.NewRekognitionClassifier(clients.GetRekognitionClient()),
		cache,
	)

	handler := handlers.NewModerateImageHandler(
		storage.NewImageStorage(clients.GetS3Client(), os.Getenv("IMAGE_BUCKET")),
		gate,
		alerts.NewPublisher(clients.GetSNSClient(), os.Getenv("SNS_TOPIC_ARN")),
		pipeline.NewReporter(clients.GetCodePipelineClient()),
	)

	lambda.Start(handler.Handle)
}
