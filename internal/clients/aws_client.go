package clients

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

var (
	awsCfg   aws.Config
	awsOnce  sync.Once
	endpoint string
)

// GetAWSConfig loads the shared AWS config once per process. AWS_ENDPOINT
// overrides every service endpoint, used for local stacks.
func GetAWSConfig() aws.Config {
	awsOnce.Do(func() {
		slog.Info("[AWSClient] Initializing AWS Config...")

		region := os.Getenv("AWS_REGION")
		if region == "" {
			region = "us-east-1"
		}

		cfg, err := config.LoadDefaultConfig(context.Background(),
			config.WithRegion(region))
		if err != nil {
			slog.Error("[AWSClient] Failed to load AWS config")
			panic(err)
		}

		awsCfg = cfg
		endpoint = os.Getenv("AWS_ENDPOINT")
		slog.Info("[AWSClient] AWS Config Initialized")
	})

	return awsCfg
}

func GetDynamoDBClient() *dynamodb.Client {
	return dynamodb.NewFromConfig(GetAWSConfig(), func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

func GetS3Client() *s3.Client {
	return s3.NewFromConfig(GetAWSConfig(), func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

func GetRekognitionClient() *rekognition.Client {
	return rekognition.NewFromConfig(GetAWSConfig(), func(o *rekognition.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

func GetSNSClient() *sns.Client {
	return sns.NewFromConfig(GetAWSConfig(), func(o *sns.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

func GetCodePipelineClient() *codepipeline.Client {
	return codepipeline.NewFromConfig(GetAWSConfig(), func(o *codepipeline.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}
