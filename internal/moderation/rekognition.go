package moderation

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"imageblog/internal/storage"
)

type RekognitionAPI interface {
	DetectModerationLabels(ctx context.Context, params *rekognition.DetectModerationLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectModerationLabelsOutput, error)
}

// RekognitionClassifier detects moderation labels by object reference;
// image bytes never pass through this process.
type RekognitionClassifier struct {
	client RekognitionAPI
}

func NewRekognitionClassifier(client RekognitionAPI) *RekognitionClassifier {
	return &RekognitionClassifier{client: client}
}

func (c *RekognitionClassifier) DetectLabels(ctx context.Context, ref storage.ObjectRef, minConfidence float32) ([]string, error) {
	out, err := c.client.DetectModerationLabels(ctx, &rekognition.DetectModerationLabelsInput{
		Image: &types.Image{
			S3Object: &types.S3Object{
				Bucket: aws.String(ref.Bucket),
				Name:   aws.String(ref.Key),
			},
		},
		MinConfidence: aws.Float32(minConfidence),
	})
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(out.ModerationLabels))
	for _, label := range out.ModerationLabels {
		labels = append(labels, aws.ToString(label.Name))
	}
	return labels, nil
}
