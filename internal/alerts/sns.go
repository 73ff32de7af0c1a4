package alerts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher sends operator alerts to a single SNS topic. The topic is
// optional everywhere: with no ARN configured, PublishAlert logs a warning
// and reports success so moderation enforcement keeps going without an
// alerting channel.
type Publisher struct {
	client   SNSAPI
	topicARN string
}

func NewPublisher(client SNSAPI, topicARN string) *Publisher {
	return &Publisher{client: client, topicARN: topicARN}
}

func (p *Publisher) PublishAlert(ctx context.Context, subject, message string) error {
	if p.topicARN == "" {
		slog.Warn("[Alerts] No SNS topic configured, skipping alert",
			slog.String("subject", subject))
		return nil
	}

	_, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("[Alerts] Failed to publish alert: %w", err)
	}

	slog.Info("[Alerts] Alert published", slog.String("subject", subject))
	return nil
}
