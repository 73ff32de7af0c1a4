package pipeline

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline"
)

type CodePipelineAPI interface {
	PutJobSuccessResult(ctx context.Context, params *codepipeline.PutJobSuccessResultInput, optFns ...func(*codepipeline.Options)) (*codepipeline.PutJobSuccessResultOutput, error)
}

// Reporter signals an enclosing CodePipeline stage that a handler
// invocation finished. The signal carries no business outcome: flagged,
// clear, and failed invocations all report the same completion.
type Reporter struct {
	client CodePipelineAPI
}

func NewReporter(client CodePipelineAPI) *Reporter {
	return &Reporter{client: client}
}

func (r *Reporter) ReportJobSuccess(ctx context.Context, jobID string) error {
	_, err := r.client.PutJobSuccessResult(ctx, &codepipeline.PutJobSuccessResultInput{
		JobId: aws.String(jobID),
	})
	if err != nil {
		return fmt.Errorf("[Pipeline] Failed to report job %s: %w", jobID, err)
	}
	return nil
}
