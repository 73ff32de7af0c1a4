package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// corsHeaders allows browser clients on any origin to call the read-facing
// endpoints directly.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

func jsonResponse(status int, payload any, cors bool) events.APIGatewayProxyResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("[Handlers] Failed to marshal response body", slog.String("error", err.Error()))
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"error":"internal error"}`,
		}
	}

	resp := events.APIGatewayProxyResponse{
		StatusCode: status,
		Body:       string(body),
	}
	if cors {
		resp.Headers = corsHeaders
	}
	return resp
}

// pipelineJobID extracts the CodePipeline job id when the handler was
// invoked as a pipeline action; it is empty for API Gateway and S3 events.
func pipelineJobID(event json.RawMessage) string {
	var wrapper struct {
		Job struct {
			ID string `json:"id"`
		} `json:"CodePipeline.job"`
	}
	if err := json.Unmarshal(event, &wrapper); err != nil {
		return ""
	}
	return wrapper.Job.ID
}

// reportCompletion tells the enclosing pipeline stage this invocation
// finished, business outcome aside. No-op without a reporter or a job id;
// a failed report is logged, never surfaced.
func reportCompletion(ctx context.Context, reporter PipelineReporter, event json.RawMessage) {
	if reporter == nil {
		return
	}
	jobID := pipelineJobID(event)
	if jobID == "" {
		return
	}
	if err := reporter.ReportJobSuccess(ctx, jobID); err != nil {
		slog.Error("[Handlers] Failed to report pipeline completion",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
	}
}
