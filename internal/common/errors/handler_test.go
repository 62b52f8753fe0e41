package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

// recordingGateway captures the fail and throw requests a job client sends.
type recordingGateway struct {
	pb.GatewayClient
	failed []int32
	thrown []string
}

func (g *recordingGateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.failed = append(g.failed, in.GetRetries())
	return &pb.FailJobResponse{}, nil
}

func (g *recordingGateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.thrown = append(g.thrown, in.GetErrorCode())
	return &pb.ThrowErrorResponse{}, nil
}

type gatewayJobClient struct {
	gateway *recordingGateway
}

func noRetry(context.Context, error) bool { return false }

func (c gatewayJobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.gateway, noRetry)
}

func (c gatewayJobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.gateway, noRetry)
}

func (c gatewayJobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.gateway, noRetry)
}

type discardLogger struct{}

func (discardLogger) Error(string, map[string]interface{}) {}

func newJob(retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42, Type: "get-manufacturing-overview", Retries: retries}}
}

func TestHandleJobError_RetriesRunOut(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		startRetries int32
		wantFailed   []int32
		wantCode     string
	}{
		{
			name:         "timeout capped at two",
			err:          NewRequestTimeoutError("chat", context.DeadlineExceeded),
			startRetries: 3,
			wantFailed:   []int32{2, 1, 0},
			wantCode:     "REQUEST_TIMEOUT",
		},
		{
			name:         "generation failure capped at three",
			err:          NewGenerationFailedError("overview", fmt.Errorf("boom")),
			startRetries: 5,
			wantFailed:   []int32{3, 2, 1, 0},
			wantCode:     "GENERATION_FAILED",
		},
		{
			name:         "fewer retries left than the cap",
			err:          NewGenerationFailedError("overview", fmt.Errorf("boom")),
			startRetries: 2,
			wantFailed:   []int32{1, 0},
			wantCode:     "GENERATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &recordingGateway{}
			h := NewErrorHandler(discardLogger{})

			// Feed each reported count back as the next activation's retries.
			retries := tt.startRetries
			for attempt := 0; attempt < 10 && retries > 0; attempt++ {
				code := h.HandleJobError(context.Background(), gatewayJobClient{gateway}, newJob(retries), tt.err)
				assert.Equal(t, tt.wantCode, code)
				require.NotEmpty(t, gateway.failed)
				retries = gateway.failed[len(gateway.failed)-1]
			}

			assert.Equal(t, tt.wantFailed, gateway.failed)
			assert.Empty(t, gateway.thrown)
		})
	}
}

func TestHandleJobError_ThrowsBPMNError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		retries  int32
		wantCode string
	}{
		{"non-retryable error", NewMessageRequiredError(), 3, "MESSAGE_REQUIRED"},
		{"retryable error with no retries left", NewRequestTimeoutError("chat", context.DeadlineExceeded), 0, "REQUEST_TIMEOUT"},
		{"plain error becomes internal", fmt.Errorf("unexpected"), 3, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &recordingGateway{}
			code := NewErrorHandler(discardLogger{}).HandleJobError(context.Background(), gatewayJobClient{gateway}, newJob(tt.retries), tt.err)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, []string{tt.wantCode}, gateway.thrown)
			assert.Empty(t, gateway.failed)
		})
	}
}
