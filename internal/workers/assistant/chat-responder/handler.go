// internal/workers/assistant/chat-responder/handler.go
package chatresponder

import (
	"context"
	"fmt"
	"unicode/utf8"

	"manufacturer-quality/internal/common/camunda"
	"manufacturer-quality/internal/common/errors"
	"manufacturer-quality/internal/common/logger"
	"manufacturer-quality/internal/manufacturing/quality"
	"manufacturer-quality/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "send-manufacturing-chat-message"
)

// replyVariable carries the apology text on failed jobs so the process can show
// it in place of a reply.
const replyVariable = "reply"

type ChatService interface {
	SendChatMessage(ctx context.Context, req quality.ChatRequest) (*quality.ChatResponse, error)
}

type Handler struct {
	config  *Config
	service ChatService
	errors  *errors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, service ChatService, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		service: service,
		errors:  errors.NewErrorHandler(log),
		logger:  log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := registry.DecodeVariables(TaskType, job.Variables, &input); err != nil {
		return h.failJob(client, job, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		return h.failJob(client, job, err)
	}

	if err := camunda.CompleteJob(context.Background(), client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return errors.NewExternalServiceError("zeebe", err)
	}
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if h.config.MaxMessageLength > 0 && utf8.RuneCountInString(input.Message) > h.config.MaxMessageLength {
		return nil, withReply(errors.NewInvalidInputError(
			fmt.Sprintf("message exceeds %d characters", h.config.MaxMessageLength),
		))
	}

	resp, err := h.service.SendChatMessage(ctx, input.ChatRequest)
	if err != nil {
		return nil, withReply(errors.AsStandardError(err))
	}

	fields := map[string]interface{}{
		"historyLength": len(input.ConversationHistory),
	}
	if c := input.Context; c != nil {
		fields["modelId"] = c.ModelID
		fields["locId"] = c.LocID
	}
	h.logger.Info("chat reply generated", fields)

	return &Output{Reply: resp}, nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) error {
	stdErr := withReply(errors.AsStandardError(err))
	h.errors.HandleJobError(context.Background(), client, job, stdErr)
	return stdErr
}

func withReply(err *errors.StandardError) *errors.StandardError {
	return err.WithMetadata(replyVariable, errors.ChatFailureMessage)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
