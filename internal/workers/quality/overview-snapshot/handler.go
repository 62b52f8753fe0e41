// internal/workers/quality/overview-snapshot/handler.go
package overviewsnapshot

import (
	"context"

	"manufacturer-quality/internal/common/camunda"
	"manufacturer-quality/internal/common/errors"
	"manufacturer-quality/internal/common/logger"
	"manufacturer-quality/internal/manufacturing/quality"
	"manufacturer-quality/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "get-manufacturing-overview"
)

type OverviewService interface {
	GetOverview(ctx context.Context, filter *quality.OverviewFilter) (*quality.OverviewSnapshot, error)
}

type Handler struct {
	config  *Config
	service OverviewService
	errors  *errors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, service OverviewService, log logger.Logger) *Handler {
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
		h.errors.HandleJobError(context.Background(), client, job, err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(context.Background(), client, job, err)
		return err
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
	overview, err := h.service.GetOverview(ctx, &quality.OverviewFilter{
		TimeRange: input.TimeRange,
		Region:    input.Region,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("overview generated", map[string]interface{}{
		"risingModels": len(overview.ModelsWithRisingDefects),
		"totalDefects":  overview.TotalDefects,
	})
	return &Output{Overview: overview}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
