// internal/workers/quality/location-summaries/handler.go
package locationsummaries

import (
	"context"

	"manufacturer-quality/internal/common/camunda"
	"manufacturer-quality/internal/common/errors"
	"manufacturer-quality/internal/common/logger"
	"manufacturer-quality/internal/manufacturing/dashboard"
	"manufacturer-quality/internal/manufacturing/quality"
	"manufacturer-quality/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "list-manufacturing-locations"
)

type LocationService interface {
	ListLocations(ctx context.Context, filter *quality.LocationsFilter) ([]quality.LocationSummary, error)
}

type Handler struct {
	config  *Config
	service LocationService
	errors  *errors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, service LocationService, log logger.Logger) *Handler {
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
	rows, err := h.service.ListLocations(ctx, &quality.LocationsFilter{Region: input.Region})
	if err != nil {
		return nil, err
	}

	matched := dashboard.FilterLocations(rows, input.Search)
	h.logger.Info("location summaries generated", map[string]interface{}{
		"locations": len(rows),
		"matched":   len(matched),
	})
	return &Output{Locations: matched}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
