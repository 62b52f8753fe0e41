// cmd/quality-manager/workers.go
package main

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"manufacturer-quality/internal/common/camunda"
	"manufacturer-quality/internal/common/config"
	"manufacturer-quality/internal/common/logger"
	"manufacturer-quality/internal/common/observability"
	"manufacturer-quality/internal/manufacturing/quality"
	"manufacturer-quality/pkg/registry"

	cr "manufacturer-quality/internal/workers/assistant/chat-responder"
	ld "manufacturer-quality/internal/workers/quality/location-defects"
	ls "manufacturer-quality/internal/workers/quality/location-summaries"
	md "manufacturer-quality/internal/workers/quality/model-defects"
	ms "manufacturer-quality/internal/workers/quality/model-summaries"
	ov "manufacturer-quality/internal/workers/quality/overview-snapshot"
)

// buildHandlers wires one handler per task type. Handler timeouts follow the
// job timeout configured for the worker.
func buildHandlers(cfg *config.Config, service *quality.Service, log logger.Logger) map[string]camunda.JobHandler {
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	return map[string]camunda.JobHandler{
		ov.TaskType: ov.NewHandler(&ov.Config{
			Timeout: timeout(ov.TaskType),
		}, service, log),
		ms.TaskType: ms.NewHandler(&ms.Config{
			Timeout: timeout(ms.TaskType),
		}, service, log),
		md.TaskType: md.NewHandler(&md.Config{
			Timeout: timeout(md.TaskType),
		}, service, log),
		ls.TaskType: ls.NewHandler(&ls.Config{
			Timeout: timeout(ls.TaskType),
		}, service, log),
		ld.TaskType: ld.NewHandler(&ld.Config{
			Timeout: timeout(ld.TaskType),
		}, service, log),
		cr.TaskType: cr.NewHandler(&cr.Config{
			Timeout:          timeout(cr.TaskType),
			MaxMessageLength: cr.LoadConfig().MaxMessageLength,
		}, service, log),
	}
}

func startWorkers(
	client zbc.Client,
	cfg *config.Config,
	service *quality.Service,
	activities *registry.ActivityRegistry,
	obs *observability.Observability,
	log logger.Logger,
) []*camunda.CamundaWorker {
	var started []*camunda.CamundaWorker
	for taskType, handler := range buildHandlers(cfg, service, log) {
		fields := map[string]interface{}{"taskType": taskType}
		if activity, ok := activities.Find(taskType); ok {
			fields["activity"] = activity.DisplayName
			fields["operation"] = activity.Operation
		} else {
			log.Warn("task type missing from activity registry", fields)
		}

		w := camunda.NewWorker(client, taskType, config.GetWorkerConfig(cfg, taskType), handler, obs, log)
		if w == nil {
			continue
		}
		log.Info("activity worker ready", fields)
		started = append(started, w)
	}
	return started
}
