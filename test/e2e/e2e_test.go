// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manufacturer-quality/internal/api"
	"manufacturer-quality/internal/common/camunda"
	"manufacturer-quality/internal/common/config"
	"manufacturer-quality/internal/common/logger"
	"manufacturer-quality/internal/manufacturing/dashboard"
	"manufacturer-quality/internal/manufacturing/quality"
	"manufacturer-quality/pkg/registry"

	chatresponder "manufacturer-quality/internal/workers/assistant/chat-responder"
	locationdefects "manufacturer-quality/internal/workers/quality/location-defects"
	locationsummaries "manufacturer-quality/internal/workers/quality/location-summaries"
	modeldefects "manufacturer-quality/internal/workers/quality/model-defects"
	modelsummaries "manufacturer-quality/internal/workers/quality/model-summaries"
	overviewsnapshot "manufacturer-quality/internal/workers/quality/overview-snapshot"
)

// zeebeAddressEnv enables the broker round trip when set to a gateway address.
const zeebeAddressEnv = "E2E_ZEEBE_ADDRESS"

func newService() *quality.Service {
	return quality.NewService(&quality.Config{
		Latency: quality.DefaultLatency().Scaled(0.01),
		Seed:    2024,
	}, logger.NewNoOpLogger())
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := config.LoadFromFile("../../configs/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "manufacturer-quality", cfg.App.Name)
	assert.Equal(t, 1.0, cfg.Simulation.LatencyScale)

	reg, err := registry.Default()
	require.NoError(t, err)
	for _, a := range reg.Activities {
		wcfg, ok := cfg.Workers[a.TaskType]
		require.True(t, ok, "no worker config for %s", a.TaskType)
		assert.True(t, wcfg.Enabled)

		timeout, err := a.TimeoutDuration()
		require.NoError(t, err)
		assert.Equal(t, timeout, config.GetDuration(wcfg.Timeout), a.TaskType)
		assert.Equal(t, a.Retries, wcfg.MaxRetries, a.TaskType)
	}
}

// TestDashboardFlow walks the pages the way a user would: overview, model list,
// one model's defects, the plant list, one plant and a chat question.
func TestDashboardFlow(t *testing.T) {
	ts := httptest.NewServer(api.NewServer(newService(), logger.NewTestLogger(t)).Handler())
	defer ts.Close()

	state := dashboard.NewState()
	require.True(t, state.SetRegion("south"))

	var overview quality.OverviewSnapshot
	getJSON(t, ts.URL+"/api/manufacturer/overview?timeRange=90days&region="+state.Region, &overview)
	assert.Equal(t, "30 days", overview.Period)
	assert.Positive(t, overview.TotalDefects)

	var models []quality.ModelSummary
	getJSON(t, ts.URL+"/api/manufacturer/models", &models)
	require.Len(t, models, 6)
	stats := dashboard.ModelStats(models)
	assert.LessOrEqual(t, stats.IncreasingCount, len(models))

	selected := models[2]
	var detail quality.ModelDefectDetail
	getJSON(t, ts.URL+"/api/manufacturer/models/"+selected.ModelID+"/defects", &detail)
	assert.Equal(t, selected.ModelID, detail.ModelID)
	assert.Equal(t, selected.ModelName, detail.ModelName)
	require.NotNil(t, state.SelectDefect(&detail))

	var locations []quality.LocationSummary
	getJSON(t, ts.URL+"/api/manufacturer/locations?search=austin", &locations)
	require.Len(t, locations, 1)
	assert.Equal(t, "plant-austin", locations[0].LocID)

	var plant quality.LocationDefectDetail
	getJSON(t, ts.URL+"/api/manufacturer/locations/plant-austin/defects", &plant)
	assert.Equal(t, "Austin Manufacturing Hub", plant.Name)
	assert.Equal(t, "South", plant.Region)

	state.LocID = plant.LocID
	body, err := json.Marshal(quality.ChatRequest{
		Message: "Which defects matter here?",
		Context: state.ChatContext(),
	})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/manufacturer/chat", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply quality.ChatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.Contains(t, reply.Message, "Austin Manufacturing Hub")
}

// TestWorkersAgainstService runs every worker's Execute against the real
// service, the same calls a job would make.
func TestWorkersAgainstService(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	log := logger.NewTestLogger(t)

	t.Run(overviewsnapshot.TaskType, func(t *testing.T) {
		out, err := overviewsnapshot.NewHandler(nil, svc, log).Execute(ctx, &overviewsnapshot.Input{})
		require.NoError(t, err)
		assert.Len(t, out.Overview.TopDefectCategories, 5)
	})

	t.Run(modelsummaries.TaskType, func(t *testing.T) {
		out, err := modelsummaries.NewHandler(nil, svc, log).Execute(ctx, &modelsummaries.Input{Search: "sedan"})
		require.NoError(t, err)
		require.Len(t, out.Models, 1)
		assert.Equal(t, "vega-sedan", out.Models[0].ModelID)
	})

	t.Run(modeldefects.TaskType, func(t *testing.T) {
		out, err := modeldefects.NewHandler(nil, svc, log).Execute(ctx, &modeldefects.Input{ModelID: "pulse-compact"})
		require.NoError(t, err)
		assert.Equal(t, "Pulse Compact", out.ModelDefects.ModelName)
	})

	t.Run(locationsummaries.TaskType, func(t *testing.T) {
		out, err := locationsummaries.NewHandler(nil, svc, log).Execute(ctx, &locationsummaries.Input{})
		require.NoError(t, err)
		assert.Len(t, out.Locations, 6)
	})

	t.Run(locationdefects.TaskType, func(t *testing.T) {
		out, err := locationdefects.NewHandler(nil, svc, log).Execute(ctx, &locationdefects.Input{LocID: "plant-ohio"})
		require.NoError(t, err)
		assert.Equal(t, "Central", out.LocationDefects.Region)
	})

	t.Run(chatresponder.TaskType, func(t *testing.T) {
		input := &chatresponder.Input{ChatRequest: quality.ChatRequest{Message: "Show me the trends"}}
		out, err := chatresponder.NewHandler(nil, svc, log).Execute(ctx, input)
		require.NoError(t, err)
		assert.NotEmpty(t, out.Reply.Message)
	})
}

// TestZeebeWorkers opens every job worker against a running broker.
func TestZeebeWorkers(t *testing.T) {
	address := os.Getenv(zeebeAddressEnv)
	if address == "" {
		t.Skipf("%s not set", zeebeAddressEnv)
	}

	zeebe, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
		GatewayAddress:         address,
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
	})
	require.NoError(t, err)
	defer zeebe.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = zeebe.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return zeebe.GetClient().NewTopologyCommand().Send(ctx)
	}, "topology")
	require.NoError(t, err)
	require.NoError(t, zeebe.HealthCheck(ctx))

	reg, err := registry.Default()
	require.NoError(t, err)

	cfg := &config.Config{Workers: map[string]config.WorkerConfig{}}
	svc := newService()
	log := logger.NewTestLogger(t)

	var workers []*camunda.CamundaWorker
	for _, a := range reg.Activities {
		w := camunda.NewWorker(zeebe.GetClient(), a.TaskType, config.GetWorkerConfig(cfg, a.TaskType),
			handlerFor(t, a.TaskType, svc, log), nil, log)
		require.NotNil(t, w)
		assert.Equal(t, a.TaskType, w.TaskType())
		workers = append(workers, w)
	}
	for _, w := range workers {
		w.Stop()
	}
}

func handlerFor(t *testing.T, taskType string, svc *quality.Service, log logger.Logger) camunda.JobHandler {
	t.Helper()
	switch taskType {
	case overviewsnapshot.TaskType:
		return overviewsnapshot.NewHandler(nil, svc, log)
	case modelsummaries.TaskType:
		return modelsummaries.NewHandler(nil, svc, log)
	case modeldefects.TaskType:
		return modeldefects.NewHandler(nil, svc, log)
	case locationsummaries.TaskType:
		return locationsummaries.NewHandler(nil, svc, log)
	case locationdefects.TaskType:
		return locationdefects.NewHandler(nil, svc, log)
	case chatresponder.TaskType:
		return chatresponder.NewHandler(nil, svc, log)
	}
	t.Fatalf("no handler for task type %s", taskType)
	return nil
}

func getJSON(t *testing.T, url string, out interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode, url)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
