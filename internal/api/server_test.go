package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manufacturer-quality/internal/common/errors"
	"manufacturer-quality/internal/common/logger"
	"manufacturer-quality/internal/common/metrics"
	"manufacturer-quality/internal/manufacturing/quality"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	svc := quality.NewService(&quality.Config{Seed: 99}, logger.NewNoOpLogger(),
		quality.WithClock(func() time.Time { return fixedNow }))
	ts := httptest.NewServer(NewServer(svc, logger.NewTestLogger(t), opts...).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func postChat(t *testing.T, url, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(url+"/api/manufacturer/chat", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestOverview(t *testing.T) {
	ts := newTestServer(t)

	var overview quality.OverviewSnapshot
	resp := getJSON(t, ts.URL+"/api/manufacturer/overview?timeRange=90days&region=West", &overview)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Len(t, overview.TopDefectCategories, 5)
	assert.NotNil(t, overview.ModelsWithRisingDefects)

	var apiErr errors.StandardError
	resp = getJSON(t, ts.URL+"/api/manufacturer/overview?timeRange=7days", &apiErr)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeInvalidInput, apiErr.Code)
}

func TestModelsAndLocations(t *testing.T) {
	ts := newTestServer(t)

	var models []quality.ModelSummary
	resp := getJSON(t, ts.URL+"/api/manufacturer/models", &models)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, models, 6)

	resp = getJSON(t, ts.URL+"/api/manufacturer/models?search=nexus", &models)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, models, 1)
	assert.Equal(t, "nexus-sport", models[0].ModelID)

	var locations []quality.LocationSummary
	resp = getJSON(t, ts.URL+"/api/manufacturer/locations?region=All", &locations)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, locations, 6)
}

func TestDefectDetails(t *testing.T) {
	ts := newTestServer(t)

	var model quality.ModelDefectDetail
	resp := getJSON(t, ts.URL+"/api/manufacturer/models/pulse-compact/defects", &model)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pulse-compact", model.ModelID)
	assert.Equal(t, "Pulse Compact", model.ModelName)

	// unknown ids fall back silently
	resp = getJSON(t, ts.URL+"/api/manufacturer/models/unknown/defects", &model)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "aurora-ev", model.ModelID)

	var loc quality.LocationDefectDetail
	resp = getJSON(t, ts.URL+"/api/manufacturer/locations/plant-ohio/defects", &loc)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ohio Production Facility", loc.Name)
}

func TestChat(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postChat(t, ts.URL, `{"message":"What should be my priority?","conversationHistory":[]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2024-03-15T10:30:00.000Z", body["timestamp"])
	assert.NotEmpty(t, body["message"])

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{name: "blank message", body: `{"message":"   "}`, wantCode: "MESSAGE_REQUIRED"},
		{name: "malformed body", body: `{"message":`, wantCode: "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postChat(t, ts.URL, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, errors.ChatFailureMessage, body["message"])
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	svc := quality.NewService(&quality.Config{Latency: quality.DefaultLatency()}, logger.NewNoOpLogger())
	ts := httptest.NewServer(NewServer(svc, logger.NewTestLogger(t), WithRequestTimeout(5*time.Millisecond)).Handler())
	defer ts.Close()

	var apiErr errors.StandardError
	resp := getJSON(t, ts.URL+"/api/manufacturer/locations", &apiErr)
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeRequestTimeout, apiErr.Code)
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/health", nil)
	assert.Len(t, resp.Header.Get(RequestIDHeader), 36)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "req-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(RequestIDHeader))
}

func TestProbesAndMetrics(t *testing.T) {
	healthy := newTestServer(t)
	var status map[string]string
	resp := getJSON(t, healthy.URL+"/ready", &status)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", status["status"])

	before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("health", "200"))
	getJSON(t, healthy.URL+"/health", &status)
	assert.Equal(t, "healthy", status["status"])
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("health", "200")))

	resp, err := http.Get(healthy.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	failing := newTestServer(t, WithReadinessCheck(func(context.Context) error {
		return stderrors.New("zeebe unavailable")
	}))
	resp = getJSON(t, failing.URL+"/ready", &status)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "zeebe unavailable", status["error"])
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/manufacturer/overview", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
