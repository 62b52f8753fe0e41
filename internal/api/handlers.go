// internal/api/handlers.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"manufacturer-quality/internal/common/errors"
	"manufacturer-quality/internal/manufacturing/dashboard"
	"manufacturer-quality/internal/manufacturing/quality"
)

// statusClientClosedRequest is the nginx convention for a request the client
// gave up on.
const statusClientClosedRequest = 499

const maxChatBodyBytes = 64 << 10

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	timeRange, err := parseTimeRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	overview, err := s.service.GetOverview(ctx, &quality.OverviewFilter{
		TimeRange: timeRange,
		Region:    r.URL.Query().Get("region"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	timeRange, err := parseTimeRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	rows, err := s.service.ListModels(ctx, &quality.ModelsFilter{
		TimeRange: timeRange,
		Region:    r.URL.Query().Get("region"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard.FilterModels(rows, r.URL.Query().Get("search")))
}

func (s *Server) handleModelDefects(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	detail, err := s.service.GetModelDefects(ctx, r.PathValue("modelId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	rows, err := s.service.ListLocations(ctx, &quality.LocationsFilter{
		Region: r.URL.Query().Get("region"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard.FilterLocations(rows, r.URL.Query().Get("search")))
}

func (s *Server) handleLocationDefects(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	detail, err := s.service.GetLocationDefects(ctx, r.PathValue("locId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// handleChat answers with the apology text in message whenever the exchange
// fails, whatever the cause.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req quality.ChatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeChatError(w, errors.NewInvalidInputError(fmt.Sprintf("decode chat request: %v", err)))
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	resp, err := s.service.SendChatMessage(ctx, req)
	if err != nil {
		s.logger.Warn("chat request failed", map[string]interface{}{
			"requestId": RequestIDFromContext(r.Context()),
			"error":     err,
		})
		writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func parseTimeRange(r *http.Request) (quality.TimeRange, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("timeRange"))
	switch tr := quality.TimeRange(raw); tr {
	case "", quality.TimeRange30Days, quality.TimeRange90Days, quality.TimeRange180Days:
		return tr, nil
	default:
		return "", errors.NewInvalidInputError(fmt.Sprintf("unsupported timeRange %q", raw))
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	stdErr := errors.AsStandardError(err)
	writeJSON(w, statusFor(stdErr.Code), stdErr)
}

func writeChatError(w http.ResponseWriter, err error) {
	resp := *errors.AsStandardError(err)
	resp.Message = errors.ChatFailureMessage
	writeJSON(w, statusFor(resp.Code), &resp)
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeMessageRequired:
		return http.StatusBadRequest
	case errors.ErrCodeRequestTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeRequestCancelled:
		return statusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}
