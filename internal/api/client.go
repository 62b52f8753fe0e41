package api

import (
	"context"
	"net/url"
	"time"

	httpclient "manufacturer-quality/internal/common/http"
	"manufacturer-quality/internal/manufacturing/quality"
)

const basePath = "/api/manufacturer"

// Client calls a running quality API. It satisfies QualityService, so callers
// can switch between the in-process service and a remote one.
type Client struct {
	http *httpclient.Client
}

var _ QualityService = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{http: httpclient.NewClient(baseURL, timeout)}
}

func (c *Client) GetOverview(ctx context.Context, filter *quality.OverviewFilter) (*quality.OverviewSnapshot, error) {
	query := url.Values{}
	if filter != nil {
		setIfNotEmpty(query, "timeRange", string(filter.TimeRange))
		setIfNotEmpty(query, "region", filter.Region)
	}

	var out quality.OverviewSnapshot
	if err := c.http.GetJSON(ctx, basePath+"/overview", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListModels(ctx context.Context, filter *quality.ModelsFilter) ([]quality.ModelSummary, error) {
	query := url.Values{}
	if filter != nil {
		setIfNotEmpty(query, "timeRange", string(filter.TimeRange))
		setIfNotEmpty(query, "region", filter.Region)
	}

	var out []quality.ModelSummary
	if err := c.http.GetJSON(ctx, basePath+"/models", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetModelDefects(ctx context.Context, modelID string) (*quality.ModelDefectDetail, error) {
	var out quality.ModelDefectDetail
	if err := c.http.GetJSON(ctx, basePath+"/models/"+url.PathEscape(modelID)+"/defects", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListLocations(ctx context.Context, filter *quality.LocationsFilter) ([]quality.LocationSummary, error) {
	query := url.Values{}
	if filter != nil {
		setIfNotEmpty(query, "region", filter.Region)
	}

	var out []quality.LocationSummary
	if err := c.http.GetJSON(ctx, basePath+"/locations", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetLocationDefects(ctx context.Context, locID string) (*quality.LocationDefectDetail, error) {
	var out quality.LocationDefectDetail
	if err := c.http.GetJSON(ctx, basePath+"/locations/"+url.PathEscape(locID)+"/defects", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SendChatMessage(ctx context.Context, req quality.ChatRequest) (*quality.ChatResponse, error) {
	var out quality.ChatResponse
	if err := c.http.PostJSON(ctx, basePath+"/chat", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func setIfNotEmpty(query url.Values, key, value string) {
	if value != "" {
		query.Set(key, value)
	}
}
