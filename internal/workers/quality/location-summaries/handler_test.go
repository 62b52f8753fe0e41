package locationsummaries

import (
	"context"
	"testing"

	"manufacturer-quality/internal/common/logger"
	"manufacturer-quality/internal/manufacturing/quality"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_WithQualityService(t *testing.T) {
	svc := quality.NewService(&quality.Config{Seed: 3}, logger.NewNoOpLogger())
	h := NewHandler(nil, svc, logger.NewTestLogger(t))

	tests := []struct {
		name    string
		search  string
		wantIDs []string
	}{
		{name: "all plants", wantIDs: []string{"plant-detroit", "plant-austin", "plant-california", "plant-ohio", "plant-georgia", "plant-arizona"}},
		{name: "by region", search: "west", wantIDs: []string{"plant-california", "plant-arizona"}},
		{name: "by name", search: "Detroit", wantIDs: []string{"plant-detroit"}},
		{name: "no match", search: "lisbon", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &Input{Search: tt.search})
			require.NoError(t, err)

			ids := make([]string, 0, len(out.Locations))
			for _, l := range out.Locations {
				ids = append(ids, l.LocID)
				assert.GreaterOrEqual(t, l.DefectCount, 50)
				assert.LessOrEqual(t, l.DefectCount, 200)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestExecute_CancelledContext(t *testing.T) {
	svc := quality.NewService(&quality.Config{Latency: quality.DefaultLatency()}, logger.NewNoOpLogger())
	h := NewHandler(nil, svc, logger.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := h.Execute(ctx, &Input{})
	assert.Error(t, err)
	assert.Nil(t, out)
}
