package quality

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "manufacturer-quality/internal/common/errors"
)

func TestReply_RulePriority(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		context    *ChatContext
		wantBranch string
		wantPrefix string
	}{
		{
			name:       "model context with rca keyword",
			message:    "What is the ROOT CAUSE here?",
			context:    &ChatContext{ModelID: "terra-suv"},
			wantBranch: BranchModelRCA,
			wantPrefix: "For the Terra SUV, our AI-powered RCA analysis",
		},
		{
			name:       "model context with capa keyword",
			message:    "show corrective actions",
			context:    &ChatContext{ModelID: "vega-sedan"},
			wantBranch: BranchModelCAPA,
			wantPrefix: "Current CAPA status for Vega Sedan:",
		},
		{
			name:       "model context wins over trend keyword",
			message:    "any trend?",
			context:    &ChatContext{ModelID: "titan-truck", LocID: "plant-ohio"},
			wantBranch: BranchModelHelp,
			wantPrefix: "For Titan Truck, I can help with:",
		},
		{
			name:       "unknown model falls back to the first one",
			message:    "rca please",
			context:    &ChatContext{ModelID: "no-such-model"},
			wantBranch: BranchModelRCA,
			wantPrefix: "For the Aurora EV,",
		},
		{
			name:       "plant context with issue keyword",
			message:    "Any issues?",
			context:    &ChatContext{LocID: "plant-austin"},
			wantBranch: BranchPlantDefects,
			wantPrefix: "Austin Manufacturing Hub Quality Summary:",
		},
		{
			name:       "plant context without keyword",
			message:    "hello",
			context:    &ChatContext{LocID: "plant-georgia"},
			wantBranch: BranchPlantHelp,
			wantPrefix: "For Georgia Assembly Center, I can provide insights on:",
		},
		{
			name:       "trend keyword",
			message:    "Which defects are increasing?",
			wantBranch: BranchTrends,
			wantPrefix: "**Defect Trend Analysis (Last 30 Days):**",
		},
		{
			name:       "trend beats summary",
			message:    "summary of the trend",
			context:    &ChatContext{Region: "North"},
			wantBranch: BranchTrends,
			wantPrefix: "**Defect Trend Analysis",
		},
		{
			name:       "priority keyword",
			message:    "What should we focus on?",
			wantBranch: BranchPriorities,
			wantPrefix: "**Top Priority Items:**",
		},
		{
			name:       "summary keyword",
			message:    "Give me an OVERVIEW",
			wantBranch: BranchSummary,
			wantPrefix: "**Manufacturing Quality Overview:**",
		},
		{
			name:       "fallback",
			message:    "hi there",
			wantBranch: BranchCapabilities,
			wantPrefix: "I'm your Quality Assistant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			branch, text := Reply(tt.message, tt.context)
			assert.Equal(t, tt.wantBranch, branch)
			assert.True(t, strings.HasPrefix(text, tt.wantPrefix), text)
			assert.NotContains(t, text, "{model}")
			assert.NotContains(t, text, "{plant}")
		})
	}
}

func TestReply_DecodedSymbols(t *testing.T) {
	_, trendText := Reply("trend", nil)
	assert.Contains(t, trendText, "📈 **Rising:**")
	assert.Contains(t, trendText, "➡️ **Stable:**")

	_, summary := Reply("summary", nil)
	assert.Contains(t, summary, "(↓8% vs last month)")
	assert.Contains(t, summary, "• 28 proposed → 35 accepted")
}

func TestSendChatMessage(t *testing.T) {
	s := newHighService(t)

	resp, err := s.SendChatMessage(context.Background(), ChatRequest{
		Message: "what is the priority",
		ConversationHistory: []ChatMessage{
			{Role: ChatRoleUser, Text: "root cause", Timestamp: "2024-03-15T10:00:00.000Z"},
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Message, "**Top Priority Items:**"))
	assert.Equal(t, "2024-03-15T10:30:00.000Z", resp.Timestamp)

	parsed, err := time.Parse(time.RFC3339Nano, resp.Timestamp)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(fixedNow))
}

func TestSendChatMessage_RequiresMessage(t *testing.T) {
	s := newHighService(t)
	for _, msg := range []string{"", "   ", "\n\t"} {
		resp, err := s.SendChatMessage(context.Background(), ChatRequest{Message: msg})
		assert.Nil(t, resp)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeMessageRequired, apperrors.AsStandardError(err).Code)
	}
}
