package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manufacturer-quality/internal/common/errors"
)

var taskTypes = []string{
	"get-manufacturing-overview",
	"list-manufacturing-models",
	"get-manufacturing-model-defects",
	"list-manufacturing-locations",
	"get-manufacturing-location-defects",
	"send-manufacturing-chat-message",
}

func TestDefault_IsValid(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	require.NoError(t, reg.Validate())
	assert.Len(t, reg.Activities, len(taskTypes))

	for _, tt := range taskTypes {
		a, ok := reg.Find(tt)
		require.True(t, ok, tt)
		assert.NotEmpty(t, a.Operation)
		assert.NotEmpty(t, a.OutputVariables)
		assert.NotNil(t, InputSchema(tt))
	}

	chat, _ := reg.Find("send-manufacturing-chat-message")
	d, err := chat.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, d)

	assert.Nil(t, InputSchema("unknown-task"))
}

func TestActivity_ValidateInput(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	tests := []struct {
		taskType  string
		variables string
		wantValid bool
	}{
		{"get-manufacturing-model-defects", `{"modelId":"aurora-ev"}`, true},
		{"get-manufacturing-model-defects", `{}`, false},
		{"get-manufacturing-model-defects", `{"modelId":""}`, false},
		{"get-manufacturing-location-defects", `{"locId":7}`, false},
		{"get-manufacturing-overview", `{}`, true},
		{"get-manufacturing-overview", `{"timeRange":"7days"}`, false},
		{"send-manufacturing-chat-message", `{"message":"hi","context":{"modelId":"aurora-ev"}}`, true},
		{"send-manufacturing-chat-message", `{"context":{}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.taskType+tt.variables, func(t *testing.T) {
			a, ok := reg.Find(tt.taskType)
			require.True(t, ok)
			result, err := a.ValidateInput(tt.variables)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid, "%v", result.Errors)
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		reg  ActivityRegistry
	}{
		{name: "empty", reg: ActivityRegistry{}},
		{name: "missing id", reg: ActivityRegistry{Activities: []Activity{{DisplayName: "x", TaskType: "t", Category: "c"}}}},
		{name: "duplicate task type", reg: ActivityRegistry{Activities: []Activity{
			{ID: "a", DisplayName: "A", TaskType: "t", Category: "c"},
			{ID: "b", DisplayName: "B", TaskType: "t", Category: "c"},
		}}},
		{name: "bad timeout", reg: ActivityRegistry{Activities: []Activity{
			{ID: "a", DisplayName: "A", TaskType: "t", Category: "c", Timeout: "soon"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.reg.Validate())
		})
	}
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, embeddedRegistry, 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", reg.Version)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = LoadRegistry(path)
	assert.Error(t, err)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestDecodeVariables(t *testing.T) {
	var input struct {
		ModelID string `json:"modelId"`
	}
	require.NoError(t, DecodeVariables("get-manufacturing-model-defects", `{"modelId":"aurora-ev","other":1}`, &input))
	assert.Equal(t, "aurora-ev", input.ModelID)

	err := DecodeVariables("get-manufacturing-model-defects", `{}`, &input)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.AsStandardError(err).Code)

	err = DecodeVariables("get-manufacturing-model-defects", `{"modelId":`, &input)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.AsStandardError(err).Code)

	var overview struct {
		Region string `json:"region"`
	}
	require.NoError(t, DecodeVariables("get-manufacturing-overview", "", &overview))
	assert.Empty(t, overview.Region)
}
