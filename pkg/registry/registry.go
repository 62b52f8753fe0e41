// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"manufacturer-quality/internal/common/errors"
	"manufacturer-quality/internal/common/validation"
)

//go:embed activities.json
var embeddedRegistry []byte

var (
	defaultOnce     sync.Once
	defaultRegistry *ActivityRegistry
	defaultErr      error
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse activity registry: %w", err)
	}
	return &reg, nil
}

// Default returns the registry compiled into the binary. It is parsed once.
func Default() (*ActivityRegistry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = Parse(embeddedRegistry)
	})
	return defaultRegistry, defaultErr
}

// InputSchema returns the embedded input schema of a task type, or nil.
func InputSchema(taskType string) map[string]interface{} {
	reg, err := Default()
	if err != nil {
		return nil
	}
	if a, ok := reg.Find(taskType); ok {
		return a.InputSchema
	}
	return nil
}

func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Validate checks that every activity is complete and that ids and task types
// are unique.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, activity := range r.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if taskTypes[activity.TaskType] {
			return fmt.Errorf("duplicate task type: %s", activity.TaskType)
		}
		taskTypes[activity.TaskType] = true

		if activity.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", activity.ID)
		}
		if _, err := activity.TimeoutDuration(); err != nil {
			return fmt.Errorf("activity %s has invalid timeout %q: %w", activity.ID, activity.Timeout, err)
		}
	}
	return nil
}

func (a *Activity) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(a.Timeout)
}

// ValidateInput checks job variables against the activity's input schema.
func (a *Activity) ValidateInput(variables string) (*validation.ValidationResult, error) {
	return validation.ValidateJSON(variables, a.InputSchema)
}

// DecodeVariables validates job variables against the input schema registered
// for taskType and unmarshals them into out. Failures are INVALID_INPUT errors.
func DecodeVariables(taskType, variables string, out interface{}) error {
	result, err := validation.ValidateJSON(variables, InputSchema(taskType))
	if err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("parse variables: %v", err))
	}
	if !result.Valid {
		return errors.NewInvalidInputError(strings.Join(result.GetErrorMessages(), "; "))
	}
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}
	if err := json.Unmarshal([]byte(variables), out); err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("decode variables: %v", err))
	}
	return nil
}
