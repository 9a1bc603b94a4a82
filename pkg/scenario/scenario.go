// Package scenario loads scripted chart sessions and replays them against
// the reconciliation plugin with an in-memory host and engine.
package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/sonisync/pkg/adapters/memory"
	"github.com/aretw0/sonisync/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Actions a step can perform.
const (
	ActionUpdate  = "update"
	ActionAppend  = "append"
	ActionHide    = "hide"
	ActionShow    = "show"
	ActionMove    = "move"
	ActionFocus   = "focus"
	ActionBlur    = "blur"
	ActionDestroy = "destroy"
)

// ErrInvalidScenario is returned for scenarios that cannot be replayed.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a chart definition followed by a script of host events.
type Scenario struct {
	Name    string               `json:"name"`
	Options map[string]any       `json:"options,omitempty"`
	Chart   memory.ChartDocument `json:"chart"`
	Steps   []Step               `json:"steps"`
}

// Step is one host event. Which fields apply depends on Action.
type Step struct {
	Action string `json:"action"`

	// Series addresses a dataset for update, append, hide and show.
	Series int `json:"series,omitempty"`

	// Data replaces (update) or extends (append) the series values.
	Data   []domain.Value `json:"data,omitempty"`
	Labels []string       `json:"labels,omitempty"`

	// Type changes the chart kind on update.
	Type string `json:"type,omitempty"`

	// Category and Index place the engine cursor on move.
	Category string `json:"category,omitempty"`
	Index    int    `json:"index,omitempty"`
}

// Load reads a YAML or JSON scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a scenario. YAML is first decoded generically and then
// re-encoded as JSON, so chart values share one decoding path with the
// HTTP API.
func Parse(data []byte) (*Scenario, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	raw, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	var sc Scenario
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks step actions and series references.
func (s *Scenario) Validate() error {
	if s.Chart.Type == "" {
		return fmt.Errorf("%w: chart type is required", ErrInvalidScenario)
	}
	for i, st := range s.Steps {
		switch st.Action {
		case ActionUpdate, ActionAppend, ActionHide, ActionShow:
			if st.Series < 0 || st.Series >= len(s.Chart.Datasets) {
				return fmt.Errorf("%w: step %d: series %d out of range", ErrInvalidScenario, i+1, st.Series)
			}
		case ActionMove, ActionFocus, ActionBlur, ActionDestroy:
		default:
			return fmt.Errorf("%w: step %d: unknown action %q", ErrInvalidScenario, i+1, st.Action)
		}
	}
	return nil
}
