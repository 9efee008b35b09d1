// Package planner asks a chat model to turn a natural-language task
// into a sequence of tool calls and executes them against a running
// tool server over the MCP stdio transport.
package planner

import (
	"encoding/json"
	"strings"
)

// Step is one planned tool invocation.
type Step struct {
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters"`
}

// ParsePlan extracts a tool-call plan from a model response. The
// response may wrap the JSON array in prose or code fences; everything
// between the first '[' and the last ']' is treated as the plan. Returns
// nil when no well-formed plan is present, in which case the caller
// falls back to the default plan.
func ParsePlan(response string) []Step {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end == -1 || end < start {
		return nil
	}

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(response[start:end+1]), &raw); err != nil {
		return nil
	}

	steps := make([]Step, 0, len(raw))
	for _, entry := range raw {
		nameRaw, hasName := entry["name"]
		paramsRaw, hasParams := entry["parameters"]
		if !hasName || !hasParams {
			return nil
		}

		var step Step
		if err := json.Unmarshal(nameRaw, &step.Name); err != nil || step.Name == "" {
			return nil
		}
		if err := json.Unmarshal(paramsRaw, &step.Parameters); err != nil {
			return nil
		}
		if step.Parameters == nil {
			step.Parameters = map[string]interface{}{}
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil
	}
	return steps
}

// DefaultPlan is the fallback executed when the model produces no
// parseable plan: open the Ollama model library and scan through it.
func DefaultPlan() []Step {
	return []Step{
		{Name: "launch_browser", Parameters: map[string]interface{}{"url": "https://ollama.com/library"}},
		{Name: "scroll_page", Parameters: map[string]interface{}{"session_id": "0", "direction": "down"}},
		{Name: "scroll_page", Parameters: map[string]interface{}{"session_id": "0", "direction": "down"}},
		{Name: "scroll_page", Parameters: map[string]interface{}{"session_id": "0", "direction": "up"}},
	}
}
