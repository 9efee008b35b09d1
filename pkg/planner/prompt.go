package planner

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ToolInfo is a tool advertised by the server, fed to the model so it
// plans against what is actually available.
type ToolInfo struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  interface{} `json:"parameters"`
}

const systemPrompt = `You are a browser automation expert. You are given access to browser automation tools and plan how to use them to complete tasks: navigating websites, extracting information and interacting with pages.`

// buildPrompt renders the planning request: the task, the advertised
// tools, and the exact output format expected back.
func buildPrompt(task string, toolInfos []ToolInfo) string {
	toolsJSON, err := json.MarshalIndent(toolInfos, "", "  ")
	if err != nil {
		toolsJSON = []byte("[]")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your task is: %s\n\n", task)
	fmt.Fprintf(&b, "Available tools:\n%s\n\n", toolsJSON)
	b.WriteString(`For each step, output a JSON object with the tool name and parameters needed.
Format your entire response as a JSON array of these objects.

Example format:
[
    {"name": "launch_browser", "parameters": {"url": "https://ollama.com/library"}},
    {"name": "scroll_page", "parameters": {"session_id": "0", "direction": "down"}}
]

The first step must launch a browser. Use "0" as a placeholder session_id; it is replaced with the real session id after launch.`)
	return b.String()
}
