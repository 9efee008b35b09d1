package planner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/entrhq/webpilot/pkg/llm"
	"github.com/entrhq/webpilot/pkg/logging"
)

// resultEncoding is the tokenizer used to budget tool results.
const resultEncoding = "cl100k_base"

// Options tune plan execution.
type Options struct {
	// StepDelay is the pause after each executed step so pages settle
	// before the next action.
	StepDelay time.Duration

	// MaxSteps caps how many plan steps run.
	MaxSteps int

	// MaxResultTokens trims each tool result before reporting it.
	// Zero disables trimming.
	MaxResultTokens int
}

// Planner turns a task into a plan via the model and executes it
// against the tool server.
type Planner struct {
	conn     ToolCaller
	provider llm.Provider
	logger   *logging.Logger
	opts     Options

	encOnce sync.Once
	enc     *tiktoken.Tiktoken

	// Report receives human-readable progress lines. Defaults to a
	// no-op; the CLI points it at stdout.
	Report func(format string, args ...interface{})
}

// New creates a planner.
func New(conn ToolCaller, provider llm.Provider, logger *logging.Logger, opts Options) *Planner {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = 25
	}
	return &Planner{
		conn:     conn,
		provider: provider,
		logger:   logger,
		opts:     opts,
		Report:   func(string, ...interface{}) {},
	}
}

// Run plans and executes the task. The browser session opened by the
// plan is closed before returning, also on failure.
func (p *Planner) Run(ctx context.Context, task string) error {
	toolInfos, err := p.conn.ListTools(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(toolInfos))
	for _, t := range toolInfos {
		names = append(names, t.Name)
	}
	p.logger.Infof("connected with tools: %v", names)
	p.Report("Connected to server with tools: %v", names)

	steps, err := p.plan(ctx, task, toolInfos)
	if err != nil {
		return err
	}

	return p.execute(ctx, steps)
}

// plan asks the model for a tool-call sequence, falling back to the
// default plan when the response is unusable.
func (p *Planner) plan(ctx context.Context, task string, toolInfos []ToolInfo) ([]Step, error) {
	messages := []*llm.Message{
		llm.NewSystemMessage(systemPrompt),
		llm.NewUserMessage(buildPrompt(task, toolInfos)),
	}

	p.Report("Sending task to %s...", p.provider.GetModel())
	response, err := p.provider.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("planning request failed: %w", err)
	}
	p.logger.Debugf("model response: %s", response.Content)

	steps := ParsePlan(response.Content)
	if steps == nil {
		p.logger.Warnf("no parseable plan in model response, using default plan")
		p.Report("Warning: using default tool call sequence")
		steps = DefaultPlan()
	}
	if len(steps) > p.opts.MaxSteps {
		p.logger.Warnf("plan has %d steps, truncating to %d", len(steps), p.opts.MaxSteps)
		steps = steps[:p.opts.MaxSteps]
	}
	return steps, nil
}

// execute runs the steps in order. The session id returned by
// launch_browser replaces the model's placeholder in every later step,
// and the session is closed on the way out no matter what happened.
func (p *Planner) execute(ctx context.Context, steps []Step) error {
	var sessionID string
	defer func() {
		if sessionID == "" {
			return
		}
		closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, cerr := p.conn.CallTool(closeCtx, "close_browser", map[string]interface{}{"session_id": sessionID}); cerr != nil {
			p.logger.Warnf("failed to close session %s: %v", sessionID, cerr)
		} else {
			p.Report("Browser closed.")
		}
	}()

	for i, step := range steps {
		if sessionID != "" {
			if _, ok := step.Parameters["session_id"]; ok {
				step.Parameters["session_id"] = sessionID
			}
		}

		p.logger.Infof("step %d: %s %v", i+1, step.Name, step.Parameters)
		p.Report("Executing: %s", step.Name)

		result, err := p.conn.CallTool(ctx, step.Name, step.Parameters)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
		}

		trimmed := p.trimResult(result)
		p.Report("Result: %s", trimmed)

		if step.Name == "launch_browser" && sessionID == "" {
			sessionID = result
			p.logger.Infof("using session %s", sessionID)
		}

		if step.Name == "close_browser" {
			sessionID = ""
		}

		if p.opts.StepDelay > 0 && i < len(steps)-1 {
			select {
			case <-time.After(p.opts.StepDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// trimResult caps a tool result at the configured token budget. When
// the tokenizer is unavailable the text passes through untrimmed.
func (p *Planner) trimResult(text string) string {
	if p.opts.MaxResultTokens <= 0 {
		return text
	}
	p.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(resultEncoding)
		if err != nil {
			p.logger.Warnf("tokenizer unavailable, results pass untrimmed: %v", err)
			return
		}
		p.enc = enc
	})
	if p.enc == nil {
		return text
	}

	tokens := p.enc.Encode(text, nil, nil)
	if len(tokens) <= p.opts.MaxResultTokens {
		return text
	}
	return p.enc.Decode(tokens[:p.opts.MaxResultTokens]) + "..."
}
