// Command webpilot plans and runs a browser automation task. It spawns
// a tool server (this project's webpilot-server, or any MCP stdio
// server script), asks the configured model for a plan, and executes
// the plan's tool calls.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/webpilot/pkg/config"
	"github.com/entrhq/webpilot/pkg/llm/openai"
	"github.com/entrhq/webpilot/pkg/logging"
	"github.com/entrhq/webpilot/pkg/planner"
)

const defaultTask = "Navigate to Ollama's model library, analyze the page content, and extract information about the available models."

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: webpilot [flags] <server> [task]

  <server>  path to the tool server: a binary, or a .py/.js script
  [task]    task description (default: explore the Ollama model library)

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	model := flag.String("model", "", "model to plan with (overrides config and WEBPILOT_MODEL)")
	taskFile := flag.Bool("file", false, "treat the task argument as a file path")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), flag.Arg(1), *configPath, *model, *taskFile, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "webpilot: %v\n", err)
		os.Exit(1)
	}
}

func run(serverPath, task, configPath, modelFlag string, taskFile, debug bool) error {
	logger, logErr := logging.NewLogger("planner")
	defer logger.Close()
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging unavailable: %v\n", logErr)
	}
	logger.SetDebug(debug)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	model := cfg.Planner.Model
	if env := os.Getenv("WEBPILOT_MODEL"); env != "" {
		model = env
	}
	if modelFlag != "" {
		model = modelFlag
	}

	if task == "" {
		task = defaultTask
	} else if taskFile {
		data, err := os.ReadFile(task)
		if err != nil {
			return fmt.Errorf("failed to read task file: %w", err)
		}
		task = string(data)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := planner.Connect(ctx, serverPath, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	provider := openai.NewProvider(cfg.Planner.APIKey,
		openai.WithModel(model),
		openai.WithBaseURL(cfg.Planner.BaseURL),
	)
	logger.Infof("planning with model %s via %s", provider.GetModel(), provider.GetBaseURL())

	p := planner.New(conn, provider, logger, planner.Options{
		StepDelay:       cfg.Planner.StepDelay.Std(),
		MaxSteps:        cfg.Planner.MaxSteps,
		MaxResultTokens: cfg.Planner.MaxResultTokens,
	})
	p.Report = func(format string, args ...interface{}) {
		fmt.Printf(format+"\n", args...)
	}

	if err := p.Run(ctx, task); err != nil {
		return err
	}
	fmt.Println("Task completed successfully.")
	return nil
}
