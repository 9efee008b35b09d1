// Command webpilot-server runs the browser automation tool server on
// the MCP stdio transport. Stdout carries the protocol; diagnostics go
// to the run log under ~/.webpilot/logs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/entrhq/webpilot/pkg/browser"
	"github.com/entrhq/webpilot/pkg/config"
	"github.com/entrhq/webpilot/pkg/logging"
	"github.com/entrhq/webpilot/pkg/server"
	"github.com/entrhq/webpilot/pkg/session"
	"github.com/entrhq/webpilot/pkg/tools"
	browsertools "github.com/entrhq/webpilot/pkg/tools/browser"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	install := flag.Bool("install", false, "download browser binaries before starting")
	flag.Parse()

	if err := run(*configPath, *debug, *install); err != nil {
		fmt.Fprintf(os.Stderr, "webpilot-server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, debug, install bool) error {
	logger, logErr := logging.NewLogger("server")
	defer logger.Close()
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging unavailable: %v\n", logErr)
	}
	logger.SetDebug(debug)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	allowed, err := cfg.CompileAllowlist()
	if err != nil {
		return err
	}

	driver, err := browser.NewPlaywrightDriver(browser.Options{
		Headless:       cfg.Server.Headless,
		ViewportWidth:  cfg.Server.ViewportWidth,
		ViewportHeight: cfg.Server.ViewportHeight,
		NavTimeout:     cfg.Server.NavTimeout.Std(),
		Install:        install || cfg.Server.InstallBrowsers,
	})
	if err != nil {
		return err
	}

	store := session.NewStore(cfg.Server.MaxSessions, logger)
	registry := tools.NewRegistry(logger)
	toolset := browsertools.NewToolset(store, driver, allowed, logger)
	if err := toolset.Register(registry); err != nil {
		driver.Close()
		return err
	}

	logger.Infof("starting %s %s (run %s)", server.Name, server.Version, logger.RunID())
	return server.New(registry, store, driver, logger).Run(context.Background())
}
