// Package server exposes the tool registry over the Model Context
// Protocol's stdio transport. Stdout belongs to the protocol; all
// diagnostics go through the file logger.
package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/entrhq/webpilot/pkg/browser"
	"github.com/entrhq/webpilot/pkg/logging"
	"github.com/entrhq/webpilot/pkg/session"
	"github.com/entrhq/webpilot/pkg/tools"
)

const (
	// Name identifies the server during the MCP handshake.
	Name = "webpilot"

	// Version is the protocol-visible server version.
	Version = "1.0.0"
)

// Server bridges the registry onto an MCP stdio server and owns the
// shutdown sweep of sessions and driver.
type Server struct {
	mcp      *mcpserver.MCPServer
	registry *tools.Registry
	store    *session.Store
	driver   browser.Driver
	logger   *logging.Logger
}

// New builds the MCP server and declares every registered tool on it.
func New(registry *tools.Registry, store *session.Store, driver browser.Driver, logger *logging.Logger) *Server {
	s := &Server{
		mcp:      mcpserver.NewMCPServer(Name, Version, mcpserver.WithToolCapabilities(true)),
		registry: registry,
		store:    store,
		driver:   driver,
		logger:   logger,
	}

	for _, desc := range registry.Descriptors() {
		s.mcp.AddTool(buildTool(desc), s.handlerFor(desc.Name))
	}
	return s
}

// handlerFor adapts dispatch to the MCP handler signature. Dispatch
// failures become protocol-level tool errors, never Go errors, so the
// client always receives the typed kind and message.
func (s *Server) handlerFor(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := s.registry.Dispatch(ctx, name, req.Params.Arguments)
		if !result.OK() {
			return errorResult(result.Err.Error()), nil
		}
		return mcp.NewToolResultText(result.Text), nil
	}
}

// errorResult builds a tool-error result carrying the failure message.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: message}},
		IsError: true,
	}
}

// Run serves the stdio transport until the client disconnects or the
// process receives an interrupt. All sessions and the driver are torn
// down before returning.
func (s *Server) Run(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan error, 1)
	go func() {
		done <- mcpserver.ServeStdio(s.mcp)
	}()

	var err error
	select {
	case sig := <-sigCh:
		s.logger.Infof("received %s, shutting down", sig)
	case <-ctx.Done():
		s.logger.Infof("context cancelled, shutting down")
	case err = <-done:
	}

	s.shutdown()
	return err
}

// shutdown sweeps every live session and stops the driver. Best-effort;
// failures are logged, never propagated.
func (s *Server) shutdown() {
	closed := s.store.CloseAll()
	s.logger.Infof("shutdown complete, closed %d sessions", closed)
	if err := s.driver.Close(); err != nil {
		s.logger.Warnf("driver close failed: %v", err)
	}
}

// buildTool converts a descriptor into its MCP tool declaration.
func buildTool(desc tools.Descriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(desc.Description)}

	for _, p := range desc.Params {
		propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}

		switch p.Type {
		case tools.TypeString:
			if len(p.Enum) > 0 {
				propOpts = append(propOpts, mcp.Enum(p.Enum...))
			}
			if p.MaxLen > 0 {
				propOpts = append(propOpts, mcp.MaxLength(p.MaxLen))
			}
			if s, ok := p.Default.(string); ok {
				propOpts = append(propOpts, mcp.DefaultString(s))
			}
			opts = append(opts, mcp.WithString(p.Name, propOpts...))

		case tools.TypeInteger:
			if p.Min != nil {
				propOpts = append(propOpts, mcp.Min(float64(*p.Min)))
			}
			if p.Max != nil {
				propOpts = append(propOpts, mcp.Max(float64(*p.Max)))
			}
			if n, ok := p.Default.(int); ok {
				propOpts = append(propOpts, mcp.DefaultNumber(float64(n)))
			}
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))

		case tools.TypeBoolean:
			if b, ok := p.Default.(bool); ok {
				propOpts = append(propOpts, mcp.DefaultBool(b))
			}
			opts = append(opts, mcp.WithBoolean(p.Name, propOpts...))
		}
	}

	return mcp.NewTool(desc.Name, opts...)
}
