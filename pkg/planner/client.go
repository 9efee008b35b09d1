package planner

import (
	"context"
	"fmt"
	"strings"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/entrhq/webpilot/pkg/logging"
)

// ToolCaller is the server surface the planner needs. Implemented by
// ServerConn; faked in tests.
type ToolCaller interface {
	ListTools(ctx context.Context) ([]ToolInfo, error)
	CallTool(ctx context.Context, name string, args map[string]interface{}) (string, error)
}

// ServerConn is a stdio MCP connection to a spawned tool server.
type ServerConn struct {
	client *mcpclient.StdioMCPClient
	logger *logging.Logger
}

// serverCommand maps a server path onto the command that runs it:
// Python and Node scripts go through their interpreters, anything else
// is executed directly.
func serverCommand(path string) (string, []string) {
	switch {
	case strings.HasSuffix(path, ".py"):
		return "python3", []string{path}
	case strings.HasSuffix(path, ".js"):
		return "node", []string{path}
	default:
		return path, nil
	}
}

// Connect spawns the server process and completes the MCP handshake.
func Connect(ctx context.Context, serverPath string, logger *logging.Logger) (*ServerConn, error) {
	command, args := serverCommand(serverPath)

	c, err := mcpclient.NewStdioMCPClient(command, nil, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to start server %q: %w", serverPath, err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "webpilot-planner",
		Version: "1.0.0",
	}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}

	logger.Infof("connected to tool server %s", serverPath)
	return &ServerConn{client: c, logger: logger}, nil
}

// ListTools returns the tools the server advertises.
func (s *ServerConn) ListTools(ctx context.Context) ([]ToolInfo, error) {
	result, err := s.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	infos := make([]ToolInfo, 0, len(result.Tools))
	for _, t := range result.Tools {
		infos = append(infos, ToolInfo{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.InputSchema,
		})
	}
	return infos, nil
}

// CallTool invokes one tool and returns its text payload. Tool-level
// failures come back as errors carrying the server's message.
func (s *ServerConn) CallTool(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := s.client.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("tool %s failed: %w", name, err)
	}

	text := firstText(result.Content)
	if result.IsError {
		return "", fmt.Errorf("tool %s failed: %s", name, text)
	}
	return text, nil
}

// Close tears down the server process.
func (s *ServerConn) Close() error {
	return s.client.Close()
}

func firstText(content []mcp.Content) string {
	for _, c := range content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
