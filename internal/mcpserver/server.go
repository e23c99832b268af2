// Package mcpserver exposes harbor's session operations as MCP tools, so
// coding agents running inside (or alongside) a harbor session can hail,
// survey and parley with services over stdio.
package mcpserver

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harborctl/harbor/internal/core"
	"github.com/harborctl/harbor/internal/parley"
)

// Server wraps the MCP server with harbor's session operations.
type Server struct {
	mcpServer *mcp.Server
	core      *core.Core
}

// NewServer creates a harbor MCP server. Tool calls resolve the session
// registry per call, so the server can outlive a launch/stop cycle.
func NewServer(version string, c *core.Core) *Server {
	s := &Server{core: c}
	s.mcpServer = mcp.NewServer(
		&mcp.Implementation{
			Name:    "harbor",
			Version: version,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves MCP over stdio until ctx is cancelled or the client hangs up.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "hail",
		Description: "Send a command to a service's terminal pane without waiting for output. Subject to the session's access policy.",
	}, s.handleHail)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "survey",
		Description: "Capture the most recent lines of a service's terminal buffer, including scrollback.",
	}, s.handleSurvey)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "parley",
		Description: "Run a command in a service's pane and return just that command's output, delimited by shell markers.",
	}, s.handleParley)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "harbor_context",
		Description: "Describe the running harbor session: services, windows, and what the caller is allowed to reach.",
	}, s.handleContext)
}

// HailInput defines the input parameters for the hail tool.
type HailInput struct {
	Service string `json:"service" jsonschema:"Name of the target service"`
	Command string `json:"command" jsonschema:"Command line to type into the service's pane"`
}

// HailOutput defines the output for the hail tool.
type HailOutput struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleHail(ctx context.Context, req *mcp.CallToolRequest, input HailInput) (*mcp.CallToolResult, HailOutput, error) {
	if input.Service == "" || input.Command == "" {
		return nil, HailOutput{Error: "service and command are required"}, nil
	}
	if err := s.core.Hail(ctx, input.Service, input.Command); err != nil {
		return nil, HailOutput{Error: err.Error()}, nil
	}
	return nil, HailOutput{Success: true}, nil
}

// SurveyInput defines the input parameters for the survey tool.
type SurveyInput struct {
	Service string `json:"service" jsonschema:"Name of the target service"`
	Lines   int    `json:"lines,omitempty" jsonschema:"Number of buffer lines to capture (default 500)"`
}

// SurveyOutput defines the output for the survey tool.
type SurveyOutput struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleSurvey(ctx context.Context, req *mcp.CallToolRequest, input SurveyInput) (*mcp.CallToolResult, SurveyOutput, error) {
	if input.Service == "" {
		return nil, SurveyOutput{Error: "service is required"}, nil
	}
	out, err := s.core.Survey(ctx, input.Service, input.Lines)
	if err != nil {
		return nil, SurveyOutput{Error: err.Error()}, nil
	}
	return nil, SurveyOutput{Output: out}, nil
}

// ParleyInput defines the input parameters for the parley tool.
type ParleyInput struct {
	Service   string `json:"service" jsonschema:"Name of the target service"`
	Command   string `json:"command" jsonschema:"Command to run in the service's pane"`
	TimeoutMs int    `json:"timeout_ms,omitempty" jsonschema:"How long to let the command run before capturing, in milliseconds (default 3000)"`
}

// ParleyOutput defines the output for the parley tool.
type ParleyOutput struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleParley(ctx context.Context, req *mcp.CallToolRequest, input ParleyInput) (*mcp.CallToolResult, ParleyOutput, error) {
	if input.Service == "" || input.Command == "" {
		return nil, ParleyOutput{Error: "service and command are required"}, nil
	}
	timeout := parley.DefaultDwell
	if input.TimeoutMs > 0 {
		timeout = time.Duration(input.TimeoutMs) * time.Millisecond
	}
	out, err := s.core.Parley(ctx, input.Service, input.Command, timeout)
	if err != nil {
		return nil, ParleyOutput{Error: err.Error()}, nil
	}
	return nil, ParleyOutput{Output: out}, nil
}

// ContextInput defines the input parameters for the harbor_context tool.
type ContextInput struct{}

// ContextOutput defines the output for the harbor_context tool.
type ContextOutput struct {
	Context string `json:"context"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleContext(ctx context.Context, req *mcp.CallToolRequest, input ContextInput) (*mcp.CallToolResult, ContextOutput, error) {
	doc, err := s.core.SessionContext(ctx)
	if err != nil {
		return nil, ContextOutput{Error: err.Error()}, nil
	}
	return nil, ContextOutput{Context: doc}, nil
}
