// Package mcp exposes the pipeline's stages as MCP tools over stdio.
//
// MCP clients drive a run one stage at a time: analyze_url opens a
// session and researches the brand, brand_strategy and
// creative_concepts advance it, regenerate_concepts loops with
// feedback, select_concept picks the narrative, generate_script and
// generate_storyboard finish the run. Session state is stored under a
// generated run identifier and threaded through every call; nothing is
// process-global.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/moritzschallercs50/FrameAgent-Studio/pipeline"
	"github.com/moritzschallercs50/FrameAgent-Studio/store"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// Server holds the pipeline stages and the session store behind the
// MCP tool handlers.
type Server struct {
	stages   *pipeline.Stages
	sessions *store.Sessions[Session]
}

// NewServer creates an MCP server exposing the pipeline stages as
// tools. Sessions are stored in the given adapter; pass a
// store.NewMemoryAdapter() for single-process use.
func NewServer(stages *pipeline.Stages, adapter store.Adapter, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "frameagent-studio",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Server{
		stages:   stages,
		sessions: store.NewSessions[Session](adapter),
	}

	mcpServer := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)
	return mcpServer
}

// ServeStdio starts the MCP server over stdin/stdout, the standard
// transport for servers invoked as subprocesses.
func ServeStdio(stages *pipeline.Stages, adapter store.Adapter, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(stages, adapter, opts...))
}

// decodeArgs unmarshals the request arguments into a typed struct.
func decodeArgs(req mcp.CallToolRequest, v any) error {
	if req.Params.Arguments == nil {
		return json.Unmarshal([]byte("{}"), v)
	}
	data, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return fmt.Errorf("marshal arguments: %w", err)
	}
	return json.Unmarshal(data, v)
}

// withSession loads a session, applies fn to it, and saves it back.
// fn returns the JSON-serializable tool result.
func (s *Server) withSession(ctx context.Context, id string, fn func(*Session) (any, error)) (*mcp.CallToolResult, error) {
	if id == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}
	sess, ok, err := s.sessions.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown session: %s", id)), nil
	}

	result, err := fn(&sess)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.sessions.Put(ctx, id, sess); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
