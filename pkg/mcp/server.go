package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/reviewbridge/review-bridge-mcp-server/pkg/config"
	"github.com/reviewbridge/review-bridge-mcp-server/pkg/version"
)

// ToolDef is one registered tool: its advertised schema and its handler.
type ToolDef struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Handler     func(ctx context.Context, args json.RawMessage) (*CallResult, error)
}

// Server implements Router against a static tool registry and the shared
// configuration file.
type Server struct {
	tools      []ToolDef
	configPath string
	log        logr.Logger

	mu         sync.Mutex
	lastConfig *config.StaticConfig
}

// NewServer builds a Server advertising tools, reading the enable map from
// configPath.
func NewServer(tools []ToolDef, configPath string, log logr.Logger) *Server {
	return &Server{
		tools:      tools,
		configPath: configPath,
		log:        log,
		lastConfig: config.Default(),
	}
}

// Initialize builds the MCP handshake response.
func (s *Server) Initialize() (any, error) {
	return initializeResult{
		ProtocolVersion: version.ProtocolVersion,
		Capabilities:    map[string]any{"tools": map[string]any{}},
		ServerInfo:      serverInfo{Name: version.BinaryName, Version: version.Version},
	}, nil
}

// currentConfig re-reads the configuration file, falling back to the last
// successfully loaded configuration (not bare defaults) when the read
// fails, so a transient disk error doesn't flip every tool back on.
func (s *Server) currentConfig() *config.StaticConfig {
	cfg, err := config.Read(s.configPath)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.log.V(1).Info("configuration read failed, using last known value", "reason", err.Error())
		return s.lastConfig
	}
	s.lastConfig = cfg
	return cfg
}

// ListTools returns the currently-enabled tools, re-reading configuration
// on every call so toggles take effect without a restart.
func (s *Server) ListTools() ([]Tool, error) {
	cfg := s.currentConfig()

	out := make([]Tool, 0, len(s.tools))
	for _, t := range s.tools {
		if !cfg.IsEnabled(t.Name) {
			continue
		}
		out = append(out, Tool{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema})
	}
	return out, nil
}

// CallTool routes to the named tool's handler, rejecting unknown or
// disabled tools before the handler ever runs.
func (s *Server) CallTool(ctx context.Context, name string, args json.RawMessage) (*CallResult, error) {
	cfg := s.currentConfig()

	var def *ToolDef
	for i := range s.tools {
		if s.tools[i].Name == name {
			def = &s.tools[i]
			break
		}
	}
	if def == nil {
		return nil, NewInvalidParamsError(fmt.Sprintf("unknown tool %q", name))
	}
	if !cfg.IsEnabled(name) {
		return nil, &DisabledToolError{Tool: name}
	}

	return def.Handler(ctx, args)
}
