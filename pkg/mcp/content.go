package mcp

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/reviewbridge/review-bridge-mcp-server/pkg/bridge"
)

// Tool is one entry in the tools/list response.
type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

// CallResult is the result of a tools/call request.
type CallResult struct {
	Content []bridge.ContentItem `json:"content"`
	IsError bool                 `json:"isError,omitempty"`
}

// initializeResult is the result payload for the initialize method.
type initializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      serverInfo     `json:"serverInfo"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// listResult is the result payload for tools/list.
type listResult struct {
	Tools []Tool `json:"tools"`
}
