// Package tools wires the two MCP tools (prompt, memo) to the underlying
// bridge and memory packages, as mcp.ToolDef registry entries.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/afero"

	"github.com/reviewbridge/review-bridge-mcp-server/pkg/bridge"
	"github.com/reviewbridge/review-bridge-mcp-server/pkg/config"
	"github.com/reviewbridge/review-bridge-mcp-server/pkg/mcp"
)

// PromptArgs is the argument object for the prompt tool.
type PromptArgs struct {
	Message           string   `json:"message"`
	PredefinedOptions []string `json:"predefined_options"`
	IsMarkdown        *bool    `json:"is_markdown"`
}

var promptSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"message": {
			Type:        "string",
			Description: "The text to show the human reviewer. Must be non-empty.",
		},
		"predefined_options": {
			Type:        "array",
			Items:       &jsonschema.Schema{Type: "string"},
			Description: "Optional list of choices the reviewer can pick from.",
		},
		"is_markdown": {
			Type:        "boolean",
			Description: "Render the message as markdown. Defaults to true.",
		},
	},
	Required: []string{"message"},
}

// NewPromptTool builds the prompt tool's registry entry: it writes a
// request descriptor, invokes the UI helper, and parses the reply into MCP
// content.
func NewPromptTool(fs afero.Fs, tempDir string, invoker *bridge.Invoker, log logr.Logger) mcp.ToolDef {
	mgr := bridge.NewTempManager(fs, tempDir)

	return mcp.ToolDef{
		Name:        config.ToolPrompt,
		Description: "Show an interactive popup to the human reviewer and wait for their reply.",
		InputSchema: promptSchema,
		Handler: func(ctx context.Context, raw json.RawMessage) (*mcp.CallResult, error) {
			var args PromptArgs
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &args); err != nil {
					return nil, mcp.NewInvalidParamsError("invalid prompt arguments: " + err.Error())
				}
			}
			if strings.TrimSpace(args.Message) == "" {
				return nil, mcp.NewInvalidParamsError("message must not be empty")
			}

			isMarkdown := true
			if args.IsMarkdown != nil {
				isMarkdown = *args.IsMarkdown
			}

			req := bridge.NewRequest(args.Message, args.PredefinedOptions, isMarkdown)

			path, release, err := mgr.Write(req)
			if err != nil {
				return nil, fmt.Errorf("failed to write request descriptor: %w", err)
			}
			defer release()

			helperPath, err := invoker.Locate()
			if err != nil {
				return nil, err
			}

			log.V(1).Info("invoking UI helper", "request_id", req.ID, "helper", helperPath)

			stdout, err := invoker.Invoke(ctx, helperPath, path)
			if err != nil {
				if errors.Is(err, bridge.ErrTimeout) {
					return nil, fmt.Errorf("interactive prompt timed out after %s", invoker.Timeout)
				}
				return nil, err
			}

			content := bridge.Parse(stdout)
			return &mcp.CallResult{Content: content}, nil
		},
	}
}
