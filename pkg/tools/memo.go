package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/afero"

	"github.com/reviewbridge/review-bridge-mcp-server/pkg/bridge"
	"github.com/reviewbridge/review-bridge-mcp-server/pkg/config"
	"github.com/reviewbridge/review-bridge-mcp-server/pkg/mcp"
	"github.com/reviewbridge/review-bridge-mcp-server/pkg/memory"
)

// MemoArgs is the argument object for the memo tool.
type MemoArgs struct {
	Action      string `json:"action"`
	ProjectPath string `json:"project_path"`
	Content     string `json:"content"`
	Category    string `json:"category"`
}

// Action tokens accepted for the memo tool. Both localized spellings the
// original UI emits for "remember"/"recall" are accepted, plus the English
// aliases as a documented extension.
const (
	actionRememberLocalized = "記憶"
	actionRememberEnglish   = "remember"

	actionRecallSimplified  = "回忆"
	actionRecallTraditional = "回憶"
	actionRecallEnglish     = "recall"
)

func isRememberAction(action string) bool {
	return action == actionRememberLocalized || action == actionRememberEnglish
}

func isRecallAction(action string) bool {
	return action == actionRecallSimplified || action == actionRecallTraditional || action == actionRecallEnglish
}

var memoSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"action": {
			Type:        "string",
			Description: "Either the remember or recall action token (localized or English alias).",
		},
		"project_path": {
			Type:        "string",
			Description: "Path to the project; must live inside a git working tree.",
		},
		"content": {
			Type:        "string",
			Description: "The note to remember. Required when action is remember.",
		},
		"category": {
			Type:        "string",
			Description: "One of rule, preference, pattern, context. Defaults to context.",
		},
	},
	Required: []string{"action", "project_path"},
}

// NewMemoTool builds the memo tool's registry entry: project-anchored
// remember/recall against the categorized memory store.
func NewMemoTool(fs afero.Fs, log logr.Logger) mcp.ToolDef {
	return mcp.ToolDef{
		Name:        config.ToolMemo,
		Description: "Record or recall project-anchored notes in a git-rooted memory store.",
		InputSchema: memoSchema,
		Handler: func(ctx context.Context, raw json.RawMessage) (*mcp.CallResult, error) {
			var args MemoArgs
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &args); err != nil {
					return nil, mcp.NewInvalidParamsError("invalid memo arguments: " + err.Error())
				}
			}

			if !isRememberAction(args.Action) && !isRecallAction(args.Action) {
				return nil, mcp.NewInvalidParamsError(fmt.Sprintf("unrecognized memo action %q", args.Action))
			}

			normalized, err := memory.NormalizeProjectPath(args.ProjectPath)
			if err != nil {
				return nil, mcp.NewInvalidParamsError(fmt.Sprintf("invalid project path %q: %s", args.ProjectPath, err.Error()))
			}

			isDir, err := afero.IsDir(fs, normalized)
			if err != nil || !isDir {
				return nil, mcp.NewInvalidParamsError(fmt.Sprintf(
					"project path %q (normalized: %q) does not exist or is not a directory", args.ProjectPath, normalized))
			}

			gitRoot, err := memory.FindGitRoot(fs, normalized)
			if err != nil {
				return nil, mcp.NewInvalidParamsError(fmt.Sprintf(
					"project path %q (normalized: %q): %s", args.ProjectPath, normalized, err.Error()))
			}

			store, err := memory.Open(fs, gitRoot)
			if err != nil {
				return nil, fmt.Errorf("failed to open memory store: %w", err)
			}

			if isRememberAction(args.Action) {
				return remember(store, args)
			}
			return recall(store)
		},
	}
}

func remember(store *memory.Store, args MemoArgs) (*mcp.CallResult, error) {
	if strings.TrimSpace(args.Content) == "" {
		return nil, mcp.NewInvalidParamsError("content must not be empty for a remember action")
	}

	category := memory.ParseCategory(args.Category)
	entry, err := store.Append(category, args.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to append memory entry: %w", err)
	}

	text := fmt.Sprintf("Remembered (%s): %s [id=%s]", category.String(), entry.Content, entry.ID)
	return &mcp.CallResult{Content: []bridge.ContentItem{bridge.TextContent(text)}}, nil
}

func recall(store *memory.Store) (*mcp.CallResult, error) {
	overview, err := store.Recall()
	if err != nil {
		return nil, fmt.Errorf("failed to recall memory: %w", err)
	}
	return &mcp.CallResult{Content: []bridge.ContentItem{bridge.TextContent(overview)}}, nil
}
