// Package bridge implements the cross-process interaction pipeline: building
// a popup request descriptor, handing it to an out-of-process UI helper,
// and parsing the helper's reply back into MCP content.
package bridge

import (
	"github.com/google/uuid"
)

// Request is the popup request descriptor written to the temp file handed
// to the UI helper. It is immutable once written.
type Request struct {
	ID                string   `json:"id"`
	Message           string   `json:"message"`
	PredefinedOptions []string `json:"predefined_options"`
	IsMarkdown        bool     `json:"is_markdown"`
}

// NewRequest allocates a fresh request id and builds the descriptor for one
// interactive prompt.
func NewRequest(message string, predefinedOptions []string, isMarkdown bool) *Request {
	if predefinedOptions == nil {
		predefinedOptions = []string{}
	}
	return &Request{
		ID:                uuid.NewString(),
		Message:           message,
		PredefinedOptions: predefinedOptions,
		IsMarkdown:        isMarkdown,
	}
}
