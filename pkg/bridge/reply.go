package bridge

import "encoding/json"

// CancelledSentinels are the raw helper stdout values that mean the human
// dismissed the popup without answering: the English sentinel and the
// localized token ("the user cancelled the operation") the UI helper
// actually emits.
var CancelledSentinels = []string{"CANCELLED", "用户取消了操作"}

// StructuredReply is the structured form of a popup reply.
type StructuredReply struct {
	UserInput       string            `json:"user_input,omitempty"`
	SelectedOptions []string          `json:"selected_options"`
	Images          []ImageAttachment `json:"images"`
	Metadata        ReplyMetadata     `json:"metadata"`
}

// ImageAttachment is one image handed back by the UI helper.
type ImageAttachment struct {
	Data      string `json:"data"`
	MediaType string `json:"media_type"`
	Filename  string `json:"filename,omitempty"`
}

// ReplyMetadata accompanies a structured reply.
type ReplyMetadata struct {
	Timestamp string `json:"timestamp,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Source    string `json:"source,omitempty"`
}

// legacyItem is one element of the legacy array-of-content reply form.
type legacyItem struct {
	Type   string        `json:"type"`
	Text   string        `json:"text,omitempty"`
	Source *legacySource `json:"source,omitempty"`
}

type legacySource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// ContentItem is the MCP tagged content union returned from a tool call.
type ContentItem struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// TextContent builds a text content item.
func TextContent(text string) ContentItem {
	return ContentItem{Type: "text", Text: text}
}

// ImageContent builds an image content item.
func ImageContent(data, mimeType string) ContentItem {
	return ContentItem{Type: "image", Data: data, MimeType: mimeType}
}

func unmarshalStructured(raw []byte) (*StructuredReply, bool) {
	var r StructuredReply
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, false
	}
	// `null` or an empty object unmarshals without error but carries none of
	// the structured reply's shape; when every field is empty, require the
	// object to have at least one key so we don't mistake `{}`-like noise for
	// a real reply.
	if r.UserInput == "" && len(r.SelectedOptions) == 0 && len(r.Images) == 0 &&
		r.Metadata == (ReplyMetadata{}) {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(raw, &probe); err != nil || len(probe) == 0 {
			return nil, false
		}
	}
	return &r, true
}

func unmarshalLegacy(raw []byte) ([]legacyItem, bool) {
	var items []legacyItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}
