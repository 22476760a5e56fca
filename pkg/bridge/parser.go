package bridge

import (
	"fmt"
	"strings"
)

// compatibilityNote is appended whenever a reply carries image content, for
// clients that only render text.
const compatibilityNote = "Note: image attachments are summarized above; some clients cannot render inline images."

// emptyReplyText is returned when a structured or legacy reply produces no
// text, no options and no images at all.
const emptyReplyText = "user provided nothing"

const cancelledText = "user cancelled"

// Parse interprets the raw stdout of the UI helper and returns the ordered
// MCP content for the tool result, following the decision tree: cancellation
// sentinel, structured reply, legacy array reply, raw text fallback.
func Parse(raw []byte) []ContentItem {
	text := strings.ToValidUTF8(string(raw), "�")
	trimmed := strings.TrimSpace(text)

	if trimmed == "" {
		return []ContentItem{TextContent(cancelledText)}
	}
	for _, sentinel := range CancelledSentinels {
		if trimmed == sentinel {
			return []ContentItem{TextContent(cancelledText)}
		}
	}

	if structured, ok := unmarshalStructured(raw); ok {
		return assemble(structured.UserInput, structured.SelectedOptions, structured.Images)
	}

	if items, ok := unmarshalLegacy(raw); ok {
		return assembleLegacy(items)
	}

	return []ContentItem{TextContent(text)}
}

// assembleLegacy walks the legacy array once, collecting text items
// (including unknown types that still carry a text field) and images in
// encounter order, then delegates to the common assembly rule.
func assembleLegacy(items []legacyItem) []ContentItem {
	var texts []string
	var images []ImageAttachment

	for _, item := range items {
		switch item.Type {
		case "image":
			if item.Source != nil {
				images = append(images, ImageAttachment{
					Data:      item.Source.Data,
					MediaType: item.Source.MediaType,
				})
			}
		default:
			if item.Text != "" {
				texts = append(texts, item.Text)
			}
		}
	}

	return assemble(strings.Join(texts, "\n"), nil, images)
}

// assemble implements the structured-reply assembly rule, shared by the
// structured and legacy decision-tree branches: image items precede a final
// aggregated text item built from the selected-options header, user input,
// per-image info paragraphs and (when images are present) the
// compatibility note.
func assemble(userInput string, selectedOptions []string, images []ImageAttachment) []ContentItem {
	content := make([]ContentItem, 0, len(images)+1)
	for _, img := range images {
		content = append(content, ImageContent(img.Data, img.MediaType))
	}

	var parts []string
	if len(selectedOptions) > 0 {
		parts = append(parts, "Selected: "+strings.Join(selectedOptions, ", "))
	}
	if userInput != "" {
		parts = append(parts, userInput)
	}
	for i, img := range images {
		parts = append(parts, imageInfoParagraph(i+1, img))
	}
	if len(images) > 0 {
		parts = append(parts, compatibilityNote)
	}

	if len(parts) == 0 {
		content = append(content, TextContent(emptyReplyText))
		return content
	}

	content = append(content, TextContent(strings.Join(parts, "\n\n")))
	return content
}

// imageInfoParagraph renders the six labeled fields describing one image
// attachment: index, optional filename, media type, size, a 50-character
// base64 preview, and the full base64 length.
func imageInfoParagraph(index int, img ImageAttachment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== image %d ===\n", index)
	if img.Filename != "" {
		fmt.Fprintf(&b, "Filename: %s\n", img.Filename)
	}
	fmt.Fprintf(&b, "Media type: %s\n", img.MediaType)
	fmt.Fprintf(&b, "Size: %s\n", formatSize(base64DecodedSize(img.Data)))
	fmt.Fprintf(&b, "Preview: %s\n", base64Preview(img.Data))
	fmt.Fprintf(&b, "Base64 length: %d", len(img.Data))
	return b.String()
}

// base64DecodedSize computes the decoded byte size of an un-chunked base64
// string without actually decoding it, matching floor(3*len/4).
func base64DecodedSize(data string) int64 {
	return int64(3*len(data)) / 4
}

const previewLen = 50

// base64Preview returns up to the first 50 characters of data, with an
// ellipsis appended when truncated.
func base64Preview(data string) string {
	if len(data) <= previewLen {
		return data
	}
	return data[:previewLen] + "..."
}

// formatSize renders a byte count as B, or KB/MB with one decimal place.
func formatSize(n int64) string {
	const unit = 1024
	switch {
	case n < unit:
		return fmt.Sprintf("%d B", n)
	case n < unit*unit:
		return fmt.Sprintf("%.1f KB", float64(n)/unit)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(unit*unit))
	}
}
