package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCancelledSentinel(t *testing.T) {
	for _, raw := range []string{"CANCELLED", "  CANCELLED  ", "用户取消了操作", "  用户取消了操作  "} {
		content := Parse([]byte(raw))
		require.Len(t, content, 1)
		assert.Equal(t, "text", content[0].Type)
		assert.Equal(t, cancelledText, content[0].Text)
	}
}

func TestParseEmptyStdoutIsCancellation(t *testing.T) {
	content := Parse([]byte(""))
	require.Len(t, content, 1)
	assert.Equal(t, cancelledText, content[0].Text)
}

func TestParseStructuredTextOnlyRoundTrips(t *testing.T) {
	content := Parse([]byte(`{"user_input":"looks good","selected_options":[],"images":[],"metadata":{}}`))
	require.Len(t, content, 1)
	assert.Equal(t, "looks good", content[0].Text)
}

func TestParseStructuredWithImageAndOptions(t *testing.T) {
	raw := `{"user_input":"looks good","selected_options":["ship it"],"images":[{"data":"AAAA","media_type":"image/png"}],"metadata":{}}`
	content := Parse([]byte(raw))
	require.Len(t, content, 2)

	assert.Equal(t, "image", content[0].Type)
	assert.Equal(t, "AAAA", content[0].Data)
	assert.Equal(t, "image/png", content[0].MimeType)

	text := content[1].Text
	assert.Contains(t, text, "ship it")
	assert.Contains(t, text, "looks good")
	assert.Contains(t, text, "=== image 1 ===")
	assert.Contains(t, text, "image/png")
	assert.Contains(t, text, "3 B")
	assert.Contains(t, text, compatibilityNote)
}

func TestParseLegacyArray(t *testing.T) {
	raw := `[{"type":"text","text":"hello"},{"type":"image","source":{"type":"base64","media_type":"image/jpeg","data":"//8="}}]`
	content := Parse([]byte(raw))
	require.Len(t, content, 2)
	assert.Equal(t, "image", content[0].Type)
	assert.Equal(t, "image/jpeg", content[0].MimeType)
	assert.Contains(t, content[1].Text, "hello")
}

func TestParseRawFallback(t *testing.T) {
	content := Parse([]byte("not json at all"))
	require.Len(t, content, 1)
	assert.Equal(t, "not json at all", content[0].Text)
}

func TestParseNothingProducesPlaceholder(t *testing.T) {
	content := Parse([]byte(`{"selected_options":[],"images":[],"metadata":{}}`))
	require.Len(t, content, 1)
	assert.Equal(t, emptyReplyText, content[0].Text)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", formatSize(0))
	assert.Equal(t, "3 B", formatSize(3))
	assert.Equal(t, "1.0 KB", formatSize(1024))
	assert.Equal(t, "1.0 MB", formatSize(1024*1024))
}

func TestBase64PreviewTruncatesAtFifty(t *testing.T) {
	short := "AAAA"
	assert.Equal(t, short, base64Preview(short))

	long := ""
	for i := 0; i < 80; i++ {
		long += "A"
	}
	preview := base64Preview(long)
	assert.Equal(t, 53, len(preview))
	assert.Equal(t, long[:50]+"...", preview)
}

func TestBase64PreviewEmpty(t *testing.T) {
	assert.Equal(t, "", base64Preview(""))
}
