package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conschat/conschat-go/internal/provider"
)

func TestHistory(t *testing.T) {
	var h History
	_, ok := h.RemoveLast()
	assert.False(t, ok)
	_, ok = h.Last()
	assert.False(t, ok)

	h.Append(provider.Message{Role: provider.RoleUser, Content: "Hello"})
	h.Append(provider.Message{Role: provider.RoleAssistant, Content: "Hi there!"})
	assert.Equal(t, 2, h.Len())

	snapshot := h.Messages()
	snapshot[0].Content = "changed"
	assert.Equal(t, "Hello", h.Messages()[0].Content)

	last, ok := h.RemoveLast()
	assert.True(t, ok)
	assert.Equal(t, provider.RoleAssistant, last.Role)
	assert.Equal(t, 1, h.Len())

	h.Clear()
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, h.Messages())
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"", Command{Kind: CommandExit}},
		{"\n", Command{Kind: CommandExit}},
		{"\r\n", Command{Kind: CommandExit}},
		{"/clearctx\n", Command{Kind: CommandClear}},
		{"/regenerate\r\n", Command{Kind: CommandRegenerate}},
		{"/system Be terse.\n", Command{Kind: CommandSystem, Text: "Be terse."}},
		{"/system \n", Command{Kind: CommandSystem, Text: ""}},
		{"/system\n", Command{Kind: CommandUser, Text: "/system"}},
		{"/clearctx now\n", Command{Kind: CommandUser, Text: "/clearctx now"}},
		{" /regenerate\n", Command{Kind: CommandUser, Text: " /regenerate"}},
		{"  Hello  \n", Command{Kind: CommandUser, Text: "  Hello  "}},
		{" \n", Command{Kind: CommandUser, Text: " "}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCommand(tt.line), "%q", tt.line)
	}
}
