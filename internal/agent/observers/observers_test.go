package observers

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func TestClip(t *testing.T) {
	assert.Equal(t, "kurz", clip("kurz"))
	long := strings.Repeat("ä", maxLogChars+10)
	assert.Equal(t, maxLogChars+1, len([]rune(clip(long))))
}

func TestLastUserContent(t *testing.T) {
	msgs := []*schema.Message{
		schema.SystemMessage("sys"),
		schema.UserMessage(" erste "),
		nil,
		schema.AssistantMessage("antwort", nil),
		schema.UserMessage(" zweite "),
	}
	assert.Equal(t, "zweite", lastUserContent(msgs))
	assert.Empty(t, lastUserContent(nil))
}

func TestWithRunsAttachHandlers(t *testing.T) {
	assert.NotNil(t, NewAllCallbacks())
	assert.NotNil(t, WithChatModelRun(context.Background(), "fast_summary"))
	assert.NotNil(t, WithPromptRun(context.Background(), "summary"))
}
