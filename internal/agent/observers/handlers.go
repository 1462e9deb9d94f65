package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// maxLogChars bounds logged prompt and message content; documents can
// reach millions of characters.
const maxLogChars = 300

// NewAllCallbacks aggregates all observer handlers into one callbacks.Handler.
func NewAllCallbacks() einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		ChatModel(newModelHandler()).
		Prompt(newPromptHandler()).
		Handler()
}

// WithChatModelRun attaches the observers to ctx for a chat model call
// that runs outside an Eino graph.
func WithChatModelRun(ctx context.Context, name string) context.Context {
	return einocb.InitCallbacks(ctx, &einocb.RunInfo{
		Name:      name,
		Type:      "Gemini",
		Component: components.ComponentOfChatModel,
	}, NewAllCallbacks())
}

// WithPromptRun attaches the observers to ctx for a prompt render.
func WithPromptRun(ctx context.Context, name string) context.Context {
	return einocb.InitCallbacks(ctx, &einocb.RunInfo{
		Name:      name,
		Type:      "ChatTemplate",
		Component: components.ComponentOfPrompt,
	}, NewAllCallbacks())
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= maxLogChars {
		return s
	}
	return string(r[:maxLogChars]) + "…"
}
