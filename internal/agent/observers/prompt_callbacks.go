package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/prompt"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/plenarlens/server/pkg/logger"
)

// newPromptHandler logs rendered prompts, clipped.
func newPromptHandler() *callbackHelper.PromptCallbackHandler {
	return &callbackHelper.PromptCallbackHandler{
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *prompt.CallbackOutput) context.Context {
			if output != nil && len(output.Result) > 0 && output.Result[0] != nil {
				content := output.Result[0].Content
				logx.Debug().
					Str("run", info.Name).
					Int("chars", len([]rune(content))).
					Str("rendered", clip(content)).
					Msg("prompt rendered")
			}
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().Err(err).Str("run", info.Name).Msg("prompt render failed")
			return ctx
		},
	}
}
