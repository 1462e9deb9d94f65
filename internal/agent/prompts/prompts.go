package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/summary_prompt.txt
var summarySystemPrompt string

//go:embed template/analysis_prompt.txt
var analysisSystemPrompt string

//go:embed template/chat_prompt.txt
var chatSystemPrompt string

// DocumentInfo is the metadata the templates may reference.
type DocumentInfo struct {
	Title  string
	Number string
	Date   string
	Period int
}

func (d DocumentInfo) vars() map[string]any {
	return map[string]any{
		"Title":  d.Title,
		"Number": d.Number,
		"Date":   d.Date,
		"Period": d.Period,
	}
}

// RenderSummarySystem renders the fast summary instruction.
func RenderSummarySystem(ctx context.Context, doc DocumentInfo) (string, error) {
	return render(ctx, "summary", summarySystemPrompt, doc.vars())
}

// RenderAnalysisSystem renders the deep analysis instruction.
func RenderAnalysisSystem(ctx context.Context, doc DocumentInfo) (string, error) {
	return render(ctx, "analysis", analysisSystemPrompt, doc.vars())
}

// RenderChatSystem renders the chat role instruction with the document
// text embedded as persistent context. text must already be truncated.
func RenderChatSystem(ctx context.Context, doc DocumentInfo, text string) (string, error) {
	vars := doc.vars()
	vars["Document"] = text
	return render(ctx, "chat", chatSystemPrompt, vars)
}

// render formats tpl via the Eino prompt component (Go template) so prompt
// callbacks see every rendered instruction.
func render(ctx context.Context, name, tpl string, vars map[string]any) (string, error) {
	t := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(tpl),
	)
	msgs, err := t.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("%s prompt render: %w", name, err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("%s prompt render: empty result", name)
	}
	return msgs[0].Content, nil
}
