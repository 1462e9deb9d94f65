package analysis

import (
	"context"
	"os"
	"sync"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/plenarlens/server/internal/agent/llm"
	"github.com/plenarlens/server/internal/agent/model"
	logx "github.com/plenarlens/server/pkg/logger"
)

func TestMain(m *testing.M) {
	logx.Disable()
	os.Exit(m.Run())
}

// fakeFlash records the messages it receives.
type fakeFlash struct {
	mu    sync.Mutex
	calls [][]*schema.Message
	reply string
	err   error
}

func (f *fakeFlash) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, input)
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeFlash) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	panic("not used")
}

// fakeProvider answers per model name.
type fakeProvider struct {
	mu       sync.Mutex
	requests []llm.GenerateRequest
	replies  map[string]*model.Reply
	errs     map[string]error
}

func (p *fakeProvider) Generate(_ context.Context, req llm.GenerateRequest) (*model.Reply, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if err := p.errs[req.Model]; err != nil {
		return nil, err
	}
	if r, ok := p.replies[req.Model]; ok {
		return r, nil
	}
	return &model.Reply{Segments: []model.Segment{{Kind: model.SegmentAnswer, Text: "OK"}}}, nil
}

func (p *fakeProvider) NewChat(context.Context, llm.ChatRequest) (llm.Chat, error) {
	panic("not used")
}

func newService() *Service {
	return NewService(
		model.FlashModelConfig{Model: "flash-test", Temperature: 0.2},
		model.ProModelConfig{Model: "pro-test", Temperature: 0.4, ThinkingBudget: 1024},
		model.AnalysisConfig{MaxChars: 1_500_000},
	)
}
