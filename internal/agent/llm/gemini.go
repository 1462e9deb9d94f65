package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/plenarlens/server/internal/agent/model"
	logx "github.com/plenarlens/server/pkg/logger"
)

// ErrEmptyResponse is returned when Gemini sends no candidate content.
var ErrEmptyResponse = errors.New("llm: empty model response")

// Gemini implements Provider on top of the genai SDK.
type Gemini struct {
	client *genai.Client
}

// NewGeminiClient creates the genai client shared by all handles of one key.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}
	return client, nil
}

func NewGemini(client *genai.Client) *Gemini {
	return &Gemini{client: client}
}

// Generate runs a single request and converts the response.
func (g *Gemini) Generate(ctx context.Context, req GenerateRequest) (*model.Reply, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:    req.Temperature,
		ThinkingConfig: thinking(req.ThinkingBudget),
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = req.MaxOutputTokens
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		logx.Warn().Err(err).Str("model", req.Model).Msg("generate content failed")
		return nil, err
	}
	return ConvertResponse(req.Model, resp)
}

// NewChat creates a dialogue; no request is sent until the first Send.
func (g *Gemini) NewChat(ctx context.Context, req ChatRequest) (Chat, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:    req.Temperature,
		ThinkingConfig: thinking(req.ThinkingBudget),
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.WebSearch {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	chat, err := g.client.Chats.Create(ctx, req.Model, cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return &geminiChat{chat: chat, model: req.Model}, nil
}

type geminiChat struct {
	chat  *genai.Chat
	model string
}

func (c *geminiChat) Send(ctx context.Context, text string) (*model.Reply, error) {
	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		logx.Warn().Err(err).Str("model", c.model).Msg("chat message failed")
		return nil, err
	}
	return ConvertResponse(c.model, resp)
}

func thinking(budget int32) *genai.ThinkingConfig {
	if budget <= 0 {
		return nil
	}
	return &genai.ThinkingConfig{
		IncludeThoughts: true,
		ThinkingBudget:  genai.Ptr(budget),
	}
}

// ConvertResponse classifies the parts of the first candidate into answer
// and reasoning segments. This is the only place that inspects Part.Thought.
func ConvertResponse(modelName string, resp *genai.GenerateContentResponse) (*model.Reply, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("%w: blocked (%s)", ErrEmptyResponse, resp.PromptFeedback.BlockReason)
		}
		return nil, ErrEmptyResponse
	}

	reply := &model.Reply{Model: modelName}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		kind := model.SegmentAnswer
		if part.Thought {
			kind = model.SegmentReasoning
		}
		reply.Segments = append(reply.Segments, model.Segment{Kind: kind, Text: part.Text})
	}

	if um := resp.UsageMetadata; um != nil {
		reply.Usage = &model.Usage{
			PromptTokens:     int(um.PromptTokenCount),
			CompletionTokens: int(um.CandidatesTokenCount),
			ThoughtTokens:    int(um.ThoughtsTokenCount),
			TotalTokens:      int(um.TotalTokenCount),
		}
	}
	LogUsage(reply)
	return reply, nil
}

// LogUsage computes and logs the cost of a reply.
func LogUsage(reply *model.Reply) {
	if reply == nil || reply.Usage == nil {
		return
	}
	inC, outC, totalC := model.ComputeCost(reply.Usage, model.ResolvePricing(reply.Model))
	logx.Debug().
		Str("model", reply.Model).
		Int("prompt_tokens", reply.Usage.PromptTokens).
		Int("completion_tokens", reply.Usage.CompletionTokens).
		Int("thought_tokens", reply.Usage.ThoughtTokens).
		Int("total_tokens", reply.Usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}
