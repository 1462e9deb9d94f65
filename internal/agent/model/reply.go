package model

import "strings"

// SegmentKind separates the user-facing answer from the model's reasoning.
type SegmentKind int

const (
	SegmentAnswer SegmentKind = iota
	SegmentReasoning
)

// Segment is one piece of a model response, classified once when the
// provider response is converted.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Usage is the token accounting reported by the provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	ThoughtTokens    int
	TotalTokens      int
}

// Reply is a provider-independent model response.
type Reply struct {
	Model    string
	Segments []Segment
	Usage    *Usage
}

// Answer joins the answer segments in order.
func (r *Reply) Answer() string {
	return r.join(SegmentAnswer)
}

// Thoughts joins the reasoning segments; empty when the model emitted none.
func (r *Reply) Thoughts() string {
	return r.join(SegmentReasoning)
}

func (r *Reply) join(kind SegmentKind) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	for _, s := range r.Segments {
		if s.Kind != kind || s.Text == "" {
			continue
		}
		b.WriteString(s.Text)
	}
	return strings.TrimSpace(b.String())
}
