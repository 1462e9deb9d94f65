package prompts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var doc = DocumentInfo{Title: "Plenarprotokoll 21/12", Number: "21/12", Date: "2025-06-05", Period: 21}

func TestRenderSummarySystem(t *testing.T) {
	out, err := RenderSummarySystem(context.Background(), doc)
	require.NoError(t, err)
	assert.Contains(t, out, "Plenarprotokoll 21/12")
	assert.Contains(t, out, "Sitzung vom 2025-06-05")
	assert.Contains(t, out, "21. Wahlperiode")
	assert.NotContains(t, out, "{{")
}

func TestRenderAnalysisSystem(t *testing.T) {
	out, err := RenderAnalysisSystem(context.Background(), DocumentInfo{Title: "Ohne Datum"})
	require.NoError(t, err)
	assert.Contains(t, out, "Ohne Datum")
	assert.NotContains(t, out, "Sitzung vom")
	assert.Contains(t, out, "## Abstimmungen und Beschlüsse")
}

func TestRenderChatSystem(t *testing.T) {
	text := "Präsidentin: Die Sitzung ist eröffnet. {{.Title}} bleibt wörtlich."
	out, err := RenderChatSystem(context.Background(), doc, text)
	require.NoError(t, err)
	assert.Contains(t, out, "<protokoll>\n"+text+"\n</protokoll>")
	assert.Contains(t, out, "Websuche")
}
