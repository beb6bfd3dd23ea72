package deck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBuildPrompt(t *testing.T, source string) string {
	t.Helper()
	prompt, err := BuildPrompt(source)
	require.NoError(t, err)
	return prompt
}

func TestBuildPrompt(t *testing.T) {
	source := "Revenue grew 20% in Q3.\nChurn fell to 2%."
	prompt := mustBuildPrompt(t, source)

	assert.True(t, strings.HasSuffix(prompt, source), "source text must be appended verbatim at the end")
	assert.Contains(t, prompt, "1 cover slide followed by 4-8 content slides")
	assert.Contains(t, prompt, "3-5 concise bullet points")
	assert.Contains(t, prompt, "at least 50% of the slides")
	assert.Contains(t, prompt, `"visual"`)
	assert.Contains(t, prompt, `"source"`)
	assert.Contains(t, prompt, `"type": "cover"`)
	assert.Contains(t, prompt, `"type": "content"`)
	assert.NotContains(t, prompt, "{{.SourceText}}")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	assert.Equal(t, mustBuildPrompt(t, "same text"), mustBuildPrompt(t, "same text"))
}

func TestBuildPrompt_PlaceholderInSourceIsVerbatim(t *testing.T) {
	source := "template syntax {{.SourceText}} stays"
	prompt := mustBuildPrompt(t, source)

	assert.True(t, strings.HasSuffix(prompt, source))
	assert.Equal(t, 1, strings.Count(prompt, "{{.SourceText}}"))
}

func TestRenderPrompt_UnknownTemplate(t *testing.T) {
	_, err := renderPrompt("no-such-template", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build prompt")
}

func TestRenderPrompt_SystemHasNoPlaceholders(t *testing.T) {
	prompt, err := renderPrompt(systemPromptKey, "ignored")
	require.NoError(t, err)
	assert.Equal(t, SystemPrompt(), prompt)
}

func TestSystemPrompt(t *testing.T) {
	system := SystemPrompt()
	assert.Contains(t, system, "professional presentation designer")
	assert.Contains(t, system, "Always return valid JSON")
}
