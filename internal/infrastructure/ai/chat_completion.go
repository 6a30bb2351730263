package ai

import (
	"strings"

	"github.com/doeshing/aihelp/internal/domain"
)

type chatCompletionRequest struct {
	Model     string                 `json:"model"`
	Messages  []domain.PromptMessage `json:"messages"`
	MaxTokens int                    `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message domain.PromptMessage `json:"message"`
	} `json:"choices"`
}

func (c chatCompletionResponse) FirstMessage() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(c.Choices[0].Message.Content)
}

// extractCommand strips a surrounding markdown code fence. Models are told
// not to emit one but occasionally do.
func extractCommand(content string) string {
	if code, ok := extractCodeBlock(content); ok {
		return code
	}
	return strings.TrimSpace(content)
}

func extractCodeBlock(content string) (string, bool) {
	start := strings.Index(content, "```")
	if start == -1 {
		return "", false
	}
	suffix := content[start+3:]
	end := strings.Index(suffix, "```")
	if end == -1 {
		return "", false
	}

	lines := strings.Split(suffix[:end], "\n")
	// A lone word on the opening line is a language tag such as "bash".
	if len(lines) > 1 && !strings.ContainsAny(strings.TrimSpace(lines[0]), " \t") {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), true
}
