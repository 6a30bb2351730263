package ai

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/doeshing/aihelp/internal/domain"
)

const systemPrompt = "You are a helpful assistant that translates natural language commands into bash commands."

var userPrompt = template.Must(template.New("user").Parse(`Interpret the following request and provide the bash command that performs it:
{{.Request}}

Rules:
- Respond with only the bash command. No explanation and no markdown.
- Keep it to a single line; chain steps with && when more than one is needed.
- Never produce destructive commands (recursive deletes, disk formatting, raw device writes).
- If the request is too ambiguous to translate safely, reply with exactly: {{.Sentinel}}`))

type promptData struct {
	Request  string
	Sentinel string
}

// renderPromptMessages builds the two-message conversation sent for every request.
func renderPromptMessages(request string) ([]domain.PromptMessage, error) {
	var buf bytes.Buffer
	data := promptData{
		Request:  strings.TrimSpace(request),
		Sentinel: domain.InsufficientInformationSentinel,
	}
	if err := userPrompt.Execute(&buf, data); err != nil {
		return nil, err
	}
	return []domain.PromptMessage{
		{Role: domain.RoleSystem, Content: systemPrompt},
		{Role: domain.RoleUser, Content: buf.String()},
	}, nil
}
