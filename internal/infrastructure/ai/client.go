// Package ai talks to an OpenAI-compatible chat completions endpoint (Groq by
// default) and turns the reply into a single command string.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/ports"
)

// maxErrorBody caps how much of a failed response is quoted back.
const maxErrorBody = 512

// Client implements ports.CompletionClient. It sends exactly one request per
// Generate call and never retries.
type Client struct {
	endpoint   string
	apiKey     string
	maxTokens  int
	httpClient *http.Client
	logger     ports.Logger
}

// NewClient reads the API key from the configured environment variable.
// A missing key is reported as *domain.CredentialMissingError.
func NewClient(settings domain.Settings, httpClient *http.Client, logger ports.Logger) (*Client, error) {
	settings = settings.WithDefaults()
	apiKey := strings.TrimSpace(os.Getenv(settings.CredentialEnv))
	if apiKey == "" {
		return nil, &domain.CredentialMissingError{EnvVar: settings.CredentialEnv}
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   settings.Endpoint,
		apiKey:     apiKey,
		maxTokens:  settings.MaxTokens,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Generate implements ports.CompletionClient. The returned text is trimmed
// and stripped of markdown code fences; emptiness and the sentinel reply are
// left for the caller to interpret.
func (c *Client) Generate(ctx context.Context, req domain.CommandRequest) (domain.GeneratedCommand, error) {
	messages, err := renderPromptMessages(req.Prompt)
	if err != nil {
		return domain.GeneratedCommand{}, fmt.Errorf("render prompt: %w", err)
	}

	payload, err := json.Marshal(chatCompletionRequest{
		Model:     req.Model,
		Messages:  messages,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return domain.GeneratedCommand{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.GeneratedCommand{}, err
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("authorization", "Bearer "+c.apiKey)

	c.debug("completion request", map[string]interface{}{"endpoint": c.endpoint, "model": req.Model})
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.GeneratedCommand{}, fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.GeneratedCommand{}, fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return domain.GeneratedCommand{}, fmt.Errorf("completion request: %s: %s", resp.Status, errorMessage(body))
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.GeneratedCommand{}, fmt.Errorf("decode completion response: %w", err)
	}

	reply := parsed.FirstMessage()
	c.debug("completion reply", map[string]interface{}{"reply": reply})
	return domain.GeneratedCommand{Text: extractCommand(reply), Request: req}, nil
}

func (c *Client) debug(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

// errorMessage prefers the provider's {"error":{"message":...}} shape.
func errorMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody] + "..."
	}
	return text
}

var _ ports.CompletionClient = (*Client)(nil)
