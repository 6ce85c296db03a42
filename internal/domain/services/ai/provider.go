package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"wellmind-backend/internal/config"
	"wellmind-backend/pkg/logger"
)

// Turn is one prior exchange passed to the provider as context
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider turns raw user text into a raw model reply. Implementations
// return the reply text expected to contain the analysis JSON object.
type Provider interface {
	Analyze(ctx context.Context, userText string, turns []Turn) (string, error)
}

// MaxContextTurns caps how much prior conversation is sent upstream
const MaxContextTurns = 10

const systemPrompt = `You are a mental wellness analysis assistant.
You must output ONLY valid JSON. No markdown. No extra text.

Return JSON with EXACT keys:
{
  "stress_score": int (0-10),
  "anxiety_score": int (0-10),
  "depression_score": int (0-10),
  "rationale_short": string (1-2 sentences),
  "ai_message": string (empathetic, supportive, non-judgmental),
  "recommendations": array of 3-6 short strings
}

Important:
- This is not a medical diagnosis.
- Avoid absolute certainty; use cautious language.`

// NewProvider selects the provider implementation from configuration.
// Anything other than "openrouter" falls back to the stub.
func NewProvider(cfg config.LLMConfig, log *logger.Logger) Provider {
	if strings.ToLower(cfg.Provider) == "openrouter" {
		return NewOpenRouterProvider(cfg, log)
	}
	return &StubProvider{}
}

// OpenRouterProvider calls an OpenAI-compatible chat-completions
// endpoint and extracts the analysis JSON from the assistant reply.
type OpenRouterProvider struct {
	httpClient *http.Client
	config     config.LLMConfig
	logger     *logger.Logger
}

// NewOpenRouterProvider creates a remote provider
func NewOpenRouterProvider(cfg config.LLMConfig, log *logger.Logger) *OpenRouterProvider {
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2 // Low temperature for consistent scoring
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	return &OpenRouterProvider{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: log.WithComponent("openrouter"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// Analyze sends the system instruction, up to the last ten prior turns
// and the new user text, and returns the extracted reply content.
func (p *OpenRouterProvider) Analyze(ctx context.Context, userText string, turns []Turn) (string, error) {
	if p.config.APIKey == "" {
		return "", fmt.Errorf("openrouter API key is not set")
	}

	url := strings.TrimRight(p.config.BaseURL, "/") + "/chat/completions"

	messages := []chatMessage{{Role: "system", Content: systemPrompt}}
	if len(turns) > MaxContextTurns {
		turns = turns[len(turns)-MaxContextTurns:]
	}
	for _, t := range turns {
		if (t.Role == "user" || t.Role == "assistant") && t.Content != "" {
			messages = append(messages, chatMessage{Role: t.Role, Content: t.Content})
		}
	}
	messages = append(messages, chatMessage{Role: "user", Content: userText})

	body, err := json.Marshal(completionRequest{
		Model:       p.config.Model,
		Messages:    messages,
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		p.logger.Error().Int("status", resp.StatusCode).Msg("openrouter API error")
		return "", fmt.Errorf("openrouter error %d: %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode openrouter response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		p.logger.Error().Str("body", truncate(string(respBody), 500)).Msg("unexpected openrouter response shape")
		return "", fmt.Errorf("unexpected openrouter response shape: no choices")
	}

	// Replies come back wrapped in markdown or prose often enough that
	// extraction happens at the provider boundary.
	return ExtractJSON(parsed.Choices[0].Message.Content), nil
}

// StubProvider returns a fixed, schema-valid reply. Used when no remote
// credential is configured and for deterministic testing; performs no I/O.
type StubProvider struct{}

func (s *StubProvider) Analyze(ctx context.Context, userText string, turns []Turn) (string, error) {
	reply := map[string]any{
		"stress_score":     3,
		"anxiety_score":    3,
		"depression_score": 2,
		"rationale_short":  "Stub output for development.",
		"ai_message":       "Thanks for sharing. Tell me a bit more about what's been on your mind.",
		"recommendations": []string{
			"Take a short breathing break.",
			"Write down one next step you can take today.",
			"Consider speaking with someone you trust if it helps.",
		},
	}
	data, err := json.Marshal(reply)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// truncate bounds s to max characters without splitting a rune
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
