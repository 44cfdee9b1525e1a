package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"study-backend/internal/llm"
	"study-backend/internal/shared/telemetry"
)

const defaultAPIURL = "https://api.openai.com/v1/chat/completions"

// probePrompt is the trivial prompt used to check whether a candidate
// model responds at all.
const probePrompt = "Reply with the single word: ok"

// Client implements llm.Client using OpenAI Chat Completions. It holds a
// prioritized list of candidate models (cost-efficient first) and probes
// them in order on first use, caching the first one that answers for the
// life of the process. The cache is explicit state: Init probes eagerly,
// Invalidate clears it.
type Client struct {
	apiKey     string
	apiURL     string
	models     []string
	httpClient *http.Client

	mu       sync.Mutex
	selected string
}

// NewClient constructs a new OpenAI client with the given model candidates.
func NewClient(apiKey string, models []string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("at least one candidate model is required")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	apiURL := defaultAPIURL
	if raw := strings.TrimSpace(os.Getenv("OPENAI_API_URL")); raw != "" {
		apiURL = raw
	}
	return &Client{
		apiKey: apiKey,
		apiURL: apiURL,
		models: models,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Init probes the candidate models in order and caches the first that
// responds. Calling it at startup front-loads the probe cost; Generate
// probes lazily otherwise.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.model(ctx)
	return err
}

// Invalidate clears the cached model so the next call re-probes.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.selected = ""
	c.mu.Unlock()
}

// Generate sends the prompt to the selected model and returns its text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	model, err := c.model(ctx)
	if err != nil {
		return "", err
	}
	return c.complete(ctx, model, prompt)
}

func (c *Client) model(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected != "" {
		return c.selected, nil
	}

	var lastErr error
	for _, candidate := range c.models {
		if _, err := c.complete(ctx, candidate, probePrompt); err != nil {
			lastErr = err
			telemetry.Warn("llm.probe_failed", map[string]any{
				"model": candidate,
				"error": err.Error(),
			})
			continue
		}
		c.selected = candidate
		telemetry.Info("llm.model_selected", map[string]any{"model": candidate})
		return candidate, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no candidate models configured")
	}
	return "", fmt.Errorf("all candidate models failed: %w", lastErr)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (c *Client) complete(ctx context.Context, model, prompt string) (string, error) {
	temp := float32(0)
	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: &temp,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai response empty content")
	}
	if parsed.Usage != nil {
		telemetry.Info("llm.response", map[string]any{
			"model":             model,
			"prompt_tokens":     parsed.Usage.PromptTokens,
			"completion_tokens": parsed.Usage.CompletionTokens,
			"total_tokens":      parsed.Usage.TotalTokens,
		})
	}
	return content, nil
}

var _ llm.Client = (*Client)(nil)
