package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// localCompleter talks to a model server on the user's machine. A base URL
// on port 1234 is LM Studio (OpenAI-compatible chat completions); anything
// else is treated as Ollama.
type localCompleter struct {
	baseURL    string
	model      string
	lmStudio   bool
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type lmStudioRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type ollamaRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format"`
	Options  struct {
		Temperature float64 `json:"temperature"`
	} `json:"options"`
}

type localResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Message  chatMessage `json:"message"`
	Response string      `json:"response"`
}

const jsonOnly = "\n\nRETURN ONLY VALID JSON, WITHOUT ADDITIONAL TEXT."

func newLocal(cfg Config, o options) *localCompleter {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultLocalBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultLocalModel
	}
	return &localCompleter{
		baseURL:    base,
		model:      model,
		lmStudio:   strings.Contains(base, ":1234"),
		httpClient: o.client,
	}
}

func (l *localCompleter) name() string { return ProviderLocal }

func (l *localCompleter) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	var (
		endpoint string
		body     any
	)
	if l.lmStudio {
		endpoint = "/v1/chat/completions"
		body = lmStudioRequest{
			Model: l.model,
			Messages: []chatMessage{
				{Role: "system", Content: system + jsonOnly},
				{Role: "user", Content: user},
			},
			Temperature: temperature,
			MaxTokens:   -1,
		}
	} else {
		endpoint = "/api/chat"
		req := ollamaRequest{
			Model: l.model,
			Messages: []chatMessage{
				{Role: "system", Content: system},
				{Role: "user", Content: user},
			},
			Format: "json",
		}
		req.Options.Temperature = temperature
		body = req
	}

	reqBody, err := json.Marshal(body)
	if err != nil {
		return "", &Error{Provider: ProviderLocal, Kind: KindConfig, Err: fmt.Errorf("marshal request: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", &Error{Provider: ProviderLocal, Kind: KindConfig, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", &Error{Provider: ProviderLocal, Kind: KindConnectivity, Err: fmt.Errorf("%s: %w", l.baseURL, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", &Error{Provider: ProviderLocal, Kind: KindConnectivity,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))}
	}

	var out localResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{Provider: ProviderLocal, Kind: KindMalformed, Err: fmt.Errorf("decode response: %w", err)}
	}
	content := out.Message.Content
	if l.lmStudio && len(out.Choices) > 0 {
		content = out.Choices[0].Message.Content
	}
	if content == "" {
		content = out.Response
	}
	if strings.TrimSpace(content) == "" {
		return "", &Error{Provider: ProviderLocal, Kind: KindMalformed, Err: errors.New("empty reply")}
	}
	return content, nil
}

// ping lists the server's models.
func (l *localCompleter) ping(ctx context.Context) error {
	endpoint := "/api/tags"
	if l.lmStudio {
		endpoint = "/v1/models"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+endpoint, http.NoBody)
	if err != nil {
		return &Error{Provider: ProviderLocal, Kind: KindConfig, Err: err}
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return &Error{Provider: ProviderLocal, Kind: KindConnectivity, Err: fmt.Errorf("%s: %w", l.baseURL, err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &Error{Provider: ProviderLocal, Kind: KindConnectivity, Err: fmt.Errorf("%s returned %d", l.baseURL, resp.StatusCode)}
	}
	return nil
}
