package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 8192

type anthropicCompleter struct {
	client anthropic.Client
	model  string
}

func newAnthropic(cfg Config, o options) *anthropicCompleter {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(o.client),
		// No automatic retries.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &anthropicCompleter{client: anthropic.NewClient(opts...), model: model}
}

func (a *anthropicCompleter) name() string { return ProviderAnthropic }

func (a *anthropicCompleter) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   anthropicMaxTokens,
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(user))},
		Temperature: anthropic.Float(temperature),
	})
	if err != nil {
		return "", classifyAnthropic(err)
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", &Error{Provider: ProviderAnthropic, Kind: KindMalformed, Err: errors.New("empty reply")}
	}
	return b.String(), nil
}

func (a *anthropicCompleter) ping(ctx context.Context) error {
	_, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("ping"))},
	})
	if err != nil {
		return classifyAnthropic(err)
	}
	return nil
}

func classifyAnthropic(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		kind := KindConnectivity
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			kind = KindConfig
		}
		return &Error{Provider: ProviderAnthropic, Kind: kind, Err: fmt.Errorf("status %d: %w", apiErr.StatusCode, err)}
	}
	return &Error{Provider: ProviderAnthropic, Kind: KindConnectivity, Err: err}
}
