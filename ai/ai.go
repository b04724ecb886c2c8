// Package ai is the content collaborator: it turns raw text into a
// document, splits text into sections, fills single pages and proposes
// alternative layouts for existing pages.
//
// Three providers implement Generator. The anthropic provider calls the
// Messages API, the local provider talks to an LM Studio or Ollama server and
// the offline provider is a deterministic heuristic that needs no network.
// Every failure is an *Error whose message can be shown to a user as is.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/logger"
)

// Generator is the collaborator surface used by the editing session.
type Generator interface {
	// GenerateDocument lays raw text out as a complete document.
	GenerateDocument(ctx context.Context, rawText string, style document.StyleConfig) (*document.Document, error)
	// ChunkText splits raw text into logical sections.
	ChunkText(ctx context.Context, rawText string) ([]Chunk, error)
	// GeneratePageForChunk fills one page of the given template from a section.
	GeneratePageForChunk(ctx context.Context, chunk Chunk, tag document.Tag, style document.StyleConfig) (document.Page, error)
	// RegeneratePage proposes a visually different layout for page. The
	// result keeps the page index and lock.
	RegeneratePage(ctx context.Context, page document.Page, style document.StyleConfig) (document.Page, error)
}

// Pinger is implemented by providers that can test their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Chunk is one logical section of the raw text.
type Chunk struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// Operation names, used in errors, logs and metrics.
const (
	OpGenerate   = "generate"
	OpChunk      = "chunk"
	OpPage       = "page"
	OpRegenerate = "regenerate"
	OpPing       = "ping"
)

// Kind classifies a collaborator failure.
type Kind string

// Failure kinds.
const (
	// KindConnectivity: the provider could not be reached or failed to answer.
	KindConnectivity Kind = "connectivity"
	// KindMalformed: the provider answered with something that is not a
	// usable document.
	KindMalformed Kind = "malformed"
	// KindConfig: the provider is not usable as configured (missing key,
	// rejected credentials, unknown provider).
	KindConfig Kind = "config"
)

// Error is a collaborator failure.
type Error struct {
	Provider string
	Op       string
	Kind     Kind
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindConnectivity:
		return fmt.Sprintf("could not reach the %s model (%s): %v", e.Provider, e.Op, e.Err)
	case KindMalformed:
		return fmt.Sprintf("the %s model returned an unusable reply (%s): %v", e.Provider, e.Op, e.Err)
	case KindConfig:
		return fmt.Sprintf("the %s provider is not configured correctly: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// Provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderLocal     = "local"
	ProviderOffline   = "offline"
)

// Default models.
const (
	DefaultAnthropicModel = "claude-sonnet-4-5"
	DefaultLocalModel     = "llama3.2"
	DefaultLocalBaseURL   = "http://localhost:1234"
)

// Config selects a provider. It is the persisted provider configuration;
// APIKey is never serialized.
type Config struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	BaseURL  string `json:"baseURL,omitempty"`
	APIKey   string `json:"-"`
}

// Option configures New.
type Option func(*options)

type options struct {
	client  *http.Client
	timeout time.Duration
	log     logger.Logger
}

// WithHTTPClient sets the HTTP client used by the network providers.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithTimeout bounds every provider call.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// New returns the generator selected by cfg.
func New(cfg Config, opts ...Option) (Generator, error) {
	o := options{timeout: 2 * time.Minute, log: logger.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: o.timeout}
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, &Error{Provider: ProviderAnthropic, Op: OpPing, Kind: KindConfig, Err: errors.New("no API key (set ANTHROPIC_API_KEY)")}
		}
		return newLLM(newAnthropic(cfg, o), o.log), nil
	case ProviderLocal:
		return newLLM(newLocal(cfg, o), o.log), nil
	case ProviderOffline, "":
		return Offline{}, nil
	default:
		return nil, &Error{Provider: cfg.Provider, Op: OpPing, Kind: KindConfig, Err: fmt.Errorf("unknown provider %q", cfg.Provider)}
	}
}

// Ping tests g's connection when it supports it.
func Ping(ctx context.Context, g Generator) error {
	if p, ok := g.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
