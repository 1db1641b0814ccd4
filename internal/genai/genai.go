// Package genai provides the text-completion capability used to phrase
// conversation replies through the OpenAI API.
//
// Phrasing is strictly cosmetic: every call carries a deterministic fallback
// text and a bounded timeout, and the result is a typed Completion rather
// than an error. The conversation engine's phase and question logic never
// depends on this service succeeding.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

// Default configuration constants.
const (
	// DefaultTimeout bounds a single completion call.
	DefaultTimeout = 8 * time.Second
	// DefaultModel is the completion model used for phrasing.
	DefaultModel = openai.ChatModelGPT4oMini
	// maxHistoryMessages bounds the conversation context sent for phrasing.
	maxHistoryMessages = 12
)

// Completion is the typed result of a phrasing call. FromFallback reports
// that the canned text was used because the service was unavailable, timed
// out, or returned nothing usable.
type Completion struct {
	Text         string
	FromFallback bool
}

// PhraseRequest describes one phrasing call: a fixed per-phase system prompt,
// a bounded conversation history, the data-driven draft to rephrase, and the
// deterministic fallback to use when the service cannot answer.
type PhraseRequest struct {
	SystemPrompt string
	History      []models.Message
	Draft        string
	Fallback     string
}

// Phraser is the capability consumed by the conversation engine.
type Phraser interface {
	Phrase(ctx context.Context, req PhraseRequest) Completion
}

// completionService defines the minimal chat-completion surface used, so
// tests can substitute a stub.
type completionService interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Opts holds configuration options for the GenAI client.
type Opts struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Option defines a configuration option for the GenAI client.
type Option func(*Opts)

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) {
		o.APIKey = key
	}
}

// WithModel overrides the completion model.
func WithModel(model string) Option {
	return func(o *Opts) {
		o.Model = model
	}
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) {
		o.Timeout = d
	}
}

// Client wraps the OpenAI chat-completion service for phrasing replies.
type Client struct {
	chat    completionService
	model   string
	timeout time.Duration
}

// NewClient initializes a new GenAI client. The API key is taken from the
// options or the OPENAI_API_KEY environment variable.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not set")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	cli := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	slog.Debug("genai.NewClient: client created", "model", cfg.Model, "timeout", cfg.Timeout)
	return &Client{chat: &cli.Chat.Completions, model: cfg.Model, timeout: cfg.Timeout}, nil
}

// Phrase renders the next reply through the completion service. It always
// returns a usable Completion: any fault degrades to the request's fallback
// text with FromFallback set.
func (c *Client) Phrase(ctx context.Context, req PhraseRequest) Completion {
	if c == nil || c.chat == nil {
		return Completion{Text: req.Fallback, FromFallback: true}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(req.SystemPrompt),
	}
	history := req.History
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	for _, msg := range history {
		switch msg.Role {
		case "user":
			messages = append(messages, openai.UserMessage(msg.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(msg.Content))
		}
	}
	messages = append(messages, openai.SystemMessage("Reformule le message suivant pour le client, sans modifier les montants ni les informations: "+req.Draft))

	resp, err := c.chat.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		slog.Warn("genai.Phrase: completion failed, using fallback", "error", err)
		return Completion{Text: req.Fallback, FromFallback: true}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		slog.Warn("genai.Phrase: empty completion, using fallback")
		return Completion{Text: req.Fallback, FromFallback: true}
	}

	slog.Debug("genai.Phrase: completion succeeded", "length", len(resp.Choices[0].Message.Content))
	return Completion{Text: resp.Choices[0].Message.Content}
}
