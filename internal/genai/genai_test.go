package genai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

type stubCompletions struct {
	reply string
	err   error
	got   openai.ChatCompletionNewParams
}

func (s *stubCompletions) New(_ context.Context, body openai.ChatCompletionNewParams, _ ...option.RequestOption) (*openai.ChatCompletion, error) {
	s.got = body
	if s.err != nil {
		return nil, s.err
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.reply}},
		},
	}, nil
}

func newTestClient(stub *stubCompletions) *Client {
	return &Client{chat: stub, model: DefaultModel, timeout: time.Second}
}

func TestPhraseSuccess(t *testing.T) {
	stub := &stubCompletions{reply: "Bonjour, parlons de votre entreprise."}
	c := newTestClient(stub)

	got := c.Phrase(context.Background(), PhraseRequest{
		SystemPrompt: "system",
		Draft:        "draft",
		Fallback:     "fallback",
	})
	if got.FromFallback {
		t.Errorf("expected completion result, got fallback")
	}
	if got.Text != stub.reply {
		t.Errorf("expected %q, got %q", stub.reply, got.Text)
	}
	if len(stub.got.Messages) == 0 {
		t.Fatalf("expected messages to be sent")
	}
}

func TestPhraseServiceError(t *testing.T) {
	stub := &stubCompletions{err: errors.New("connection refused")}
	c := newTestClient(stub)

	got := c.Phrase(context.Background(), PhraseRequest{Fallback: "texte de secours"})
	if !got.FromFallback {
		t.Errorf("expected fallback on service error")
	}
	if got.Text != "texte de secours" {
		t.Errorf("expected fallback text, got %q", got.Text)
	}
}

func TestPhraseEmptyCompletion(t *testing.T) {
	stub := &stubCompletions{reply: ""}
	c := newTestClient(stub)

	got := c.Phrase(context.Background(), PhraseRequest{Fallback: "secours"})
	if !got.FromFallback || got.Text != "secours" {
		t.Errorf("expected fallback for empty completion, got %+v", got)
	}
}

func TestPhraseNilClient(t *testing.T) {
	var c *Client
	got := c.Phrase(context.Background(), PhraseRequest{Fallback: "secours"})
	if !got.FromFallback || got.Text != "secours" {
		t.Errorf("expected fallback for nil client, got %+v", got)
	}
}

func TestPhraseHistoryBounded(t *testing.T) {
	stub := &stubCompletions{reply: "ok"}
	c := newTestClient(stub)

	history := make([]models.Message, 0, 40)
	for i := 0; i < 40; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history = append(history, models.Message{Role: role, Content: "msg"})
	}
	c.Phrase(context.Background(), PhraseRequest{History: history, Draft: "d", Fallback: "f"})

	// system prompt + bounded history + draft instruction
	want := 1 + maxHistoryMessages + 1
	if len(stub.got.Messages) != want {
		t.Errorf("expected %d messages, got %d", want, len(stub.got.Messages))
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewClient(); err == nil {
		t.Errorf("expected error without API key")
	}
}
