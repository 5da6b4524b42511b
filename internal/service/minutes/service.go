// Package minutes turns an accumulated meeting transcript into structured
// minutes-of-meeting Markdown via a chat-completion model.
package minutes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrEmptyTranscript rejects generation requests with nothing to
	// summarize. No remote call is made.
	ErrEmptyTranscript = errors.New("minutes: transcript is empty")

	// ErrGenerate wraps any failure of the remote model call. Retrying is
	// the caller's decision, never this package's.
	ErrGenerate = errors.New("minutes: generation failed")
)

// completionClient is the slice of the OpenAI API the service uses.
// *openai.Client satisfies it.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config bounds the model call. Nil means "use the default"; an explicit
// zero is honored, so an operator can pin the temperature to 0.
type Config struct {
	Model       string
	MaxTokens   *int
	Temperature *float32
}

// Service is a stateless request/response adapter around the model.
type Service struct {
	client      completionClient
	model       string
	maxTokens   int
	temperature float32
	now         func() time.Time
}

func NewService(apiKey string, cfg Config) *Service {
	return newService(openai.NewClient(apiKey), cfg)
}

func newService(client completionClient, cfg Config) *Service {
	model := cfg.Model
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	maxTokens := 1500
	if cfg.MaxTokens != nil {
		maxTokens = *cfg.MaxTokens
	}
	temperature := float32(0.7)
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	return &Service{
		client:      client,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		now:         time.Now,
	}
}

// Generate produces minutes-of-meeting Markdown for the transcript. Output
// is intentionally nondeterministic; only the prompt is.
func (s *Service) Generate(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", ErrEmptyTranscript
	}

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(transcript, s.now()),
			},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerate, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: model returned no choices", ErrGenerate)
	}

	return resp.Choices[0].Message.Content, nil
}
