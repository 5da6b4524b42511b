package minutes

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type fakeCompleter struct {
	requests []openai.ChatCompletionRequest
	reply    string
	err      error
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.reply}},
		},
	}, nil
}

func TestGenerateRejectsEmptyTranscript(t *testing.T) {
	fake := &fakeCompleter{}
	svc := newService(fake, Config{})

	for _, transcript := range []string{"", "   ", "\n\t "} {
		if _, err := svc.Generate(context.Background(), transcript); !errors.Is(err, ErrEmptyTranscript) {
			t.Fatalf("transcript %q: expected ErrEmptyTranscript, got %v", transcript, err)
		}
	}
	if len(fake.requests) != 0 {
		t.Fatalf("empty transcript must not reach the model, saw %d calls", len(fake.requests))
	}
}

func TestGenerateSendsBoundedGroundedRequest(t *testing.T) {
	fake := &fakeCompleter{reply: "# Minutes of Meeting"}
	svc := newService(fake, Config{})
	svc.now = func() time.Time { return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC) }

	transcript := "Alice: we will ship Friday. Bob: I will write the docs."
	got, err := svc.Generate(context.Background(), transcript)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "# Minutes of Meeting" {
		t.Fatalf("unexpected result: %q", got)
	}

	if len(fake.requests) != 1 {
		t.Fatalf("expected exactly one model call, got %d", len(fake.requests))
	}
	req := fake.requests[0]
	if req.Model != openai.GPT3Dot5Turbo {
		t.Fatalf("unexpected model: %s", req.Model)
	}
	if req.MaxTokens != 1500 {
		t.Fatalf("output length not bounded: %d", req.MaxTokens)
	}
	if req.Temperature != 0.7 {
		t.Fatalf("unexpected temperature: %v", req.Temperature)
	}

	prompt := req.Messages[0].Content
	for _, want := range []string{
		"## Meeting Date",
		"2026-08-28",
		"## Participants",
		"## Discussion Points",
		"## Action Items",
		"## Decisions Made",
		"## Next Steps",
		transcript,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
	if !strings.Contains(prompt, "Do not invent participants") {
		t.Fatalf("prompt missing fabrication guard")
	}
}

func TestGenerateHonorsExplicitZeroTemperature(t *testing.T) {
	fake := &fakeCompleter{reply: "ok"}
	temperature := float32(0)
	maxTokens := 800
	svc := newService(fake, Config{Temperature: &temperature, MaxTokens: &maxTokens})

	if _, err := svc.Generate(context.Background(), "some transcript"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	req := fake.requests[0]
	if req.Temperature != 0 {
		t.Fatalf("explicit zero temperature overridden: %v", req.Temperature)
	}
	if req.MaxTokens != 800 {
		t.Fatalf("explicit max tokens overridden: %d", req.MaxTokens)
	}
}

func TestGenerateWrapsModelFailure(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("quota exceeded")}
	svc := newService(fake, Config{})

	_, err := svc.Generate(context.Background(), "some transcript")
	if !errors.Is(err, ErrGenerate) {
		t.Fatalf("expected ErrGenerate, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("underlying cause lost: %v", err)
	}
}

func TestGenerateRejectsEmptyChoiceList(t *testing.T) {
	svc := newService(&emptyCompleter{}, Config{})
	if _, err := svc.Generate(context.Background(), "some transcript"); !errors.Is(err, ErrGenerate) {
		t.Fatalf("expected ErrGenerate for empty choices, got %v", err)
	}
}

type emptyCompleter struct{}

func (emptyCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, nil
}
