package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

type fakeAnswerer struct {
	chunks []string
	err    error
}

func (f fakeAnswerer) Stream(_ context.Context, _ Request, emit Emit) error {
	for _, c := range f.chunks {
		if err := emit(c); err != nil {
			return err
		}
	}
	return f.err
}

func collect(out *[]string) Emit {
	return func(chunk string) error {
		*out = append(*out, chunk)
		return nil
	}
}

func TestNew_WithoutKeyIsUnconfigured(t *testing.T) {
	a, err := New(context.Background(), Config{}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var got []string
	if err := a.Stream(context.Background(), Request{Question: "q"}, collect(&got)); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if len(got) != 1 || got[0] != MissingKeyMessage {
		t.Fatalf("chunks=%v, want missing key message", got)
	}
}

func TestStream_ErrorBecomesMessage(t *testing.T) {
	var got []string
	a := fakeAnswerer{chunks: []string{"partial "}, err: errors.New("quota exceeded")}
	err := Stream(context.Background(), a, Request{}, collect(&got))
	if err == nil {
		t.Fatalf("expected error to be returned")
	}
	if len(got) != 2 || got[1] != "[LLM error: quota exceeded]" {
		t.Fatalf("chunks=%v", got)
	}
}

func TestStream_CanceledIsSilent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var got []string
	a := fakeAnswerer{err: context.Canceled}
	if err := Stream(ctx, a, Request{}, collect(&got)); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
	if len(got) != 0 {
		t.Fatalf("canceled stream should not emit, got %v", got)
	}
}

func TestUserPrompt(t *testing.T) {
	p, err := UserPrompt(Request{
		Question: "Where do hazards cluster?",
		Insights: map[string]any{"hazards_total": 3, "hazards_by_location": map[string]int{"Plant A": 2}},
		Verbose:  true,
	})
	if err != nil {
		t.Fatalf("UserPrompt failed: %v", err)
	}
	want := `{"hazards_by_location":{"Plant A":2},"hazards_total":3}`
	if !strings.Contains(p, want) {
		t.Fatalf("prompt should embed sorted insights JSON, got %q", p)
	}
	if !strings.HasPrefix(p, "User question: Where do hazards cluster?") || !strings.HasSuffix(p, "verbose insights: true") {
		t.Fatalf("prompt=%q", p)
	}
	if !strings.Contains(SystemPrompt(true), "Verbose mode") || strings.Contains(SystemPrompt(false), "Verbose mode") {
		t.Fatalf("verbose suffix should only be added in verbose mode")
	}
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			nil,
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello"), genai.Text(""), genai.Text(" world")}}},
		},
	}
	got := responseText(resp)
	if len(got) != 2 || got[0] != "Hello" || got[1] != " world" {
		t.Fatalf("responseText=%v", got)
	}
	if responseText(nil) != nil {
		t.Fatalf("nil response should give no text")
	}
}
