package embedding

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/crestline/meetflow/internal/llm"
)

// countingGateway tags each returned vector with its global input position so
// tests can check ordering across batches.
type countingGateway struct {
	calls   []llm.EmbeddingRequest
	counter int
	fail    bool
}

func (g *countingGateway) Chat(_ context.Context, _ llm.ChatRequest) (*llm.ChatResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (g *countingGateway) Embed(_ context.Context, req llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	if g.fail {
		return nil, fmt.Errorf("upstream unavailable")
	}
	g.calls = append(g.calls, req)
	vecs := make([][]float32, len(req.Input))
	for i := range req.Input {
		vecs[i] = []float32{float32(g.counter)}
		g.counter++
	}
	return &llm.EmbeddingResponse{Model: req.Model, Embeddings: vecs}, nil
}

func (g *countingGateway) Provider(name string) (llm.Provider, error) {
	return nil, fmt.Errorf("provider %q not configured", name)
}

func TestEmbedPreservesOrder(t *testing.T) {
	gw := &countingGateway{}
	svc := NewService(gw, "test-embed", nil, 0)

	texts := []string{"first", "second", "third"}
	got, err := svc.Embed(context.Background(), texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d embeddings, want 3", len(got))
	}
	for i, vec := range got {
		if len(vec) != 1 || vec[0] != float32(i) {
			t.Errorf("embedding[%d] = %v, want [%d]", i, vec, i)
		}
	}
}

func TestEmbedBatchesLargeInput(t *testing.T) {
	gw := &countingGateway{}
	svc := NewService(gw, "test-embed", nil, 0)

	texts := make([]string, 250)
	for i := range texts {
		texts[i] = fmt.Sprintf("text %d", i)
	}

	got, err := svc.Embed(context.Background(), texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 250 {
		t.Fatalf("got %d embeddings, want 250", len(got))
	}
	if len(gw.calls) != 3 {
		t.Errorf("got %d upstream calls, want 3 batches of <=100", len(gw.calls))
	}
	for _, call := range gw.calls {
		if len(call.Input) > 100 {
			t.Errorf("batch of %d inputs exceeds limit", len(call.Input))
		}
	}
	// Order survives batching.
	for i, vec := range got {
		if vec[0] != float32(i) {
			t.Fatalf("embedding[%d] = %v, order broken across batches", i, vec)
		}
	}
}

func TestEmbedTruncatesLongInput(t *testing.T) {
	gw := &countingGateway{}
	svc := NewService(gw, "test-embed", nil, 0)

	long := strings.Repeat("word ", 3000) // 15000 chars
	if _, err := svc.Embed(context.Background(), []string{long}); err != nil {
		t.Fatal(err)
	}

	sent := gw.calls[0].Input[0]
	if n := utf8.RuneCountInString(sent); n > maxInputChars {
		t.Errorf("sent %d runes, want <= %d", n, maxInputChars)
	}
}

func TestEmbedEmptyInput(t *testing.T) {
	gw := &countingGateway{}
	svc := NewService(gw, "test-embed", nil, 0)

	got, err := svc.Embed(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("got %v, want nil", got)
	}
	if len(gw.calls) != 0 {
		t.Errorf("made %d upstream calls for empty input", len(gw.calls))
	}
}

func TestEmbedPropagatesUpstreamError(t *testing.T) {
	gw := &countingGateway{fail: true}
	svc := NewService(gw, "test-embed", nil, 0)

	if _, err := svc.Embed(context.Background(), []string{"text"}); err == nil {
		t.Fatal("expected upstream error")
	}
}

func TestEmbedSingle(t *testing.T) {
	gw := &countingGateway{}
	svc := NewService(gw, "test-embed", nil, 0)

	vec, err := svc.EmbedSingle(context.Background(), "one text")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 1 || vec[0] != 0 {
		t.Errorf("vec = %v, want [0]", vec)
	}
}
