package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crestline/meetflow/internal/cache"
	"github.com/crestline/meetflow/internal/llm"
	"github.com/crestline/meetflow/internal/transcript"
)

// maxInputChars bounds each text sent to the embedding endpoint.
const maxInputChars = 8000

type Service struct {
	gateway llm.Gateway
	model   string
	cache   *cache.Cache // optional
	ttl     time.Duration
}

func NewService(gw llm.Gateway, model string, c *cache.Cache, ttl time.Duration) *Service {
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &Service{gateway: gw, model: model, cache: c, ttl: ttl}
}

// Embed returns one embedding per input text, in input order. Texts are
// truncated to the API input bound before sending. Results for unchanged
// content are served from the content-hash cache when one is configured.
func (s *Service) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	truncated := make([]string, len(texts))
	for i, t := range texts {
		truncated[i] = truncate(t, maxInputChars)
	}

	results := make([][]float32, len(texts))
	var missIdx []int

	if s.cache != nil {
		for i, t := range truncated {
			var vec []float32
			if err := s.cache.Get(ctx, s.cacheKey(t), &vec); err == nil && len(vec) > 0 {
				results[i] = vec
				continue
			}
			missIdx = append(missIdx, i)
		}
		if len(missIdx) == 0 {
			return results, nil
		}
	} else {
		missIdx = make([]int, len(texts))
		for i := range texts {
			missIdx[i] = i
		}
	}

	missTexts := make([]string, len(missIdx))
	for j, i := range missIdx {
		missTexts[j] = truncated[i]
	}

	embedded, err := s.embedBatched(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	for j, i := range missIdx {
		results[i] = embedded[j]
		if s.cache != nil {
			if err := s.cache.Set(ctx, s.cacheKey(truncated[i]), embedded[j], s.ttl); err != nil {
				slog.Warn("embedding cache write failed", "error", err)
			}
		}
	}

	return results, nil
}

func (s *Service) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return embeddings[0], nil
}

// embedBatched calls the gateway in groups of 100 for API limits, preserving
// input order across batches.
func (s *Service) embedBatched(ctx context.Context, texts []string) ([][]float32, error) {
	const batchSize = 100
	var all [][]float32

	for i := 0; i < len(texts); i += batchSize {
		end := i + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		resp, err := s.gateway.Embed(ctx, llm.EmbeddingRequest{
			Model: s.model,
			Input: texts[i:end],
		})
		if err != nil {
			return nil, fmt.Errorf("embed batch %d: %w", i/batchSize, err)
		}
		if len(resp.Embeddings) != end-i {
			return nil, fmt.Errorf("embed batch %d: got %d embeddings for %d inputs", i/batchSize, len(resp.Embeddings), end-i)
		}

		all = append(all, resp.Embeddings...)
	}

	return all, nil
}

func (s *Service) cacheKey(text string) string {
	return fmt.Sprintf("emb:%s:%s", s.model, transcript.HashContent(text))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
