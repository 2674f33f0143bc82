package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/MilanLasica/DrugsDataroom/internal/cache"
	"github.com/MilanLasica/DrugsDataroom/internal/observability"
)

// CachedEmbedder memoises another Embedder's vectors in a cache.Client,
// keyed by model, dimension and the SHA-256 of the text.
type CachedEmbedder struct {
	inner  Embedder
	cache  cache.Client
	ttl    time.Duration
	logger *observability.Logger
}

// NewCachedEmbedder wraps inner with a cache.
func NewCachedEmbedder(inner Embedder, c cache.Client, ttl time.Duration, logger *observability.Logger) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: c, ttl: ttl, logger: observability.OrNop(logger)}
}

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return cache.Key("emb", c.inner.Model(), strconv.Itoa(c.inner.Dimension()), hex.EncodeToString(sum[:]))
}

// Embed returns cached vectors where present and embeds the rest in one call.
// Cache errors are logged and treated as misses; undecodable or wrongly
// sized entries are evicted.
func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		key := c.key(text)
		data, err := c.cache.Get(ctx, key)
		if err == nil {
			var v []float32
			if jsonErr := json.Unmarshal(data, &v); jsonErr == nil && len(v) == c.inner.Dimension() {
				out[i] = v
				continue
			}
			if delErr := c.cache.Delete(ctx, key); delErr != nil {
				c.logger.Debug().Err(delErr).Msg("Embedding cache delete failed")
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Debug().Err(err).Msg("Embedding cache read failed")
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	fresh, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for j, i := range missIdx {
		out[i] = fresh[j]
		data, err := json.Marshal(fresh[j])
		if err != nil {
			continue
		}
		if err := c.cache.Set(ctx, c.key(missTexts[j]), data, c.ttl); err != nil {
			c.logger.Debug().Err(err).Msg("Embedding cache write failed")
		}
	}
	return out, nil
}

// EmbedSingle implements Embedder.
func (c *CachedEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return embedOne(ctx, c, text)
}

// Model implements Embedder.
func (c *CachedEmbedder) Model() string {
	return c.inner.Model()
}

// Dimension implements Embedder.
func (c *CachedEmbedder) Dimension() int {
	return c.inner.Dimension()
}
