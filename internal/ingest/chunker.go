package ingest

import (
	"sort"
	"strings"
	"unicode"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
)

// Chunk metadata keys.
const (
	MetaStartOffset = "start_offset"
	MetaEndOffset   = "end_offset"
	MetaTokenStart  = "token_start"
	MetaTokenCount  = "token_count"
)

// Chunker splits text into overlapping windows of whitespace-delimited tokens.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. Invalid sizes fall back to 512/50.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 512
	}
	if overlap < 0 || overlap >= size {
		overlap = 50
		if overlap >= size {
			overlap = 0
		}
	}
	return &Chunker{size: size, overlap: overlap}
}

type span struct{ start, end int }

func tokenSpans(text string) []span {
	var spans []span
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, span{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, span{start, len(text)})
	}
	return spans
}

// Split returns the chunks of text in index order. Each chunk is the exact
// source slice from its first token to its last token.
func (c *Chunker) Split(text string) []domain.Chunk {
	spans := tokenSpans(text)
	if len(spans) == 0 {
		return []domain.Chunk{}
	}

	step := c.size - c.overlap
	var chunks []domain.Chunk
	for first := 0; ; first += step {
		last := first + c.size
		if last > len(spans) {
			last = len(spans)
		}
		start, end := spans[first].start, spans[last-1].end
		chunks = append(chunks, domain.Chunk{
			Index: len(chunks),
			Text:  text[start:end],
			Metadata: map[string]any{
				MetaStartOffset: start,
				MetaEndOffset:   end,
				MetaTokenStart:  first,
				MetaTokenCount:  last - first,
			},
		})
		if last == len(spans) {
			break
		}
	}
	return chunks
}

// Reassemble joins chunks produced by Split back into the trimmed source
// text, dropping the overlapping region of every chunk after the first.
// Chunks without overlap are joined with a single space.
func Reassemble(chunks []domain.Chunk) string {
	if len(chunks) == 0 {
		return ""
	}
	ordered := make([]domain.Chunk, len(chunks))
	copy(ordered, chunks)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	var b strings.Builder
	b.WriteString(ordered[0].Text)
	prevEnd := metaInt(ordered[0].Metadata, MetaEndOffset)
	for _, ch := range ordered[1:] {
		start := metaInt(ch.Metadata, MetaStartOffset)
		switch {
		case start < prevEnd:
			skip := prevEnd - start
			if skip < len(ch.Text) {
				b.WriteString(ch.Text[skip:])
			}
		default:
			b.WriteByte(' ')
			b.WriteString(ch.Text)
		}
		prevEnd = metaInt(ch.Metadata, MetaEndOffset)
	}
	return b.String()
}

// metaInt reads an integer that may have round-tripped through JSON.
func metaInt(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// PageCount approximates the page count as the number of blank-line
// separated segments, which is how extracted pages are joined.
func PageCount(text string) int {
	return len(strings.Split(text, "\n\n"))
}
