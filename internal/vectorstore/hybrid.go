package vectorstore

import (
	"sort"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
)

// DefaultAlpha weights vector similarity against keyword rank.
const DefaultAlpha = 0.75

type chunkKey struct {
	documentID string
	index      int
}

// normalize min-max scales candidate scores to [0,1]. A list whose scores
// are all equal maps every entry to 1.
func normalize(cands []Candidate) map[chunkKey]float64 {
	out := make(map[chunkKey]float64, len(cands))
	if len(cands) == 0 {
		return out
	}
	lo, hi := cands[0].Score, cands[0].Score
	for _, c := range cands[1:] {
		if c.Score < lo {
			lo = c.Score
		}
		if c.Score > hi {
			hi = c.Score
		}
	}
	for _, c := range cands {
		k := chunkKey{c.DocumentID, c.ChunkIndex}
		if hi == lo {
			out[k] = 1
		} else {
			out[k] = (c.Score - lo) / (hi - lo)
		}
	}
	return out
}

// Fuse combines vector and keyword candidates by relative score fusion:
// score = alpha*vector + (1-alpha)*keyword over min-max normalised scores.
// Results are ordered by descending score, then document id and chunk index.
func Fuse(vector, keyword []Candidate, alpha float64, limit int) []domain.SearchResult {
	vs := normalize(vector)
	ks := normalize(keyword)

	records := make(map[chunkKey]Record, len(vector)+len(keyword))
	for _, c := range vector {
		records[chunkKey{c.DocumentID, c.ChunkIndex}] = c.Record
	}
	for _, c := range keyword {
		k := chunkKey{c.DocumentID, c.ChunkIndex}
		if _, ok := records[k]; !ok {
			records[k] = c.Record
		}
	}

	type scored struct {
		key   chunkKey
		score float64
	}
	ranked := make([]scored, 0, len(records))
	for k := range records {
		ranked = append(ranked, scored{k, alpha*vs[k] + (1-alpha)*ks[k]})
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.key.documentID != b.key.documentID {
			return a.key.documentID < b.key.documentID
		}
		return a.key.index < b.key.index
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	results := make([]domain.SearchResult, 0, len(ranked))
	for _, r := range ranked {
		rec := records[r.key]
		results = append(results, domain.SearchResult{
			Content:    rec.Content,
			DocumentID: rec.DocumentID,
			Filename:   rec.Filename,
			Score:      r.score,
		})
	}
	return results
}
