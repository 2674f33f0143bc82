package perspective

import (
	"encoding/json"
	"strings"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
)

// parseJSONObject decodes the first balanced {...} block of s. Braces inside
// JSON strings are ignored while balancing. Anything unparsable yields an
// empty result.
func parseJSONObject(s string) domain.PerspectiveResult {
	block, ok := firstObject(s)
	if !ok {
		return domain.PerspectiveResult{}
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(block), &out); err != nil {
		return domain.PerspectiveResult{}
	}
	return domain.PerspectiveResult(out)
}

func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
