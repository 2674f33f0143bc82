package perspective

import (
	"regexp"
	"strings"
)

// NotSpecified is reported for pattern rules without a match.
const NotSpecified = "Not specified"

// maxSentences caps keyword sentence lists.
const maxSentences = 5

// PatternRule captures a single value: the first group of the first
// case-insensitive match.
type PatternRule struct {
	Name    string
	Pattern *regexp.Regexp
}

func patternRule(name, expr string) PatternRule {
	return PatternRule{Name: name, Pattern: regexp.MustCompile(`(?i)` + expr)}
}

// Find returns the captured value or NotSpecified.
func (r PatternRule) Find(text string) string {
	if m := r.Pattern.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	return NotSpecified
}

// SentenceRule collects sentences mentioning any of its keywords.
type SentenceRule struct {
	Name     string
	Keywords []string
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// Find returns the first five trimmed sentences containing a keyword,
// compared case-insensitively. The result is never nil.
func (r SentenceRule) Find(text string) []string {
	out := []string{}
	for _, sentence := range sentenceSplit.Split(text, -1) {
		lower := strings.ToLower(sentence)
		for _, kw := range r.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				out = append(out, strings.TrimSpace(sentence))
				break
			}
		}
		if len(out) == maxSentences {
			break
		}
	}
	return out
}

// firstCost returns "$" plus the first value found by rules, in order.
func firstCost(text string, rules ...PatternRule) string {
	for _, r := range rules {
		if v := r.Find(text); v != NotSpecified {
			return "$" + v
		}
	}
	return NotSpecified
}
