package perspective

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseJSONObject(t *testing.T) {
	t.Run("first balanced block", func(t *testing.T) {
		got := parseJSONObject("Here it is:\n{\"total_cost\": \"$5\", \"note\": \"a } brace\", \"nested\": {\"a\": 1}} and {\"other\": true}")
		assert.Equal(t, "$5", got["total_cost"])
		assert.Equal(t, "a } brace", got["note"])
		assert.Equal(t, map[string]any{"a": 1.0}, got["nested"])
		assert.NotContains(t, got, "other")
	})

	t.Run("invalid json", func(t *testing.T) {
		assert.Empty(t, parseJSONObject("{not json}"))
	})

	t.Run("unbalanced", func(t *testing.T) {
		assert.Empty(t, parseJSONObject(`{"a": {"b": 1}`))
	})

	t.Run("no object", func(t *testing.T) {
		assert.Empty(t, parseJSONObject("plain text answer"))
	})
}
