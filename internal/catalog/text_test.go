package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitWords(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"", 4, ""},
		{"Robert C. Martin", 4, "Robert C. Martin"},
		{"Harold Abelson Gerald Jay Sussman", 4, "Harold Abelson Gerald Jay…"},
		{"one two", 1, "one…"},
		{"one two", 0, "…"},
		{"one two", -3, "…"},
		{"", -1, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LimitWords(tt.in, tt.max), tt.in)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Clean Code", Truncate("Clean Code", 20))
	assert.Equal(t, "Structure and Interp...", Truncate("Structure and Interpretation of Computer Programs", 20))
	assert.Equal(t, "ééé...", Truncate("éééé", 3), "cuts on runes, not bytes")
	assert.Equal(t, "...", Truncate("Clean Code", -1))
}

func TestDisplay(t *testing.T) {
	out := Display([]DocumentRecord{{
		ID:     1,
		Title:  "Structure and Interpretation of Computer Programs",
		Author: "Harold Abelson Gerald Jay Sussman",
	}})

	assert.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, "Structure and Interp...", out[0].ShortTitle)
	assert.Equal(t, "Harold Abelson Gerald Jay…", out[0].ShortAuthor)
	assert.Empty(t, Display(nil))
}
