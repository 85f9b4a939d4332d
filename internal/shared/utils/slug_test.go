package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Science Fiction":  "science-fiction",
		"Rock & Roll":      "rock-roll",
		"  Trimmed  ":      "trimmed",
		"already-a-slug":   "already-a-slug",
		"UPPER case Mixed": "upper-case-mixed",
	}

	for input, want := range cases {
		assert.Equal(t, want, GenerateSlug(input), input)
	}
}

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("science-fiction"))
	assert.True(t, ValidSlug("a1"))

	assert.False(t, ValidSlug(""))
	assert.False(t, ValidSlug("Has Upper"))
	assert.False(t, ValidSlug("trailing space "))
	assert.False(t, ValidSlug(strings.Repeat("a", 51)))
}
