package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPreviewBodyShortContentUntouched(t *testing.T) {
	assert.Equal(t, "happy birthday!", previewBody("happy birthday!"))
}

func TestPreviewBodyTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("a", 300)

	preview := previewBody(long)

	assert.Equal(t, strings.Repeat("a", 117)+"...", preview)
}

func TestPreviewBodyKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("é", 300)

	preview := previewBody(long)

	assert.True(t, utf8.ValidString(preview))
	assert.Equal(t, strings.Repeat("é", 117)+"...", preview)
}
