package textx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amithrb/jobfinder/pkg/textx"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "hello world", textx.SanitizeText("  hello world  "))
	assert.Equal(t, "a\nb", textx.SanitizeText("a\nb"))
	assert.Equal(t, "ab", textx.SanitizeText("a\x00\x08b"))
	assert.Equal(t, "", textx.SanitizeText(" \n\t "))
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a b c", textx.CollapseWhitespace("a\n\n  b\t\tc"))
	assert.Equal(t, "", textx.CollapseWhitespace("   "))
	assert.Equal(t, "one", textx.CollapseWhitespace("one"))
}
