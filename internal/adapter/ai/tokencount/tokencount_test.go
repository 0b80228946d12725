package tokencount_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amithrb/jobfinder/internal/adapter/ai/tokencount"
)

func TestCount(t *testing.T) {
	t.Parallel()
	assert.Zero(t, tokencount.Count(""))
	short := tokencount.Count("hello")
	long := tokencount.Count("hello world, this is a considerably longer prompt body")
	assert.Greater(t, long, short)
}
