package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress_Bounds(t *testing.T) {
	assert.Contains(t, RenderProgress(-10, 10), "  0%")
	assert.Contains(t, RenderProgress(250, 10), "100%")
}

func TestRenderProgress_FillCount(t *testing.T) {
	out := RenderProgress(50, 10)
	assert.Equal(t, 5, strings.Count(out, filledBlock))
	assert.Equal(t, 5, strings.Count(out, emptyBlock))
	assert.Contains(t, out, " 50%")
}

func TestRenderProgress_FullBar(t *testing.T) {
	out := RenderProgress(100, 8)
	assert.Equal(t, 8, strings.Count(out, filledBlock))
	assert.Zero(t, strings.Count(out, emptyBlock))
}
