package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable(
		[]string{"ID", "Name"},
		[][]string{
			{"a1", "Excavation"},
			{"b2345678", "Pour"},
		},
	)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4, "header, separator, two rows")
	assert.Contains(t, lines[2], "Excavation")
	assert.Contains(t, lines[3], "Pour")
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Equal(t, "", RenderTable(nil, nil))
}

func TestRenderTable_ShortRowsPadded(t *testing.T) {
	out := RenderTable([]string{"A", "B", "C"}, [][]string{{"only"}})
	assert.Contains(t, out, "only")
}
