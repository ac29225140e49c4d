package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"ID", "NAME"},
		[][]string{
			{"a1", "short"},
			{"b2", "a much longer name"},
		},
	))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4, "header, separator, two rows")
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "─")
	assert.True(t, strings.HasPrefix(lines[2], "a1  "))
	assert.Contains(t, lines[3], "a much longer name")
}

func TestRenderTable_EmptyAndRagged(t *testing.T) {
	assert.Equal(t, "", RenderTable(nil, nil))

	// Rows shorter than the header row render empty trailing cells.
	out := stripANSI(RenderTable([]string{"A", "B", "C"}, [][]string{{"x"}}))
	assert.Contains(t, out, "x")
}
