package table_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n1qm/gocw/table"
)

// Representation/char lookups round-trip in both directions for every
// listed character.
func TestRoundTrip(t *testing.T) {
	for _, c := range table.ListCharacters() {
		repr, ok := table.RepresentationOf(c)
		require.True(t, ok, "character %q missing representation", c)

		gotChar, ok := table.CharOf(repr)
		require.True(t, ok, "representation %q missing inverse", repr)
		assert.Equal(t, c, gotChar)
	}
}

func TestRepresentationOfFoldsCase(t *testing.T) {
	upper, ok := table.RepresentationOf('Q')
	require.True(t, ok)

	lower, ok := table.RepresentationOf('q')
	require.True(t, ok)

	assert.Equal(t, upper, lower)
	assert.Equal(t, "--.-", upper)
}

func TestRepresentationOfUnknown(t *testing.T) {
	_, ok := table.RepresentationOf('#')
	assert.False(t, ok)
}

func TestProceduralNamed(t *testing.T) {
	p, ok := table.ProceduralNamed("ar")
	require.True(t, ok)
	assert.Equal(t, ".-.-.", p.Representation)
	assert.True(t, p.UsuallyExpanded)

	_, ok = table.ProceduralNamed("nope")
	assert.False(t, ok)
}
