package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomSourceRanges(t *testing.T) {
	t.Parallel()
	src := NewRandom(42)
	for i := 0; i < 100; i++ {
		wpm := src.PaceWPM()
		assert.GreaterOrEqual(t, wpm, 90.0)
		assert.Less(t, wpm, 180.0)

		p := src.Pauses()
		assert.GreaterOrEqual(t, p, 0)
		assert.LessOrEqual(t, p, 4)

		assert.Contains(t, Expressions, src.Expression())
	}
}

func TestRandomSourceDeterministicForSeed(t *testing.T) {
	t.Parallel()
	a, b := NewRandom(7), NewRandom(7)
	for i := 0; i < 20; i++ {
		require.Equal(t, a.PaceWPM(), b.PaceWPM())
		require.Equal(t, a.Pauses(), b.Pauses())
		require.Equal(t, a.Expression(), b.Expression())
		require.Equal(t, a.EyeContact(), b.EyeContact())
	}
}

func TestFixedSource(t *testing.T) {
	t.Parallel()
	f := Fixed{WPM: 130, Breaks: 1, Expr: "confident", Eye: true}
	assert.Equal(t, 130.0, f.PaceWPM())
	assert.Equal(t, 1, f.Pauses())
	assert.Equal(t, "confident", f.Expression())
	assert.True(t, f.EyeContact())
}
