package mtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureLine(t *testing.T) {
	l := Line(1, 1, 4, 5)
	assert.Equal(t, Point2{X: 3, Y: 4}, l.Vector())
	assert.InDelta(t, 5, l.Length(), 1e-12)
	assert.False(t, l.Degenerate())
	assert.True(t, Line(2, 2, 2, 2).Degenerate())
	assert.Equal(t, Line(2, 3, 5, 7), l.Translate(Point2{X: 1, Y: 2}))
}

func TestSwapAllKeepsOrder(t *testing.T) {
	pairs := []FeatureLinePair{
		Pair(Line(0, 0, 1, 0), Line(0, 1, 1, 1)),
		Pair(Line(5, 5, 6, 6), Line(7, 7, 8, 8)),
	}
	swapped := SwapAll(pairs)
	require.Len(t, swapped, 2)
	for i := range pairs {
		assert.Equal(t, pairs[i][0], swapped[i][1])
		assert.Equal(t, pairs[i][1], swapped[i][0])
	}
	// 原切片不受影响
	assert.Equal(t, Line(0, 0, 1, 0), pairs[0][0])
}

func TestNewRaster(t *testing.T) {
	r, err := NewRaster(3, 2, RGBA8)
	require.NoError(t, err)
	assert.Equal(t, 12, r.Stride)
	assert.Len(t, r.Pix, 24)
	assert.Equal(t, 4+12, r.PixOffset(1, 1))

	r.Pixel(2, 1)[0] = 9
	assert.Equal(t, byte(9), r.Pix[12+8])

	_, err = NewRaster(0, 2, RGBA8)
	assert.Error(t, err)
	_, err = NewRaster(2, 2, PixelFormat{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestBytesPerPixel(t *testing.T) {
	assert.Equal(t, 1, Gray8.BytesPerPixel())
	assert.Equal(t, 4, RGBA8.BytesPerPixel())
	assert.Equal(t, 8, RGBA16.BytesPerPixel())
	assert.Equal(t, 3, PixelFormat{Channels: 3, BitDepth: 8}.BytesPerPixel())
	assert.Equal(t, 1, PixelFormat{Channels: 1, BitDepth: 1}.BytesPerPixel())
}

func TestCloneAndLayout(t *testing.T) {
	r, err := NewRaster(2, 2, Gray8)
	require.NoError(t, err)
	c := r.Clone()
	c.Pix[0] = 1
	assert.Zero(t, r.Pix[0])
	assert.True(t, r.SameLayout(c))

	other, err := NewRaster(2, 2, RGBA8)
	require.NoError(t, err)
	assert.False(t, r.SameLayout(other))
}

func TestFrameSequenceReversed(t *testing.T) {
	a, _ := NewRaster(1, 1, Gray8)
	b, _ := NewRaster(1, 1, Gray8)
	c, _ := NewRaster(1, 1, Gray8)
	s := FrameSequence{a, b, c}.Reversed()
	assert.Same(t, c, s[0])
	assert.Same(t, b, s[1])
	assert.Same(t, a, s[2])
}

func TestParams(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())
	assert.Equal(t, 5, p.Frames)
	assert.Equal(t, DissolveSpan, p.Dissolve)

	p.Frames = 0
	assert.Error(t, p.Validate())
	p = DefaultParams()
	p.A = -1
	assert.Error(t, p.Validate())

	w, err := ParseDissolveWeight("frames")
	require.NoError(t, err)
	assert.Equal(t, DissolveFrames, w)
	_, err = ParseDissolveWeight("bogus")
	assert.Error(t, err)
}
