package raster2outline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mtypes "linemorph/type"
	"linemorph/workerpool"
)

// square 白底上一个黑色方块
func square(t *testing.T) *mtypes.RasterImage {
	t.Helper()
	img, err := mtypes.NewRaster(12, 12, mtypes.RGBA8)
	require.NoError(t, err)
	for y := range 12 {
		for x := range 12 {
			px := img.Pixel(x, y)
			if x >= 3 && x < 9 && y >= 3 && y < 9 {
				copy(px, []byte{0, 0, 0, 255})
			} else {
				copy(px, []byte{255, 255, 255, 255})
			}
		}
	}
	return img
}

func TestMask(t *testing.T) {
	mask, err := Mask(square(t), 128, nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), mask.GrayAt(5, 5).Y)
	assert.Equal(t, uint8(255), mask.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), mask.GrayAt(9, 9).Y)
}

func TestMaskParallelMatchesSerial(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()

	serial, err := Mask(square(t), 128, nil)
	require.NoError(t, err)
	parallel, err := Mask(square(t), 128, pool)
	require.NoError(t, err)
	assert.Equal(t, serial.Pix, parallel.Pix)
	assert.Equal(t, uint8(0), parallel.GrayAt(3, 8).Y)
	assert.Equal(t, uint8(255), parallel.GrayAt(11, 11).Y)
}

func TestMaskTransparentIsOutside(t *testing.T) {
	img, err := mtypes.NewRaster(2, 1, mtypes.RGBA8)
	require.NoError(t, err)
	mask, err := Mask(img, 128, nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), mask.GrayAt(0, 0).Y)
}

func TestTraceSVG(t *testing.T) {
	s, err := TraceSVG(square(t), 128, nil)
	require.NoError(t, err)
	assert.Contains(t, s, "<svg")
	assert.Contains(t, s, "<path")
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outlines")
	require.NoError(t, WriteAll(dir, mtypes.FrameSequence{square(t), square(t)}, 128, nil))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "outline_000"))
}
