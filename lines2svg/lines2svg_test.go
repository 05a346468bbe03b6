package lines2svg

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mtypes "linemorph/type"
)

type doc struct {
	ViewBox string `xml:"viewBox,attr"`
	Images  []struct {
		Href string `xml:"href,attr"`
	} `xml:"image"`
	Groups []struct {
		ID    string `xml:"id,attr"`
		Lines []struct {
			X1 int `xml:"x1,attr"`
			Y1 int `xml:"y1,attr"`
			X2 int `xml:"x2,attr"`
			Y2 int `xml:"y2,attr"`
		} `xml:"line"`
		Circles []struct{} `xml:"circle"`
		Texts   []string   `xml:"text"`
	} `xml:"g"`
}

var pairs = []mtypes.FeatureLinePair{
	mtypes.Pair(mtypes.Line(1, 2, 3.5, 4), mtypes.Line(5, 6, 7, 8.25)),
	mtypes.Pair(mtypes.Line(0, 0, 9, 9), mtypes.Line(1, 1, 2, 2)),
}

func parse(t *testing.T, data []byte) doc {
	t.Helper()
	var d doc
	require.NoError(t, xml.Unmarshal(data, &d))
	return d
}

func TestWriteLines(t *testing.T) {
	var buf bytes.Buffer
	style := DefaultStyle()
	style.Labels = false
	style.Endpoints = false
	WriteLines(&buf, 10, 12, pairs, style)

	d := parse(t, buf.Bytes())
	assert.Equal(t, "0 0 1000 1200", d.ViewBox)
	require.Len(t, d.Groups, 2)
	assert.Equal(t, SourceGroup, d.Groups[0].ID)
	assert.Equal(t, TargetGroup, d.Groups[1].ID)
	require.Len(t, d.Groups[0].Lines, 2)
	l := d.Groups[0].Lines[0]
	assert.Equal(t, []int{100, 200, 350, 400}, []int{l.X1, l.Y1, l.X2, l.Y2})
	assert.Equal(t, 825, d.Groups[1].Lines[0].Y2)
	assert.Empty(t, d.Groups[0].Circles)
	assert.Empty(t, d.Groups[0].Texts)
}

func TestWriteOverlay(t *testing.T) {
	frame, err := mtypes.NewRaster(10, 12, mtypes.RGBA8)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteOverlay(&buf, frame, pairs, DefaultStyle()))

	d := parse(t, buf.Bytes())
	require.Len(t, d.Images, 1)
	assert.True(t, strings.HasPrefix(d.Images[0].Href, "data:image/png;base64,"))
	require.Len(t, d.Groups, 2)
	assert.Len(t, d.Groups[1].Circles, 4)
	assert.Equal(t, []string{"0", "1"}, d.Groups[1].Texts)
}

func TestWriteOverlayUnsupportedFormat(t *testing.T) {
	frame := &mtypes.RasterImage{Width: 1, Height: 1, Format: mtypes.PixelFormat{Channels: 2, BitDepth: 8}, Stride: 2, Pix: make([]byte, 2)}
	assert.ErrorIs(t, WriteOverlay(&bytes.Buffer{}, frame, nil, DefaultStyle()), mtypes.ErrUnsupportedFormat)
}
