package linefile

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rustyoz/svg"

	"linemorph/lines2svg"
	mtypes "linemorph/type"
)

type svgLine struct {
	X1 float64 `xml:"x1,attr"`
	Y1 float64 `xml:"y1,attr"`
	X2 float64 `xml:"x2,attr"`
	Y2 float64 `xml:"y2,attr"`
}

type svgGroup struct {
	ID    string    `xml:"id,attr"`
	Lines []svgLine `xml:"line"`
}

type svgDoc struct {
	Width  string     `xml:"width,attr"`
	Height string     `xml:"height,attr"`
	Groups []svgGroup `xml:"g"`
}

// DecodeSVG 读取 id 为 source 和 target 的两个分组，按出现顺序配对。
// 坐标先减去 viewBox 原点，再换算到 width/height 给出的像素尺寸。
func DecodeSVG(data []byte) (File, error) {
	var doc svgDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return File{}, fmt.Errorf("xml unmarshal error: %w", err)
	}
	parsed, err := svg.ParseSvg(string(data), "lines", 1.0)
	if err != nil {
		return File{}, err
	}

	width, height := parseLength(doc.Width), parseLength(doc.Height)
	var t transform
	t.sx, t.sy = 1, 1
	if box, ok := parseViewBox(parsed.ViewBox); ok {
		t.ox, t.oy = box[0], box[1]
		if width > 0 && height > 0 {
			t.sx, t.sy = width/box[2], height/box[3]
		}
	}

	var src, dst []svgLine
	for _, g := range doc.Groups {
		switch g.ID {
		case lines2svg.SourceGroup:
			src = g.Lines
		case lines2svg.TargetGroup:
			dst = g.Lines
		}
	}
	if src == nil && dst == nil {
		return File{}, errors.New("svg has no source/target line groups")
	}
	if len(src) != len(dst) {
		return File{}, fmt.Errorf("svg has %d source lines but %d target lines", len(src), len(dst))
	}

	f := File{Width: int(math.Round(width)), Height: int(math.Round(height))}
	for i := range src {
		f.Pairs = append(f.Pairs, mtypes.Pair(src[i].line(t), dst[i].line(t)))
	}
	f.Pairs = DropDegenerate(f.Pairs)
	return f, nil
}

// transform viewBox 坐标到像素坐标：(v - 原点) * 缩放
type transform struct {
	ox, oy float64
	sx, sy float64
}

func (t transform) apply(x, y float64) (float64, float64) {
	return (x - t.ox) * t.sx, (y - t.oy) * t.sy
}

func (l svgLine) line(t transform) mtypes.FeatureLine {
	x1, y1 := t.apply(l.X1, l.Y1)
	x2, y2 := t.apply(l.X2, l.Y2)
	return mtypes.Line(x1, y1, x2, y2)
}

// EncodeSVG 文件没有记录尺寸时用线的外接范围。
// 先写入缓冲区，再一次性写出，写入错误会返回给调用方。
func EncodeSVG(w io.Writer, f File) error {
	width, height := f.Width, f.Height
	if width <= 0 || height <= 0 {
		width, height = extent(f.Pairs)
	}
	style := lines2svg.DefaultStyle()
	style.Labels = false
	style.Endpoints = false

	var buf bytes.Buffer
	lines2svg.WriteLines(&buf, width, height, f.Pairs, style)
	_, err := w.Write(buf.Bytes())
	return err
}

func extent(pairs []mtypes.FeatureLinePair) (int, int) {
	w, h := 1.0, 1.0
	for _, p := range pairs {
		for _, l := range p {
			w = max(w, l.P1.X, l.P2.X)
			h = max(h, l.P1.Y, l.P2.Y)
		}
	}
	return int(math.Ceil(w)) + 1, int(math.Ceil(h)) + 1
}

// parseViewBox 读取 "minx miny w h"
func parseViewBox(box string) ([4]float64, bool) {
	var out [4]float64
	fields := strings.Fields(strings.ReplaceAll(box, ",", " "))
	if len(fields) != 4 {
		return out, false
	}
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return out, false
		}
		out[i] = v
	}
	return out, out[2] > 0 && out[3] > 0
}

// parseLength 去掉 px 单位
func parseLength(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"), 64)
	if err != nil {
		return 0
	}
	return v
}
