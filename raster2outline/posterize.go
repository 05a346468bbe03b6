package raster2outline

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
	"golang.org/x/sync/errgroup"

	"linemorph/image2raster"
	mtypes "linemorph/type"
)

// gotrace 输出的路径坐标是像素的 10 倍，且 y 轴朝上
const traceScale = 10

// Layer 一种颜色及其覆盖区域，Mask 中黑色为覆盖
type Layer struct {
	Color color.RGBA
	Mask  *image.Gray
}

type rgb [3]int

// box 中位切分中的一个颜色盒
type box struct {
	pixels   []rgb
	min, max rgb
}

func newBox(pixels []rgb) *box {
	b := &box{pixels: pixels, min: rgb{255, 255, 255}}
	for _, p := range pixels {
		for c := range 3 {
			b.min[c] = min(b.min[c], p[c])
			b.max[c] = max(b.max[c], p[c])
		}
	}
	return b
}

// widest 返回跨度最大的通道及其跨度
func (b *box) widest() (int, int) {
	ch, span := 0, -1
	for c := range 3 {
		if s := b.max[c] - b.min[c]; s > span {
			ch, span = c, s
		}
	}
	return ch, span
}

func (b *box) mean() color.RGBA {
	var sum rgb
	for _, p := range b.pixels {
		for c := range 3 {
			sum[c] += p[c]
		}
	}
	n := len(b.pixels)
	return color.RGBA{R: uint8(sum[0] / n), G: uint8(sum[1] / n), B: uint8(sum[2] / n), A: 255}
}

func samples(img image.Image) []rgb {
	bounds := img.Bounds()
	pixels := make([]rgb, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pixels = append(pixels, rgb{int(r >> 8), int(g >> 8), int(b >> 8)})
		}
	}
	return pixels
}

// Palette 中位切分量化出最多 colors 种颜色
func Palette(frame *mtypes.RasterImage, colors int) ([]color.RGBA, error) {
	if colors <= 0 {
		return nil, fmt.Errorf("invalid color count %d", colors)
	}
	img, err := image2raster.ToImage(frame)
	if err != nil {
		return nil, err
	}
	pixels := samples(img)
	if len(pixels) == 0 {
		return nil, errors.New("empty image")
	}

	boxes := []*box{newBox(pixels)}
	for len(boxes) < colors {
		idx, ch, span := -1, 0, 0
		for i, b := range boxes {
			if c, s := b.widest(); s > span && len(b.pixels) > 1 {
				idx, ch, span = i, c, s
			}
		}
		// 所有盒子都只剩一种颜色
		if idx < 0 {
			break
		}
		split := boxes[idx]
		slices.SortFunc(split.pixels, func(a, b rgb) int { return a[ch] - b[ch] })
		mid := len(split.pixels) / 2
		lo := newBox(slices.Clone(split.pixels[:mid]))
		hi := newBox(slices.Clone(split.pixels[mid:]))
		boxes = slices.Replace(boxes, idx, idx+1, lo, hi)
	}

	out := make([]color.RGBA, len(boxes))
	for i, b := range boxes {
		out[i] = b.mean()
	}
	return out, nil
}

// Layers 按最近颜色把每个像素分到一个图层
func Layers(frame *mtypes.RasterImage, palette []color.RGBA) ([]Layer, error) {
	if len(palette) == 0 {
		return nil, errors.New("empty palette")
	}
	img, err := image2raster.ToImage(frame)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	layers := make([]Layer, len(palette))
	for i, c := range palette {
		mask := image.NewGray(bounds)
		for j := range mask.Pix {
			mask.Pix[j] = 255
		}
		layers[i] = Layer{Color: c, Mask: mask}
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			px := rgb{int(r >> 8), int(g >> 8), int(b >> 8)}

			best, bestDist := 0, math.MaxInt
			for i, c := range palette {
				dr, dg, db := px[0]-int(c.R), px[1]-int(c.G), px[2]-int(c.B)
				if d := dr*dr + dg*dg + db*db; d < bestDist {
					best, bestDist = i, d
				}
			}
			layers[best].Mask.SetGray(x, y, color.Gray{Y: 0})
		}
	}
	return layers, nil
}

// extractPaths 取出 SVG 中所有 <path> 的 d 属性
func extractPaths(doc string) []string {
	var s struct {
		Paths []struct {
			D string `xml:"d,attr"`
		} `xml:"path"`
		Groups []struct {
			Paths []struct {
				D string `xml:"d,attr"`
			} `xml:"path"`
		} `xml:"g"`
	}
	if err := xml.Unmarshal([]byte(doc), &s); err != nil {
		return nil
	}
	var out []string
	for _, p := range s.Paths {
		out = append(out, p.D)
	}
	for _, g := range s.Groups {
		for _, p := range g.Paths {
			out = append(out, p.D)
		}
	}
	return out
}

var pathToken = regexp.MustCompile(`-?[0-9]*\.?[0-9]+(?:[eE][-+]?\d+)?|[MLHVCSQTAZmlhvcsqtaz]`)

func argCount(cmd string) int {
	switch strings.ToUpper(cmd) {
	case "H", "V":
		return 1
	case "M", "L", "T":
		return 2
	case "S", "Q":
		return 4
	case "C":
		return 6
	case "A":
		return 7
	}
	return 0
}

// flipPath 把 y 轴朝上的路径翻转为 y 轴朝下，height 为同一坐标单位下的画布高度
func flipPath(d string, height float64) string {
	var (
		out  []string
		cmd  string
		args []float64
	)
	flush := func() {
		n := argCount(cmd)
		if n == 0 || len(args) == 0 {
			args = nil
			return
		}
		abs := cmd == strings.ToUpper(cmd)
		flipY := func(v float64) float64 {
			if abs {
				return height - v
			}
			return -v
		}
		for i := 0; i < len(args); i += n {
			group := args[i:min(i+n, len(args))]
			switch strings.ToUpper(cmd) {
			case "H":
			case "V":
				group[0] = flipY(group[0])
			case "A":
				if len(group) == 7 {
					group[4] = 1 - group[4]
					group[6] = flipY(group[6])
				}
			default:
				for j := 1; j < len(group); j += 2 {
					group[j] = flipY(group[j])
				}
			}
			strs := make([]string, len(group))
			for j, v := range group {
				strs[j] = strconv.FormatFloat(v, 'f', -1, 64)
			}
			out = append(out, strings.Join(strs, " "))
		}
		args = nil
	}

	for _, tok := range pathToken.FindAllString(d, -1) {
		if argCount(tok) > 0 || strings.EqualFold(tok, "z") {
			flush()
			cmd = tok
			out = append(out, tok)
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		args = append(args, v)
	}
	flush()
	return strings.Join(out, " ")
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// WritePosterized 把帧量化为 colors 种颜色，逐层描边后叠成一张矢量图
func WritePosterized(w io.Writer, frame *mtypes.RasterImage, colors int) error {
	palette, err := Palette(frame, colors)
	if err != nil {
		return err
	}
	layers, err := Layers(frame, palette)
	if err != nil {
		return err
	}

	height := float64(frame.Height * traceScale)
	canvas := svg.New(w)
	canvas.Startview(frame.Width, frame.Height, 0, 0, frame.Width*traceScale, frame.Height*traceScale)
	for i, layer := range layers {
		traced, err := traceGrayToSVG(layer.Mask)
		if err != nil {
			return fmt.Errorf("trace layer %d failed: %w", i, err)
		}
		canvas.Gid(fmt.Sprintf("layer-%d", i))
		for _, d := range extractPaths(traced) {
			canvas.Path(flipPath(d, height), "fill:"+hexColor(layer.Color))
		}
		canvas.Gend()
	}
	canvas.End()
	return nil
}

// PosterizeAll 并行为每一帧写出 poster_000.svg
func PosterizeAll(dir string, frames mtypes.FrameSequence, colors, parallel int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var g errgroup.Group
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, frame := range frames {
		g.Go(func() error {
			var buf bytes.Buffer
			if err := WritePosterized(&buf, frame, colors); err != nil {
				return fmt.Errorf("posterize frame %d failed: %w", i, err)
			}
			return os.WriteFile(filepath.Join(dir, fmt.Sprintf("poster_%03d.svg", i)), buf.Bytes(), 0o644)
		})
	}
	return g.Wait()
}
