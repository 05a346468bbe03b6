// Package lines2svg 用 SVG 画出特征线：既可作为对应线文件，也可叠加在帧图像上检查变形
package lines2svg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"linemorph/image2raster"
	mtypes "linemorph/type"
)

// Units 每像素的 SVG 用户单位数。svgo 只接受整数坐标，放大后保留两位小数。
const Units = 100

// 分组 id，读取时按这两个 id 配对
const (
	SourceGroup = "source"
	TargetGroup = "target"
)

// Style 线条样式
type Style struct {
	SourceColor string
	TargetColor string
	Width       float64 // 像素
	Labels      bool    // 在线的起点标注序号
	Endpoints   bool    // 在端点画圆点
}

func DefaultStyle() Style {
	return Style{
		SourceColor: "green",
		TargetColor: "yellow",
		Width:       2,
		Labels:      true,
		Endpoints:   true,
	}
}

func scaled(v float64) int {
	return int(math.Round(v * Units))
}

// WriteLines 写出只有两组线的 SVG 对应线文件
func WriteLines(w io.Writer, width, height int, pairs []mtypes.FeatureLinePair, style Style) {
	canvas := svg.New(w)
	canvas.Startview(width, height, 0, 0, width*Units, height*Units)
	drawGroups(canvas, pairs, style)
	canvas.End()
}

// WriteOverlay 把帧图像以 PNG data URI 嵌入，再在上面画线
func WriteOverlay(w io.Writer, frame *mtypes.RasterImage, pairs []mtypes.FeatureLinePair, style Style) error {
	uri, err := dataURI(frame)
	if err != nil {
		return err
	}
	canvas := svg.New(w)
	canvas.Startview(frame.Width, frame.Height, 0, 0, frame.Width*Units, frame.Height*Units)
	canvas.Image(0, 0, frame.Width*Units, frame.Height*Units, uri, `preserveAspectRatio="none"`)
	drawGroups(canvas, pairs, style)
	canvas.End()
	return nil
}

func dataURI(frame *mtypes.RasterImage) (string, error) {
	img, err := image2raster.ToImage(frame)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode overlay image failed: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func drawGroups(canvas *svg.SVG, pairs []mtypes.FeatureLinePair, style Style) {
	sides := []struct {
		id    string
		color string
	}{
		{SourceGroup, style.SourceColor},
		{TargetGroup, style.TargetColor},
	}
	stroke := max(scaled(style.Width), 1)

	for side, s := range sides {
		canvas.Gid(s.id)
		for i, p := range pairs {
			l := p[side]
			canvas.Line(scaled(l.P1.X), scaled(l.P1.Y), scaled(l.P2.X), scaled(l.P2.Y),
				fmt.Sprintf("stroke:%s;stroke-width:%d;stroke-linecap:round", s.color, stroke))
			if style.Endpoints {
				canvas.Circle(scaled(l.P1.X), scaled(l.P1.Y), stroke, "fill:"+s.color)
				canvas.Circle(scaled(l.P2.X), scaled(l.P2.Y), stroke, "fill:"+s.color)
			}
			if style.Labels {
				canvas.Text(scaled(l.P1.X)+stroke*2, scaled(l.P1.Y)-stroke*2, fmt.Sprintf("%d", i),
					fmt.Sprintf("fill:%s;font-size:%dpx;font-family:sans-serif", s.color, stroke*6))
			}
		}
		canvas.Gend()
	}
}
