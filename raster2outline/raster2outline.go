// Package raster2outline 把帧的明暗轮廓描成 SVG 路径，用于比较变形前后的外形
package raster2outline

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/gotranspile/gotrace"

	"linemorph/image2raster"
	mtypes "linemorph/type"
	"linemorph/workerpool"
)

// Mask 亮度低于 threshold（0..255）的像素视为轮廓内部，置黑；其余置白。
// 完全透明的像素一律视为外部。各行在 pool 中并行处理，pool 为 nil 时串行。
func Mask(frame *mtypes.RasterImage, threshold uint8, pool *workerpool.Pool) (*image.Gray, error) {
	img, err := image2raster.ToImage(frame)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	mask := image.NewGray(b)
	pool.ParallelFor(b.Dy(), func(start, end int) {
		for y := b.Min.Y + start; y < b.Min.Y+end; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := img.At(x, y)
				_, _, _, a := c.RGBA()
				lum := color.GrayModel.Convert(c).(color.Gray).Y
				if a > 0 && lum < threshold {
					mask.SetGray(x, y, color.Gray{Y: 0})
				} else {
					mask.SetGray(x, y, color.Gray{Y: 255})
				}
			}
		}
	})
	return mask, nil
}

// TraceSVG 描出 Mask 的轮廓并渲染为 SVG 字符串
func TraceSVG(frame *mtypes.RasterImage, threshold uint8, pool *workerpool.Pool) (string, error) {
	mask, err := Mask(frame, threshold, pool)
	if err != nil {
		return "", err
	}
	return traceGrayToSVG(mask)
}

func traceGrayToSVG(mask *image.Gray) (string, error) {
	bm := gotrace.BitmapFromGray(mask, nil)

	paths, err := gotrace.Trace(bm, nil)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	sz := mask.Bounds().Size()
	if err := gotrace.Render("svg", nil, &buf, paths, sz.X, sz.Y); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteAll 为每一帧写出 outline_000.svg 形式的轮廓文件
func WriteAll(dir string, frames mtypes.FrameSequence, threshold uint8, pool *workerpool.Pool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, frame := range frames {
		s, err := TraceSVG(frame, threshold, pool)
		if err != nil {
			return fmt.Errorf("trace frame %d failed: %w", i, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("outline_%03d.svg", i))
		if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
			return err
		}
	}
	return nil
}
