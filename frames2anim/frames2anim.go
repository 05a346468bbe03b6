// Package frames2anim 把变形结果导出为 GIF 动画、视频或逐帧 PNG
package frames2anim

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"

	"linemorph/image2raster"
	mtypes "linemorph/type"
)

// DefaultDelay 播放时每帧的停留时间
const DefaultDelay = 100 * time.Millisecond

var (
	ErrNoFrames     = errors.New("no frames to export")
	ErrInvalidDelay = errors.New("frame delay must be positive")
)

// Export 按输出路径选择格式：.gif 用内置编码器，没有扩展名视为目录逐帧写 PNG，
// 其他扩展名交给 ffmpeg。
func Export(ctx context.Context, path string, frames mtypes.FrameSequence, delay time.Duration) error {
	if delay <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDelay, delay)
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gif":
		return WriteGIF(path, frames, delay)
	case "":
		_, err := WritePNGs(path, "frame", frames)
		return err
	}
	fps := float64(time.Second) / float64(delay)
	return WriteVideo(ctx, path, frames, fps)
}

// EncodeGIF 逐帧抖动到 Plan9 调色板，无限循环播放
func EncodeGIF(w io.Writer, frames mtypes.FrameSequence, delay time.Duration) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	anim := &gif.GIF{LoopCount: 0}
	hundredths := max(int(delay/(10*time.Millisecond)), 1)

	for i, f := range frames {
		img, err := image2raster.ToImage(f)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		bounds := img.Bounds()
		paletted := image.NewPaletted(bounds, palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, bounds, img, bounds.Min)
		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, hundredths)
	}
	return gif.EncodeAll(w, anim)
}

func WriteGIF(path string, frames mtypes.FrameSequence, delay time.Duration) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeGIF(f, frames, delay); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WritePNGs 在 dir 下写 prefix_000.png 形式的逐帧图片，返回写出的文件路径
func WritePNGs(dir, prefix string, frames mtypes.FrameSequence) ([]string, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(frames))
	for i, frame := range frames {
		path := filepath.Join(dir, fmt.Sprintf("%s_%03d.png", prefix, i))
		if err := writePNG(path, frame); err != nil {
			return paths, fmt.Errorf("write frame %d failed: %w", i, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writePNG(path string, frame *mtypes.RasterImage) error {
	img, err := image2raster.ToImage(frame)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodePNGStream 把所有帧依次编码为 PNG 写入 w，供 image2pipe 读取
func EncodePNGStream(w io.Writer, frames mtypes.FrameSequence) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	for i, frame := range frames {
		img, err := image2raster.ToImage(frame)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := enc.Encode(w, img); err != nil {
			return fmt.Errorf("encode frame %d failed: %w", i, err)
		}
	}
	return nil
}
