package mtypes

import (
	"errors"
	"fmt"
)

var ErrUnsupportedFormat = errors.New("unsupported pixel format")

// PixelFormat 像素格式：通道数与每通道位深
type PixelFormat struct {
	Channels int
	BitDepth int
}

var (
	Gray8  = PixelFormat{Channels: 1, BitDepth: 8}
	RGBA8  = PixelFormat{Channels: 4, BitDepth: 8}
	Gray16 = PixelFormat{Channels: 1, BitDepth: 16}
	RGBA16 = PixelFormat{Channels: 4, BitDepth: 16}
)

// BytesPerPixel 每像素字节数，向上取整
func (f PixelFormat) BytesPerPixel() int {
	return (f.Channels*f.BitDepth + 7) / 8
}

func (f PixelFormat) Valid() bool {
	return f.Channels > 0 && f.BitDepth > 0
}

func (f PixelFormat) String() string {
	return fmt.Sprintf("%dx%dbit", f.Channels, f.BitDepth)
}

// RasterImage 平铺字节缓冲的位图。
// (x, y) 处像素从 Pix[y*Stride + x*Format.BytesPerPixel()] 开始。
type RasterImage struct {
	Width  int
	Height int
	Format PixelFormat
	Stride int
	Pix    []byte
}

// NewRaster 分配一张全零图像
func NewRaster(width, height int, format PixelFormat) (*RasterImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	stride := width * format.BytesPerPixel()
	return &RasterImage{
		Width:  width,
		Height: height,
		Format: format,
		Stride: stride,
		Pix:    make([]byte, stride*height),
	}, nil
}

// PixOffset 返回 (x, y) 像素的首字节下标
func (r *RasterImage) PixOffset(x, y int) int {
	return y*r.Stride + x*r.Format.BytesPerPixel()
}

// Pixel 返回 (x, y) 像素的字节切片，与原图共享内存
func (r *RasterImage) Pixel(x, y int) []byte {
	i := r.PixOffset(x, y)
	return r.Pix[i : i+r.Format.BytesPerPixel()]
}

// SameLayout 判断尺寸和像素格式是否一致
func (r *RasterImage) SameLayout(o *RasterImage) bool {
	return r.Width == o.Width && r.Height == o.Height && r.Format == o.Format && r.Stride == o.Stride
}

func (r *RasterImage) Clone() *RasterImage {
	c := *r
	c.Pix = make([]byte, len(r.Pix))
	copy(c.Pix, r.Pix)
	return &c
}

// FrameSequence 按时间顺序排列的帧，第 0 帧在前
type FrameSequence []*RasterImage

// Reversed 返回逆序的新序列，不复制图像
func (s FrameSequence) Reversed() FrameSequence {
	out := make(FrameSequence, len(s))
	for i, f := range s {
		out[len(s)-1-i] = f
	}
	return out
}
