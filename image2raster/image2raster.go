// Package image2raster 把解码后的图像转换成变形引擎使用的平铺字节位图，反之亦然
package image2raster

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	mtypes "linemorph/type"
)

// Decode 解码任意已注册格式的图像
func Decode(r io.Reader) (*mtypes.RasterImage, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// Load 读取图片文件
func Load(path string) (*mtypes.RasterImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s failed: %w", path, err)
	}
	return r, nil
}

// LoadFit 读取图片并缩放到 width x height
func LoadFit(path string, width, height int) (*mtypes.RasterImage, error) {
	r, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Fit(r, width, height)
}

// FromImage 灰度图保持单通道，其余一律转成非预乘的 RGBA
func FromImage(img image.Image) *mtypes.RasterImage {
	b := img.Bounds()
	switch src := img.(type) {
	case *image.Gray:
		return copyRows(b, mtypes.Gray8, src.Pix, src.Stride, src.PixOffset)
	case *image.Gray16:
		return copyRows(b, mtypes.Gray16, src.Pix, src.Stride, src.PixOffset)
	case *image.NRGBA64:
		return copyRows(b, mtypes.RGBA16, src.Pix, src.Stride, src.PixOffset)
	case *image.NRGBA:
		return copyRows(b, mtypes.RGBA8, src.Pix, src.Stride, src.PixOffset)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &mtypes.RasterImage{
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: mtypes.RGBA8,
		Stride: dst.Stride,
		Pix:    dst.Pix,
	}
}

func copyRows(b image.Rectangle, f mtypes.PixelFormat, pix []byte, stride int, offset func(x, y int) int) *mtypes.RasterImage {
	w, h := b.Dx(), b.Dy()
	rowLen := w * f.BytesPerPixel()
	out := &mtypes.RasterImage{Width: w, Height: h, Format: f, Stride: rowLen, Pix: make([]byte, rowLen*h)}
	for y := 0; y < h; y++ {
		i := offset(b.Min.X, b.Min.Y+y)
		copy(out.Pix[y*rowLen:(y+1)*rowLen], pix[i:i+rowLen])
	}
	return out
}

// ToImage 包装成标准库图像，与 r 共享像素内存
func ToImage(r *mtypes.RasterImage) (image.Image, error) {
	rect := image.Rect(0, 0, r.Width, r.Height)
	switch r.Format {
	case mtypes.Gray8:
		return &image.Gray{Pix: r.Pix, Stride: r.Stride, Rect: rect}, nil
	case mtypes.Gray16:
		return &image.Gray16{Pix: r.Pix, Stride: r.Stride, Rect: rect}, nil
	case mtypes.RGBA8:
		return &image.NRGBA{Pix: r.Pix, Stride: r.Stride, Rect: rect}, nil
	case mtypes.RGBA16:
		return &image.NRGBA64{Pix: r.Pix, Stride: r.Stride, Rect: rect}, nil
	}
	return nil, fmt.Errorf("%w: %s", mtypes.ErrUnsupportedFormat, r.Format)
}

// Fit 用 Catmull-Rom 缩放到指定尺寸，尺寸相同时原样返回
func Fit(r *mtypes.RasterImage, width, height int) (*mtypes.RasterImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid fit size %dx%d", width, height)
	}
	if r.Width == width && r.Height == height {
		return r, nil
	}
	src, err := ToImage(r)
	if err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, width, height)
	var dst draw.Image
	switch r.Format {
	case mtypes.Gray8:
		dst = image.NewGray(rect)
	case mtypes.Gray16:
		dst = image.NewGray16(rect)
	case mtypes.RGBA16:
		dst = image.NewNRGBA64(rect)
	default:
		dst = image.NewNRGBA(rect)
	}
	draw.CatmullRom.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)
	return FromImage(dst), nil
}

// ToRGBA8 统一成 8 位 RGBA，两幅格式不同的图像才能逐帧混合
func ToRGBA8(r *mtypes.RasterImage) (*mtypes.RasterImage, error) {
	if r.Format == mtypes.RGBA8 {
		return r, nil
	}
	src, err := ToImage(r)
	if err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Src)
	return FromImage(dst), nil
}
