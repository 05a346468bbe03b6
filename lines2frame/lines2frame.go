// Package lines2frame 按一帧的对应线对源图做逆向映射重采样，生成该帧图像
package lines2frame

import (
	"errors"
	"math"

	"linemorph/fieldwarp"
	mtypes "linemorph/type"
	"linemorph/workerpool"
)

// rowBatch 每次从池中领取的行数
const rowBatch = 8

// Synthesize 生成与 src 尺寸、格式相同的新图像。
// 每个目标像素经 CombineDisplacement 求出源位置，四舍五入并钳制到图像范围内，
// 再整像素复制（最近邻，不做插值）。pool 为 nil 时串行执行。
func Synthesize(src *mtypes.RasterImage, pairs []mtypes.FeatureLinePair, w fieldwarp.Weights, pool *workerpool.Pool) (*mtypes.RasterImage, error) {
	if src == nil {
		return nil, errors.New("nil source image")
	}
	dst, err := mtypes.NewRaster(src.Width, src.Height, src.Format)
	if err != nil {
		return nil, err
	}
	if len(src.Pix) < src.Stride*src.Height {
		return nil, errors.New("source pixel buffer shorter than its dimensions")
	}

	bpp := src.Format.BytesPerPixel()
	pool.ParallelForBatched(src.Height, rowBatch, func(start, end int) {
		for y := start; y < end; y++ {
			row := dst.Pix[y*dst.Stride : y*dst.Stride+dst.Width*bpp]
			for x := 0; x < src.Width; x++ {
				pos := fieldwarp.CombineDisplacement(pairs, mtypes.Point2{X: float64(x), Y: float64(y)}, w)
				sx := ClampIndex(pos.X, src.Width)
				sy := ClampIndex(pos.Y, src.Height)
				si := src.PixOffset(sx, sy)
				copy(row[x*bpp:(x+1)*bpp], src.Pix[si:si+bpp])
			}
		}
	})
	return dst, nil
}

// ClampIndex 把源坐标取整（半数取偶）并钳制到 [0, n-1]。NaN 与无穷大一律取 0。
func ClampIndex(v float64, n int) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	r := math.RoundToEven(v)
	if r <= 0 {
		return 0
	}
	if r >= float64(n-1) {
		return n - 1
	}
	return int(r)
}
