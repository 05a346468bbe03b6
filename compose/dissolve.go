package compose

import (
	"fmt"

	mtypes "linemorph/type"
)

// CrossDissolve 逐帧混合两个等长序列。
// 第 0 帧取 forward[0]，最后一帧取 reverse[N-1]，中间帧按 weight 给出的比例线性混合，
// 结果截断为整数。所有帧必须尺寸和像素格式一致，否则返回 ErrIncompatibleFrames。
func CrossDissolve(forward, reverse mtypes.FrameSequence, weight mtypes.DissolveWeight) (mtypes.FrameSequence, error) {
	n := len(forward)
	if n == 0 {
		return nil, ErrNoFrames
	}
	if len(reverse) != n {
		return nil, fmt.Errorf("%w: %d forward frames, %d reverse frames", ErrIncompatibleFrames, n, len(reverse))
	}
	ref := forward[0]
	for i := range n {
		if forward[i] == nil || reverse[i] == nil {
			return nil, fmt.Errorf("%w: frame %d is missing", ErrIncompatibleFrames, i)
		}
		for _, f := range []struct {
			name  string
			frame *mtypes.RasterImage
		}{{"forward", forward[i]}, {"reverse", reverse[i]}} {
			if !ref.SameLayout(f.frame) {
				return nil, fmt.Errorf("%w: %s frame %d is %dx%d %s, want %dx%d %s", ErrIncompatibleFrames, f.name, i,
					f.frame.Width, f.frame.Height, f.frame.Format, ref.Width, ref.Height, ref.Format)
			}
		}
	}

	out := make(mtypes.FrameSequence, n)
	out[0] = forward[0]
	if n == 1 {
		return out, nil
	}
	out[n-1] = reverse[n-1]
	for i := 1; i < n-1; i++ {
		out[i] = Blend(forward[i], reverse[i], Alpha(i, n, weight))
	}
	return out, nil
}

// Alpha 第 i 帧中反向帧所占比例
func Alpha(i, n int, weight mtypes.DissolveWeight) float64 {
	if weight == mtypes.DissolveFrames {
		return float64(i) / float64(n)
	}
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

// Blend 返回 a*(1-alpha) + b*alpha。
// 16 位格式按大端样本混合，其余按字节混合。调用方保证两图布局一致。
func Blend(a, b *mtypes.RasterImage, alpha float64) *mtypes.RasterImage {
	out := a.Clone()
	if a.Format.BitDepth == 16 {
		for j := 0; j+1 < len(out.Pix); j += 2 {
			va := float64(uint16(a.Pix[j])<<8 | uint16(a.Pix[j+1]))
			vb := float64(uint16(b.Pix[j])<<8 | uint16(b.Pix[j+1]))
			v := uint16(va*(1-alpha) + vb*alpha)
			out.Pix[j] = byte(v >> 8)
			out.Pix[j+1] = byte(v)
		}
		return out
	}
	for j := range out.Pix {
		out.Pix[j] = byte(float64(a.Pix[j])*(1-alpha) + float64(b.Pix[j])*alpha)
	}
	return out
}
