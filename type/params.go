package mtypes

import (
	"errors"
	"fmt"
)

// DissolveWeight 决定交叉溶解第 i 帧的混合比例
type DissolveWeight int

const (
	// DissolveSpan 使用 i/(N-1)，首尾两帧恰好为 0 和 1
	DissolveSpan DissolveWeight = iota
	// DissolveFrames 使用 i/N
	DissolveFrames
)

func (w DissolveWeight) String() string {
	switch w {
	case DissolveSpan:
		return "span"
	case DissolveFrames:
		return "frames"
	default:
		return fmt.Sprintf("DissolveWeight(%d)", int(w))
	}
}

// ParseDissolveWeight 解析命令行中的名称
func ParseDissolveWeight(s string) (DissolveWeight, error) {
	switch s {
	case "span", "":
		return DissolveSpan, nil
	case "frames":
		return DissolveFrames, nil
	}
	return 0, fmt.Errorf("unknown dissolve weight %q", s)
}

// Params 一次变形运行共享的参数
type Params struct {
	A      float64 // 距离平滑项，防止除零
	B      float64 // 权重随距离衰减的陡峭程度
	P      float64 // 线段长度对权重的影响
	Frames int

	// InclusiveTween 为 true 时插值比例为 i/(Frames-1)，最后一帧到达目标线；
	// 默认 i/Frames。
	InclusiveTween bool
	Dissolve       DissolveWeight
}

func DefaultParams() Params {
	return Params{
		A:      0.01,
		B:      2,
		P:      0,
		Frames: 5,
	}
}

func (p Params) Validate() error {
	if p.Frames <= 0 {
		return fmt.Errorf("frame count must be positive, got %d", p.Frames)
	}
	if p.A < 0 {
		return errors.New("parameter a must not be negative")
	}
	if p.B < 0 {
		return errors.New("parameter b must not be negative")
	}
	return nil
}
