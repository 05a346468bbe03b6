// Package compose 编排完整的双图变形：正向序列、反向序列，再逐帧交叉溶解
package compose

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"linemorph/fieldwarp"
	"linemorph/lines2frame"
	"linemorph/tween"
	mtypes "linemorph/type"
	"linemorph/workerpool"
)

var (
	ErrIncompatibleFrames = errors.New("incompatible frame formats")
	ErrNoFrames           = errors.New("no frames")
)

// Direction 序列方向
type Direction int

const (
	Forward Direction = iota // 源图 → 目标图
	Reverse                  // 目标图 → 源图
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Progress 每完成一帧回调一次，只用于观察，不能用来控制流程。
// 同一次运行中的回调是串行的。
type Progress func(dir Direction, done, total int)

type Options struct {
	Params mtypes.Params
	// Parallel 同时合成的帧数上限，<= 0 时取 GOMAXPROCS
	Parallel int
	// Pool 逐行并行使用的协程池；为 nil 时本次运行内部创建并在结束时关闭
	Pool     *workerpool.Pool
	Progress Progress
}

// MorphSequence 生成 source → target 的完整变形序列。
// pairs 在调用时被复制，调用方之后修改原切片不影响本次运行。
func MorphSequence(ctx context.Context, source, target *mtypes.RasterImage, pairs []mtypes.FeatureLinePair, opts Options) (mtypes.FrameSequence, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	if source == nil || target == nil {
		return nil, errors.New("source and target images are required")
	}
	snapshot := append([]mtypes.FeatureLinePair(nil), pairs...)

	if opts.Pool == nil {
		opts.Pool = workerpool.New(0)
		defer opts.Pool.Close()
	}

	forward, err := Sequence(ctx, source, snapshot, Forward, opts)
	if err != nil {
		return nil, fmt.Errorf("forward sequence: %w", err)
	}
	reverse, err := Sequence(ctx, target, mtypes.SwapAll(snapshot), Reverse, opts)
	if err != nil {
		return nil, fmt.Errorf("reverse sequence: %w", err)
	}
	return CrossDissolve(forward, reverse.Reversed(), opts.Params.Dissolve)
}

// Sequence 按帧插值对应线并逐帧合成 src 的变形结果，帧顺序与插值顺序一致。
// ctx 取消后不再开始新的帧，已经完成的帧不受影响。
func Sequence(ctx context.Context, src *mtypes.RasterImage, pairs []mtypes.FeatureLinePair, dir Direction, opts Options) (mtypes.FrameSequence, error) {
	n := opts.Params.Frames
	if n <= 0 {
		return nil, ErrNoFrames
	}
	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}
	weights := fieldwarp.WeightsOf(opts.Params)

	frames := make(mtypes.FrameSequence, n)
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lines := tween.At(pairs, tween.Fraction(i, n, opts.Params.InclusiveTween))
			frame, err := lines2frame.Synthesize(src, lines, weights, opts.Pool)
			if err != nil {
				return fmt.Errorf("frame %d failed: %w", i, err)
			}
			frames[i] = frame

			mu.Lock()
			done++
			if opts.Progress != nil {
				opts.Progress(dir, done, n)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}
