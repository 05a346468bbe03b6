package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"linemorph/frames2anim"
	mtypes "linemorph/type"
)

func main() {
	defaults := mtypes.DefaultParams()

	sourcePath := flag.String("source", "", "源图像或视频路径")
	targetPath := flag.String("target", "", "目标图像或视频路径")
	linesPath := flag.String("lines", "", "对应线文件路径（.json 或 .svg）")
	frames := flag.Int("frames", defaults.Frames, "生成的帧数")
	a := flag.Float64("a", defaults.A, "权重参数 a，越小越贴近线")
	b := flag.Float64("b", defaults.B, "权重参数 b，距离衰减指数")
	p := flag.Float64("p", defaults.P, "权重参数 p，线长影响指数")
	width := flag.Int("width", 0, "输出宽度，0 表示使用源图像宽度")
	height := flag.Int("height", 0, "输出高度，0 表示使用源图像高度")
	parallel := flag.Int("parallel", 4, "同时合成的最大帧数")
	inclusive := flag.Bool("inclusive", false, "最后一帧的对应线到达目标位置")
	dissolve := flag.String("dissolve", defaults.Dissolve.String(), "溶解权重：span 或 frames")
	output := flag.String("output", "output/morph.gif", "输出路径，.gif/.mp4/.webm 等，无扩展名时输出逐帧 PNG")
	delay := flag.Duration("delay", frames2anim.DefaultDelay, "每帧停留时间")
	overlayDir := flag.String("overlay", "", "逐帧写出带对应线的 SVG 到该目录")
	outlineDir := flag.String("outline", "", "逐帧写出轮廓 SVG 到该目录")
	threshold := flag.Int("threshold", 128, "轮廓亮度阈值 0-255")
	posterDir := flag.String("posterize", "", "逐帧写出分色矢量 SVG 到该目录")
	colorCount := flag.Int("colors", 4, "分色矢量的颜色数量")
	sourceAt := flag.Duration("source-at", 0, "源为视频时截取的时间点")
	targetAt := flag.Duration("target-at", 0, "目标为视频时截取的时间点")

	help := flag.Bool("help", false, "显示帮助信息")
	flag.Parse()
	if *help {
		flag.Usage()
		return
	}
	if *sourcePath == "" || *targetPath == "" || *linesPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	weight, err := mtypes.ParseDissolveWeight(*dissolve)
	if err != nil {
		log.Fatal(err)
	}
	if *delay <= 0 {
		log.Fatalf("delay must be positive, got %s", *delay)
	}
	if *colorCount <= 0 {
		log.Fatalf("colors must be positive, got %d", *colorCount)
	}
	if *threshold < 0 || *threshold > 255 {
		log.Fatalf("threshold %d out of range", *threshold)
	}

	cfg := config{
		source:   *sourcePath,
		target:   *targetPath,
		lines:    *linesPath,
		sourceAt: *sourceAt,
		targetAt: *targetAt,
		width:    *width,
		height:   *height,
		params: mtypes.Params{
			A:              *a,
			B:              *b,
			P:              *p,
			Frames:         *frames,
			InclusiveTween: *inclusive,
			Dissolve:       weight,
		},
		parallel:   *parallel,
		output:     *output,
		delay:      *delay,
		overlayDir: *overlayDir,
		outlineDir: *outlineDir,
		threshold:  uint8(*threshold),
		posterDir:  *posterDir,
		colors:     *colorCount,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := runMorph(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}
