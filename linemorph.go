package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"linemorph/compose"
	"linemorph/editor"
	"linemorph/frames2anim"
	"linemorph/image2raster"
	"linemorph/linefile"
	"linemorph/lines2svg"
	"linemorph/raster2outline"
	"linemorph/tween"
	mtypes "linemorph/type"
	"linemorph/workerpool"
)

type config struct {
	source, target, lines  string
	sourceAt, targetAt     time.Duration
	width, height          int
	params                 mtypes.Params
	parallel               int
	output                 string
	delay                  time.Duration
	overlayDir, outlineDir string
	threshold              uint8
	posterDir              string
	colors                 int
}

var videoExts = map[string]bool{
	".mp4": true, ".mov": true, ".mkv": true, ".webm": true, ".avi": true, ".flv": true,
}

func isVideo(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

func loadImage(ctx context.Context, path string, at time.Duration) (*mtypes.RasterImage, error) {
	if isVideo(path) {
		log.Printf("Grabbing frame at %s from %s\n", at, path)
		return image2raster.GrabFrame(ctx, path, at)
	}
	return image2raster.Load(path)
}

// prepareImages 把两幅图像缩放到同一画布并统一像素格式
func prepareImages(source, target *mtypes.RasterImage, width, height int) (*mtypes.RasterImage, *mtypes.RasterImage, error) {
	if width <= 0 {
		width = source.Width
	}
	if height <= 0 {
		height = source.Height
	}
	var err error
	if source, err = image2raster.Fit(source, width, height); err != nil {
		return nil, nil, err
	}
	if target, err = image2raster.Fit(target, width, height); err != nil {
		return nil, nil, err
	}
	if source.Format != target.Format {
		if source, err = image2raster.ToRGBA8(source); err != nil {
			return nil, nil, err
		}
		if target, err = image2raster.ToRGBA8(target); err != nil {
			return nil, nil, err
		}
	}
	return source, target, nil
}

// loadLines 读入对应线文件，换算到画布尺寸后放进编辑会话
func loadLines(path string, width, height int) (*editor.Session, error) {
	lf, err := linefile.Load(path)
	if err != nil {
		return nil, err
	}
	session := editor.NewSession()
	session.Load(linefile.DropDegenerate(lf.Scale(width, height).Pairs))
	return session, nil
}

func runMorph(ctx context.Context, cfg config) error {
	log.Println("Loading images...")
	source, err := loadImage(ctx, cfg.source, cfg.sourceAt)
	if err != nil {
		return fmt.Errorf("load source: %w", err)
	}
	target, err := loadImage(ctx, cfg.target, cfg.targetAt)
	if err != nil {
		return fmt.Errorf("load target: %w", err)
	}
	source, target, err = prepareImages(source, target, cfg.width, cfg.height)
	if err != nil {
		return err
	}
	log.Printf("Canvas %dx%d %s\n", source.Width, source.Height, source.Format)

	session, err := loadLines(cfg.lines, source.Width, source.Height)
	if err != nil {
		return err
	}
	pairs := session.Snapshot()
	log.Printf("Loaded %d line pairs\n", len(pairs))

	pool := workerpool.New(0)
	defer pool.Close()

	log.Println("Morphing...")
	frames, err := compose.MorphSequence(ctx, source, target, pairs, compose.Options{
		Params:   cfg.params,
		Parallel: cfg.parallel,
		Pool:     pool,
		Progress: func(dir compose.Direction, done, total int) {
			log.Printf("Created frame %d/%d (%s)\n", done, total, dir)
		},
	})
	if err != nil {
		return err
	}
	log.Printf("Morphed %d frames\n", len(frames))

	if dir := filepath.Dir(cfg.output); filepath.Ext(cfg.output) != "" && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	log.Printf("Exporting to %s...\n", cfg.output)
	if err := frames2anim.Export(ctx, cfg.output, frames, cfg.delay); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if cfg.overlayDir != "" {
		log.Println("Writing line overlays...")
		if err := writeOverlays(cfg.overlayDir, frames, pairs, cfg.params); err != nil {
			return err
		}
	}
	if cfg.outlineDir != "" {
		log.Println("Tracing outlines...")
		if err := raster2outline.WriteAll(cfg.outlineDir, frames, cfg.threshold, pool); err != nil {
			return err
		}
	}
	if cfg.posterDir != "" {
		log.Printf("Posterizing frames with %d colors...\n", cfg.colors)
		if err := raster2outline.PosterizeAll(cfg.posterDir, frames, cfg.colors, cfg.parallel); err != nil {
			return err
		}
	}
	log.Println("Done")
	return nil
}

// writeOverlays 每帧画出原始源线和该帧插值后的线
func writeOverlays(dir string, frames mtypes.FrameSequence, pairs []mtypes.FeatureLinePair, params mtypes.Params) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	style := lines2svg.DefaultStyle()
	for i, frame := range frames {
		t := tween.Fraction(i, len(frames), params.InclusiveTween)
		path := filepath.Join(dir, fmt.Sprintf("overlay_%03d.svg", i))
		out, err := os.Create(path)
		if err != nil {
			return err
		}
		err = lines2svg.WriteOverlay(out, frame, tween.At(pairs, t), style)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write overlay %s failed: %w", path, err)
		}
	}
	return nil
}
