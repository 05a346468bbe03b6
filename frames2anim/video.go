package frames2anim

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	mtypes "linemorph/type"
)

// videoArgs 按容器选择编码参数。yuv420p 要求宽高为偶数，先裁成偶数再编码。
func videoArgs(ext string) ffmpeg.KwArgs {
	switch strings.ToLower(ext) {
	case ".mp4", ".mov", ".mkv":
		return ffmpeg.KwArgs{
			"vcodec":  "libx264",
			"pix_fmt": "yuv420p",
			"vf":      "scale=trunc(iw/2)*2:trunc(ih/2)*2",
		}
	case ".webm":
		return ffmpeg.KwArgs{"vcodec": "libvpx-vp9", "pix_fmt": "yuv420p"}
	case ".apng":
		return ffmpeg.KwArgs{"plays": 0, "f": "apng"}
	}
	return ffmpeg.KwArgs{}
}

// WriteVideo 通过管道把 PNG 帧交给 ffmpeg 编码
func WriteVideo(ctx context.Context, path string, frames mtypes.FrameSequence, fps float64) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if fps <= 0 {
		fps = 10
	}

	r, w := io.Pipe()
	go func() {
		w.CloseWithError(EncodePNGStream(w, frames))
	}()

	cmd := ffmpeg.Input("pipe:0", ffmpeg.KwArgs{
		"format":    "image2pipe",
		"framerate": strconv.FormatFloat(fps, 'f', -1, 64),
	}).
		Output(path, videoArgs(filepath.Ext(path))).
		OverWriteOutput().
		WithInput(r).
		WithErrorOutput(os.Stderr)
	cmd.Context = ctx

	log.Printf("Encoding %d frames to %s...\n", len(frames), path)
	err := cmd.Run()
	// ffmpeg 提前退出时让编码协程停下来
	r.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		return fmt.Errorf("ffmpeg encode %s failed: %w", path, err)
	}
	return nil
}
