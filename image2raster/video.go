package image2raster

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	mtypes "linemorph/type"
)

// VideoProbe 只关心视频流
type VideoProbe struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Duration  string `json:"duration"`
	} `json:"streams"`
}

// VideoInfo 第一条视频流的尺寸与时长
type VideoInfo struct {
	Width    int
	Height   int
	Duration time.Duration
}

// ProbeVideo 用 ffprobe 读取视频信息
func ProbeVideo(videoPath string) (VideoInfo, error) {
	probeStr, err := ffmpeg.Probe(videoPath)
	if err != nil {
		return VideoInfo{}, fmt.Errorf("ffprobe error: %w", err)
	}
	return parseProbe(probeStr)
}

func parseProbe(probeStr string) (VideoInfo, error) {
	var probe VideoProbe
	if err := json.Unmarshal([]byte(probeStr), &probe); err != nil {
		return VideoInfo{}, fmt.Errorf("json unmarshal error: %w", err)
	}
	for _, stream := range probe.Streams {
		if stream.CodecType != "video" || stream.Width <= 0 || stream.Height <= 0 {
			continue
		}
		info := VideoInfo{Width: stream.Width, Height: stream.Height}
		// 有些容器不给 duration
		if secs, err := strconv.ParseFloat(stream.Duration, 64); err == nil {
			info.Duration = time.Duration(secs * float64(time.Second))
		}
		return info, nil
	}
	return VideoInfo{}, errors.New("no video stream found")
}

// grabArgs 截取单帧并以 PNG 输出到管道
func grabArgs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"format":  "image2pipe",
		"vcodec":  "png",
		"vframes": 1,
	}
}

// GrabFrame 截取视频在 at 时刻的一帧作为源图像
func GrabFrame(ctx context.Context, videoPath string, at time.Duration) (*mtypes.RasterImage, error) {
	info, err := ProbeVideo(videoPath)
	if err != nil {
		return nil, err
	}
	if info.Duration > 0 && at > info.Duration {
		return nil, fmt.Errorf("timestamp %s beyond video length %s", at, info.Duration)
	}

	var buf bytes.Buffer
	cmd := ffmpeg.Input(videoPath, ffmpeg.KwArgs{"ss": strconv.FormatFloat(at.Seconds(), 'f', 3, 64)}).
		Output("pipe:1", grabArgs()).
		WithOutput(&buf).
		WithErrorOutput(os.Stderr)
	cmd.Context = ctx

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("grab frame at %s failed: %w", at, err)
	}
	r, err := Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode frame at %s failed: %w", at, err)
	}
	return r, nil
}
