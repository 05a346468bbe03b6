// Package linefile 读写特征线对应关系文件（JSON 或 SVG）。
//
// 文件是编辑器交给变形引擎的快照：读入后就是不可变的值。
package linefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	mtypes "linemorph/type"
)

var ErrUnknownFormat = errors.New("unknown line file format")

// File 对应线及其坐标所基于的图像尺寸（未知时为 0）
type File struct {
	Width  int
	Height int
	Pairs  []mtypes.FeatureLinePair
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type lineJSON struct {
	P1 pointJSON `json:"p1"`
	P2 pointJSON `json:"p2"`
}

type pairJSON struct {
	Source lineJSON `json:"source"`
	Target lineJSON `json:"target"`
}

type fileJSON struct {
	Width  int        `json:"width,omitempty"`
	Height int        `json:"height,omitempty"`
	Pairs  []pairJSON `json:"pairs"`
}

func toLineJSON(l mtypes.FeatureLine) lineJSON {
	return lineJSON{P1: pointJSON{l.P1.X, l.P1.Y}, P2: pointJSON{l.P2.X, l.P2.Y}}
}

func (l lineJSON) line() mtypes.FeatureLine {
	return mtypes.Line(l.P1.X, l.P1.Y, l.P2.X, l.P2.Y)
}

// DecodeJSON 读取 JSON 对应线
func DecodeJSON(r io.Reader) (File, error) {
	var fj fileJSON
	if err := json.NewDecoder(r).Decode(&fj); err != nil {
		return File{}, fmt.Errorf("json unmarshal error: %w", err)
	}
	f := File{Width: fj.Width, Height: fj.Height}
	for _, p := range fj.Pairs {
		f.Pairs = append(f.Pairs, mtypes.Pair(p.Source.line(), p.Target.line()))
	}
	f.Pairs = DropDegenerate(f.Pairs)
	return f, nil
}

func EncodeJSON(w io.Writer, f File) error {
	fj := fileJSON{Width: f.Width, Height: f.Height, Pairs: make([]pairJSON, len(f.Pairs))}
	for i, p := range f.Pairs {
		fj.Pairs[i] = pairJSON{Source: toLineJSON(p[0]), Target: toLineJSON(p[1])}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fj)
}

// Load 按扩展名读取 .json 或 .svg
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		f, err = DecodeJSON(bytes.NewReader(data))
	case ".svg":
		f, err = DecodeSVG(data)
	default:
		return File{}, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return File{}, fmt.Errorf("load %s failed: %w", path, err)
	}
	return f, nil
}

// Save 按扩展名写出 .json 或 .svg
func Save(path string, f File) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".svg" {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if ext == ".json" {
		err = EncodeJSON(out, f)
	} else {
		err = EncodeSVG(out, f)
	}
	if err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// DropDegenerate 去掉长度为零的线，保持其余顺序
func DropDegenerate(pairs []mtypes.FeatureLinePair) []mtypes.FeatureLinePair {
	out := pairs[:0:0]
	for i, p := range pairs {
		if p.Degenerate() {
			log.Printf("Dropping zero-length line pair %d\n", i)
			continue
		}
		out = append(out, p)
	}
	return out
}

// Scale 把坐标从文件记录的尺寸换算到 width x height。
// 文件没有记录尺寸时原样返回。
func (f File) Scale(width, height int) File {
	if f.Width <= 0 || f.Height <= 0 || (f.Width == width && f.Height == height) {
		return f
	}
	sx := float64(width) / float64(f.Width)
	sy := float64(height) / float64(f.Height)
	scale := func(l mtypes.FeatureLine) mtypes.FeatureLine {
		return mtypes.Line(l.P1.X*sx, l.P1.Y*sy, l.P2.X*sx, l.P2.Y*sy)
	}
	out := File{Width: width, Height: height, Pairs: make([]mtypes.FeatureLinePair, len(f.Pairs))}
	for i, p := range f.Pairs {
		out.Pairs[i] = mtypes.Pair(scale(p[0]), scale(p[1]))
	}
	return out
}
