// Package editor 无界面的特征线编辑会话：按下、拖动、松开三步完成创建、移动与端点调整
package editor

import (
	"errors"
	"log"
	"math"
	"sync"

	"github.com/google/uuid"

	mtypes "linemorph/type"
	"linemorph/vecmath"
)

const (
	PointTolerance = 5.0 // 端点命中半径
	LineTolerance  = 2.0 // 线身命中容差
	MinLineSize    = 5.0 // 松开时短于此长度的线被丢弃
)

var ErrNoSelection = errors.New("no line selected")

// Side 编辑发生在哪一幅图像上
type Side int

const (
	Source Side = iota
	Target
)

func (s Side) String() string {
	if s == Target {
		return "target"
	}
	return "source"
}

type State int

const (
	Idle State = iota
	Creating
	Moving
	Resizing
)

func (s State) String() string {
	switch s {
	case Creating:
		return "creating"
	case Moving:
		return "moving"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

type HitKind int

const (
	HitNone HitKind = iota
	HitPoint
	HitLine
)

// Hit 命中测试结果。Point 为 0 表示 P1，1 表示 P2，仅 HitPoint 时有意义
type Hit struct {
	Kind  HitKind
	ID    string
	Index int
	Point int
}

// Entry 带 ID 的一组对应线
type Entry struct {
	ID   string
	Pair mtypes.FeatureLinePair
}

// Session 可被多个 goroutine 同时访问
type Session struct {
	mu      sync.RWMutex
	entries []Entry
	state   State
	active  int
	side    Side
	point   int
	prev    mtypes.Point2
}

func NewSession() *Session {
	return &Session{active: -1}
}

// Load 追加已有的对应线，例如从文件读入的
func (s *Session) Load(pairs []mtypes.FeatureLinePair) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(pairs))
	for _, p := range pairs {
		id := uuid.NewString()
		s.entries = append(s.entries, Entry{ID: id, Pair: p})
		ids = append(ids, id)
	}
	log.Printf("[editor] loaded %d lines", len(pairs))
	return ids
}

// Press 在 side 上按下：先测端点，再测线身；都未命中则新建一组线
func (s *Session) Press(side Side, x, y float64) Hit {
	s.mu.Lock()
	defer s.mu.Unlock()

	pt := mtypes.Point2{X: x, Y: y}
	s.side = side
	s.prev = pt

	hit := s.hitTest(side, pt)
	switch hit.Kind {
	case HitPoint:
		s.active, s.point, s.state = hit.Index, hit.Point, Resizing
	case HitLine:
		s.active, s.point, s.state = hit.Index, -1, Moving
	default:
		line := mtypes.FeatureLine{P1: pt, P2: pt}
		id := uuid.NewString()
		s.entries = append(s.entries, Entry{ID: id, Pair: mtypes.Pair(line, line)})
		s.active, s.point, s.state = len(s.entries)-1, 1, Creating
		log.Printf("[editor] line added: %s", id)
		hit = Hit{Kind: HitNone, ID: id, Index: s.active}
	}
	return hit
}

// Drag 按当前状态更新活动线
func (s *Session) Drag(x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Idle || s.active < 0 {
		return ErrNoSelection
	}
	pt := mtypes.Point2{X: x, Y: y}
	pair := &s.entries[s.active].Pair

	switch s.state {
	case Creating:
		pair[0].P2 = pt
		pair[1].P2 = pt
	case Resizing:
		if s.point == 0 {
			pair[s.side].P1 = pt
		} else {
			pair[s.side].P2 = pt
		}
	case Moving:
		pair[s.side] = pair[s.side].Translate(pt.Sub(s.prev))
	}
	s.prev = pt
	return nil
}

// Release 结束本次编辑；被编辑的线过短时整组删除并返回 true
func (s *Session) Release() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	if s.active >= 0 && s.active < len(s.entries) {
		e := s.entries[s.active]
		if e.Pair[s.side].Length() < MinLineSize {
			s.entries = append(s.entries[:s.active], s.entries[s.active+1:]...)
			log.Printf("[editor] line too short, dropped: %s", e.ID)
			removed = true
		}
	}
	s.active, s.point, s.state = -1, 0, Idle
	return removed
}

// Hover 只做命中测试，不改变状态
func (s *Session) Hover(side Side, x, y float64) Hit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hitTest(side, mtypes.Point2{X: x, Y: y})
}

func (s *Session) hitTest(side Side, pt mtypes.Point2) Hit {
	for i, e := range s.entries {
		l := e.Pair[side]
		switch {
		case vecmath.Distance(l.P1, pt) < PointTolerance:
			return Hit{Kind: HitPoint, ID: e.ID, Index: i, Point: 0}
		case vecmath.Distance(l.P2, pt) < PointTolerance:
			return Hit{Kind: HitPoint, ID: e.ID, Index: i, Point: 1}
		case onLine(l, pt, LineTolerance):
			return Hit{Kind: HitLine, ID: e.ID, Index: i}
		}
	}
	return Hit{Kind: HitNone, Index: -1}
}

// onLine 到两端点距离之和与线长之差小于容差，即落在以端点为焦点的细长椭圆内
func onLine(l mtypes.FeatureLine, pt mtypes.Point2, tolerance float64) bool {
	d := vecmath.Distance(l.P1, pt) + vecmath.Distance(l.P2, pt) - l.Length()
	return !math.IsNaN(d) && d < tolerance
}

// Remove 按 ID 删除；正在编辑的线不能删除
func (s *Session) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID != id {
			continue
		}
		if i == s.active {
			return false
		}
		if s.active > i {
			s.active--
		}
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		log.Printf("[editor] line removed: %s", id)
		return true
	}
	return false
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.active, s.point, s.state = -1, 0, Idle
	log.Println("[editor] cleared")
}

func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Entries 带 ID 的副本，按插入顺序
func (s *Session) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Snapshot 返回对应线的深拷贝，可在继续编辑的同时交给变形引擎
func (s *Session) Snapshot() []mtypes.FeatureLinePair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]mtypes.FeatureLinePair, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Pair
	}
	return out
}
