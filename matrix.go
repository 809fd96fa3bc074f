package glide

import (
	"fmt"
	"sort"
	"time"
)

// RowFragment is one property track of a sprite, anchored at a column of an
// OrchestrationMatrix. Frame i plays at column StartColumn+i.
type RowFragment struct {
	Property    string
	StartColumn int
	Frames      []Frame
}

// OrchestrationMatrix lays out property tracks of many sprites on a shared
// column grid, one column per sampling step. Matrices are composed with Add;
// sequential and parallel timelines both reduce to it.
type OrchestrationMatrix struct {
	rows         map[*Sprite][]RowFragment
	order        []*Sprite
	totalColumns int
}

// NewOrchestrationMatrix returns an empty matrix.
func NewOrchestrationMatrix() *OrchestrationMatrix {
	return &OrchestrationMatrix{rows: make(map[*Sprite][]RowFragment)}
}

// TotalColumns returns the matrix width.
func (m *OrchestrationMatrix) TotalColumns() int { return m.totalColumns }

// Duration returns the wall-clock length of the matrix at DefaultSampleRate.
func (m *OrchestrationMatrix) Duration() time.Duration {
	if m.totalColumns <= 1 {
		return 0
	}
	return time.Duration(m.totalColumns-1) * time.Second / DefaultSampleRate
}

// Sprites returns the sprites with at least one track, in first-added order.
func (m *OrchestrationMatrix) Sprites() []*Sprite {
	out := make([]*Sprite, len(m.order))
	copy(out, m.order)
	return out
}

// Rows returns the fragments of s in insertion order.
func (m *OrchestrationMatrix) Rows(s *Sprite) []RowFragment {
	rows := m.rows[s]
	out := make([]RowFragment, len(rows))
	copy(out, rows)
	return out
}

// addFragment appends a fragment and widens the matrix to fit it.
func (m *OrchestrationMatrix) addFragment(s *Sprite, frag RowFragment) {
	if _, ok := m.rows[s]; !ok {
		m.order = append(m.order, s)
	}
	m.rows[s] = append(m.rows[s], frag)
	m.totalColumns = max(m.totalColumns, frag.StartColumn+len(frag.Frames))
}

// Add merges other into m with every fragment shifted right by col. The
// width grows to at least col + other's width. Panics on a negative column.
func (m *OrchestrationMatrix) Add(col int, other *OrchestrationMatrix) {
	if col < 0 {
		panic(fmt.Sprintf("glide: matrix add at negative column %d", col))
	}
	for _, s := range other.order {
		for _, frag := range other.rows[s] {
			frag.StartColumn += col
			m.addFragment(s, frag)
		}
	}
	m.totalColumns = max(m.totalColumns, col+other.totalColumns)
}

// GetKeyframes merges each sprite's tracks into one keyframe per column.
//
// At every column, each active fragment contributes its frame; a fragment is
// active from its start column until its frames run out. construct merges
// those frames into the previous keyframe. Before walking, the previous
// keyframe is seeded with the first frame of every property's earliest
// fragment so tracks that start late hold their initial value. Offsets are
// column/(TotalColumns-1).
func (m *OrchestrationMatrix) GetKeyframes(construct KeyframeConstructor) map[*Sprite][]Keyframe {
	if construct == nil {
		construct = MergeKeyframe
	}
	out := make(map[*Sprite][]Keyframe, len(m.rows))
	for _, s := range m.order {
		out[s] = m.spriteKeyframes(m.rows[s], construct)
	}
	return out
}

func (m *OrchestrationMatrix) spriteKeyframes(rows []RowFragment, construct KeyframeConstructor) []Keyframe {
	frags := make([]RowFragment, len(rows))
	copy(frags, rows)
	sort.SliceStable(frags, func(i, j int) bool { return frags[i].StartColumn < frags[j].StartColumn })

	var seed []PropertyFrame
	seen := make(map[string]struct{})
	for _, f := range frags {
		if _, ok := seen[f.Property]; ok || len(f.Frames) == 0 {
			continue
		}
		seen[f.Property] = struct{}{}
		seed = append(seed, PropertyFrame{Property: f.Property, Frame: f.Frames[0]})
	}
	prev := construct(Keyframe{}, seed)

	out := make([]Keyframe, 0, m.totalColumns)
	var active []int
	next := 0
	frames := make([]PropertyFrame, 0, len(frags))
	for col := 0; col < m.totalColumns; col++ {
		for next < len(frags) && frags[next].StartColumn <= col {
			active = append(active, next)
			next++
		}
		frames = frames[:0]
		remaining := active[:0]
		for _, i := range active {
			f := frags[i]
			idx := col - f.StartColumn
			if idx < len(f.Frames) {
				frames = append(frames, PropertyFrame{Property: f.Property, Frame: f.Frames[idx]})
			}
			if idx+1 < len(f.Frames) {
				remaining = append(remaining, i)
			}
		}
		active = remaining

		kf := construct(prev, frames)
		kf.Offset = columnOffset(col, m.totalColumns)
		out = append(out, kf)
		prev = kf
	}
	return out
}

func columnOffset(col, total int) float64 {
	if total <= 1 {
		return 0
	}
	return float64(col) / float64(total-1)
}

// Animation is the playback-ready result for one sprite.
type Animation struct {
	Sprite    *Sprite
	Keyframes []Keyframe
	Duration  time.Duration
}

// Animations returns one Animation per sprite in first-added order.
func (m *OrchestrationMatrix) Animations(construct KeyframeConstructor) []Animation {
	kfs := m.GetKeyframes(construct)
	d := m.Duration()
	out := make([]Animation, 0, len(m.order))
	for _, s := range m.order {
		out = append(out, Animation{Sprite: s, Keyframes: kfs[s], Duration: d})
	}
	return out
}
