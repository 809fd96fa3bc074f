package glide

import (
	"fmt"
	"time"
)

// TimelineItem is a node of a declarative animation timeline: a
// MotionDefinition, a Sequence, a Parallel group or a Wait.
type TimelineItem interface {
	orchestrate() (*OrchestrationMatrix, error)
}

// MotionTiming selects the behavior driving a motion definition.
type MotionTiming struct {
	Behavior Behavior
	Delay    time.Duration
}

// MotionDefinition animates the listed properties of every sprite with one
// behavior. All tracks start at column 0 of the definition.
type MotionDefinition struct {
	Sprites    []*Sprite
	Properties map[string]MotionProperty
	Timing     MotionTiming
}

// Sequence plays its items one after another.
type Sequence []TimelineItem

// Parallel plays its items together, all starting at column 0.
type Parallel []TimelineItem

// Wait occupies time without animating anything.
type Wait time.Duration

// Orchestrate builds the matrix for any timeline item.
func Orchestrate(item TimelineItem) (*OrchestrationMatrix, error) {
	if item == nil {
		return NewOrchestrationMatrix(), nil
	}
	return item.orchestrate()
}

// FromMotionDefinition runs the behavior for each sprite and property and
// stores the frames as fragments starting at column 0. Properties whose
// transition is a no-op produce no fragment.
func FromMotionDefinition(def MotionDefinition) (*OrchestrationMatrix, error) {
	if def.Timing.Behavior == nil {
		panic("glide: motion definition without a behavior")
	}
	m := NewOrchestrationMatrix()
	names := sortedPropertyNames(def.Properties)
	for _, s := range def.Sprites {
		for _, name := range names {
			opts := def.Properties[name]
			tracks, err := expandProperty(s, name, opts)
			if err != nil {
				return nil, err
			}
			for _, tr := range tracks {
				frames, err := def.Timing.Behavior.ToFrames(FrameOptions{
					From:                   tr.from,
					To:                     tr.to,
					Velocity:               s.Velocity(tr.property),
					Delay:                  def.Timing.Delay,
					PreviousFramesFromTime: opts.PreviousFrames,
				})
				if err != nil {
					return nil, fmt.Errorf("sprite %s property %q: %w", s, tr.property, err)
				}
				if len(frames) == 0 {
					continue
				}
				m.addFragment(s, RowFragment{Property: tr.property, Frames: frames})
			}
		}
	}
	return m, nil
}

// FromSequentialTimeline concatenates the items in time: each starts at the
// running column total of the ones before it.
func FromSequentialTimeline(items ...TimelineItem) (*OrchestrationMatrix, error) {
	m := NewOrchestrationMatrix()
	for _, item := range items {
		sub, err := Orchestrate(item)
		if err != nil {
			return nil, err
		}
		m.Add(m.totalColumns, sub)
	}
	return m, nil
}

// FromParallelTimeline co-times the items at column 0; the width is that of
// the widest item.
func FromParallelTimeline(items ...TimelineItem) (*OrchestrationMatrix, error) {
	m := NewOrchestrationMatrix()
	for _, item := range items {
		sub, err := Orchestrate(item)
		if err != nil {
			return nil, err
		}
		m.Add(0, sub)
	}
	return m, nil
}

func (d MotionDefinition) orchestrate() (*OrchestrationMatrix, error) { return FromMotionDefinition(d) }
func (s Sequence) orchestrate() (*OrchestrationMatrix, error) { return FromSequentialTimeline(s...) }
func (p Parallel) orchestrate() (*OrchestrationMatrix, error) { return FromParallelTimeline(p...) }

func (w Wait) orchestrate() (*OrchestrationMatrix, error) {
	if w < 0 {
		return nil, fmt.Errorf("wait %v: %w", time.Duration(w), ErrInvalidConfig)
	}
	m := NewOrchestrationMatrix()
	m.totalColumns = durationSteps(time.Duration(w))
	return m, nil
}
