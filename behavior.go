package glide

import (
	"fmt"
	"math"
	"time"
)

// Frame is one sampled step of a behavior: the property value and its velocity
// (units per second). Frames are spaced 1/DefaultSampleRate seconds apart.
type Frame struct {
	Value    float64
	Velocity float64
}

// FrameOptions describes one property transition handed to a Behavior.
type FrameOptions struct {
	From, To float64
	// Velocity is the initial velocity in units per second.
	Velocity float64
	// Delay front-pads the output with frames holding From.
	Delay time.Duration
	// PreviousFramesFromTime are the remaining frames of an interrupted
	// animation, starting at the current instant. Behaviors that support it
	// blend the new curve into them.
	PreviousFramesFromTime []Frame
}

// Behavior turns a transition descriptor into a deterministic, time-ordered
// sequence of frames. Behaviors are stateless configuration and safe to reuse.
type Behavior interface {
	ToFrames(opts FrameOptions) ([]Frame, error)
}

func (o FrameOptions) validate() error {
	for _, f := range [...]struct {
		name string
		v    float64
	}{{"from", o.From}, {"to", o.To}, {"velocity", o.Velocity}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s = %v: %w", f.name, f.v, ErrInvalidValue)
		}
	}
	if o.Delay < 0 {
		return fmt.Errorf("delay %v: %w", o.Delay, ErrInvalidConfig)
	}
	for i, fr := range o.PreviousFramesFromTime {
		if math.IsNaN(fr.Value) || math.IsNaN(fr.Velocity) {
			return fmt.Errorf("previous frame %d: %w", i, ErrInvalidValue)
		}
	}
	return nil
}

// isNoop reports the degenerate transition that yields no frames.
func (o FrameOptions) isNoop() bool {
	return o.From == o.To && o.Velocity == 0
}

// durationSteps converts d into a whole number of sampling steps.
func durationSteps(d time.Duration) int {
	return int(math.Round(d.Seconds() * DefaultSampleRate))
}

// padDelay prepends the delay frames holding (from, 0).
func padDelay(frames []Frame, delay time.Duration, from float64) []Frame {
	n := durationSteps(delay)
	if n <= 0 {
		return frames
	}
	out := make([]Frame, n, n+len(frames))
	for i := range out {
		out[i] = Frame{Value: from}
	}
	return append(out, frames...)
}

// blendFrames eases frames in from the previous animation's remaining frames:
// the first frame matches prev exactly and the weight of the new curve grows
// linearly over the overlap. The last frame of a fully overlapped curve is
// left untouched so it still lands on its target.
func blendFrames(prev, frames []Frame) []Frame {
	overlap := min(len(prev), len(frames))
	if overlap == 0 {
		return frames
	}
	span := overlap
	if overlap == len(frames) {
		span = overlap - 1
	}
	for i := 0; i < overlap; i++ {
		w := 1.0
		if span > 0 {
			w = min(float64(i)/float64(span), 1)
		}
		frames[i].Value = prev[i].Value*(1-w) + frames[i].Value*w
		frames[i].Velocity = prev[i].Velocity*(1-w) + frames[i].Velocity*w
	}
	return frames
}
