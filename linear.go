package glide

import (
	"fmt"
	"time"
)

// LinearBehavior interpolates linearly over a fixed duration with a constant
// velocity of (to-from)/duration.
type LinearBehavior struct {
	Duration time.Duration
}

// NewLinearBehavior returns a LinearBehavior, rejecting non-positive durations.
func NewLinearBehavior(d time.Duration) (*LinearBehavior, error) {
	if d <= 0 {
		return nil, fmt.Errorf("linear duration %v: %w", d, ErrInvalidConfig)
	}
	return &LinearBehavior{Duration: d}, nil
}

// ToFrames returns round(duration×rate)+1 frames from From to To, or none when
// From equals To and there is no velocity. When PreviousFramesFromTime is set
// the curve starts from the interrupted animation and blends into the line.
func (b *LinearBehavior) ToFrames(opts FrameOptions) ([]Frame, error) {
	if b.Duration <= 0 {
		return nil, fmt.Errorf("linear duration %v: %w", b.Duration, ErrInvalidConfig)
	}
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}
	if opts.isNoop() {
		return nil, nil
	}

	steps := max(durationSteps(b.Duration), 1)
	delta := opts.To - opts.From
	velocity := delta / b.Duration.Seconds()

	frames := make([]Frame, steps+1)
	for i := range frames {
		frames[i] = Frame{
			Value:    opts.From + delta*float64(i)/float64(steps),
			Velocity: velocity,
		}
	}
	frames[steps].Value = opts.To

	if len(opts.PreviousFramesFromTime) > 0 {
		frames = blendFrames(opts.PreviousFramesFromTime, frames)
	}
	return padDelay(frames, opts.Delay, opts.From), nil
}
