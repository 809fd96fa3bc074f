package glide

import (
	"fmt"
	"time"
)

// StaticBehavior holds To for a fixed duration. It is useful for properties
// that should switch immediately but stay pinned while other tracks animate.
type StaticBehavior struct {
	Duration time.Duration
}

// ToFrames returns round(duration×rate)+1 frames of (To, 0).
func (b *StaticBehavior) ToFrames(opts FrameOptions) ([]Frame, error) {
	if b.Duration < 0 {
		return nil, fmt.Errorf("static duration %v: %w", b.Duration, ErrInvalidConfig)
	}
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("static: %w", err)
	}
	frames := make([]Frame, durationSteps(b.Duration)+1)
	for i := range frames {
		frames[i] = Frame{Value: opts.To}
	}
	return padDelay(frames, opts.Delay, opts.From), nil
}
