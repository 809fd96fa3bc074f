package glide

import (
	"fmt"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenBehavior runs a gween easing function over a fixed duration. Velocities
// are estimated from neighbouring samples.
type TweenBehavior struct {
	Duration time.Duration
	Easing   ease.TweenFunc
}

// NewTweenBehavior returns a TweenBehavior. A nil easing falls back to
// ease.Linear.
func NewTweenBehavior(d time.Duration, fn ease.TweenFunc) (*TweenBehavior, error) {
	if d <= 0 {
		return nil, fmt.Errorf("tween duration %v: %w", d, ErrInvalidConfig)
	}
	if fn == nil {
		fn = ease.Linear
	}
	return &TweenBehavior{Duration: d, Easing: fn}, nil
}

// ToFrames samples the easing curve at DefaultSampleRate. The first and last
// frames sit exactly on From and To.
func (b *TweenBehavior) ToFrames(opts FrameOptions) ([]Frame, error) {
	if b.Duration <= 0 {
		return nil, fmt.Errorf("tween duration %v: %w", b.Duration, ErrInvalidConfig)
	}
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("tween: %w", err)
	}
	if opts.isNoop() {
		return nil, nil
	}
	fn := b.Easing
	if fn == nil {
		fn = ease.Linear
	}

	steps := max(durationSteps(b.Duration), 1)
	seconds := b.Duration.Seconds()
	tw := gween.New(float32(opts.From), float32(opts.To), float32(seconds), fn)

	frames := make([]Frame, steps+1)
	for i := 1; i < steps; i++ {
		v, _ := tw.Set(float32(seconds * float64(i) / float64(steps)))
		frames[i].Value = float64(v)
	}
	frames[0].Value = opts.From
	frames[steps].Value = opts.To

	dt := seconds / float64(steps)
	for i := range frames {
		switch {
		case steps == 1:
			frames[i].Velocity = (opts.To - opts.From) / seconds
		case i == 0:
			frames[i].Velocity = (frames[1].Value - frames[0].Value) / dt
		case i == steps:
			frames[i].Velocity = (frames[i].Value - frames[i-1].Value) / dt
		default:
			frames[i].Velocity = (frames[i+1].Value - frames[i-1].Value) / (2 * dt)
		}
	}

	if len(opts.PreviousFramesFromTime) > 0 {
		frames = blendFrames(opts.PreviousFramesFromTime, frames)
	}
	return padDelay(frames, opts.Delay, opts.From), nil
}

// easings maps preset names to gween easing functions.
var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"inQuad":       ease.InQuad,
	"outQuad":      ease.OutQuad,
	"inOutQuad":    ease.InOutQuad,
	"inCubic":      ease.InCubic,
	"outCubic":     ease.OutCubic,
	"inOutCubic":   ease.InOutCubic,
	"inQuart":      ease.InQuart,
	"outQuart":     ease.OutQuart,
	"inOutQuart":   ease.InOutQuart,
	"inSine":       ease.InSine,
	"outSine":      ease.OutSine,
	"inOutSine":    ease.InOutSine,
	"inExpo":       ease.InExpo,
	"outExpo":      ease.OutExpo,
	"inOutExpo":    ease.InOutExpo,
	"inCirc":       ease.InCirc,
	"outCirc":      ease.OutCirc,
	"inOutCirc":    ease.InOutCirc,
	"inBack":       ease.InBack,
	"outBack":      ease.OutBack,
	"inOutBack":    ease.InOutBack,
	"inBounce":     ease.InBounce,
	"outBounce":    ease.OutBounce,
	"inOutBounce":  ease.InOutBounce,
	"inElastic":    ease.InElastic,
	"outElastic":   ease.OutElastic,
	"inOutElastic": ease.InOutElastic,
}

// EasingByName looks up a gween easing function by its camel-case name, e.g.
// "outCubic".
func EasingByName(name string) (ease.TweenFunc, error) {
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownEasing)
	}
	return fn, nil
}
