package glide

import (
	"fmt"
	"math"
)

// SpringOptions configures a damped spring. Start from DefaultSpringOptions;
// zero or negative physical parameters are rejected.
type SpringOptions struct {
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	Mass      float64 `yaml:"mass"`

	// OvershootClamping stops the spring the moment it reaches its target and
	// runs an underdamped configuration at critical damping.
	OvershootClamping bool `yaml:"overshootClamping"`
	// AllowsOverdamping keeps damping ratios above 1. Otherwise they are
	// clamped to critical damping.
	AllowsOverdamping bool `yaml:"allowsOverdamping"`

	RestVelocityThreshold     float64 `yaml:"restVelocityThreshold"`
	RestDisplacementThreshold float64 `yaml:"restDisplacementThreshold"`
}

// DefaultSpringOptions returns a gently underdamped spring (ζ = 0.5).
func DefaultSpringOptions() SpringOptions {
	return SpringOptions{
		Stiffness:                 100,
		Damping:                   10,
		Mass:                      1,
		RestVelocityThreshold:     0.001,
		RestDisplacementThreshold: 0.001,
	}
}

func (o SpringOptions) validate() error {
	for _, f := range [...]struct {
		name string
		v    float64
	}{
		{"stiffness", o.Stiffness},
		{"damping", o.Damping},
		{"mass", o.Mass},
		{"restVelocityThreshold", o.RestVelocityThreshold},
		{"restDisplacementThreshold", o.RestDisplacementThreshold},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("spring %s = %v: %w", f.name, f.v, ErrInvalidValue)
		}
		if f.v <= 0 {
			return fmt.Errorf("spring %s = %v must be positive: %w", f.name, f.v, ErrInvalidConfig)
		}
	}
	return nil
}

// SpringBehavior samples the closed-form solution of m·x'' + c·x' + k·x = 0
// until the spring comes to rest. The run length is open-ended and decided by
// the rest thresholds.
type SpringBehavior struct {
	opts SpringOptions
}

// NewSpringBehavior validates opts and returns a SpringBehavior.
func NewSpringBehavior(opts SpringOptions) (*SpringBehavior, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &SpringBehavior{opts: opts}, nil
}

// Options returns the spring's configuration.
func (b *SpringBehavior) Options() SpringOptions { return b.opts }

// DampingRatio returns the effective damping ratio ζ after overshoot clamping
// and overdamping rules are applied.
func (b *SpringBehavior) DampingRatio() float64 {
	o := b.opts
	zeta := o.Damping / (2 * math.Sqrt(o.Stiffness*o.Mass))
	if zeta > 1 && !o.AllowsOverdamping {
		zeta = 1
	}
	if zeta < 1 && o.OvershootClamping {
		zeta = 1
	}
	return zeta
}

// ToFrames samples the spring at DefaultSampleRate. The first frame is
// (From, Velocity); the last is exactly (To, 0).
func (b *SpringBehavior) ToFrames(opts FrameOptions) ([]Frame, error) {
	if err := b.opts.validate(); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("spring: %w", err)
	}
	if opts.isNoop() {
		return nil, nil
	}

	o := b.opts
	zeta := b.DampingRatio()
	omega0 := math.Sqrt(o.Stiffness / o.Mass)
	y0 := opts.From - opts.To
	clampCrossing := o.OvershootClamping && opts.From != opts.To
	dt := 1.0 / DefaultSampleRate

	frames := []Frame{{Value: opts.From, Velocity: opts.Velocity}}
	for i := 1; ; i++ {
		y, dy := springDisplacement(zeta, omega0, y0, opts.Velocity, float64(i)*dt)
		value := opts.To + y
		if clampCrossing && crossed(opts.From, opts.To, value) {
			break
		}
		if math.Abs(dy) <= o.RestVelocityThreshold && math.Abs(y) <= o.RestDisplacementThreshold {
			break
		}
		frames = append(frames, Frame{Value: value, Velocity: dy})
	}
	frames = append(frames, Frame{Value: opts.To})
	return padDelay(frames, opts.Delay, opts.From), nil
}

// springDisplacement evaluates the displacement from the target and its
// derivative at time t for initial displacement y0 and velocity v0.
func springDisplacement(zeta, omega0, y0, v0, t float64) (y, dy float64) {
	decay := zeta * omega0
	switch {
	case zeta < 1:
		omega1 := omega0 * math.Sqrt(1-zeta*zeta)
		a := y0
		b := (v0 + decay*y0) / omega1
		env := math.Exp(-decay * t)
		sin, cos := math.Sincos(omega1 * t)
		y = env * (a*cos + b*sin)
		dy = env * ((omega1*b-decay*a)*cos - (omega1*a+decay*b)*sin)
	case zeta == 1:
		a := y0
		b := v0 + omega0*y0
		env := math.Exp(-omega0 * t)
		y = env * (a + b*t)
		dy = env * (b - omega0*(a+b*t))
	default:
		omega2 := omega0 * math.Sqrt(zeta*zeta-1)
		a := y0
		b := (v0 + decay*y0) / omega2
		env := math.Exp(-decay * t)
		sinh, cosh := math.Sinh(omega2*t), math.Cosh(omega2*t)
		y = env * (a*cosh + b*sinh)
		dy = env * ((omega2*b-decay*a)*cosh + (omega2*a-decay*b)*sinh)
	}
	return y, dy
}

// crossed reports whether value reached or passed to, coming from from.
func crossed(from, to, value float64) bool {
	if from < to {
		return value >= to
	}
	return value <= to
}
