package glide

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestLinear_FrameCount(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int
	}{
		{time.Second, 61},
		{500 * time.Millisecond, 31},
		{100 * time.Millisecond, 7},
		{time.Millisecond, 2}, // rounds to zero steps; at least one step
	}
	for _, tt := range tests {
		b := &LinearBehavior{Duration: tt.d}
		frames, err := b.ToFrames(FrameOptions{From: 0, To: 10})
		if err != nil {
			t.Fatal(err)
		}
		if len(frames) != tt.want {
			t.Errorf("duration %v: %d frames, want %d", tt.d, len(frames), tt.want)
		}
	}
}

func TestLinear_EndpointsAndVelocity(t *testing.T) {
	b := &LinearBehavior{Duration: time.Second}
	frames, err := b.ToFrames(FrameOptions{From: 0, To: 100})
	if err != nil {
		t.Fatal(err)
	}
	if frames[0].Value != 0 {
		t.Errorf("first value = %v, want 0", frames[0].Value)
	}
	if frames[len(frames)-1].Value != 100 {
		t.Errorf("last value = %v, want 100", frames[len(frames)-1].Value)
	}
	if math.Abs(frames[30].Value-50) > 1e-9 {
		t.Errorf("midpoint = %v, want 50", frames[30].Value)
	}
	for i, f := range frames {
		if f.Velocity != 100 {
			t.Fatalf("frame %d velocity = %v, want 100", i, f.Velocity)
		}
	}
}

func TestLinear_NoopYieldsNoFrames(t *testing.T) {
	b := &LinearBehavior{Duration: time.Second}
	frames, err := b.ToFrames(FrameOptions{From: 5, To: 5})
	if err != nil {
		t.Fatal(err)
	}
	if frames != nil {
		t.Errorf("got %d frames for a no-op transition, want none", len(frames))
	}

	frames, _ = b.ToFrames(FrameOptions{From: 5, To: 5, Velocity: 1})
	if len(frames) == 0 {
		t.Error("a transition with initial velocity is not a no-op")
	}
}

func TestLinear_DelayPadsFrom(t *testing.T) {
	b := &LinearBehavior{Duration: 100 * time.Millisecond}
	frames, err := b.ToFrames(FrameOptions{From: 3, To: 9, Delay: 50 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	// 3 delay frames + 7 motion frames
	if len(frames) != 10 {
		t.Fatalf("%d frames, want 10", len(frames))
	}
	for i := range 3 {
		if frames[i] != (Frame{Value: 3}) {
			t.Errorf("delay frame %d = %+v, want (3, 0)", i, frames[i])
		}
	}
	if frames[9].Value != 9 {
		t.Errorf("last value = %v, want 9", frames[9].Value)
	}
}

func TestLinear_BlendsPreviousFrames(t *testing.T) {
	b := &LinearBehavior{Duration: 100 * time.Millisecond}
	prev := []Frame{{Value: 50, Velocity: 10}, {Value: 52, Velocity: 10}, {Value: 54, Velocity: 10}}
	frames, err := b.ToFrames(FrameOptions{From: 0, To: 60, PreviousFramesFromTime: prev})
	if err != nil {
		t.Fatal(err)
	}
	if frames[0].Value != 50 {
		t.Errorf("first frame should match the interrupted animation: %v", frames[0].Value)
	}
	if frames[len(frames)-1].Value != 60 {
		t.Errorf("last frame = %v, want 60", frames[len(frames)-1].Value)
	}
	// after the overlap the plain line takes over
	if math.Abs(frames[4].Value-40) > 1e-9 {
		t.Errorf("frame 4 = %v, want 40", frames[4].Value)
	}
}

func TestLinear_InvalidInput(t *testing.T) {
	if _, err := NewLinearBehavior(0); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero duration: err = %v, want ErrInvalidConfig", err)
	}
	if _, err := (&LinearBehavior{Duration: -time.Second}).ToFrames(FrameOptions{To: 1}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("negative duration: err = %v, want ErrInvalidConfig", err)
	}
	b := &LinearBehavior{Duration: time.Second}
	if _, err := b.ToFrames(FrameOptions{From: math.NaN(), To: 1}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("NaN from: err = %v, want ErrInvalidValue", err)
	}
	if _, err := b.ToFrames(FrameOptions{To: math.Inf(-1)}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Inf to: err = %v, want ErrInvalidValue", err)
	}
	if _, err := b.ToFrames(FrameOptions{To: 1, Delay: -time.Millisecond}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("negative delay: err = %v, want ErrInvalidConfig", err)
	}
}

func TestStatic_HoldsTarget(t *testing.T) {
	b := &StaticBehavior{Duration: 100 * time.Millisecond}
	frames, err := b.ToFrames(FrameOptions{From: 0, To: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 7 {
		t.Fatalf("%d frames, want 7", len(frames))
	}
	for i, f := range frames {
		if f != (Frame{Value: 1}) {
			t.Errorf("frame %d = %+v, want (1, 0)", i, f)
		}
	}

	frames, _ = (&StaticBehavior{}).ToFrames(FrameOptions{To: 2})
	if len(frames) != 1 || frames[0].Value != 2 {
		t.Errorf("zero duration: frames = %+v, want a single (2, 0)", frames)
	}
}
