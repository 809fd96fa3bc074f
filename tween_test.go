package glide

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

func TestTween_EndpointsExact(t *testing.T) {
	for name, fn := range easings {
		b, err := NewTweenBehavior(250*time.Millisecond, fn)
		if err != nil {
			t.Fatal(err)
		}
		frames, err := b.ToFrames(FrameOptions{From: 10, To: 90})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(frames) != 16 {
			t.Errorf("%s: %d frames, want 16", name, len(frames))
		}
		if frames[0].Value != 10 || frames[len(frames)-1].Value != 90 {
			t.Errorf("%s: endpoints = (%v, %v), want (10, 90)", name, frames[0].Value, frames[len(frames)-1].Value)
		}
	}
}

func TestTween_LinearMatchesLinearBehavior(t *testing.T) {
	tw, err := NewTweenBehavior(time.Second, ease.Linear)
	if err != nil {
		t.Fatal(err)
	}
	got, err := tw.ToFrames(FrameOptions{From: 0, To: 60})
	if err != nil {
		t.Fatal(err)
	}
	want, _ := (&LinearBehavior{Duration: time.Second}).ToFrames(FrameOptions{From: 0, To: 60})
	for i := range want {
		// gween samples in float32
		if math.Abs(got[i].Value-want[i].Value) > 1e-3 {
			t.Fatalf("frame %d = %v, want %v", i, got[i].Value, want[i].Value)
		}
	}
}

func TestTween_VelocityFollowsEasing(t *testing.T) {
	tw, _ := NewTweenBehavior(time.Second, ease.OutQuad)
	frames, err := tw.ToFrames(FrameOptions{From: 0, To: 100})
	if err != nil {
		t.Fatal(err)
	}
	mid := len(frames) / 2
	if !(frames[1].Velocity > frames[mid].Velocity && frames[mid].Velocity > frames[len(frames)-2].Velocity) {
		t.Errorf("ease-out velocity should decrease: %v, %v, %v",
			frames[1].Velocity, frames[mid].Velocity, frames[len(frames)-2].Velocity)
	}
}

func TestTween_NilEasingDefaultsToLinear(t *testing.T) {
	tw, err := NewTweenBehavior(time.Second, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tw.Easing == nil {
		t.Fatal("easing not defaulted")
	}
	frames, err := (&TweenBehavior{Duration: time.Second}).ToFrames(FrameOptions{From: 0, To: 1})
	if err != nil || len(frames) != 61 {
		t.Errorf("zero-value easing: %d frames, err %v", len(frames), err)
	}
}

func TestTween_Noop(t *testing.T) {
	tw, _ := NewTweenBehavior(time.Second, ease.InCubic)
	frames, err := tw.ToFrames(FrameOptions{From: 1, To: 1})
	if err != nil || frames != nil {
		t.Errorf("no-op: frames = %v, err = %v", frames, err)
	}
}

func TestEasingByName(t *testing.T) {
	if fn, err := EasingByName("outCubic"); err != nil || fn == nil {
		t.Errorf("outCubic: fn = %v, err = %v", fn != nil, err)
	}
	if _, err := EasingByName("wobble"); !errors.Is(err, ErrUnknownEasing) {
		t.Errorf("unknown easing: err = %v, want ErrUnknownEasing", err)
	}
}

func TestTween_InvalidDuration(t *testing.T) {
	if _, err := NewTweenBehavior(0, ease.Linear); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}
