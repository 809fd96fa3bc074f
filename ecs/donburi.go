package ecs

import (
	"time"

	"github.com/phanxgames/glide"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// AnimationEvent carries the animations of one sprite produced by a
// transition.
type AnimationEvent struct {
	// Context is the name of the animation context that ran the transition.
	Context string
	// Intent is the intent of the diff cycle.
	Intent string
	Sprite *glide.Sprite
	// Element is the host element the keyframes apply to.
	Element   glide.ElementID
	Keyframes []glide.Keyframe
	Duration  time.Duration
}

// AnimationEventType is the Donburi event type for glide animations.
// Subscribe to this in your ECS systems to start playback.
var AnimationEventType = events.NewEventType[AnimationEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an AnimationSink backed by a Donburi world.
// Every animation is published to AnimationEventType and can be consumed
// with events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) glide.AnimationSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitAnimations(cs *glide.Changeset, anims []glide.Animation) {
	for _, a := range anims {
		AnimationEventType.Publish(s.world, AnimationEvent{
			Context:   cs.Context.Name,
			Intent:    cs.Intent,
			Sprite:    a.Sprite,
			Element:   a.Sprite.Element(),
			Keyframes: a.Keyframes,
			Duration:  a.Duration,
		})
	}
}
