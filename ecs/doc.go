// Package ecs provides ECS adapters for glide's animation output.
//
// The primary adapter is [NewDonburiSink], which forwards the animations an
// [glide.Animator] computes into a [Donburi] world as typed events. Subscribe
// to [AnimationEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	anim := glide.NewAnimator(parents, measurer, glide.WithSink(sink))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
