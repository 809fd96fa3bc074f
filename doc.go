// Package glide computes UI transition animations from layout changes.
//
// A host registers its animatable elements in a [SpriteTree]: animation
// contexts (regions that own transitions) and sprites (elements that move,
// appear or disappear). Before a layout change the host lets glide snapshot
// the current geometry; after it, a diff cycle compares the two snapshots and
// classifies every sprite as inserted, removed or kept. Kept sprites may be
// matched across contexts, so an element that leaves one list and appears in
// another animates between the two positions.
//
// # Quick start
//
// [Animator] bundles the tree, the changeset builder and the keyframe
// pipeline behind one call:
//
//	parents := glide.ParentMap{list: root, card: list}
//	anim := glide.NewAnimator(parents, glide.MeasureFunc(measure))
//	tree := anim.Tree()
//	tree.AddContext(glide.AnimationContext{
//		Element:    list,
//		Name:       "list",
//		Transition: script.Transition(),
//	})
//	tree.AddSprite(glide.SpriteElement{
//		Element:    card,
//		Identifier: glide.Identifier{ID: "card-1"},
//	})
//
//	// first cycle only records geometry
//	anim.Run(ctx, glide.DiffInput{})
//	// ... change the layout ...
//	res, err := anim.Run(ctx, glide.DiffInput{Intent: "reorder"})
//
// Each [ContextAnimations] entry of the result carries [Animation] values:
// normalised keyframes ready for a playback engine. [SampleKeyframes]
// interpolates them for hosts that drive playback themselves.
//
// # Behaviors
//
// Motion is produced by a [Behavior]: [LinearBehavior], [SpringBehavior]
// (closed-form damped harmonic oscillator), [TweenBehavior] (easing curves via
// [gween]) and [StaticBehavior]. Every behavior samples at
// [DefaultSampleRate] frames per second and returns position and velocity per
// frame, so an interrupted animation can hand its velocity to the next one.
//
// # Timelines
//
// A transition returns a [TimelineItem] built from [MotionDefinition],
// [Sequence], [Parallel] and [Wait]. [Orchestrate] lays the item out in an
// [OrchestrationMatrix], one row per sprite and one column per frame, and
// [OrchestrationMatrix.GetKeyframes] flattens the rows into keyframes.
// Timelines can also be declared in YAML with [ParseTimelineScript] over
// behavior presets from [LoadPresets].
//
// # Observability
//
// Anomalies (ambiguous matches, missing geometry) are logged through a
// [zap] logger set with [WithLogger]. Diff cycles are traced and measured
// with OpenTelemetry; see [WithMeterProvider] and [WithTracerProvider].
//
// Animation results can be forwarded to a [Donburi] world via the adapter in
// glide/ecs.
//
// [gween]: https://github.com/tanema/gween
// [zap]: https://github.com/uber-go/zap
// [Donburi]: https://github.com/yohamta/donburi
package glide
