package glide

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

type recordingSink struct {
	calls []sinkCall
}

type sinkCall struct {
	context string
	anims   []Animation
}

func (r *recordingSink) EmitAnimations(cs *Changeset, anims []Animation) {
	r.calls = append(r.calls, sinkCall{context: cs.Context.Name, anims: anims})
}

func slideTransition(cs *Changeset) (TimelineItem, error) {
	return MotionDefinition{
		Sprites:    cs.Kept,
		Properties: map[string]MotionProperty{PropertyPosition: {}},
		Timing:     MotionTiming{Behavior: &LinearBehavior{Duration: 100 * time.Millisecond}},
	}, nil
}

func TestNewAnimator_NilMeasurerPanics(t *testing.T) {
	assert.Panics(t, func() { NewAnimator(ParentMap{}, nil) })
}

func TestAnimator_Run(t *testing.T) {
	sink := &recordingSink{}
	l := newLayout()
	l.place(1, 0, Rect{Width: 400, Height: 400})
	l.place(2, 1, Rect{Width: 50, Height: 50})
	a := newTestAnimator(l,
		WithSink(sink),
		WithMeterProvider(metricnoop.NewMeterProvider()),
		WithTracerProvider(tracenoop.NewTracerProvider()),
		WithDebug(true),
	)
	a.Tree().AddContext(AnimationContext{Element: 1, Name: "list", Transition: slideTransition})
	a.Tree().AddSprite(SpriteElement{Element: 2, Identifier: Identifier{ID: "card"}})

	ctx := context.Background()
	res, err := a.Run(ctx, DiffInput{})
	require.NoError(t, err)
	assert.Empty(t, res.Contexts)
	assert.Empty(t, sink.calls)

	l.rects[2] = Rect{Left: 60, Width: 50, Height: 50}
	res, err = a.Run(ctx, DiffInput{Intent: "slide"})
	require.NoError(t, err)
	require.Len(t, res.Contexts, 1)

	anims := res.Contexts[0].Animations
	require.Len(t, anims, 1)
	assert.Equal(t, 100*time.Millisecond, anims[0].Duration)
	require.Len(t, anims[0].Keyframes, 7)
	assert.Equal(t, -60.0, anims[0].Keyframes[0].Values[PropertyTranslateX])
	assert.Equal(t, 0.0, anims[0].Keyframes[6].Values[PropertyTranslateX])

	require.Len(t, sink.calls, 1)
	assert.Equal(t, "list", sink.calls[0].context)

	// nothing changed: no transition runs
	res, err = a.Run(ctx, DiffInput{})
	require.NoError(t, err)
	assert.Empty(t, res.Contexts)
	assert.Len(t, sink.calls, 1)
}

func TestAnimator_RunContinuesAfterTransitionError(t *testing.T) {
	errBoom := errors.New("boom")
	l := newLayout()
	l.place(1, 0, Rect{Width: 400, Height: 400})
	l.place(2, 0, Rect{Left: 400, Width: 400, Height: 400})
	l.place(10, 1, Rect{Width: 50, Height: 50})
	l.place(20, 2, Rect{Left: 400, Width: 50, Height: 50})
	a := newTestAnimator(l)
	a.Tree().AddContext(AnimationContext{Element: 1, Name: "broken", Transition: func(*Changeset) (TimelineItem, error) {
		return nil, errBoom
	}})
	a.Tree().AddContext(AnimationContext{Element: 2, Name: "working", Transition: slideTransition})
	a.Tree().AddSprite(SpriteElement{Element: 10, Identifier: Identifier{ID: "x"}})
	a.Tree().AddSprite(SpriteElement{Element: 20, Identifier: Identifier{ID: "y"}})

	ctx := context.Background()
	_, err := a.Run(ctx, DiffInput{})
	require.NoError(t, err)

	l.rects[10] = Rect{Top: 30, Width: 50, Height: 50}
	l.rects[20] = Rect{Left: 400, Top: 30, Width: 50, Height: 50}
	res, err := a.Run(ctx, DiffInput{})
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), `transition "broken"`)
	require.NotNil(t, res)
	require.Len(t, res.Contexts, 1)
	assert.Equal(t, "working", res.Contexts[0].Changeset.Context.Name)
}

func TestAnimator_RunNilItemSkips(t *testing.T) {
	sink := &recordingSink{}
	l := newLayout()
	l.place(1, 0, Rect{Width: 400, Height: 400})
	l.place(2, 1, Rect{Width: 50, Height: 50})
	a := newTestAnimator(l, WithSink(sink))
	a.Tree().AddContext(AnimationContext{Element: 1, Name: "list", Transition: func(*Changeset) (TimelineItem, error) {
		return nil, nil
	}})
	a.Tree().AddSprite(SpriteElement{Element: 2, Identifier: Identifier{ID: "card"}})
	_, err := a.Run(context.Background(), DiffInput{})
	require.NoError(t, err)

	l.rects[2] = Rect{Left: 10, Width: 50, Height: 50}
	res, err := a.Run(context.Background(), DiffInput{})
	require.NoError(t, err)
	assert.Empty(t, res.Contexts)
	assert.Empty(t, sink.calls)
}

func TestAnimator_KeyframeConstructor(t *testing.T) {
	calls := 0
	a := NewAnimator(ParentMap{}, MeasureFunc(func(ElementID) (Rect, Style) { return Rect{}, nil }),
		WithKeyframeConstructor(func(prev Keyframe, active []PropertyFrame) Keyframe {
			calls++
			return MergeKeyframe(prev, active)
		}))
	s := testKept("a", Rect{}, Rect{Left: 10})
	cs := &Changeset{Context: AnimationContext{Name: "c"}, Kept: []*Sprite{s}}

	anims, err := a.Animate(cs, MotionDefinition{
		Sprites:    cs.Kept,
		Properties: map[string]MotionProperty{PropertyTranslateX: {}},
		Timing:     MotionTiming{Behavior: &LinearBehavior{Duration: 50 * time.Millisecond}},
	})
	require.NoError(t, err)
	require.Len(t, anims, 1)
	// seed + one per column
	assert.Equal(t, 1+len(anims[0].Keyframes), calls)
}

func TestAnimator_AnimateError(t *testing.T) {
	a := NewAnimator(ParentMap{}, MeasureFunc(func(ElementID) (Rect, Style) { return Rect{}, nil }))
	cs := &Changeset{Context: AnimationContext{Name: "c"}}
	_, err := a.Animate(cs, Wait(-time.Second))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
