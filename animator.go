package glide

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// AnimationSink receives the animations computed for a changeset. It is the
// hand-off point to the playback layer.
type AnimationSink interface {
	EmitAnimations(cs *Changeset, anims []Animation)
}

// Option configures an Animator.
type Option func(*animatorConfig)

type animatorConfig struct {
	logger    *zap.Logger
	debug     bool
	construct KeyframeConstructor
	sink      AnimationSink
	meters    metric.MeterProvider
	tracers   trace.TracerProvider
}

// WithLogger sets the logger for anomalies and debug checks.
func WithLogger(l *zap.Logger) Option {
	return func(c *animatorConfig) { c.logger = l }
}

// WithDebug enables sprite tree shape checks on every commit.
func WithDebug(enabled bool) Option {
	return func(c *animatorConfig) { c.debug = enabled }
}

// WithKeyframeConstructor replaces MergeKeyframe when building animations.
func WithKeyframeConstructor(fn KeyframeConstructor) Option {
	return func(c *animatorConfig) { c.construct = fn }
}

// WithSink registers a sink that receives every animation built by Animate
// and Run.
func WithSink(s AnimationSink) Option {
	return func(c *animatorConfig) { c.sink = s }
}

// WithMeterProvider overrides the global OpenTelemetry meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *animatorConfig) { c.meters = mp }
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *animatorConfig) { c.tracers = tp }
}

// Animator owns a sprite tree and runs diff cycles over it. It is not safe for
// concurrent use; hosts keep one Animator per independent animation root.
type Animator struct {
	tree      *SpriteTree
	measurer  Measurer
	logger    *zap.Logger
	construct KeyframeConstructor
	sink      AnimationSink
	tel       *telemetry
}

// NewAnimator creates an Animator over the host's hierarchy and measurer.
func NewAnimator(h Hierarchy, m Measurer, opts ...Option) *Animator {
	if m == nil {
		panic("glide: nil measurer")
	}
	var cfg animatorConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := loggerOrNop(cfg.logger)
	tree := NewSpriteTree(h, logger)
	tree.SetDebug(cfg.debug)
	construct := cfg.construct
	if construct == nil {
		construct = MergeKeyframe
	}
	return &Animator{
		tree:      tree,
		measurer:  m,
		logger:    logger,
		construct: construct,
		sink:      cfg.sink,
		tel:       newTelemetry(cfg.meters, cfg.tracers),
	}
}

// Tree returns the animator's sprite tree. The host feeds element additions
// and removals into it between diff cycles.
func (a *Animator) Tree() *SpriteTree { return a.tree }

// DiffInput parameterises one diff cycle.
type DiffInput struct {
	// Contexts lists the context elements requesting to run. Empty runs every
	// context in the tree.
	Contexts []ElementID
	// Intent tags every changeset of the cycle.
	Intent string
	// Intermediate holds the state of animations still running from an earlier
	// cycle.
	Intermediate []IntermediateSprite
}

// DiffResult is the outcome of a diff cycle.
type DiffResult struct {
	// Changesets holds one changeset per stable running context, innermost
	// context first.
	Changesets []*Changeset
	// Interruptions splits DiffInput.Intermediate into animations to cancel
	// and animations to keep playing.
	Interruptions InterruptionPlan
}

// Diff flushes staged additions, measures every running context, and returns
// the changesets of the cycle. Contexts that had not rendered before are
// marked stable and produce no changeset, so a first render never animates.
// Freshly removed nodes are purged before Diff returns.
//
// If an error occurs (invalid geometry or intermediate state) the tree keeps
// its previous snapshots and freshly removed nodes so the next call can retry.
func (a *Animator) Diff(ctx context.Context, in DiffInput) (res *DiffResult, err error) {
	ctx, span := a.tel.tracer.Start(ctx, "glide.Diff", trace.WithAttributes(
		attribute.String("glide.intent", in.Intent),
		attribute.Int("glide.intermediate", len(in.Intermediate)),
	))
	defer span.End()
	start := time.Now()
	defer func() {
		a.tel.measureDiff(ctx, err == nil, time.Since(start))
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	anomaly := func(kind string) { a.tel.recordAnomaly(ctx, kind) }

	a.tree.FlushPendingAdditions()
	intermediates, err := indexIntermediates(in.Intermediate, a.logger, anomaly)
	if err != nil {
		return nil, fmt.Errorf("index intermediate sprites: %w", err)
	}

	var requested []NodeRef
	if len(in.Contexts) == 0 {
		requested = a.tree.Contexts()
	} else {
		for _, el := range in.Contexts {
			ref := a.tree.Lookup(el)
			if !a.tree.IsContext(ref) {
				a.logger.Debug("requested context is not in the sprite tree", elementField(el))
				continue
			}
			requested = append(requested, ref)
		}
	}
	runList := a.tree.GetContextRunList(requested)

	b := newChangesetBuilder(a.tree, a.measurer, a.logger, intermediates, anomaly)
	changesets, err := b.build(runList, in.Intent)
	if err != nil {
		return nil, fmt.Errorf("build changesets: %w", err)
	}

	for _, ref := range runList {
		if el, ok := a.tree.Element(ref); ok && !a.tree.IsStable(ref) {
			a.tree.MarkContextStable(el)
		}
	}
	a.tree.ClearFreshlyRemovedChildren()

	for _, cs := range changesets {
		a.tel.recordChangeset(ctx, cs)
	}
	span.SetAttributes(attribute.Int("glide.changesets", len(changesets)))
	return &DiffResult{
		Changesets:    changesets,
		Interruptions: PlanInterruptions(changesets, in.Intermediate),
	}, nil
}

// Animate builds the timeline item into per-sprite animations and forwards
// them to the sink, if any.
func (a *Animator) Animate(cs *Changeset, item TimelineItem) ([]Animation, error) {
	m, err := Orchestrate(item)
	if err != nil {
		return nil, fmt.Errorf("orchestrate %q: %w", cs.Context.Name, err)
	}
	anims := m.Animations(a.construct)
	if a.sink != nil && len(anims) > 0 {
		a.sink.EmitAnimations(cs, anims)
	}
	return anims, nil
}

// ContextAnimations pairs a changeset with the animations its transition
// produced.
type ContextAnimations struct {
	Changeset  *Changeset
	Animations []Animation
}

// RunResult is the outcome of Run.
type RunResult struct {
	DiffResult
	Contexts []ContextAnimations
}

// Run performs a diff cycle and calls the Transition of every context whose
// changeset is not empty. A failing transition is reported in the returned
// error but does not stop the other contexts from animating.
func (a *Animator) Run(ctx context.Context, in DiffInput) (*RunResult, error) {
	diff, err := a.Diff(ctx, in)
	if err != nil {
		return nil, err
	}
	res := &RunResult{DiffResult: *diff}
	var errs []error
	for _, cs := range diff.Changesets {
		if cs.Empty() || cs.Context.Transition == nil {
			continue
		}
		item, err := cs.Context.Transition(cs)
		if err != nil {
			a.logger.Warn("transition failed", zap.String("context", cs.Context.Name), zap.Error(err))
			errs = append(errs, fmt.Errorf("transition %q: %w", cs.Context.Name, err))
			continue
		}
		if item == nil {
			continue
		}
		anims, err := a.Animate(cs, item)
		if err != nil {
			a.logger.Warn("animation failed", zap.String("context", cs.Context.Name), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		res.Contexts = append(res.Contexts, ContextAnimations{Changeset: cs, Animations: anims})
	}
	return res, errors.Join(errs...)
}
