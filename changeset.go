package glide

import (
	"fmt"

	"go.uber.org/zap"
)

// Measurer supplies the current geometry and computed style of a host
// element. The host must be able to measure every live context and sprite.
type Measurer interface {
	Measure(el ElementID) (Rect, Style)
}

// MeasureFunc adapts a function to the Measurer interface.
type MeasureFunc func(el ElementID) (Rect, Style)

// Measure implements Measurer.
func (f MeasureFunc) Measure(el ElementID) (Rect, Style) { return f(el) }

// Changeset is the diff of one animation context for one cycle. The three
// sprite sets are disjoint and listed in document order.
type Changeset struct {
	Context    AnimationContext
	ContextRef NodeRef
	Intent     string

	Inserted []*Sprite
	Removed  []*Sprite
	Kept     []*Sprite
}

// Sprites returns all sprites of the changeset: inserted, removed, then kept.
func (cs *Changeset) Sprites() []*Sprite {
	out := make([]*Sprite, 0, len(cs.Inserted)+len(cs.Removed)+len(cs.Kept))
	out = append(out, cs.Inserted...)
	out = append(out, cs.Removed...)
	return append(out, cs.Kept...)
}

// SpriteFor returns the sprite with the given identifier, or nil.
func (cs *Changeset) SpriteFor(id Identifier) *Sprite {
	for _, s := range cs.Sprites() {
		if s.Identifier() == id {
			return s
		}
	}
	return nil
}

// Empty reports whether the changeset holds no sprites.
func (cs *Changeset) Empty() bool {
	return len(cs.Inserted)+len(cs.Removed)+len(cs.Kept) == 0
}

// Anomaly kinds reported to the logger and telemetry.
const (
	anomalyAmbiguousRemoved      = "ambiguous_removed_match"
	anomalyAmbiguousIntermediate = "ambiguous_intermediate"
	anomalyNoSharedAncestor      = "no_shared_ancestor"
	anomalyMissingGeometry       = "missing_geometry"
	anomalyOwnerNotRunning       = "owner_not_running"
)

// placement is a classified sprite and the context that will animate it.
type placement struct {
	sprite   *Sprite
	ref      NodeRef
	owner    NodeRef
	consumed bool
}

// changesetBuilder runs one diff cycle over a tree.
type changesetBuilder struct {
	tree          *SpriteTree
	measurer      Measurer
	logger        *zap.Logger
	intermediates map[Identifier]IntermediateSprite
	anomaly       func(kind string)

	placements []*placement
	classified map[NodeRef]struct{}
	removedAt  map[NodeRef]*placement
	running    map[NodeRef]struct{}
}

func newChangesetBuilder(tree *SpriteTree, m Measurer, logger *zap.Logger, intermediates map[Identifier]IntermediateSprite, anomaly func(string)) *changesetBuilder {
	if anomaly == nil {
		anomaly = func(string) {}
	}
	return &changesetBuilder{
		tree:          tree,
		measurer:      m,
		logger:        loggerOrNop(logger),
		intermediates: intermediates,
		anomaly:       anomaly,
		classified:    make(map[NodeRef]struct{}),
		removedAt:     make(map[NodeRef]*placement),
		running:       make(map[NodeRef]struct{}),
	}
}

// build captures fresh geometry for every context in runList and returns one
// changeset per stable context, in runList order.
func (b *changesetBuilder) build(runList []NodeRef, intent string) ([]*Changeset, error) {
	if err := b.capture(runList); err != nil {
		return nil, err
	}
	for _, ctx := range runList {
		if b.tree.IsStable(ctx) {
			b.running[ctx] = struct{}{}
			b.classify(ctx)
		}
	}
	b.matchCounterparts()
	b.foldInterruptions()
	return b.emit(runList, intent), nil
}

// capture measures each context and the live sprites inside its boundary.
// Every sprite is measured once per cycle, relative to its nearest context, so
// consecutive snapshots always share a reference frame. Snapshots are stored
// only once every measurement is valid; a failed capture leaves the tree as
// it was.
func (b *changesetBuilder) capture(runList []NodeRef) error {
	type measurement struct {
		ref  NodeRef
		snap snapshot
	}
	var taken []measurement

	ctxRects := make(map[NodeRef]Rect)
	rectOf := func(ctx NodeRef) (Rect, error) {
		if r, ok := ctxRects[ctx]; ok {
			return r, nil
		}
		el, _ := b.tree.Element(ctx)
		r, _ := b.measurer.Measure(el)
		if err := r.validate(); err != nil {
			return Rect{}, fmt.Errorf("measure context %d: %w", el, err)
		}
		ctxRects[ctx] = r
		return r, nil
	}

	measured := make(map[NodeRef]struct{})
	for _, ctx := range runList {
		if _, err := rectOf(ctx); err != nil {
			return err
		}
		for _, ref := range b.tree.DescendantsOf(ctx, DescendantOptions{}) {
			if !b.tree.IsSprite(ref) {
				continue
			}
			if _, done := measured[ref]; done {
				continue
			}
			measured[ref] = struct{}{}

			owner := b.tree.NearestContext(ref)
			if owner == NoNode {
				owner = ctx
			}
			parentRect, err := rectOf(owner)
			if err != nil {
				return err
			}
			spriteEl, _ := b.tree.Element(ref)
			rect, style := b.measurer.Measure(spriteEl)
			bounds, err := NewBounds(rect, parentRect)
			if err != nil {
				return fmt.Errorf("measure sprite %d: %w", spriteEl, err)
			}
			taken = append(taken, measurement{ref: ref, snap: snapshot{bounds: bounds, style: style.Clone()}})
		}
	}
	for _, m := range taken {
		b.tree.capture(m.ref, m.snap)
	}
	return nil
}

// classify places the sprites inside ctx's boundary as Inserted, Removed or
// Kept. Sprites whose geometry did not change are left out.
func (b *changesetBuilder) classify(ctx NodeRef) {
	for _, ref := range b.tree.DescendantsOf(ctx, DescendantOptions{IncludeFreshlyRemoved: true}) {
		if !b.tree.IsSprite(ref) {
			continue
		}
		if _, seen := b.classified[ref]; seen {
			continue
		}
		b.classified[ref] = struct{}{}
		model, _ := b.tree.SpriteElement(ref)
		last, cur := b.tree.snapshots(ref)

		var s *Sprite
		switch {
		case b.tree.IsFreshlyRemoved(ref):
			if cur == nil {
				b.logger.Warn("removed sprite was never measured; skipping",
					identifierField(model.Identifier), elementField(model.Element))
				b.anomaly(anomalyMissingGeometry)
				continue
			}
			s = newRemovedSprite(model.Element, model.Identifier, *cur)
		case b.tree.IsFreshlyAdded(ref):
			s = newInsertedSprite(model.Element, model.Identifier, *cur)
		case last != nil && cur != nil && cur.bounds.Changed(last.bounds):
			s = newKeptSprite(model.Element, model.Identifier, last, cur, nil)
		default:
			continue
		}
		p := &placement{sprite: s, ref: ref, owner: ctx}
		b.placements = append(b.placements, p)
		if s.Type() == SpriteRemoved {
			b.removedAt[ref] = p
		}
	}
}

// matchCounterparts pairs each Inserted sprite with a Removed sprite sharing
// its identifier, turning the pair into one Kept sprite owned by their lowest
// stable shared context. A pair whose shared context is not running this
// cycle is left unmatched, so both sides animate in their own contexts.
func (b *changesetBuilder) matchCounterparts() {
	for _, p := range b.placements {
		if p.consumed || p.sprite.Type() != SpriteInserted {
			continue
		}
		id := p.sprite.Identifier()
		candidates := b.counterpartCandidates(p, id)
		if len(candidates) == 0 {
			continue
		}

		var (
			viable   []*placement
			owners   = make(map[*placement]NodeRef)
			orphaned bool
			deferred bool
		)
		for _, c := range candidates {
			owner := b.tree.FindStableSharedAncestor(p.ref, c.ref)
			switch {
			case owner == NoNode:
				orphaned = true
			case !b.isRunning(owner):
				deferred = true
				b.logger.Debug("shared context of counterpart is not running; animating both sides locally",
					identifierField(id), elementField(p.sprite.Element()))
			default:
				owners[c] = owner
				viable = append(viable, c)
			}
		}
		if len(viable) == 0 {
			if orphaned && !deferred {
				b.logger.Warn("no stable shared context for counterpart; sprite will not animate",
					identifierField(id), elementField(p.sprite.Element()))
				b.anomaly(anomalyNoSharedAncestor)
				p.consumed = true
			}
			continue
		}

		match := viable[0]
		if len(viable) > 1 {
			for _, c := range viable[1:] {
				if b.removalSeq(c.ref) > b.removalSeq(match.ref) {
					match = c
				}
			}
			b.logger.Warn("multiple removed sprites match inserted sprite; using the most recently removed",
				identifierField(id), zap.Int("candidates", len(viable)))
			b.anomaly(anomalyAmbiguousRemoved)
		}
		owner := owners[match]

		removed := match.sprite
		p.sprite = newKeptSprite(p.sprite.Element(), id, removed.initial, p.sprite.final, removed)
		p.owner = owner
		match.consumed = true
	}
}

func (b *changesetBuilder) isRunning(ctx NodeRef) bool {
	_, ok := b.running[ctx]
	return ok
}

// counterpartCandidates gathers unconsumed Removed sprites with identifier id,
// both inside p's own context and removed elsewhere in the tree.
func (b *changesetBuilder) counterpartCandidates(p *placement, id Identifier) []*placement {
	var out []*placement
	seen := make(map[NodeRef]struct{})
	consider := func(c *placement) {
		if _, ok := seen[c.ref]; ok {
			return
		}
		seen[c.ref] = struct{}{}
		if !c.consumed && c.sprite.Identifier() == id {
			out = append(out, c)
		}
	}
	for _, c := range b.placements {
		if c.owner == p.owner && c.sprite.Type() == SpriteRemoved {
			consider(c)
		}
	}
	for _, ref := range b.tree.FarMatchCandidatesFor(p.owner) {
		c, ok := b.removedAt[ref]
		if !ok {
			c = b.unplacedRemoved(ref)
			if c == nil {
				continue
			}
		}
		consider(c)
	}
	return out
}

// unplacedRemoved builds a placement for a removed sprite that no running
// stable context classified, so it can still serve as a far match.
func (b *changesetBuilder) unplacedRemoved(ref NodeRef) *placement {
	model, ok := b.tree.SpriteElement(ref)
	if !ok {
		return nil
	}
	_, cur := b.tree.snapshots(ref)
	if cur == nil {
		return nil
	}
	p := &placement{
		sprite: newRemovedSprite(model.Element, model.Identifier, *cur),
		ref:    ref,
		owner:  NoNode,
	}
	b.removedAt[ref] = p
	return p
}

// removalSeq returns the removal order of ref, inherited from the detached
// ancestor that took it out of the tree.
func (b *changesetBuilder) removalSeq(ref NodeRef) uint64 {
	t := b.tree
	for p := ref; t.valid(p); p = t.nodes[p].parent {
		if t.nodes[p].detached {
			return t.nodes[p].removedSeq
		}
	}
	return 0
}

// foldInterruptions seeds sprites that were mid-animation with their last
// rendered state instead of their last stable snapshot.
func (b *changesetBuilder) foldInterruptions() {
	if len(b.intermediates) == 0 {
		return
	}
	for _, p := range b.placements {
		if p.consumed {
			continue
		}
		im, ok := b.intermediates[p.sprite.Identifier()]
		if !ok {
			continue
		}
		p.sprite = p.sprite.withInitial(snapshot{bounds: im.Bounds, style: im.Style.Clone()}, im.Velocities)
	}
}

// emit groups the placements by owning context.
func (b *changesetBuilder) emit(runList []NodeRef, intent string) []*Changeset {
	byOwner := make(map[NodeRef]*Changeset)
	var out []*Changeset
	for _, ctx := range runList {
		if !b.tree.IsStable(ctx) {
			continue
		}
		model, _ := b.tree.Context(ctx)
		cs := &Changeset{Context: model, ContextRef: ctx, Intent: intent}
		byOwner[ctx] = cs
		out = append(out, cs)
	}
	for _, p := range b.placements {
		if p.consumed {
			continue
		}
		cs, ok := byOwner[p.owner]
		if !ok {
			b.logger.Warn("sprite belongs to a context that is not running this cycle",
				identifierField(p.sprite.Identifier()))
			b.anomaly(anomalyOwnerNotRunning)
			continue
		}
		switch p.sprite.Type() {
		case SpriteInserted:
			cs.Inserted = append(cs.Inserted, p.sprite)
		case SpriteRemoved:
			cs.Removed = append(cs.Removed, p.sprite)
		case SpriteKept:
			cs.Kept = append(cs.Kept, p.sprite)
		}
	}
	return out
}
