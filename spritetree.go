package glide

import (
	"slices"
	"sort"

	"go.uber.org/zap"
)

// NodeRef addresses a node in a SpriteTree arena. Refs become invalid once the
// node is purged; lookups of invalid refs return NoNode or zero values rather
// than panicking.
type NodeRef int32

// NoNode is the no-match sentinel returned by tree lookups.
const NoNode NodeRef = -1

// rootRef is the virtual root every top-level node hangs from.
const rootRef NodeRef = 0

// TransitionFunc builds the timeline for one context's changeset. Returning a
// nil item skips the animation for that cycle.
type TransitionFunc func(cs *Changeset) (TimelineItem, error)

// AnimationContext marks an element as an animation boundary.
type AnimationContext struct {
	Element ElementID
	Name    string
	// Transition is called by Animator.Run with the context's changeset.
	Transition TransitionFunc
}

// SpriteElement marks an element as animatable.
type SpriteElement struct {
	Element    ElementID
	Identifier Identifier
}

type treeNode struct {
	inUse   bool
	element ElementID

	context     *AnimationContext
	sprite      *SpriteElement
	contextLive bool
	spriteLive  bool
	stable      bool

	parent         NodeRef
	children       []NodeRef
	freshlyRemoved []NodeRef

	detached   bool
	removedSeq uint64

	last, current *snapshot
}

func (n *treeNode) hasContext() bool {
	return n.context != nil && (n.contextLive || n.detached)
}

func (n *treeNode) hasSprite() bool {
	return n.sprite != nil && (n.spriteLive || n.detached)
}

type pendingAddition struct {
	element ElementID
	context *AnimationContext
	sprite  *SpriteElement
	depth   int
}

// DescendantOptions tunes SpriteTree.DescendantsOf.
type DescendantOptions struct {
	// IncludeFreshlyRemoved also visits nodes detached during the current cycle.
	IncludeFreshlyRemoved bool
	// TraverseStableContexts descends into nested stable contexts instead of
	// stopping at their boundary.
	TraverseStableContexts bool
}

// SpriteTree mirrors the host's containment hierarchy for the elements that
// take part in animations. Nodes live in an arena indexed by NodeRef; an
// element index maps host elements to their node.
//
// Additions are staged and only become visible after FlushPendingAdditions,
// which commits them parents-first so the resulting shape does not depend on
// the order the host reported them in. Removed nodes stay reachable from their
// former parent for one diff cycle so they can still be animated out or
// matched against an inserted element elsewhere.
type SpriteTree struct {
	hierarchy Hierarchy
	logger    *zap.Logger
	debug     bool

	nodes []treeNode
	free  []NodeRef
	index map[ElementID]NodeRef

	pending      []pendingAddition
	freshlyAdded map[NodeRef]struct{}
	removed      []NodeRef
	removalSeq   uint64
}

// NewSpriteTree creates an empty tree over h. A nil logger disables logging.
func NewSpriteTree(h Hierarchy, logger *zap.Logger) *SpriteTree {
	if h == nil {
		panic("glide: nil hierarchy")
	}
	return &SpriteTree{
		hierarchy:    h,
		logger:       loggerOrNop(logger),
		nodes:        []treeNode{{inUse: true, parent: NoNode}},
		index:        make(map[ElementID]NodeRef),
		freshlyAdded: make(map[NodeRef]struct{}),
	}
}

// --- Staging ---

// AddContext stages ctx for insertion. It becomes part of the tree on the next
// FlushPendingAdditions.
func (t *SpriteTree) AddContext(ctx AnimationContext) {
	c := ctx
	t.pending = append(t.pending, pendingAddition{element: ctx.Element, context: &c})
}

// AddSprite stages s for insertion. Panics if the identifier is malformed.
func (t *SpriteTree) AddSprite(s SpriteElement) {
	s.Identifier.mustValidate()
	sp := s
	t.pending = append(t.pending, pendingAddition{element: s.Element, sprite: &sp})
}

// HasPendingAdditions reports whether staged additions await a flush.
func (t *SpriteTree) HasPendingAdditions() bool {
	return len(t.pending) > 0
}

// FlushPendingAdditions commits all staged additions. They are applied in
// hierarchy-depth order (ancestors first, ties in staging order), and each new
// node adopts already-committed nodes its element contains.
func (t *SpriteTree) FlushPendingAdditions() {
	if len(t.pending) == 0 {
		return
	}
	batch := t.pending
	t.pending = nil
	for i := range batch {
		batch[i].depth = depthOf(t.hierarchy, batch[i].element)
	}
	sort.SliceStable(batch, func(i, j int) bool { return batch[i].depth < batch[j].depth })
	for _, p := range batch {
		t.commit(p)
	}
}

func (t *SpriteTree) commit(p pendingAddition) {
	if ref, ok := t.index[p.element]; ok && !t.nodes[ref].detached {
		n := &t.nodes[ref]
		if p.context != nil {
			n.context = p.context
			n.contextLive = true
		}
		if p.sprite != nil {
			n.sprite = p.sprite
			n.spriteLive = true
			t.freshlyAdded[ref] = struct{}{}
		}
		return
	}

	parent := t.nearestAncestor(p.element)
	ref := t.alloc()
	n := &t.nodes[ref]
	n.element = p.element
	n.parent = parent
	if p.context != nil {
		n.context = p.context
		n.contextLive = true
	}
	if p.sprite != nil {
		n.sprite = p.sprite
		n.spriteLive = true
		t.freshlyAdded[ref] = struct{}{}
	}
	t.index[p.element] = ref

	// Adopt siblings that actually live inside the new node's element.
	siblings := t.nodes[parent].children
	kept := siblings[:0]
	var adopted []NodeRef
	for _, c := range siblings {
		if isElementAncestor(t.hierarchy, p.element, t.nodes[c].element) {
			adopted = append(adopted, c)
			continue
		}
		kept = append(kept, c)
	}
	t.nodes[parent].children = append(kept, ref)
	for _, c := range adopted {
		t.nodes[c].parent = ref
	}
	t.nodes[ref].children = append(t.nodes[ref].children, adopted...)

	if t.debug {
		t.debugCheckTreeDepth(ref)
		t.debugCheckChildCount(parent)
	}
}

func (t *SpriteTree) nearestAncestor(el ElementID) NodeRef {
	for cur, ok := t.hierarchy.ParentOf(el); ok; cur, ok = t.hierarchy.ParentOf(cur) {
		if ref, found := t.index[cur]; found && !t.nodes[ref].detached {
			return ref
		}
	}
	return rootRef
}

func (t *SpriteTree) alloc() NodeRef {
	if n := len(t.free); n > 0 {
		ref := t.free[n-1]
		t.free = t.free[:n-1]
		t.nodes[ref] = treeNode{inUse: true}
		return ref
	}
	t.nodes = append(t.nodes, treeNode{inUse: true})
	return NodeRef(len(t.nodes) - 1)
}

// --- Removal ---

// RemoveContext drops the context role of el. When no live role remains the
// node is detached and kept as a freshly removed child of its parent until
// ClearFreshlyRemovedChildren.
func (t *SpriteTree) RemoveContext(el ElementID) {
	if t.dropPending(el, true) {
		return
	}
	ref, ok := t.index[el]
	if !ok || t.nodes[ref].detached {
		return
	}
	n := &t.nodes[ref]
	n.contextLive = false
	if !n.spriteLive {
		t.detach(ref)
	}
}

// RemoveSprite drops the sprite role of el, detaching the node when no live
// role remains.
func (t *SpriteTree) RemoveSprite(el ElementID) {
	if t.dropPending(el, false) {
		return
	}
	ref, ok := t.index[el]
	if !ok || t.nodes[ref].detached {
		return
	}
	n := &t.nodes[ref]
	n.spriteLive = false
	delete(t.freshlyAdded, ref)
	if !n.contextLive {
		t.detach(ref)
	}
}

// dropPending removes a staged addition of the given role. It reports whether
// one was found, in which case the committed tree is left alone.
func (t *SpriteTree) dropPending(el ElementID, context bool) bool {
	for i := len(t.pending) - 1; i >= 0; i-- {
		p := t.pending[i]
		if p.element != el {
			continue
		}
		if context && p.context != nil || !context && p.sprite != nil {
			t.pending = slices.Delete(t.pending, i, i+1)
			return true
		}
	}
	return false
}

func (t *SpriteTree) detach(ref NodeRef) {
	n := &t.nodes[ref]
	t.removalSeq++
	n.detached = true
	n.removedSeq = t.removalSeq
	parent := &t.nodes[n.parent]
	if i := slices.Index(parent.children, ref); i >= 0 {
		parent.children = slices.Delete(parent.children, i, i+1)
	}
	parent.freshlyRemoved = append(parent.freshlyRemoved, ref)
	t.removed = append(t.removed, ref)
}

// ClearFreshlyRemovedChildren permanently purges every node detached during
// the current cycle, together with its subtree, and resets the freshly added
// set. Call it once the cycle's changesets have been consumed.
func (t *SpriteTree) ClearFreshlyRemovedChildren() {
	for _, ref := range t.removed {
		if !t.valid(ref) || !t.nodes[ref].detached {
			continue
		}
		parent := &t.nodes[t.nodes[ref].parent]
		if i := slices.Index(parent.freshlyRemoved, ref); i >= 0 {
			parent.freshlyRemoved = slices.Delete(parent.freshlyRemoved, i, i+1)
		}
		t.purge(ref)
	}
	t.removed = t.removed[:0]
	clear(t.freshlyAdded)
}

func (t *SpriteTree) purge(ref NodeRef) {
	n := &t.nodes[ref]
	for _, c := range n.children {
		t.purge(c)
	}
	for _, c := range n.freshlyRemoved {
		t.purge(c)
	}
	if cur, ok := t.index[n.element]; ok && cur == ref {
		delete(t.index, n.element)
	}
	delete(t.freshlyAdded, ref)
	t.nodes[ref] = treeNode{}
	t.free = append(t.free, ref)
}

// --- Queries ---

func (t *SpriteTree) valid(ref NodeRef) bool {
	return ref > rootRef && int(ref) < len(t.nodes) && t.nodes[ref].inUse
}

// Lookup returns the node for el, or NoNode when el was never committed or has
// been purged.
func (t *SpriteTree) Lookup(el ElementID) NodeRef {
	if ref, ok := t.index[el]; ok {
		return ref
	}
	return NoNode
}

// Element returns the host element of ref.
func (t *SpriteTree) Element(ref NodeRef) (ElementID, bool) {
	if !t.valid(ref) {
		return 0, false
	}
	return t.nodes[ref].element, true
}

// Parent returns the parent node of ref, or NoNode for top-level and invalid
// nodes.
func (t *SpriteTree) Parent(ref NodeRef) NodeRef {
	if !t.valid(ref) || t.nodes[ref].parent == rootRef {
		return NoNode
	}
	return t.nodes[ref].parent
}

// Children returns the live children of ref in insertion order. Pass NoNode
// for the top-level nodes.
func (t *SpriteTree) Children(ref NodeRef) []NodeRef {
	if ref == NoNode {
		ref = rootRef
	} else if !t.valid(ref) {
		return nil
	}
	return slices.Clone(t.nodes[ref].children)
}

// FreshlyRemovedChildren returns the children of ref detached this cycle.
func (t *SpriteTree) FreshlyRemovedChildren(ref NodeRef) []NodeRef {
	if ref == NoNode {
		ref = rootRef
	} else if !t.valid(ref) {
		return nil
	}
	return slices.Clone(t.nodes[ref].freshlyRemoved)
}

// IsContext reports whether ref carries a context role.
func (t *SpriteTree) IsContext(ref NodeRef) bool {
	return t.valid(ref) && t.nodes[ref].hasContext()
}

// IsSprite reports whether ref carries a sprite role.
func (t *SpriteTree) IsSprite(ref NodeRef) bool {
	return t.valid(ref) && t.nodes[ref].hasSprite()
}

// Context returns the context model of ref.
func (t *SpriteTree) Context(ref NodeRef) (AnimationContext, bool) {
	if !t.IsContext(ref) {
		return AnimationContext{}, false
	}
	return *t.nodes[ref].context, true
}

// SpriteElement returns the sprite model of ref.
func (t *SpriteTree) SpriteElement(ref NodeRef) (SpriteElement, bool) {
	if !t.IsSprite(ref) {
		return SpriteElement{}, false
	}
	return *t.nodes[ref].sprite, true
}

// IsStable reports whether the context at ref has completed a render.
func (t *SpriteTree) IsStable(ref NodeRef) bool {
	return t.IsContext(ref) && t.nodes[ref].stable
}

// MarkContextStable records that the context on el has completed a render.
// Its changes are animated from the next diff cycle on.
func (t *SpriteTree) MarkContextStable(el ElementID) {
	ref := t.Lookup(el)
	if t.IsContext(ref) {
		t.nodes[ref].stable = true
	}
}

// IsFreshlyAdded reports whether ref's sprite role was committed this cycle.
func (t *SpriteTree) IsFreshlyAdded(ref NodeRef) bool {
	_, ok := t.freshlyAdded[ref]
	return ok
}

// IsFreshlyRemoved reports whether ref, or an ancestor of it, was detached
// this cycle.
func (t *SpriteTree) IsFreshlyRemoved(ref NodeRef) bool {
	for p := ref; t.valid(p); p = t.nodes[p].parent {
		if t.nodes[p].detached {
			return true
		}
	}
	return false
}

// DescendantsOf lists the nodes below ref in depth-first pre-order. It stops
// at nested stable contexts, which are returned but not entered, unless
// opts.TraverseStableContexts is set. Pass NoNode to start from the top.
func (t *SpriteTree) DescendantsOf(ref NodeRef, opts DescendantOptions) []NodeRef {
	if ref == NoNode {
		ref = rootRef
	} else if !t.valid(ref) {
		return nil
	}
	var out []NodeRef
	t.collectDescendants(ref, opts, &out)
	return out
}

func (t *SpriteTree) collectDescendants(ref NodeRef, opts DescendantOptions, out *[]NodeRef) {
	visit := func(c NodeRef) {
		*out = append(*out, c)
		cn := &t.nodes[c]
		if !opts.TraverseStableContexts && cn.stable && cn.contextLive && !cn.detached {
			return
		}
		t.collectDescendants(c, opts, out)
	}
	for _, c := range t.nodes[ref].children {
		visit(c)
	}
	if opts.IncludeFreshlyRemoved {
		for _, c := range t.nodes[ref].freshlyRemoved {
			visit(c)
		}
	}
}

// NearestContext returns the closest context strictly above ref, or NoNode.
func (t *SpriteTree) NearestContext(ref NodeRef) NodeRef {
	if !t.valid(ref) {
		return NoNode
	}
	for p := t.nodes[ref].parent; t.valid(p); p = t.nodes[p].parent {
		if t.nodes[p].hasContext() {
			return p
		}
	}
	return NoNode
}

// FarMatchCandidatesFor lists the sprite nodes removed this cycle whose
// nearest context is not ctx, most recently removed last. An element inserted
// under ctx may pair with one of them and animate as if it moved between
// contexts.
func (t *SpriteTree) FarMatchCandidatesFor(ctx NodeRef) []NodeRef {
	var out []NodeRef
	seen := make(map[NodeRef]struct{})
	add := func(ref NodeRef) {
		if _, ok := seen[ref]; ok {
			return
		}
		seen[ref] = struct{}{}
		if t.nodes[ref].hasSprite() && t.NearestContext(ref) != ctx {
			out = append(out, ref)
		}
	}
	for _, ref := range t.removed {
		if !t.valid(ref) {
			continue
		}
		add(ref)
		for _, d := range t.DescendantsOf(ref, DescendantOptions{IncludeFreshlyRemoved: true, TraverseStableContexts: true}) {
			add(d)
		}
	}
	return out
}

// FindStableSharedAncestor returns the lowest stable, live context that is an
// ancestor of both a and b, or NoNode when they share none.
func (t *SpriteTree) FindStableSharedAncestor(a, b NodeRef) NodeRef {
	if !t.valid(a) || !t.valid(b) {
		return NoNode
	}
	chain := make(map[NodeRef]struct{})
	for p := t.nodes[a].parent; t.valid(p); p = t.nodes[p].parent {
		if t.isLiveStableContext(p) {
			chain[p] = struct{}{}
		}
	}
	for p := t.nodes[b].parent; t.valid(p); p = t.nodes[p].parent {
		if _, ok := chain[p]; ok {
			return p
		}
	}
	return NoNode
}

func (t *SpriteTree) isLiveStableContext(ref NodeRef) bool {
	n := &t.nodes[ref]
	return n.context != nil && n.contextLive && n.stable && !n.detached
}

// Contexts returns every live context node in pre-order.
func (t *SpriteTree) Contexts() []NodeRef {
	var out []NodeRef
	for _, ref := range t.DescendantsOf(NoNode, DescendantOptions{TraverseStableContexts: true}) {
		if n := &t.nodes[ref]; n.context != nil && n.contextLive {
			out = append(out, ref)
		}
	}
	return out
}

// GetContextRunList orders the requested contexts child-before-parent, each
// exactly once. Invalid refs and non-context nodes are dropped.
func (t *SpriteTree) GetContextRunList(requested []NodeRef) []NodeRef {
	order := make(map[NodeRef]int)
	for i, ref := range t.DescendantsOf(NoNode, DescendantOptions{TraverseStableContexts: true}) {
		order[ref] = i
	}
	depth := make(map[NodeRef]int)
	var out []NodeRef
	for _, ref := range requested {
		if _, dup := depth[ref]; dup || !t.IsContext(ref) || t.nodes[ref].detached {
			continue
		}
		d := 0
		for p := t.nodes[ref].parent; t.valid(p); p = t.nodes[p].parent {
			d++
		}
		depth[ref] = d
		out = append(out, ref)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if depth[out[i]] != depth[out[j]] {
			return depth[out[i]] > depth[out[j]]
		}
		return order[out[i]] < order[out[j]]
	})
	return out
}

// --- Snapshots ---

// capture records a fresh measurement for ref, shifting the previous one to
// last.
func (t *SpriteTree) capture(ref NodeRef, s snapshot) {
	n := &t.nodes[ref]
	n.last = n.current
	n.current = &s
}

func (t *SpriteTree) snapshots(ref NodeRef) (last, current *snapshot) {
	n := &t.nodes[ref]
	return n.last, n.current
}
