package glide

import (
	"fmt"
	"math"
)

// DefaultSampleRate is the number of frames behaviors emit per second of
// animation. One frame corresponds to one column of an OrchestrationMatrix.
const DefaultSampleRate = 60

// ElementID identifies a rendered element owned by the host. IDs are opaque to
// glide; the host must keep them unique while the element is alive.
type ElementID uint32

// Hierarchy exposes the host's actual containment hierarchy. The sprite tree
// walks it to find where a newly committed node belongs.
type Hierarchy interface {
	// ParentOf returns the containing element of id, or false when id is a
	// top-level element.
	ParentOf(id ElementID) (ElementID, bool)
}

// ParentMap is a Hierarchy backed by a child → parent map. Elements missing from
// the map are treated as top-level.
type ParentMap map[ElementID]ElementID

// ParentOf implements Hierarchy.
func (m ParentMap) ParentOf(id ElementID) (ElementID, bool) {
	p, ok := m[id]
	return p, ok
}

// depthOf counts the ancestors of id in h.
func depthOf(h Hierarchy, id ElementID) int {
	depth := 0
	for cur, ok := h.ParentOf(id); ok; cur, ok = h.ParentOf(cur) {
		depth++
		if depth > maxHierarchyDepth {
			panic(fmt.Sprintf("glide: hierarchy cycle detected at element %d", id))
		}
	}
	return depth
}

// isElementAncestor reports whether candidate contains id in h.
func isElementAncestor(h Hierarchy, candidate, id ElementID) bool {
	steps := 0
	for cur, ok := h.ParentOf(id); ok; cur, ok = h.ParentOf(cur) {
		if cur == candidate {
			return true
		}
		steps++
		if steps > maxHierarchyDepth {
			return false
		}
	}
	return false
}

const maxHierarchyDepth = 1 << 16

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	Left, Top, Width, Height float64
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.Left += dx
	r.Top += dy
	return r
}

func (r Rect) validate() error {
	for _, v := range [...]float64{r.Left, r.Top, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("rect %+v: %w", r, ErrInvalidValue)
		}
	}
	return nil
}

// Bounds is an element rectangle together with the rectangle of the context it
// was measured in, both captured at the same instant. Both rectangles are in
// the host's absolute coordinate space.
type Bounds struct {
	Element Rect
	Parent  Rect
}

// NewBounds validates and returns a Bounds. NaN or infinite coordinates are
// reported as ErrInvalidValue.
func NewBounds(element, parent Rect) (Bounds, error) {
	if err := element.validate(); err != nil {
		return Bounds{}, fmt.Errorf("element bounds: %w", err)
	}
	if err := parent.validate(); err != nil {
		return Bounds{}, fmt.Errorf("parent bounds: %w", err)
	}
	return Bounds{Element: element, Parent: parent}, nil
}

// Relative returns the element rectangle expressed in its parent's coordinate
// space.
func (b Bounds) Relative() Rect {
	return b.Element.Translate(-b.Parent.Left, -b.Parent.Top)
}

// Changed reports whether b differs from an earlier capture prev. Movement is
// measured relative to the parent's own movement, so a context that moved does
// not flag its children; any size change counts.
func (b Bounds) Changed(prev Bounds) bool {
	dx := (b.Element.Left - prev.Element.Left) - (b.Parent.Left - prev.Parent.Left)
	dy := (b.Element.Top - prev.Element.Top) - (b.Parent.Top - prev.Parent.Top)
	return dx != 0 || dy != 0 ||
		b.Element.Width != prev.Element.Width ||
		b.Element.Height != prev.Element.Height
}

// Identifier names a logical entity across renders. Two elements with equal
// identifiers are treated as the same entity, which is how a removed element
// is paired with the element that replaced it.
type Identifier struct {
	ID string
	// Role disambiguates several elements sharing an ID. Empty means no role.
	Role string
}

// String formats the identifier for logs, e.g. "card-1" or "card-1|title".
// Lookups key on the Identifier value itself.
func (id Identifier) String() string {
	if id.Role == "" {
		return id.ID
	}
	return id.ID + "|" + id.Role
}

// mustValidate panics on a malformed identifier.
func (id Identifier) mustValidate() {
	if id.ID == "" {
		panic("glide: identifier with empty id")
	}
}
