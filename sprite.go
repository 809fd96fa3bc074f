package glide

import "fmt"

// SpriteType classifies a sprite for one diff cycle.
type SpriteType uint8

const (
	SpriteInserted SpriteType = iota // appeared this cycle; final state only
	SpriteRemoved                    // disappeared this cycle; initial state only
	SpriteKept                       // persisted; both initial and final state
)

func (t SpriteType) String() string {
	switch t {
	case SpriteInserted:
		return "inserted"
	case SpriteRemoved:
		return "removed"
	case SpriteKept:
		return "kept"
	default:
		return fmt.Sprintf("SpriteType(%d)", uint8(t))
	}
}

// snapshot is a geometry + style capture of one element.
type snapshot struct {
	bounds Bounds
	style  Style
}

// Sprite is an animatable element classified for one diff cycle. Sprites are
// immutable: reclassification builds a new Sprite and replaces the old one in
// its changeset.
type Sprite struct {
	element    ElementID
	identifier Identifier
	typ        SpriteType

	initial *snapshot
	final   *snapshot

	// counterpart is the Removed sprite this Kept sprite replaced when the
	// element was destroyed and recreated. It is a copy, not a shared node.
	counterpart *Sprite

	velocities map[string]float64
}

func newInsertedSprite(el ElementID, id Identifier, final snapshot) *Sprite {
	id.mustValidate()
	return &Sprite{element: el, identifier: id, typ: SpriteInserted, final: &final}
}

func newRemovedSprite(el ElementID, id Identifier, initial snapshot) *Sprite {
	id.mustValidate()
	return &Sprite{element: el, identifier: id, typ: SpriteRemoved, initial: &initial}
}

// newKeptSprite panics when either state is missing; a Kept sprite without
// geometry would produce a broken animation.
func newKeptSprite(el ElementID, id Identifier, initial, final *snapshot, counterpart *Sprite) *Sprite {
	id.mustValidate()
	if initial == nil {
		panic(fmt.Sprintf("glide: kept sprite %q missing initial bounds", id))
	}
	if final == nil {
		panic(fmt.Sprintf("glide: kept sprite %q missing final bounds", id))
	}
	return &Sprite{
		element:     el,
		identifier:  id,
		typ:         SpriteKept,
		initial:     initial,
		final:       final,
		counterpart: counterpart,
	}
}

// withInitial returns a copy of s whose initial state and velocities come from
// an interrupted animation. Inserted sprites become Kept.
func (s *Sprite) withInitial(state snapshot, velocities map[string]float64) *Sprite {
	var out *Sprite
	switch s.typ {
	case SpriteInserted:
		out = newKeptSprite(s.element, s.identifier, &state, s.final, nil)
	case SpriteKept:
		out = newKeptSprite(s.element, s.identifier, &state, s.final, s.counterpart)
	default:
		out = newRemovedSprite(s.element, s.identifier, state)
	}
	out.velocities = velocities
	return out
}

// Element returns the host element the sprite represents. For a Kept sprite
// with a counterpart this is the newly inserted element.
func (s *Sprite) Element() ElementID { return s.element }

// Identifier returns the sprite's identifier.
func (s *Sprite) Identifier() Identifier { return s.identifier }

// Type returns the sprite's classification.
func (s *Sprite) Type() SpriteType { return s.typ }

// InitialBounds returns the bounds at the start of the transition.
func (s *Sprite) InitialBounds() (Bounds, bool) {
	if s.initial == nil {
		return Bounds{}, false
	}
	return s.initial.bounds, true
}

// FinalBounds returns the bounds at the end of the transition.
func (s *Sprite) FinalBounds() (Bounds, bool) {
	if s.final == nil {
		return Bounds{}, false
	}
	return s.final.bounds, true
}

// InitialStyle returns the style at the start of the transition.
func (s *Sprite) InitialStyle() Style {
	if s.initial == nil {
		return nil
	}
	return s.initial.style
}

// FinalStyle returns the style at the end of the transition.
func (s *Sprite) FinalStyle() Style {
	if s.final == nil {
		return nil
	}
	return s.final.style
}

// Counterpart returns the Removed sprite a Kept sprite replaced, or nil for a
// natural same-element update.
func (s *Sprite) Counterpart() *Sprite { return s.counterpart }

// Velocity returns the in-flight velocity of the named property carried over
// from an interrupted animation, or 0.
func (s *Sprite) Velocity(property string) float64 {
	return s.velocities[property]
}

func (s *Sprite) String() string {
	return fmt.Sprintf("%s(%s)", s.typ, s.identifier)
}
