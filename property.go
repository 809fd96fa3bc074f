package glide

import (
	"fmt"
	"sort"
)

// Property names understood by motion definitions. Any other name is read as a
// numeric style property.
const (
	PropertyPosition   = "position" // shorthand for translateX + translateY
	PropertySize       = "size"     // shorthand for width + height
	PropertyTranslateX = "translateX"
	PropertyTranslateY = "translateY"
	PropertyWidth      = "width"
	PropertyHeight     = "height"
	PropertyOpacity    = "opacity"
)

// MotionProperty configures one animated property. Nil From/To are derived
// from the sprite's captured state.
type MotionProperty struct {
	From, To *float64
	// PreviousFrames are the remaining frames of an interrupted animation of
	// this property, handed to the behavior as PreviousFramesFromTime.
	PreviousFrames []Frame
}

// Float returns a pointer to v, for MotionProperty.From and To.
func Float(v float64) *float64 { return &v }

// track is a resolved single-value property transition.
type track struct {
	property string
	from, to float64
}

// expandProperty resolves name for s into one or more tracks.
func expandProperty(s *Sprite, name string, p MotionProperty) ([]track, error) {
	switch name {
	case PropertyPosition, PropertySize:
		if p.From != nil || p.To != nil {
			return nil, fmt.Errorf("%s: from/to overrides need the individual properties: %w", name, ErrInvalidConfig)
		}
		parts := [2]string{PropertyTranslateX, PropertyTranslateY}
		if name == PropertySize {
			parts = [2]string{PropertyWidth, PropertyHeight}
		}
		out := make([]track, 0, 2)
		for _, part := range parts {
			tr, err := resolveTrack(s, part, p)
			if err != nil {
				return nil, err
			}
			out = append(out, tr)
		}
		return out, nil
	default:
		tr, err := resolveTrack(s, name, p)
		if err != nil {
			return nil, err
		}
		return []track{tr}, nil
	}
}

func resolveTrack(s *Sprite, name string, p MotionProperty) (track, error) {
	from, to, err := derivedRange(s, name)
	if err != nil && (p.From == nil || p.To == nil) {
		return track{}, err
	}
	if p.From != nil {
		from = *p.From
	}
	if p.To != nil {
		to = *p.To
	}
	return track{property: name, from: from, to: to}, nil
}

// derivedRange computes the natural from/to of a property for s.
func derivedRange(s *Sprite, name string) (from, to float64, err error) {
	switch name {
	case PropertyTranslateX, PropertyTranslateY:
		if s.Type() != SpriteKept {
			return 0, 0, nil
		}
		initial, final := flipRects(s)
		if name == PropertyTranslateX {
			return initial.Left - final.Left, 0, nil
		}
		return initial.Top - final.Top, 0, nil

	case PropertyWidth, PropertyHeight:
		initial, final := s.initial, s.final
		if initial == nil {
			initial = final
		}
		if final == nil {
			final = initial
		}
		if name == PropertyWidth {
			return initial.bounds.Element.Width, final.bounds.Element.Width, nil
		}
		return initial.bounds.Element.Height, final.bounds.Element.Height, nil

	case PropertyOpacity:
		switch s.Type() {
		case SpriteInserted:
			return 0, styleOr(s.FinalStyle(), PropertyOpacity, 1), nil
		case SpriteRemoved:
			return styleOr(s.InitialStyle(), PropertyOpacity, 1), 0, nil
		default:
			return styleOr(s.InitialStyle(), PropertyOpacity, 1), styleOr(s.FinalStyle(), PropertyOpacity, 1), nil
		}

	default:
		initial, final := s.InitialStyle(), s.FinalStyle()
		if initial == nil {
			initial = final
		}
		if final == nil {
			final = initial
		}
		f, okFrom := initial.Float(name)
		t, okTo := final.Float(name)
		if !okFrom || !okTo {
			return 0, 0, fmt.Errorf("sprite %s property %q: %w", s, name, ErrMissingValue)
		}
		return f, t, nil
	}
}

// flipRects returns the rectangles used for translate deltas. Sprites that
// moved between contexts are compared in absolute coordinates; everything
// else relative to its context so a moving context does not double-count.
func flipRects(s *Sprite) (initial, final Rect) {
	if s.Counterpart() != nil {
		return s.initial.bounds.Element, s.final.bounds.Element
	}
	return s.initial.bounds.Relative(), s.final.bounds.Relative()
}

func styleOr(st Style, name string, fallback float64) float64 {
	if v, ok := st.Float(name); ok {
		return v
	}
	return fallback
}

// sortedPropertyNames returns the keys of props in a stable order so matrix
// rows are deterministic.
func sortedPropertyNames(props map[string]MotionProperty) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
