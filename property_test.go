package glide

import (
	"errors"
	"testing"
)

func tracksByName(t *testing.T, s *Sprite, name string, p MotionProperty) map[string]track {
	t.Helper()
	trs, err := expandProperty(s, name, p)
	if err != nil {
		t.Fatalf("expandProperty(%q): %v", name, err)
	}
	out := make(map[string]track, len(trs))
	for _, tr := range trs {
		out[tr.property] = tr
	}
	return out
}

func TestProperty_PositionIsFlipDelta(t *testing.T) {
	s := testKept("a", Rect{Left: 10, Top: 20, Width: 5, Height: 5}, Rect{Left: 110, Top: 0, Width: 5, Height: 5})
	trs := tracksByName(t, s, PropertyPosition, MotionProperty{})
	if len(trs) != 2 {
		t.Fatalf("position expands to %d tracks, want 2", len(trs))
	}
	if tr := trs[PropertyTranslateX]; tr.from != -100 || tr.to != 0 {
		t.Errorf("translateX = %v → %v, want -100 → 0", tr.from, tr.to)
	}
	if tr := trs[PropertyTranslateY]; tr.from != 20 || tr.to != 0 {
		t.Errorf("translateY = %v → %v, want 20 → 0", tr.from, tr.to)
	}
}

func TestProperty_PositionRelativeToContext(t *testing.T) {
	// The context moved 50 right along with the element: no relative motion.
	s := newKeptSprite(1, Identifier{ID: "a"},
		&snapshot{bounds: Bounds{Element: Rect{Left: 10, Width: 5, Height: 5}, Parent: Rect{}}},
		&snapshot{bounds: Bounds{Element: Rect{Left: 60, Width: 5, Height: 5}, Parent: Rect{Left: 50}}},
		nil)
	if tr := tracksByName(t, s, PropertyTranslateX, MotionProperty{})[PropertyTranslateX]; tr.from != 0 {
		t.Errorf("translateX from = %v, want 0", tr.from)
	}
}

func TestProperty_CounterpartUsesAbsoluteCoordinates(t *testing.T) {
	removed := newRemovedSprite(1, Identifier{ID: "a"}, snapshot{bounds: Bounds{
		Element: Rect{Left: 10, Width: 5, Height: 5}, Parent: Rect{Left: 0},
	}})
	s := newKeptSprite(2, Identifier{ID: "a"}, removed.initial,
		&snapshot{bounds: Bounds{Element: Rect{Left: 310, Width: 5, Height: 5}, Parent: Rect{Left: 300}}},
		removed)
	if tr := tracksByName(t, s, PropertyTranslateX, MotionProperty{})[PropertyTranslateX]; tr.from != -300 {
		t.Errorf("translateX from = %v, want -300", tr.from)
	}
}

func TestProperty_Size(t *testing.T) {
	s := testKept("a", Rect{Width: 10, Height: 20}, Rect{Width: 30, Height: 40})
	trs := tracksByName(t, s, PropertySize, MotionProperty{})
	if tr := trs[PropertyWidth]; tr.from != 10 || tr.to != 30 {
		t.Errorf("width = %v → %v, want 10 → 30", tr.from, tr.to)
	}
	if tr := trs[PropertyHeight]; tr.from != 20 || tr.to != 40 {
		t.Errorf("height = %v → %v, want 20 → 40", tr.from, tr.to)
	}

	ins := testInserted("b", Rect{Width: 7, Height: 7}, nil)
	if tr := tracksByName(t, ins, PropertyWidth, MotionProperty{})[PropertyWidth]; tr.from != 7 || tr.to != 7 {
		t.Errorf("inserted width = %v → %v, want 7 → 7", tr.from, tr.to)
	}
}

func TestProperty_Opacity(t *testing.T) {
	tests := []struct {
		name     string
		s        *Sprite
		from, to float64
	}{
		{"inserted", testInserted("a", Rect{}, nil), 0, 1},
		{"inserted styled", testInserted("a", Rect{}, Style{"opacity": "0.8"}), 0, 0.8},
		{"removed", testRemoved("a", Rect{}, Style{"opacity": "0.5"}), 0.5, 0},
		{"kept", newKeptSprite(1, Identifier{ID: "a"}, snap(Rect{}, Style{"opacity": "0.2"}), snap(Rect{}, nil), nil), 0.2, 1},
	}
	for _, tt := range tests {
		tr := tracksByName(t, tt.s, PropertyOpacity, MotionProperty{})[PropertyOpacity]
		if tr.from != tt.from || tr.to != tt.to {
			t.Errorf("%s: opacity = %v → %v, want %v → %v", tt.name, tr.from, tr.to, tt.from, tt.to)
		}
	}
}

func TestProperty_StyleValue(t *testing.T) {
	s := newKeptSprite(1, Identifier{ID: "a"},
		snap(Rect{}, Style{"rotate": "10deg"}), snap(Rect{}, Style{"rotate": "90deg"}), nil)
	if tr := tracksByName(t, s, "rotate", MotionProperty{})["rotate"]; tr.from != 10 || tr.to != 90 {
		t.Errorf("rotate = %v → %v, want 10 → 90", tr.from, tr.to)
	}

	_, err := expandProperty(s, "blur", MotionProperty{})
	if !errors.Is(err, ErrMissingValue) {
		t.Errorf("missing style value: err = %v, want ErrMissingValue", err)
	}
	// Explicit endpoints make the style value unnecessary.
	tr := tracksByName(t, s, "blur", MotionProperty{From: Float(0), To: Float(4)})["blur"]
	if tr.from != 0 || tr.to != 4 {
		t.Errorf("blur = %v → %v, want 0 → 4", tr.from, tr.to)
	}
}

func TestProperty_Overrides(t *testing.T) {
	s := testKept("a", Rect{Left: 0}, Rect{Left: 50})
	tr := tracksByName(t, s, PropertyTranslateX, MotionProperty{To: Float(10)})[PropertyTranslateX]
	if tr.from != -50 || tr.to != 10 {
		t.Errorf("translateX = %v → %v, want -50 → 10", tr.from, tr.to)
	}

	_, err := expandProperty(s, PropertyPosition, MotionProperty{From: Float(1)})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("override on shorthand: err = %v, want ErrInvalidConfig", err)
	}
}
