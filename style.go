package glide

import (
	"maps"
	"strconv"
	"strings"
)

// Style is a snapshot of computed style properties at one instant, keyed by
// CSS-like property name. Snapshots are never mutated after capture; use Clone
// before editing a copy.
type Style map[string]string

// Clone returns an independent copy of s. A nil Style clones to nil.
func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	return maps.Clone(s)
}

// Float parses the named property as a number. Trailing units such as "px",
// "deg" or "%" are ignored. It returns false when the property is missing or
// not numeric.
func (s Style) Float(name string) (float64, bool) {
	raw, ok := s[name]
	if !ok {
		return 0, false
	}
	raw = strings.TrimSpace(raw)
	end := len(raw)
	for end > 0 && !isNumericByte(raw[end-1]) {
		end--
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isNumericByte(c byte) bool {
	return c >= '0' && c <= '9' || c == '.'
}
