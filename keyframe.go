package glide

import (
	"maps"
	"sort"
)

// PropertyFrame is a frame tagged with the property it animates.
type PropertyFrame struct {
	Property string
	Frame
}

// Keyframe is the merged property bag for one column. Offset runs from 0 to 1
// across the animation.
type Keyframe struct {
	Offset float64
	Values map[string]float64
}

// KeyframeConstructor merges the frames active in a column into the previous
// keyframe. GetKeyframes sets Offset on the result. The active slice is reused
// between calls and must not be retained.
type KeyframeConstructor func(previous Keyframe, active []PropertyFrame) Keyframe

// MergeKeyframe is the default KeyframeConstructor. Properties without an
// active frame keep their previous value.
func MergeKeyframe(previous Keyframe, active []PropertyFrame) Keyframe {
	values := make(map[string]float64, len(previous.Values)+len(active))
	maps.Copy(values, previous.Values)
	for _, f := range active {
		values[f.Property] = f.Value
	}
	return Keyframe{Values: values}
}

// SampleKeyframes interpolates the keyframe values at progress in [0, 1].
// Progress outside the range is clamped. Properties present in only one of
// the surrounding keyframes take that keyframe's value.
func SampleKeyframes(kfs []Keyframe, progress float64) map[string]float64 {
	switch {
	case len(kfs) == 0:
		return nil
	case len(kfs) == 1 || progress <= kfs[0].Offset:
		return maps.Clone(kfs[0].Values)
	case progress >= kfs[len(kfs)-1].Offset:
		return maps.Clone(kfs[len(kfs)-1].Values)
	}

	i := sort.Search(len(kfs), func(i int) bool { return kfs[i].Offset > progress }) - 1
	a, b := kfs[i], kfs[i+1]
	t := 0.0
	if span := b.Offset - a.Offset; span > 0 {
		t = (progress - a.Offset) / span
	}
	out := make(map[string]float64, len(b.Values))
	maps.Copy(out, a.Values)
	for k, vb := range b.Values {
		va, ok := a.Values[k]
		if !ok {
			out[k] = vb
			continue
		}
		out[k] = va + (vb-va)*t
	}
	return out
}
