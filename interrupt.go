package glide

import (
	"fmt"

	"go.uber.org/zap"
)

// IntermediateSprite is the last rendered state of an element whose animation
// was interrupted by a new layout change. The host collects them from its
// running animations before each diff cycle.
type IntermediateSprite struct {
	Identifier Identifier
	Bounds     Bounds
	Style      Style
	// Velocities holds the per-property velocity at the interruption instant,
	// keyed by property name (e.g. "translateX").
	Velocities map[string]float64
	// Handle is the host's native animation handle. glide never touches it; it
	// is returned in an InterruptionPlan.
	Handle any
}

func (s IntermediateSprite) validate() error {
	s.Identifier.mustValidate()
	if _, err := NewBounds(s.Bounds.Element, s.Bounds.Parent); err != nil {
		return fmt.Errorf("intermediate sprite %q: %w", s.Identifier, err)
	}
	return nil
}

// indexIntermediates keys sprites by identifier. When several share one
// identifier the last one supplied wins and the ambiguity is reported.
func indexIntermediates(sprites []IntermediateSprite, logger *zap.Logger, anomaly func(string)) (map[Identifier]IntermediateSprite, error) {
	out := make(map[Identifier]IntermediateSprite, len(sprites))
	for _, s := range sprites {
		if err := s.validate(); err != nil {
			return nil, err
		}
		if _, dup := out[s.Identifier]; dup {
			logger.Warn("multiple intermediate sprites for identifier; using the last one",
				identifierField(s.Identifier))
			anomaly(anomalyAmbiguousIntermediate)
		}
		out[s.Identifier] = s
	}
	return out, nil
}

// InterruptionPlan splits the running animations after a diff cycle. Cancel
// holds the animations whose element is animated again by the new changesets
// (their state was folded into the new sprites); Keep holds the ones that
// should continue playing.
type InterruptionPlan struct {
	Cancel []IntermediateSprite
	Keep   []IntermediateSprite
}

// PlanInterruptions matches running animations against the sprites of the new
// changesets by identifier.
func PlanInterruptions(changesets []*Changeset, running []IntermediateSprite) InterruptionPlan {
	animated := make(map[Identifier]struct{})
	for _, cs := range changesets {
		for _, s := range cs.Sprites() {
			animated[s.Identifier()] = struct{}{}
			if cp := s.Counterpart(); cp != nil {
				animated[cp.Identifier()] = struct{}{}
			}
		}
	}
	var plan InterruptionPlan
	for _, r := range running {
		if _, ok := animated[r.Identifier]; ok {
			plan.Cancel = append(plan.Cancel, r)
			continue
		}
		plan.Keep = append(plan.Keep, r)
	}
	return plan
}
