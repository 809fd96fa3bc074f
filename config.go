package glide

import (
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// presetFile is the top-level YAML structure of a presets document.
type presetFile struct {
	Springs map[string]yaml.Node   `yaml:"springs"`
	Linear  map[string]durationCfg `yaml:"linear"`
	Tweens  map[string]tweenCfg    `yaml:"tweens"`
	Static  map[string]durationCfg `yaml:"static"`
}

type durationCfg struct {
	Duration time.Duration `yaml:"duration"`
}

type tweenCfg struct {
	Duration time.Duration `yaml:"duration"`
	Easing   string        `yaml:"easing"`
}

// Presets is a set of named behaviors loaded from configuration.
type Presets struct {
	behaviors map[string]Behavior
}

// LoadPresets parses a YAML presets document:
//
//	springs:
//	  gentle: {stiffness: 120, damping: 14}
//	linear:
//	  fade: {duration: 300ms}
//	tweens:
//	  slide: {duration: 400ms, easing: outCubic}
//	static:
//	  hold: {duration: 200ms}
//
// Spring fields left out keep their DefaultSpringOptions value. Names must be
// unique across all sections.
func LoadPresets(data []byte) (*Presets, error) {
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	p := &Presets{behaviors: make(map[string]Behavior)}
	add := func(name string, b Behavior) error {
		if _, dup := p.behaviors[name]; dup {
			return fmt.Errorf("parse presets: duplicate preset %q: %w", name, ErrInvalidConfig)
		}
		p.behaviors[name] = b
		return nil
	}

	for _, name := range sortedKeys(f.Springs) {
		node := f.Springs[name]
		opts := DefaultSpringOptions()
		if err := node.Decode(&opts); err != nil {
			return nil, fmt.Errorf("parse presets: spring %q: %w", name, err)
		}
		b, err := NewSpringBehavior(opts)
		if err != nil {
			return nil, fmt.Errorf("parse presets: spring %q: %w", name, err)
		}
		if err := add(name, b); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(f.Linear) {
		b, err := NewLinearBehavior(f.Linear[name].Duration)
		if err != nil {
			return nil, fmt.Errorf("parse presets: linear %q: %w", name, err)
		}
		if err := add(name, b); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(f.Tweens) {
		cfg := f.Tweens[name]
		easing := cfg.Easing
		if easing == "" {
			easing = "linear"
		}
		fn, err := EasingByName(easing)
		if err != nil {
			return nil, fmt.Errorf("parse presets: tween %q: %w", name, err)
		}
		b, err := NewTweenBehavior(cfg.Duration, fn)
		if err != nil {
			return nil, fmt.Errorf("parse presets: tween %q: %w", name, err)
		}
		if err := add(name, b); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(f.Static) {
		d := f.Static[name].Duration
		if d < 0 {
			return nil, fmt.Errorf("parse presets: static %q duration %v: %w", name, d, ErrInvalidConfig)
		}
		if err := add(name, &StaticBehavior{Duration: d}); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Behavior returns the named preset.
func (p *Presets) Behavior(name string) (Behavior, error) {
	b, ok := p.behaviors[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownPreset)
	}
	return b, nil
}

// Names returns the preset names in sorted order.
func (p *Presets) Names() []string {
	return sortedKeys(p.behaviors)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- Timeline scripts ---

// Sprite set selectors usable in timeline scripts.
const (
	SelectInserted = "inserted"
	SelectRemoved  = "removed"
	SelectKept     = "kept"
	SelectAll      = "all"
)

// scriptStep is one node of a timeline script. Exactly one field is set.
type scriptStep struct {
	Sequence []scriptStep   `yaml:"sequence,omitempty"`
	Parallel []scriptStep   `yaml:"parallel,omitempty"`
	Motion   *scriptMotion  `yaml:"motion,omitempty"`
	Wait     *time.Duration `yaml:"wait,omitempty"`
}

type scriptMotion struct {
	Sprites    string                    `yaml:"sprites"`
	Properties map[string]scriptProperty `yaml:"properties"`
	Behavior   string                    `yaml:"behavior"`
	Delay      time.Duration             `yaml:"delay"`

	behavior Behavior
}

type scriptProperty struct {
	From *float64 `yaml:"from"`
	To   *float64 `yaml:"to"`
}

// TimelineScript is a declarative timeline loaded from YAML. Resolve binds it
// to a changeset's sprite sets.
type TimelineScript struct {
	root scriptStep
}

// ParseTimelineScript parses a YAML timeline whose motions reference behaviors
// in presets:
//
//	sequence:
//	  - motion: {sprites: removed, properties: {opacity: {}}, behavior: fade}
//	  - wait: 100ms
//	  - parallel:
//	      - motion: {sprites: kept, properties: {position: {}, size: {}}, behavior: gentle}
//	      - motion: {sprites: inserted, properties: {opacity: {from: 0.2}}, behavior: fade}
func ParseTimelineScript(data []byte, presets *Presets) (*TimelineScript, error) {
	var root scriptStep
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse timeline script: %w", err)
	}
	if err := root.bind(presets, "timeline"); err != nil {
		return nil, fmt.Errorf("parse timeline script: %w", err)
	}
	return &TimelineScript{root: root}, nil
}

// bind validates the step tree and resolves behavior presets.
func (s *scriptStep) bind(presets *Presets, path string) error {
	kinds := 0
	if s.Sequence != nil {
		kinds++
	}
	if s.Parallel != nil {
		kinds++
	}
	if s.Motion != nil {
		kinds++
	}
	if s.Wait != nil {
		kinds++
	}
	if kinds != 1 {
		return fmt.Errorf("%s: step must have exactly one of sequence, parallel, motion or wait: %w", path, ErrInvalidConfig)
	}

	switch {
	case s.Sequence != nil:
		for i := range s.Sequence {
			if err := s.Sequence[i].bind(presets, fmt.Sprintf("%s.sequence[%d]", path, i)); err != nil {
				return err
			}
		}
	case s.Parallel != nil:
		for i := range s.Parallel {
			if err := s.Parallel[i].bind(presets, fmt.Sprintf("%s.parallel[%d]", path, i)); err != nil {
				return err
			}
		}
	case s.Motion != nil:
		switch s.Motion.Sprites {
		case SelectInserted, SelectRemoved, SelectKept, SelectAll:
		default:
			return fmt.Errorf("%s.motion: unknown sprite set %q: %w", path, s.Motion.Sprites, ErrInvalidConfig)
		}
		if presets == nil {
			return fmt.Errorf("%s.motion: behavior %q: %w", path, s.Motion.Behavior, ErrUnknownPreset)
		}
		b, err := presets.Behavior(s.Motion.Behavior)
		if err != nil {
			return fmt.Errorf("%s.motion: %w", path, err)
		}
		s.Motion.behavior = b
	case s.Wait != nil:
		if *s.Wait < 0 {
			return fmt.Errorf("%s.wait %v: %w", path, *s.Wait, ErrInvalidConfig)
		}
	}
	return nil
}

// Resolve builds the timeline for cs.
func (ts *TimelineScript) Resolve(cs *Changeset) TimelineItem {
	return ts.root.resolve(cs)
}

// Transition adapts the script to an AnimationContext.Transition.
func (ts *TimelineScript) Transition() TransitionFunc {
	return func(cs *Changeset) (TimelineItem, error) {
		return ts.Resolve(cs), nil
	}
}

func (s *scriptStep) resolve(cs *Changeset) TimelineItem {
	switch {
	case s.Sequence != nil:
		seq := make(Sequence, len(s.Sequence))
		for i := range s.Sequence {
			seq[i] = s.Sequence[i].resolve(cs)
		}
		return seq
	case s.Parallel != nil:
		par := make(Parallel, len(s.Parallel))
		for i := range s.Parallel {
			par[i] = s.Parallel[i].resolve(cs)
		}
		return par
	case s.Wait != nil:
		return Wait(*s.Wait)
	default:
		m := s.Motion
		props := make(map[string]MotionProperty, len(m.Properties))
		for name, p := range m.Properties {
			props[name] = MotionProperty{From: p.From, To: p.To}
		}
		return MotionDefinition{
			Sprites:    selectSprites(cs, m.Sprites),
			Properties: props,
			Timing:     MotionTiming{Behavior: m.behavior, Delay: m.Delay},
		}
	}
}

func selectSprites(cs *Changeset, set string) []*Sprite {
	switch set {
	case SelectInserted:
		return cs.Inserted
	case SelectRemoved:
		return cs.Removed
	case SelectKept:
		return cs.Kept
	default:
		return cs.Sprites()
	}
}
