package glide

import "go.uber.org/zap"

// debugMaxTreeDepth is the sprite tree depth above which debug mode warns.
const debugMaxTreeDepth = 32

// debugCheckTreeDepth warns if ref sits deeper than debugMaxTreeDepth.
func (t *SpriteTree) debugCheckTreeDepth(ref NodeRef) {
	depth := 0
	for p := ref; t.valid(p); p = t.nodes[p].parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		t.logger.Warn("sprite tree depth exceeds threshold",
			elementField(t.nodes[ref].element),
			zap.Int("depth", depth),
			zap.Int("threshold", debugMaxTreeDepth))
	}
}

// debugMaxChildCount is the number of children above which debug mode warns.
const debugMaxChildCount = 1000

func (t *SpriteTree) debugCheckChildCount(ref NodeRef) {
	if n := len(t.nodes[ref].children); n > debugMaxChildCount {
		t.logger.Warn("sprite tree node has too many children",
			elementField(t.nodes[ref].element),
			zap.Int("children", n),
			zap.Int("threshold", debugMaxChildCount))
	}
}

// SetDebug enables or disables debug-mode shape checks on commit.
func (t *SpriteTree) SetDebug(enabled bool) {
	t.debug = enabled
}
