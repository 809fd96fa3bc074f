package glide

var testParent = Rect{Width: 1000, Height: 1000}

func snap(r Rect, style Style) *snapshot {
	return &snapshot{bounds: Bounds{Element: r, Parent: testParent}, style: style}
}

func testKept(id string, from, to Rect) *Sprite {
	return newKeptSprite(1, Identifier{ID: id}, snap(from, nil), snap(to, nil), nil)
}

func testInserted(id string, r Rect, style Style) *Sprite {
	return newInsertedSprite(1, Identifier{ID: id}, *snap(r, style))
}

func testRemoved(id string, r Rect, style Style) *Sprite {
	return newRemovedSprite(1, Identifier{ID: id}, *snap(r, style))
}
