package compiler

// Element is one lexical token: a kind, a 16-bit payload value, and the source byte
// range it came from. This matches TElementList in the reference tokenizer.
type Element struct {
	Kind   Kind
	Value  uint16
	Start  uint16
	Length byte
}

// ElementList is an insertion-ordered, random-access sequence of elements with a
// logical cancel (tombstone) facility: Cancel marks a range dead without
// shifting indices, so that earlier passes' element-index references (patch list,
// nesting frames, SELECT's remembered expression start) stay valid after preprocessor
// folding removes a conditional-compile block.
type ElementList struct {
	items []Element
	dead  []bool
}

func newElementList() *ElementList {
	return &ElementList{
		items: make([]Element, 0, elementListSize),
		dead:  make([]bool, 0, elementListSize),
	}
}

func (l *ElementList) reset() {
	l.items = l.items[:0]
	l.dead = l.dead[:0]
}

// Append adds an element and returns its index.
func (l *ElementList) Append(e Element) int {
	l.items = append(l.items, e)
	l.dead = append(l.dead, false)
	return len(l.items) - 1
}

func (l *ElementList) Len() int { return len(l.items) }

// At returns the raw element at idx, ignoring cancellation.
func (l *ElementList) At(idx int) Element { return l.items[idx] }

// SetKind rewrites the Kind of an already-lexed element in place, used once a later
// pass resolves what a bare identifier actually denotes (e.g. declareLabels promoting
// an undefined-symbol reference to a resolved label address).
func (l *ElementList) SetKind(idx int, kind Kind) { l.items[idx].Kind = kind }

// Cancel tombstones the half-open range [start, finish).
func (l *ElementList) Cancel(start, finish int) {
	for i := start; i < finish && i < len(l.dead); i++ {
		l.dead[i] = true
	}
}

// IsCancelled reports whether idx has been tombstoned.
func (l *ElementList) IsCancelled(idx int) bool {
	return idx >= 0 && idx < len(l.dead) && l.dead[idx]
}

// NextLive returns the index of the first non-cancelled element at or after idx, or
// Len() if none remains.
func (l *ElementList) NextLive(idx int) int {
	for idx < len(l.items) && l.dead[idx] {
		idx++
	}
	return idx
}

// Void replaces the elements in [start, finish) with KindCancel in place, used when
// parse-stamp is disabled so the $STAMP directive's tokens are syntactically consumed
// but never observed by the directive compiler.
func (l *ElementList) Void(start, finish int) {
	for i := start; i < finish && i < len(l.items); i++ {
		l.items[i].Kind = KindCancel
		l.dead[i] = true
	}
}

// cursor walks live elements of an ElementList, the shape every compiler pass uses to
// scan forward without caring about cancelled tombstones.
type cursor struct {
	list *ElementList
	pos  int
}

func newCursor(list *ElementList) *cursor {
	return &cursor{list: list, pos: list.NextLive(0)}
}

func (c *cursor) atEnd() bool { return c.pos >= c.list.Len() }

// Peek returns the current live element without advancing.
func (c *cursor) Peek() Element {
	if c.atEnd() {
		return Element{Kind: KindEnd}
	}
	return c.list.At(c.pos)
}

// PeekAhead returns the nth live element ahead of the cursor (0 == current) without
// advancing, mirroring PreviewElement's ability to look past the current token.
func (c *cursor) PeekAhead(n int) Element {
	idx := c.pos
	for ; n > 0 && idx < c.list.Len(); n-- {
		idx = c.list.NextLive(idx + 1)
	}
	if idx >= c.list.Len() {
		return Element{Kind: KindEnd}
	}
	return c.list.At(idx)
}

// Next returns the current live element and advances past it.
func (c *cursor) Next() Element {
	e := c.Peek()
	if !c.atEnd() {
		c.pos = c.list.NextLive(c.pos + 1)
	}
	return e
}

// Index returns the element-list index the cursor currently sits at (Len() at end).
func (c *cursor) Index() int { return c.pos }

// Seek repositions the cursor to a previously captured element-list index, skipping
// forward past any tombstones introduced since.
func (c *cursor) Seek(idx int) { c.pos = c.list.NextLive(idx) }
