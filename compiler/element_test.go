package compiler

import "testing"

import "github.com/stretchr/testify/assert"

func TestElementListCancelTombstone(t *testing.T) {
	l := newElementList()
	l.Append(Element{Kind: KindConstant, Value: 1})
	l.Append(Element{Kind: KindConstant, Value: 2})
	l.Append(Element{Kind: KindConstant, Value: 3})

	l.Cancel(1, 2)

	assert.False(t, l.IsCancelled(0))
	assert.True(t, l.IsCancelled(1))
	assert.False(t, l.IsCancelled(2))

	c := newCursor(l)
	assert.Equal(t, uint16(1), c.Next().Value)
	assert.Equal(t, uint16(3), c.Next().Value)
	assert.True(t, c.atEnd())
}

func TestElementListVoidMarksDeadAndCancel(t *testing.T) {
	l := newElementList()
	l.Append(Element{Kind: KindDirective})
	l.Append(Element{Kind: KindTargetModule})
	l.Void(0, 2)

	assert.Equal(t, KindCancel, l.At(0).Kind)
	assert.Equal(t, KindCancel, l.At(1).Kind)
	assert.True(t, l.IsCancelled(0))
	assert.True(t, l.IsCancelled(1))
}

func TestCursorPeekAheadSkipsTombstones(t *testing.T) {
	l := newElementList()
	l.Append(Element{Kind: KindConstant, Value: 10})
	l.Append(Element{Kind: KindConstant, Value: 20})
	l.Append(Element{Kind: KindConstant, Value: 30})
	l.Cancel(1, 2)

	c := newCursor(l)
	assert.Equal(t, uint16(10), c.Peek().Value)
	assert.Equal(t, uint16(30), c.PeekAhead(1).Value)
}
