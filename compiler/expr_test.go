package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constExpr(t *testing.T, ctx *Context, elems ...Element) int {
	t.Helper()
	ctx.elements.reset()
	for _, e := range elems {
		ctx.elements.Append(e)
	}
	c := newCursor(ctx.elements)
	v, err := ctx.parseConstExpr(c, 0)
	require.NoError(t, err)
	return v
}

func TestParseConstExprPrecedence(t *testing.T) {
	ctx := newContext()
	// 2 + 3 * 4 == 14
	v := constExpr(t, ctx,
		Element{Kind: KindConstant, Value: 2},
		Element{Kind: KindBinaryOp, Value: uint16(OpAdd)},
		Element{Kind: KindConstant, Value: 3},
		Element{Kind: KindBinaryOp, Value: uint16(OpMul)},
		Element{Kind: KindConstant, Value: 4},
	)
	assert.Equal(t, 14, v)
}

func TestParseConstExprParens(t *testing.T) {
	ctx := newContext()
	// (2 + 3) * 4 == 20
	v := constExpr(t, ctx,
		Element{Kind: KindLeft},
		Element{Kind: KindConstant, Value: 2},
		Element{Kind: KindBinaryOp, Value: uint16(OpAdd)},
		Element{Kind: KindConstant, Value: 3},
		Element{Kind: KindRight},
		Element{Kind: KindBinaryOp, Value: uint16(OpMul)},
		Element{Kind: KindConstant, Value: 4},
	)
	assert.Equal(t, 20, v)
}

func TestParseConstExprDivisionByZero(t *testing.T) {
	ctx := newContext()
	ctx.elements.reset()
	ctx.elements.Append(Element{Kind: KindConstant, Value: 1})
	ctx.elements.Append(Element{Kind: KindBinaryOp, Value: uint16(OpDiv)})
	ctx.elements.Append(Element{Kind: KindConstant, Value: 0})

	c := newCursor(ctx.elements)
	_, err := ctx.parseConstExpr(c, 0)
	require.Error(t, err)
	assert.Equal(t, codeDivisionByZero, err.(*Diagnostic).Code)
}

func TestIllegalCCOperatorRejected(t *testing.T) {
	ctx := newContext()
	ctx.elements.reset()
	ctx.elements.Append(Element{Kind: KindConstant, Value: 7})
	ctx.elements.Append(Element{Kind: KindBinaryOp, Value: uint16(OpMax)})
	ctx.elements.Append(Element{Kind: KindConstant, Value: 3})

	c := newCursor(ctx.elements)
	_, err := ctx.evalCCExpression(c)
	require.Error(t, err)
	assert.Equal(t, codeIllegalCCOperator, err.(*Diagnostic).Code)
}

func TestExpressionBufferEncodingIdempotence(t *testing.T) {
	buf := newExprBuffer()
	require.NoError(t, buf.appendOp(OpAdd, true))
	require.NoError(t, buf.appendOp(OpMul, false))
	first := buf.bytes()

	buf.reset()
	require.NoError(t, buf.appendOp(OpAdd, true))
	require.NoError(t, buf.appendOp(OpMul, false))
	second := buf.bytes()

	assert.Equal(t, first, second)
}
