package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashNameIsDeterministic(t *testing.T) {
	assert.Equal(t, hashName("LED"), hashName(strings.ToUpper("led")))
	assert.Equal(t, hashName("LED"), hashName("LED"))
}

func TestSymbolTableInsertAndFind(t *testing.T) {
	tbl := newSymbolTable()
	require.NoError(t, tbl.Insert("counter", KindVariable, 4))

	sym, ok := tbl.Find("COUNTER")
	require.True(t, ok)
	assert.Equal(t, "COUNTER", sym.Name)
	assert.Equal(t, KindVariable, sym.Kind)
	assert.Equal(t, uint16(4), sym.Value)

	_, ok = tbl.Find("missing")
	assert.False(t, ok)
}

func TestSymbolTableHashCollisionChain(t *testing.T) {
	tbl := newSymbolTable()
	// "AB" and "BA" hash identically (additive hash), exercising the collision chain.
	require.NoError(t, tbl.Insert("AB", KindCon, 1))
	require.NoError(t, tbl.Insert("BA", KindCon, 2))

	a, ok := tbl.Find("AB")
	require.True(t, ok)
	assert.Equal(t, uint16(1), a.Value)

	b, ok := tbl.Find("BA")
	require.True(t, ok)
	assert.Equal(t, uint16(2), b.Value)
}

func TestSymbolTableModifyValue(t *testing.T) {
	tbl := newSymbolTable()
	require.NoError(t, tbl.Insert("$STAMP", KindDirective, 0))
	assert.True(t, tbl.ModifyValue("$STAMP", uint16(ModuleBS2)))

	sym, _ := tbl.Find("$STAMP")
	assert.Equal(t, uint16(ModuleBS2), sym.Value)

	assert.False(t, tbl.ModifyValue("$NOPE", 1))
}

func TestUndefSymbolTableDeduplicates(t *testing.T) {
	tbl := newUndefSymbolTable()
	require.NoError(t, tbl.Insert("widget"))
	require.NoError(t, tbl.Insert("WIDGET"))

	_, ok := tbl.Find("Widget")
	assert.True(t, ok)
}
