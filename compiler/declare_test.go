package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarAllocatorPacksBitsSequentially(t *testing.T) {
	a := newVarAllocator(16)
	addr1, err := a.alloc(8, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, addr1)

	addr2, err := a.alloc(4, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, addr2)
}

func TestVarAllocatorOverflow(t *testing.T) {
	a := newVarAllocator(8)
	_, err := a.alloc(8, 0)
	require.NoError(t, err)

	_, err = a.alloc(1, 0)
	require.Error(t, err)
	assert.Equal(t, codeVarPoolOverflow, err.(*Diagnostic).Code)
}
