package compiler

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReservedWordsRejectsBadVersion(t *testing.T) {
	buf := make([]byte, 64)
	_, err := GetReservedWords(ModuleBS2, Dialect(199), buf)
	require.Error(t, err)
	d, ok := err.(*Diagnostic)
	require.True(t, ok)
	assert.Equal(t, codeInvalidPBasicVersion, d.Code)
}

func TestGetReservedWordsAdmitsSPSTROnlyForBS2pFamily(t *testing.T) {
	buf := make([]byte, 1<<16)

	n, err := GetReservedWords(ModuleBS2p, Dialect20, buf)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(buf[:n], []byte("SPSTR\x00")))

	n, err = GetReservedWords(ModuleBS2, Dialect20, buf)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(buf[:n], []byte("SPSTR\x00")))
}

func TestGetReservedWordsAdmitsEXITOnlyForDialect25(t *testing.T) {
	buf := make([]byte, 1<<16)

	n, err := GetReservedWords(ModuleBS2, Dialect25, buf)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(buf[:n], []byte("EXIT\x00")))

	n, err = GetReservedWords(ModuleBS2, Dialect20, buf)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(buf[:n], []byte("EXIT\x00")))
}

func TestGetReservedWordsTerminatesWithExtraNUL(t *testing.T) {
	buf := make([]byte, 1<<16)
	n, err := GetReservedWords(ModuleBS2, Dialect25, buf)
	require.NoError(t, err)
	assert.Equal(t, byte(0), buf[n-1])
}
