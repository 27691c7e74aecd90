package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEEPROMWriteAndReadBitsRoundTrip(t *testing.T) {
	e := newEEPROM()
	addr, err := e.emit(0x1A, 7)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1A), e.readBits(addr, 7))
}

func TestEEPROMReverseAddressing(t *testing.T) {
	e := newEEPROM()
	require.NoError(t, e.writeBits(0, 0xFF, 8, flagProgram))
	// bit-address 0 lands in the last byte of the buffer (reverse addressing).
	assert.Equal(t, byte(0xFF), e.buffer[eepromSize-1])
}

func TestEEPROMDataProgramCollisionDetected(t *testing.T) {
	e := newEEPROM()
	require.NoError(t, e.writeData(0, 0x42))
	err := e.writeBits(0, 1, 1, flagProgram)
	require.Error(t, err)
	d := err.(*Diagnostic)
	assert.Equal(t, codeDataProgramCollision, d.Code)
}

func TestEEPROMSameKindRewriteDoesNotCollide(t *testing.T) {
	e := newEEPROM()
	require.NoError(t, e.writeData(5, 0x01))
	require.NoError(t, e.writeData(5, 0x02))
	assert.Equal(t, byte(0x02), e.buffer[eepromSize-1-5])
}

func TestBuildPacketsSkipsEmptyBlocks(t *testing.T) {
	e := newEEPROM()
	require.NoError(t, e.writeData(0, 0xAB))

	packets := e.buildPackets()
	require.Len(t, packets, 1)
	assert.Equal(t, byte(0x80), packets[0].Header)
	assert.Equal(t, byte(0xAB), packets[0].Payload[0])
}

func TestBuildPacketsChecksumIsTwosComplement(t *testing.T) {
	e := newEEPROM()
	require.NoError(t, e.writeData(0, 0x10))
	packets := e.buildPackets()
	require.Len(t, packets, 1)
	assert.Equal(t, byte(0x80), packets[0].Header)

	var sum byte
	sum += packets[0].Header
	for _, b := range packets[0].Payload {
		sum += b
	}
	sum += packets[0].Checksum
	assert.Equal(t, byte(0), sum)
}
