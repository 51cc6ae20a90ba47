package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpriteBufferCapsAtTen(t *testing.T) {
	var b SpriteBuffer
	for i := 0; i < 15; i++ {
		b.Append(SpriteEntry{X: uint8(i + 1), OAMIndex: uint8(i)})
	}
	require.Equal(t, maxSpritesPerLine, b.Len())
	require.True(t, b.Full())
	require.Len(t, b.Entries(), maxSpritesPerLine)
	require.Equal(t, uint8(0), b.At(0).OAMIndex, "the first 10 appended should survive, not the last")
}

func TestSpriteBufferResetClears(t *testing.T) {
	var b SpriteBuffer
	b.Append(SpriteEntry{X: 10})
	b.Reset()
	require.Equal(t, 0, b.Len())
	require.False(t, b.Full())
}

func TestSpriteEntryPack(t *testing.T) {
	e := SpriteEntry{X: 0xab, OAMIndex: 0x15, Row: 0x0f}
	packed := e.Pack()
	require.Equal(t, uint32(0xab)<<10|uint32(0x15)<<4|uint32(0x0f), packed)
}
