package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tigris-emu/dmgppu/memory"
)

func TestAddrOutSequence(t *testing.T) {
	addr, ok := AddrOut(0)
	require.True(t, ok)
	require.Equal(t, uint(0xfe00), addr, "entry 0's Y byte")

	addr, ok = AddrOut(1)
	require.True(t, ok)
	require.Equal(t, uint(0xfe01), addr, "entry 0's X byte")

	addr, ok = AddrOut(2)
	require.True(t, ok)
	require.Equal(t, uint(0xfe04), addr, "entry 1's Y byte")

	_, ok = AddrOut(80)
	require.False(t, ok, "mode 2 only lasts 80 T-cycles")
}

func newOAM() *memory.RAM {
	return memory.NewRAM(0xfe00, 0xa0)
}

func TestOAMScannerQualifiesOverlappingSprite(t *testing.T) {
	oam := newOAM()
	// Entry 0: Y=16 (screen y 0), X=8.
	oam.Write(0xfe00, 16)
	oam.Write(0xfe01, 8)

	scanner := NewOAMScanner(oam)
	var buf SpriteBuffer
	for tcycle := 0; tcycle < oamScanCycles; tcycle++ {
		scanner.Tick(tcycle, 0, false, &buf)
	}

	require.Equal(t, 1, buf.Len())
	require.Equal(t, uint8(8), buf.At(0).X)
	require.Equal(t, uint8(0), buf.At(0).OAMIndex)
	require.Equal(t, uint8(0), buf.At(0).Row)
}

func TestOAMScannerSkipsXZero(t *testing.T) {
	oam := newOAM()
	oam.Write(0xfe00, 16)
	oam.Write(0xfe01, 0) // X=0 means invisible per hardware.

	scanner := NewOAMScanner(oam)
	var buf SpriteBuffer
	for tcycle := 0; tcycle < oamScanCycles; tcycle++ {
		scanner.Tick(tcycle, 0, false, &buf)
	}

	require.Equal(t, 0, buf.Len())
}

func TestOAMScannerTallSpriteExtendsRange(t *testing.T) {
	oam := newOAM()
	oam.Write(0xfe00, 16) // screen y 0
	oam.Write(0xfe01, 20)

	scanner := NewOAMScanner(oam)
	var buf SpriteBuffer
	// Scanline 8 only qualifies in tall (8x16) mode.
	for tcycle := 0; tcycle < oamScanCycles; tcycle++ {
		scanner.Tick(tcycle, 8, true, &buf)
	}
	require.Equal(t, 1, buf.Len())
	require.Equal(t, uint8(8), buf.At(0).Row)
}

func TestOAMScannerStopsAtTenSprites(t *testing.T) {
	oam := newOAM()
	for i := 0; i < 20; i++ {
		oam.Write(0xfe00+uint(i)<<2, 16)
		oam.Write(0xfe00+uint(i)<<2+1, uint8(i+1))
	}

	scanner := NewOAMScanner(oam)
	var buf SpriteBuffer
	for tcycle := 0; tcycle < oamScanCycles; tcycle++ {
		scanner.Tick(tcycle, 0, false, &buf)
	}

	require.Equal(t, maxSpritesPerLine, buf.Len())
}
