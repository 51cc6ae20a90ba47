package ppu

import (
	"github.com/tigris-emu/dmgppu/internal/ppulog"
	"github.com/tigris-emu/dmgppu/memory"
)

var oamLog = ppulog.Sub("oam")

// oamBase is the start of Object Attribute Memory (0xFE00).
const oamBase uint = 0xfe00

// oamScanCycles is how long mode 2 lasts: 80 T-cycles, two per OAM entry
// across all 40 entries.
const oamScanCycles = 80

// OAMScanner implements mode 2: across 80 T-cycles it inspects all 40 OAM
// entries, appending up to 10 qualifying sprites to the scanline's sprite
// buffer, grounded on the same linear-scan shape as the examples pool's
// go-jeebie OAM.GetSpritesForScanline (section 9: "Sprite priority is
// represented as a linear scan for lowest-index hit; use a plain search").
type OAMScanner struct {
	mem memory.Addressable

	yByte uint8
	yHit  bool
}

// NewOAMScanner wires the scanner to the OAM region of the bus.
func NewOAMScanner(mem memory.Addressable) *OAMScanner {
	return &OAMScanner{mem: mem}
}

// AddrOut returns the address requested at T-cycle t (0..79) of mode 2,
// following "request address 0xFE00 + (i<<2) + parity, where parity is
// T[0]".
func AddrOut(t int) (addr uint, valid bool) {
	if t < 0 || t >= oamScanCycles {
		return 0, false
	}
	i := t / 2
	parity := uint(t & 1)
	return oamBase + uint(i)<<2 + parity, true
}

// Tick advances the scan for T-cycle t of mode 2, appending a qualifying
// sprite to buffer when a matching X byte is read.
func (s *OAMScanner) Tick(t int, ly uint8, tall bool, buffer *SpriteBuffer) {
	addr, valid := AddrOut(t)
	if !valid {
		return
	}
	i := t / 2
	parity := t & 1

	lyPlus := uint(ly) + 16
	height := uint(8)
	if tall {
		height = 16
	}

	if parity == 0 {
		s.yByte = s.mem.Read(addr)
		s.yHit = uint(s.yByte) <= lyPlus && lyPlus < uint(s.yByte)+height
		return
	}

	xByte := s.mem.Read(addr)
	if s.yHit && xByte > 0 && !buffer.Full() {
		row := uint8((lyPlus - uint(s.yByte)) & 0xf)
		buffer.Append(SpriteEntry{X: xByte, OAMIndex: uint8(i), Row: row})
	}
}
