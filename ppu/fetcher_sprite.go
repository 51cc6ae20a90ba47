package ppu

import (
	"github.com/tigris-emu/dmgppu/internal/ppulog"
	"github.com/tigris-emu/dmgppu/memory"
	"github.com/tigris-emu/dmgppu/ppu/states"
)

var spriteLog = ppulog.Sub("fetcher.obj")

// spriteOAMBase is the start of Object Attribute Memory.
const spriteOAMBase uint = 0xfe00

// SpriteFetcher is the sprite-side 4-phase (plus Pause) state machine. It
// shares the background fetcher's phase shape (section 4.4: "Same phases as
// background, with differences") but reads OAM instead of a tile map, reads
// an extra attribute byte in parallel, and mixes rather than appends into
// its FIFO.
type SpriteFetcher struct {
	mem  memory.Addressable
	regs *Registers
	fifo *SpriteFIFO

	buffer   *SpriteBuffer
	consumed [maxSpritesPerLine]bool

	state states.State
	stall bool
	addr  uint

	activeEntry SpriteEntry
	tileID      uint8
	flags       uint8
	low, high   uint8
}

// NewSpriteFetcher wires a fetcher to OAM/VRAM, the shared register file,
// and its destination FIFO.
func NewSpriteFetcher(mem memory.Addressable, regs *Registers, fifo *SpriteFIFO) *SpriteFetcher {
	return &SpriteFetcher{mem: mem, regs: regs, fifo: fifo, state: states.Pause}
}

// StartScanline resets per-scanline fetch state and binds the scanline's
// sprite buffer (populated by the OAM scanner during the preceding mode 2).
func (f *SpriteFetcher) StartScanline(buffer *SpriteBuffer) {
	f.state = states.Pause
	f.stall = false
	f.buffer = buffer
	f.fifo.Reset()
	for i := range f.consumed {
		f.consumed[i] = false
	}
}

// Busy reports whether the sprite fetcher currently owns the memory port.
func (f *SpriteFetcher) Busy() bool { return f.state != states.Pause }

// Hit reports whether some not-yet-consumed buffered sprite should trigger
// a fetch at the current draw cursor x: "hit[i] <- sprite_ena && x[i] > 0 &&
// x[i] <= X + 8. The lowest-index hit wins."
func (f *SpriteFetcher) Hit(x uint8) (entry SpriteEntry, index int, ok bool) {
	if !f.regs.SpritesEnabled() || f.buffer == nil {
		return SpriteEntry{}, -1, false
	}
	for i, e := range f.buffer.Entries() {
		if f.consumed[i] {
			continue
		}
		if e.X > 0 && uint(e.X) <= uint(x)+8 {
			return e, i, true
		}
	}
	return SpriteEntry{}, -1, false
}

// Tick advances the fetcher one T-cycle. memFree tells the sprite fetcher
// the background has released the bus (bg_mem_busy == false); x is the
// current draw cursor.
func (f *SpriteFetcher) Tick(x uint8, memFree bool) {
	switch f.state {
	case states.Pause:
		entry, index, ok := f.Hit(x)
		if !ok || !memFree {
			return
		}
		f.consumed[index] = true
		f.activeEntry = entry
		f.state = states.FetchTileNum
		f.stall = false

	case states.FetchTileNum:
		if !f.stall {
			f.addr = spriteOAMBase + uint(f.activeEntry.OAMIndex)<<2 + 2
			f.stall = true
			return
		}
		f.tileID = f.mem.Read(f.addr)
		// Attribute byte fetch happens "in parallel" on OAM's adjacent
		// byte; the real hardware latches it two T-cycles later through a
		// pipeline stage, which here is simply "read it now, it's ready by
		// the time Push2FIFO needs it" since our bus has no extra lag
		// beyond the phase's own two-cycle cadence.
		f.flags = f.mem.Read(spriteOAMBase + uint(f.activeEntry.OAMIndex)<<2 + 3)
		f.state = states.FetchTileDataLow
		f.stall = false

	case states.FetchTileDataLow:
		if !f.stall {
			f.addr = f.rowBase() + uint(f.rowNum())<<1
			f.stall = true
			return
		}
		f.low = f.mem.Read(f.addr)
		f.state = states.FetchTileDataHigh
		f.stall = false

	case states.FetchTileDataHigh:
		if !f.stall {
			f.addr = f.rowBase() + (uint(f.rowNum())<<1 + 1)
			f.stall = true
			return
		}
		f.high = f.mem.Read(f.addr)
		f.state = states.Push2FIFO
		f.stall = false

	case states.Push2FIFO:
		if !f.fifo.HasRoomForRow() {
			return
		}
		f.fifo.MixRow(f.formSpriteRow())
		f.state = states.Pause
		f.stall = false
	}
}

// rowNum resolves vertical mirroring over the sprite's actual height.
func (f *SpriteFetcher) rowNum() uint8 {
	row := f.activeEntry.Row
	if f.flags&SpriteFlipY == 0 {
		return row
	}
	height := uint8(f.regs.SpriteHeight())
	return height - 1 - row
}

// rowBase is the tile data base address; sprites always use unsigned 0x8000
// addressing regardless of LCDC.4 (section 4.4).
func (f *SpriteFetcher) rowBase() uint {
	tileID := f.tileID
	if f.regs.TallSprites() {
		// In 8x16 mode the low bit of the tile index is ignored; hardware
		// always starts from an even tile and walks into its odd pair for
		// the bottom half, expressed here via the doubled row number
		// already spanning 0..15.
		tileID &^= 1
	}
	return 0x8000 + uint(tileID)<<4
}

// formSpriteRow turns the latched bit-planes into 8 SpritePixel entries,
// honoring horizontal mirroring and latching the palette-select/priority
// bits from the attribute byte.
func (f *SpriteFetcher) formSpriteRow() (row [8]SpritePixel) {
	paletteOBP1 := f.flags&SpritePaletteSelect != 0
	bgPriority := f.flags&SpriteBGPriority != 0
	flipX := f.flags&SpriteFlipX != 0

	for i := 0; i < 8; i++ {
		var bit uint
		if flipX {
			bit = uint(i)
		} else {
			bit = uint(7 - i)
		}
		color := ((f.high>>bit)&1)<<1 | ((f.low >> bit) & 1)
		row[i] = SpritePixel{Color: color, PaletteOBP1: paletteOBP1, BGPriority: bgPriority}
	}
	return row
}
