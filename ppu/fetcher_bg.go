package ppu

import (
	"github.com/tigris-emu/dmgppu/internal/ppulog"
	"github.com/tigris-emu/dmgppu/memory"
	"github.com/tigris-emu/dmgppu/ppu/states"
)

var bgLog = ppulog.Sub("fetcher.bg")

// BackgroundFetcher is the 4-phase (plus Pause) state machine that pulls
// background/window tile rows out of VRAM and pushes them into the
// BackgroundFIFO, generalized from the teacher's ppu/fetcher.go Fetcher
// type (which combined background and sprite fetching in one struct) into
// a background-only machine per the core spec's component split.
type BackgroundFetcher struct {
	mem  memory.Addressable
	regs *Registers
	fifo *BackgroundFIFO

	state states.State
	stall bool // toggles each T-cycle within a 2-cycle phase

	addr uint // address latched during a phase's first half, read on the second

	tileNum  uint8
	tileLow  uint8
	tileHigh uint8

	bgTileX  uint8 // tile column counter while fetching background
	winTileX uint8 // tile column counter while fetching the window
	rowY     uint8 // y-coordinate (pixel row) used for the current tile fetch
	inWindow bool  // whether the in-progress tile fetch is a window tile
}

// NewBackgroundFetcher wires a fetcher to its VRAM bus, shared register
// file, and destination FIFO.
func NewBackgroundFetcher(mem memory.Addressable, regs *Registers, fifo *BackgroundFIFO) *BackgroundFetcher {
	return &BackgroundFetcher{mem: mem, regs: regs, fifo: fifo}
}

// StartScanline resets per-scanline fetch state. Called when Draw begins.
func (f *BackgroundFetcher) StartScanline() {
	f.state = states.FetchTileNum
	f.stall = false
	f.bgTileX = 0
	f.winTileX = 0
	f.fifo.Reset()
}

// Busy reports whether the background fetcher currently owns the memory
// port: "any state other than Pause or a finished Push2FIFO" (section 4.3).
func (f *BackgroundFetcher) Busy() bool {
	return f.state != states.Pause
}

// insideWindow computes "(X + 7) >= WX && LCDC.window_ena && WY_latch".
func insideWindow(regs *Registers, x uint8, wyLatch bool) bool {
	return regs.WindowEnabled() && wyLatch && uint(x)+7 >= uint(regs.WX)
}

// Tick advances the fetcher one T-cycle. x is the scheduler's current draw
// cursor X (pixels already queued in the BackgroundFIFO are not added to
// it); ly is the current scanline; wyLatch is the scheduler's WY_latch;
// spriteHitPending tells the fetcher a sprite wants the bus once this tile
// finishes.
func (f *BackgroundFetcher) Tick(x uint8, ly uint8, wyLatch bool, spriteHitPending bool) {
	switch f.state {
	case states.Pause:
		if !spriteHitPending {
			f.state = states.FetchTileNum
			f.stall = false
		}
		return

	case states.FetchTileNum:
		if !f.stall {
			f.inWindow = insideWindow(f.regs, x, wyLatch)

			var mapBase uint
			var tileX, tileY uint8
			if f.inWindow {
				mapBase = TileMapBase(f.regs.lcdcBit(LCDCWindowTileMapSelect))
				tileX = f.winTileX
				tileY = ly - f.regs.WY
			} else {
				mapBase = TileMapBase(f.regs.lcdcBit(LCDCBGTileMapSelect))
				tileX = (f.regs.SCX>>3 + f.bgTileX) & 0x1f
				tileY = f.regs.SCY + ly
			}
			f.rowY = tileY
			f.addr = mapBase + uint(tileX) + (uint(tileY>>3) << 5)
			f.stall = true
			return
		}
		f.tileNum = f.mem.Read(f.addr)
		f.state = states.FetchTileDataLow
		f.stall = false

	case states.FetchTileDataLow:
		if !f.stall {
			f.addr = f.tileDataRowBase() + uint(f.rowY&7)<<1
			f.stall = true
			return
		}
		f.tileLow = f.mem.Read(f.addr)
		f.state = states.FetchTileDataHigh
		f.stall = false

	case states.FetchTileDataHigh:
		if !f.stall {
			f.addr = f.tileDataRowBase() + (uint(f.rowY&7)<<1 + 1)
			f.stall = true
			return
		}
		f.tileHigh = f.mem.Read(f.addr)
		f.state = states.Push2FIFO
		f.stall = false

	case states.Push2FIFO:
		if !f.fifo.HasRoomForRow() {
			return
		}
		f.fifo.PushRow(formTileRow(f.tileLow, f.tileHigh))
		if f.inWindow {
			f.winTileX = (f.winTileX + 1) & 0x1f
		} else {
			f.bgTileX = (f.bgTileX + 1) & 0x1f
		}
		if spriteHitPending {
			f.state = states.Pause
		} else {
			f.state = states.FetchTileNum
		}
		f.stall = false
	}
}

// tileDataRowBase resolves LCDC.4 addressing: unsigned 0x8000-based, or
// signed 0x9000-based.
func (f *BackgroundFetcher) tileDataRowBase() uint {
	if !f.regs.BGTileDataSigned() {
		return 0x8000 + uint(f.tileNum)<<4
	}
	return uint(int(0x9000) + int(int8(f.tileNum))*16)
}

// formTileRow turns a tile row's two bit-planes into 8 pixel color indices,
// MSB-first: "pixel[i] = (high_byte[7-i] << 1) | low_byte[7-i]".
func formTileRow(low, high uint8) (row [8]uint8) {
	for i := 0; i < 8; i++ {
		bit := uint(7 - i)
		row[i] = ((high>>bit)&1)<<1 | ((low >> bit) & 1)
	}
	return row
}
