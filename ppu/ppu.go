// Package ppu implements the Game Boy's Pixel Processing Unit core: the mode
// scheduler, OAM scanner, background/window and sprite fetchers, their two
// FIFOs, and the mixer that resolves priority and palette before handing
// pixels to a display.Display sink. Adapted from the teacher's ppu.go/
// fetcher.go (which combined all of this into one partially-stubbed state
// machine) by splitting each piece out into the component shape the core
// spec describes.
package ppu

import (
	"github.com/tigris-emu/dmgppu/display"
	"github.com/tigris-emu/dmgppu/internal/ppulog"
	"github.com/tigris-emu/dmgppu/memory"
	"github.com/tigris-emu/dmgppu/ppu/states"
)

var log = ppulog.Sub("ppu")

// Timing constants from section 8's universal invariants.
const (
	TCyclesPerScanline = 456
	ScanlinesPerFrame  = 154
	VisibleScanlines   = 144
)

// statCode maps our internal Mode enumeration onto the hardware's STAT
// mode encoding (0=HBlank, 1=VBlank, 2=OAMScan, 3=Draw), kept distinct from
// states.Mode's own ordering so the two can evolve independently.
func statCode(m states.Mode) uint8 {
	switch m {
	case states.HBlank:
		return 0
	case states.VBlank:
		return 1
	case states.OAMScan:
		return 2
	case states.Draw:
		return 3
	default:
		return 0
	}
}

// PPU is the top-level scheduler from section 4.1: it owns LY/X/T/mode,
// routes the memory port to whichever child owns it, and exposes the
// register file, STAT/HBlank/VBlank signals described in section 6.
type PPU struct {
	Registers

	Mem     *memory.MMU
	Display display.Display

	Mode    states.Mode
	X       uint8
	T       int
	WYLatch bool

	SpriteBuf SpriteBuffer

	oam *OAMScanner
	bg  *BackgroundFetcher
	obj *SpriteFetcher

	bgFIFO  BackgroundFIFO
	objFIFO SpriteFIFO
	mixer   *Mixer

	// ModeChanged and CoincidenceNow are edge signals for the "STAT
	// interrupt line sources" supplemented feature (SPEC_FULL section 3):
	// the core spec's Non-goals exclude an interrupt controller, not the
	// level/edge signals STAT already defines.
	ModeChanged     bool
	CoincidenceNow  bool
	prevCoincidence bool
}

// New builds a PPU with its own VRAM/OAM backing memory and register file,
// wired to the given display sink, following the teacher's New()'s
// memory.NewMMU/Add wiring of registers + VRAM + OAM regions.
func New(disp display.Display) *PPU {
	p := &PPU{Display: disp}

	regs := memory.Registers{
		0xff40: &p.LCDC,
		0xff41: &p.STAT,
		0xff42: &p.SCY,
		0xff43: &p.SCX,
		0xff44: &p.LY,
		0xff45: &p.LYC,
		0xff47: &p.BGP,
		0xff48: &p.OBP0,
		0xff49: &p.OBP1,
		0xff4a: &p.WY,
		0xff4b: &p.WX,
	}
	vram := memory.NewVRAM(0x8000, 0x2000)
	oam := memory.NewVRAM(0xfe00, 0xa0)

	p.Mem = memory.NewMMU([]memory.Addressable{regs, vram, oam})
	p.oam = NewOAMScanner(p.Mem)
	p.bg = NewBackgroundFetcher(p.Mem, &p.Registers, &p.bgFIFO)
	p.obj = NewSpriteFetcher(p.Mem, &p.Registers, &p.objFIFO)
	p.mixer = NewMixer(&p.Registers)

	p.Reset()
	return p
}

// Reset reinitializes all counters and mode to OAMScan with LY=0, per
// section 5's cancellation/timeout note: "Reset reinitializes all counters
// and mode to OAMScan with LY=0." Two consecutive resets equal one
// (section 8's idempotence property): every field here is set
// unconditionally, none depend on prior state.
func (p *PPU) Reset() {
	p.Mode = states.OAMScan
	p.LY = 0
	p.X = 0
	p.T = 0
	p.WYLatch = false
	p.SpriteBuf.Reset()
	p.bgFIFO.Reset()
	p.objFIFO.Reset()
	p.SetMode(statCode(states.OAMScan))
	p.prevCoincidence = false
	p.CoincidenceNow = false
	p.ModeChanged = false
}

// FrameCycles is the fixed number of T-cycles in one frame: 456*154 =
// 70224 (section 8's first universal invariant).
func FrameCycles() int { return TCyclesPerScanline * ScanlinesPerFrame }

// FramesPerSecond is the DMG's nominal refresh rate, derived from the
// 4.194304MHz T-cycle clock / FrameCycles() (about 59.73).
func FramesPerSecond() float64 {
	const dmgClockHz = 4194304.0
	return dmgClockHz / float64(FrameCycles())
}

// Tick advances the PPU one T-cycle, per the core spec's dataflow model:
// scheduler mode is sampled first, the active child issues its memory
// request and fetchers advance on the previous tick's data, then mode
// transitions are evaluated.
func (p *PPU) Tick() {
	p.ModeChanged = false

	if !p.WYLatch && p.WY == p.LY {
		p.WYLatch = true
	}

	pixelPushed := false
	switch p.Mode {
	case states.OAMScan:
		p.oam.Tick(p.T, p.LY, p.TallSprites(), &p.SpriteBuf)
	case states.Draw:
		pixelPushed = p.stepDraw()
	}

	p.evaluateTransition(pixelPushed)
	p.updateCoincidence()

	p.T++
	if p.T >= TCyclesPerScanline {
		p.T = 0
	}
}

// stepDraw runs one T-cycle of mode 3: arbitrate the memory port between
// the two fetchers, tick whichever owns it (the background fetcher always
// ticks; the sprite fetcher only does real work once triggered), and try
// to emit a pixel. A disabled LCD still runs this whole machine so LY/T
// stay defined, but per section 4.6 emits no pixel to the display.
func (p *PPU) stepDraw() (pixelPushed bool) {
	_, _, hit := p.obj.Hit(p.X)
	spritePending := hit || p.obj.Busy()

	p.bg.Tick(p.X, p.LY, p.WYLatch, spritePending)
	p.obj.Tick(p.X, !p.bg.Busy())

	// Re-evaluate after ticking: a fetch that just finished this cycle
	// releases the port immediately, so the mixer should not wait an
	// extra cycle for it.
	spritePending = p.obj.Busy()

	pixel, emitted := p.mixer.Emit(&p.bgFIFO, &p.objFIFO, spritePending)
	if !emitted {
		return false
	}
	if p.Enabled() {
		p.Display.Write(pixel)
	} else {
		p.Display.Blank()
	}
	p.X++
	return true
}

// evaluateTransition implements the mode transition table from section 4.1.
func (p *PPU) evaluateTransition(pixelPushed bool) {
	switch p.Mode {
	case states.OAMScan:
		if p.T == oamScanCycles-1 {
			p.enterDraw()
		}

	case states.Draw:
		if pixelPushed && p.X == display.Width {
			p.enterHBlank()
		}

	case states.HBlank:
		if p.T == TCyclesPerScanline-1 {
			wasLastVisible := p.LY == VisibleScanlines-1
			p.LY++
			if wasLastVisible {
				p.enterVBlank()
			} else {
				p.enterOAMScan()
			}
		}

	case states.VBlank:
		if p.T == TCyclesPerScanline-1 {
			if p.LY == ScanlinesPerFrame-1 {
				p.LY = 0
				p.enterOAMScan()
			} else {
				p.LY++
			}
		}
	}
}

func (p *PPU) enterOAMScan() {
	p.Mode = states.OAMScan
	p.ModeChanged = true
	p.SpriteBuf.Reset()
	p.SetMode(statCode(states.OAMScan))
}

func (p *PPU) enterDraw() {
	p.Mode = states.Draw
	p.ModeChanged = true
	p.X = 0
	p.bg.StartScanline()
	p.obj.StartScanline(&p.SpriteBuf)
	p.SetMode(statCode(states.Draw))
}

func (p *PPU) enterHBlank() {
	p.Mode = states.HBlank
	p.ModeChanged = true
	p.SetMode(statCode(states.HBlank))
	p.Display.HBlank()
}

func (p *PPU) enterVBlank() {
	p.Mode = states.VBlank
	p.ModeChanged = true
	p.WYLatch = false
	p.SetMode(statCode(states.VBlank))
	p.Display.VBlank()
}

func (p *PPU) updateCoincidence() {
	hit := p.LY == p.LYC
	p.CoincidenceNow = hit && !p.prevCoincidence
	p.prevCoincidence = hit
	p.SetCoincidence(hit)
}

// Read exposes the PPU's memory map for external callers (CPU register
// writes, test setup) the way the teacher's PPU.Read forwards to its MMU.
func (p *PPU) Read(addr uint) uint8 { return p.Mem.Read(addr) }

// Write exposes the PPU's memory map for external callers.
func (p *PPU) Write(addr uint, value uint8) { p.Mem.Write(addr, value) }

// DecodeTileRow reads one tile row's two bit-plane bytes at addr and
// returns its 8 color indices, generalizing the teacher's PPU.Decode to
// operate on the production memory map instead of a bespoke direct read.
func (p *PPU) DecodeTileRow(addr uint) [8]uint8 {
	low := p.Mem.Read(addr)
	high := p.Mem.Read(addr + 1)
	return formTileRow(low, high)
}
