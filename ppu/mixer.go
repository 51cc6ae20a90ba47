package ppu

import "github.com/tigris-emu/dmgppu/internal/ppulog"

var mixerLog = ppulog.Sub("mixer")

// Mixer is "PixelFIFO" from section 4.6: it arbitrates the memory port
// between the two fetchers, pops one pixel per FIFO per T-cycle, resolves
// priority, applies the palette, and emits to the display. Grounded on the
// fgPalette==0/bgPalette==0/fgPriority cascade used by the examples pool's
// jchv-bigboy PPU, generalized to operate on the typed FIFOs above instead
// of raw palette index pairs.
type Mixer struct {
	regs *Registers
}

// NewMixer binds a mixer to the shared register file.
func NewMixer(regs *Registers) *Mixer {
	return &Mixer{regs: regs}
}

// Emit pops one pixel from each FIFO (sprite FIFO may have nothing queued),
// resolves priority and palette, and returns the 2-bit display value. It
// reports emitted=false when nothing should be driven to the display this
// cycle: the mixer is paused waiting on a sprite fetch, or the background
// FIFO has nothing queued yet. Whether the LCD is enabled at all is the
// scheduler's concern, not the mixer's: per section 4.6 the scheduler keeps
// popping pixels (so X/mode transitions stay on schedule) even while
// disabled, it just withholds the result from the display sink.
func (m *Mixer) Emit(bg *BackgroundFIFO, sprite *SpriteFIFO, spritePending bool) (pixel uint8, emitted bool) {
	if spritePending {
		return 0, false
	}

	bgColor, bgOk := bg.Pop()
	if !bgOk {
		return 0, false
	}

	var sp SpritePixel
	spriteOk := false
	if sprite != nil {
		sp, spriteOk = sprite.Pop()
	}

	bgOut := func() uint8 {
		if !m.regs.BGWindowEnabled() {
			return Palettize(m.regs.BGP, 0)
		}
		return Palettize(m.regs.BGP, bgColor)
	}

	if !spriteOk || sp.Color == 0 {
		return bgOut(), true
	}

	// sprite_priority, as used by the core spec's resolve step, is "sprite
	// wins" — the negation of the OAM attribute's background-over-sprite
	// bit (BGPriority here).
	spritePriority := !sp.BGPriority
	if !spritePriority && bgColor != 0 {
		return bgOut(), true
	}

	obp := m.regs.OBP0
	if sp.PaletteOBP1 {
		obp = m.regs.OBP1
	}
	return Palettize(obp, sp.Color), true
}
