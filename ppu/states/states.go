// Package states holds the small enumerations shared by the PPU scheduler
// and its two fetchers, kept in their own package the way the teacher
// separates ppu/states from ppu so fetcher.go and ppu.go can both import it
// without a cycle.
package states

// Mode is one of the four PPU modes a scanline cycles through.
type Mode int

const (
	// OAMScan is mode 2: the OAM scanner walks all 40 sprites for 80
	// T-cycles building the scanline's sprite buffer.
	OAMScan Mode = iota
	// Draw is mode 3: the background/window and sprite fetchers race
	// pixels into the two FIFOs and the mixer drains them to the display.
	Draw
	// HBlank is mode 0: the scanline pads out to 456 T-cycles.
	HBlank
	// VBlank is mode 1: ten scanlines (144-153) where nothing is drawn.
	VBlank
)

// String renders the mode the way log lines and test failures want it.
func (m Mode) String() string {
	switch m {
	case OAMScan:
		return "OAMScan"
	case Draw:
		return "Draw"
	case HBlank:
		return "HBlank"
	case VBlank:
		return "VBlank"
	default:
		return "Unknown"
	}
}

// State is a fetcher's position in its four-phase (plus Pause) state
// machine. Background and sprite fetchers share this type; the core spec
// defines both as "the same 4-phase shape plus a Pause state" for sprites.
type State int

const (
	// FetchTileNum reads the tile/sprite index byte from the map or OAM.
	FetchTileNum State = iota
	// FetchTileDataLow reads the low bit-plane byte of the tile row.
	FetchTileDataLow
	// FetchTileDataHigh reads the high bit-plane byte and forms 8 pixels.
	FetchTileDataHigh
	// Push2FIFO holds until the target FIFO can accept a full row.
	Push2FIFO
	// Pause is the sprite-fetcher's idle state, and the state a background
	// fetcher is forced into while a sprite fetch preempts the memory port.
	Pause
)

// String renders the state for logging and test failure messages. An
// unrecognized value (there shouldn't be one; the state machine has no
// illegal-state trap per the core spec's error-handling design) renders as
// "Unknown" and is treated as a no-op by callers.
func (s State) String() string {
	switch s {
	case FetchTileNum:
		return "FetchTileNum"
	case FetchTileDataLow:
		return "FetchTileDataLow"
	case FetchTileDataHigh:
		return "FetchTileDataHigh"
	case Push2FIFO:
		return "Push2FIFO"
	case Pause:
		return "Pause"
	default:
		return "Unknown"
	}
}
