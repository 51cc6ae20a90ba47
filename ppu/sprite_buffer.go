package ppu

// maxSpritesPerLine is the hardware limit on sprites buffered per scanline
// (section 3's sprite buffer invariant: "length <= 10").
const maxSpritesPerLine = 10

// SpriteEntry is the OAM scanner's packed per-sprite record: X position,
// OAM index and row-within-sprite, matching the data model's authoritative
// "18-bit packed {x, oam_index, row}" layout (section 9's open question
// resolves the narrower draft widths in favor of this one).
type SpriteEntry struct {
	X         uint8 // raw OAM X byte, 0 means invisible and is never buffered
	OAMIndex  uint8 // 0..39, used for OAM-order priority ties
	Row       uint8 // row within the sprite, 0..15
}

// Pack encodes the entry into the authoritative 18-bit layout
// {x[7:0], oam_index[5:0], row[3:0]} for callers that want the wire form.
func (e SpriteEntry) Pack() uint32 {
	return uint32(e.X)<<10 | uint32(e.OAMIndex&0x3f)<<4 | uint32(e.Row&0xf)
}

// SpriteBuffer is the ordered, at-most-10-entry sequence of sprites
// qualifying for the current scanline.
type SpriteBuffer struct {
	entries [maxSpritesPerLine]SpriteEntry
	count   int
}

// Reset clears the buffer, done "at start of OAMScan".
func (b *SpriteBuffer) Reset() { b.count = 0 }

// Len reports how many sprites are currently buffered.
func (b *SpriteBuffer) Len() int { return b.count }

// Full reports whether the hardware limit has been reached.
func (b *SpriteBuffer) Full() bool { return b.count >= maxSpritesPerLine }

// Append adds an entry if there is room, silently dropping it otherwise
// (section 7: "The OAM scanner silently drops sprites beyond the 10-per-line
// limit").
func (b *SpriteBuffer) Append(e SpriteEntry) {
	if b.Full() {
		return
	}
	b.entries[b.count] = e
	b.count++
}

// At returns the i'th buffered entry. Callers must keep i < Len().
func (b *SpriteBuffer) At(i int) SpriteEntry { return b.entries[i] }

// Entries returns the currently buffered entries as a slice view; the slice
// is only valid until the next Reset/Append.
func (b *SpriteBuffer) Entries() []SpriteEntry { return b.entries[:b.count] }
