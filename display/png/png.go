// Package png dumps VRAM tile data and the current background/window tile
// map to PNG files, generalized from the teacher's PPU.DumpTiles (which
// read tiles directly off its own bespoke VRAM field) to instead drive off
// any ppu.Source reading through the production memory map.
package png

import (
	"bufio"
	"image"
	stdpng "image/png"
	"os"

	"github.com/tigris-emu/dmgppu/display"
	"github.com/tigris-emu/dmgppu/internal/ppulog"
)

var log = ppulog.Sub("png")

// Source is the slice of *ppu.PPU this package needs: reading a tile row's
// two bit-plane bytes and walking the tile map through the same memory port
// the scheduler uses. Declared locally (rather than importing ppu) so this
// package has no dependency on the scheduler's internals beyond what it
// reads.
type Source interface {
	DecodeTileRow(addr uint) [8]uint8
	Read(addr uint) uint8
}

// DumpTiles renders count consecutive 8x8 tiles starting at addr (typically
// 0x8000) into an 8-pixel-wide PNG column, one tile stacked atop the next,
// following the teacher's one-tile-per-row-of-tiles layout.
func DumpTiles(src Source, addr uint, count int, filename string) error {
	img := image.NewPaletted(image.Rect(0, 0, 8, 8*count), display.DefaultPalette)
	offset := 0
	for tile := 0; tile < count; tile++ {
		tileAddr := addr + uint(tile)*16
		for line := 0; line < 8; line++ {
			row := src.DecodeTileRow(tileAddr + uint(line)*2)
			for _, px := range row {
				img.Pix[offset] = px
				offset++
			}
		}
	}
	return writePNG(img, filename)
}

// DumpBackgroundMap renders the 32x32 tile background map at mapBase
// (0x9800 or 0x9c00) into a 256x256 PNG, resolving tile data addressing the
// same way the background fetcher does (signed vs unsigned per LCDC bit 4).
func DumpBackgroundMap(src Source, mapBase uint, tileDataBase uint, signed bool, filename string) error {
	const mapSize = 32
	img := image.NewPaletted(image.Rect(0, 0, mapSize*8, mapSize*8), display.DefaultPalette)

	for ty := 0; ty < mapSize; ty++ {
		for tx := 0; tx < mapSize; tx++ {
			tileNum := src.Read(mapBase + uint(ty)*mapSize + uint(tx))
			var tileAddr uint
			if signed {
				tileAddr = uint(int(tileDataBase) + int(int8(tileNum))*16)
			} else {
				tileAddr = tileDataBase + uint(tileNum)*16
			}
			for line := 0; line < 8; line++ {
				row := src.DecodeTileRow(tileAddr + uint(line)*2)
				for px, colorIdx := range row {
					img.SetColorIndex(tx*8+px, ty*8+line, colorIdx)
				}
			}
		}
	}
	return writePNG(img, filename)
}

func writePNG(img *image.Paletted, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		log.Warnf("creating %s failed: %s", filename, err)
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := stdpng.Encode(w, img); err != nil {
		log.Warnf("encoding %s failed: %s", filename, err)
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	log.Infof("wrote %s", filename)
	return nil
}
