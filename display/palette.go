package display

import "image/color"

// DefaultPalette maps the four 2-bit color indices the core emits to the
// DMG's classic four-shades-of-green look, shared by every image-producing
// sink (display/gif, display/png) so a dumped frame and a live SDL window
// use the same colors. Index order matches color index 0 (lightest) through
// 3 (darkest), following the teacher's screen/gif.go DefaultPalette use.
var DefaultPalette = color.Palette{
	color.RGBA{R: 0x9b, G: 0xbc, B: 0x0f, A: 0xff},
	color.RGBA{R: 0x8b, G: 0xac, B: 0x0f, A: 0xff},
	color.RGBA{R: 0x30, G: 0x62, B: 0x30, A: 0xff},
	color.RGBA{R: 0x0f, G: 0x38, B: 0x0f, A: 0xff},
}
