package display

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Scale upscales a Width x Height paletted frame by an integer zoom factor
// using nearest-neighbor resampling, the way the SDL sink presents a
// 160x144 frame at a usable window size. The GIF and PNG dumpers write
// unscaled images and do not call it.
// Grounded on golang.org/x/image/draw's Scaler interface rather than
// hand-rolled pixel replication, following the pool's bradford-hamilton-chippy
// and flga-vnes use of the same package for framebuffer upscaling.
func Scale(src *image.Paletted, zoom int) *image.Paletted {
	if zoom <= 1 {
		return src
	}
	dstRect := image.Rect(0, 0, Width*zoom, Height*zoom)
	dst := image.NewPaletted(dstRect, src.Palette)
	xdraw.NearestNeighbor.Scale(dst, dstRect, src, src.Bounds(), draw.Src, nil)
	return dst
}
