// Package sdl implements a real-time display.Display sink backed by an SDL2
// window, adapted from the teacher's screen/ui.go: the window/texture/font
// plumbing is the same shape, but the overlay now shows PPU scheduler state
// (mode, LY, sprite count) instead of free-form UI messages, per this
// module's supplemented debug-overlay feature.
package sdl

import (
	"fmt"
	"image"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"

	"github.com/tigris-emu/dmgppu/display"
	"github.com/tigris-emu/dmgppu/internal/ppulog"
)

var log = ppulog.Sub("sdl")

// overlayMargin is the space in pixels between the window border and the
// status line, carried over from the teacher's UIMargin.
const overlayMargin = 2

// Window is a display.Display sink that blits the PPU's pixel stream into a
// real SDL2 window, scaled by an integer zoom factor, with an optional
// status line overlay.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	zoom     int

	frame  [display.Width * display.Height]uint8
	offset int

	overlayEnabled bool
	font           *ttf.Font
	status         string
}

// New creates an SDL2 window of size (Width*zoom, Height*zoom) and a
// renderer/texture pair to blit scaled frames into. fontPath may be empty to
// disable the status overlay (e.g. when go-sdl2/ttf's font file isn't
// available on the host).
func New(title string, zoom int, fontPath string) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	w, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(display.Width*zoom), int32(display.Height*zoom), sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	r, err := sdl.CreateRenderer(w, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		w.Destroy()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	texture, err := r.CreateTexture(sdl.PIXELFORMAT_RGBA8888, sdl.TEXTUREACCESS_STREAMING,
		int32(display.Width*zoom), int32(display.Height*zoom))
	if err != nil {
		r.Destroy()
		w.Destroy()
		return nil, fmt.Errorf("create texture: %w", err)
	}

	win := &Window{window: w, renderer: r, texture: texture, zoom: zoom}

	if fontPath != "" {
		if err := ttf.Init(); err != nil {
			log.Warnf("ttf init failed, overlay disabled: %s", err)
			return win, nil
		}
		font, err := ttf.OpenFont(fontPath, 8*zoom)
		if err != nil {
			log.Warnf("opening font %s failed, overlay disabled: %s", fontPath, err)
			return win, nil
		}
		win.font = font
		win.overlayEnabled = true
	}

	return win, nil
}

// Write implements display.Display.
func (w *Window) Write(pixel uint8) {
	if w.offset >= len(w.frame) {
		return
	}
	w.frame[w.offset] = pixel & 0x3
	w.offset++
}

// HBlank implements display.Display; the SDL sink has no per-scanline work.
func (w *Window) HBlank() {}

// Blank implements display.Display by presenting an all-white frame.
func (w *Window) Blank() {
	for i := range w.frame {
		w.frame[i] = 0
	}
	w.present()
}

// VBlank implements display.Display: it presents the completed frame and
// resets the write cursor.
func (w *Window) VBlank() {
	w.present()
	w.offset = 0
}

// SetStatus updates the overlay's status line: callers read the scheduler's
// Mode/LY/SpriteBuf and hand them to this once per frame.
func (w *Window) SetStatus(mode string, ly uint8, spriteCount int) {
	w.status = fmt.Sprintf("%s LY=%d obj=%d", mode, ly, spriteCount)
}

// present converts the raw 2-bit frame buffer to an RGBA image, scales it by
// the configured zoom, blits it to the texture, draws the overlay if
// enabled, and presents the renderer.
func (w *Window) present() {
	img := image.NewPaletted(image.Rect(0, 0, display.Width, display.Height), display.DefaultPalette)
	copy(img.Pix, w.frame[:])
	scaled := display.Scale(img, w.zoom)

	pitch := scaled.Bounds().Dx() * 4
	pixels := make([]byte, pitch*scaled.Bounds().Dy())
	for i, idx := range scaled.Pix {
		r, g, b, a := scaled.Palette[idx].RGBA()
		pixels[i*4] = byte(r >> 8)
		pixels[i*4+1] = byte(g >> 8)
		pixels[i*4+2] = byte(b >> 8)
		pixels[i*4+3] = byte(a >> 8)
	}
	w.texture.Update(nil, pixels, pitch)

	w.renderer.Clear()
	w.renderer.Copy(w.texture, nil, nil)
	w.renderOverlay()
	w.renderer.Present()
}

func (w *Window) renderOverlay() {
	if !w.overlayEnabled || w.status == "" {
		return
	}
	surf, err := w.font.RenderUTF8Solid(w.status, sdl.Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	if err != nil {
		return
	}
	defer surf.Free()
	tex, err := w.renderer.CreateTextureFromSurface(surf)
	if err != nil {
		return
	}
	defer tex.Destroy()
	viewport := w.renderer.GetViewport()
	y := viewport.H - int32(w.font.Height()) - overlayMargin
	w.renderer.Copy(tex, nil, &sdl.Rect{X: overlayMargin, Y: y, W: surf.W, H: surf.H})
}

// Close releases the window's SDL resources.
func (w *Window) Close() {
	if w.font != nil {
		w.font.Close()
	}
	w.texture.Destroy()
	w.renderer.Destroy()
	w.window.Destroy()
}
