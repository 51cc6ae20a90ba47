// Package gif implements a display.Display sink that buffers frames into an
// animated GIF, adapted from the teacher's screen/gif.go (which hard-coded a
// ScreenWidth/ScreenHeight/DefaultPalette trio that lived elsewhere in its
// own package; here those come from display.Width/Height/DefaultPalette so
// the recorder, the SDL sink and this dumper all agree on geometry and
// color).
package gif

import (
	"bytes"
	"image"
	stdgif "image/gif"
	"os"

	"github.com/tigris-emu/dmgppu/display"
	"github.com/tigris-emu/dmgppu/internal/ppulog"
)

var log = ppulog.Sub("gif")

// frameDelay is each GIF frame's duration in 100ths of a second, given the
// DMG's ~59.7Hz refresh rate. GIF players handle sub-20ms delays poorly, so
// a floor of 2 (20ms) is applied when a delay is first recorded.
const frameDelay = float32(100) / 59.7

var frameBounds = image.Rectangle{Max: image.Point{X: display.Width, Y: display.Height}}

// Recorder is a Display sink that accumulates pixels into GIF frames and can
// flush them to disk as an animated GIF. Call Write/HBlank/VBlank/Blank the
// same way the PPU core does for a live Display; no external per-frame save
// call is needed, since VBlank closes out each frame itself via saveFrame,
// matching Display's pulse-based contract (section 6 of the core spec).
type Recorder struct {
	stdgif.GIF

	Filename string
	fd       *os.File

	frame     *image.Paletted
	lastFrame *image.Paletted
	delay     float32
	offset    int

	disabled *image.Paletted
}

// New returns an empty Recorder, ready to have frames written and later
// opened/closed to a file.
func New() *Recorder {
	disabled := image.NewPaletted(frameBounds, display.DefaultPalette)
	drawUniform(disabled, disabled.Bounds(), 0)
	middle := disabled.Bounds()
	middle.Min.Y /= 2
	middle.Max.Y = middle.Max.Y/2 + 1
	drawUniform(disabled, middle, 3)

	return &Recorder{
		disabled:  disabled,
		lastFrame: disabled,
		frame:     image.NewPaletted(frameBounds, display.DefaultPalette),
	}
}

func drawUniform(img *image.Paletted, rect image.Rectangle, colorIndex uint8) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetColorIndex(x, y, colorIndex)
		}
	}
}

// Write implements display.Display.
func (r *Recorder) Write(pixel uint8) {
	if r.offset >= len(r.frame.Pix) {
		return
	}
	r.frame.Pix[r.offset] = pixel & 0x3
	r.offset++
}

// HBlank implements display.Display; the GIF sink has no per-scanline work.
func (r *Recorder) HBlank() {}

// Blank implements display.Display by leaving the frame buffer untouched;
// saveFrame below detects the all-zero offset and substitutes the disabled
// placeholder frame.
func (r *Recorder) Blank() {}

// VBlank implements display.Display: it closes out the just-finished frame.
func (r *Recorder) VBlank() {
	r.saveFrame()
}

// saveFrame appends the current frame, or extends the previous frame's delay
// if nothing changed (a common case for idle/disabled screens), following
// the teacher's bytes.Equal dedup.
func (r *Recorder) saveFrame() {
	current := r.frame
	if r.offset == 0 {
		current = r.disabled
	}

	if r.lastFrame != nil && bytes.Equal(current.Pix, r.lastFrame.Pix) && len(r.GIF.Delay) > 0 {
		r.delay += frameDelay
		r.GIF.Delay[len(r.GIF.Delay)-1] = int(r.delay)
	} else {
		r.delay = frameDelay
		r.lastFrame = current
		r.GIF.Image = append(r.GIF.Image, current)
		delay := int(r.delay)
		if delay < 2 {
			delay = 2
		}
		r.GIF.Delay = append(r.GIF.Delay, delay)
		r.frame = image.NewPaletted(frameBounds, display.DefaultPalette)
	}
	r.offset = 0
}

// IsOpen reports whether a file is currently being recorded to.
func (r *Recorder) IsOpen() bool { return r.fd != nil }

// Open starts recording to filename, closing any recording already open.
func (r *Recorder) Open(filename string) error {
	if r.IsOpen() {
		log.Warnf("GIF recording already in progress on %s, closing it", r.Filename)
		r.Close()
	}

	fd, err := os.Create(filename)
	if err != nil {
		log.Warnf("creating GIF failed: %s", err)
		return err
	}

	log.Infof("recording to %s", filename)
	r.GIF = stdgif.GIF{Config: image.Config{ColorModel: display.DefaultPalette, Width: display.Width, Height: display.Height}}
	r.frame = image.NewPaletted(frameBounds, display.DefaultPalette)
	r.lastFrame = nil
	r.Filename = filename
	r.fd = fd
	r.offset = 0
	return nil
}

// Close flushes the buffered frames to disk and releases the file handle.
func (r *Recorder) Close() error {
	r.saveFrame()
	defer func() {
		r.fd.Close()
		r.fd = nil
	}()
	if err := stdgif.EncodeAll(r.fd, &r.GIF); err != nil {
		log.Warnf("encoding GIF failed: %s", err)
		return err
	}
	log.Infof("%d frames dumped to %s", len(r.GIF.Image), r.Filename)
	return nil
}
