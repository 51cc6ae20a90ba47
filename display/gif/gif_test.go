package gif

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tigris-emu/dmgppu/display"
)

func fillFrame(r *Recorder, colorIndex uint8) {
	for i := 0; i < display.Width*display.Height; i++ {
		r.Write(colorIndex)
	}
}

func TestNewRecorderStartsWithDisabledAsLastFrame(t *testing.T) {
	r := New()
	require.NotNil(t, r.lastFrame)
	require.Equal(t, r.disabled, r.lastFrame)
}

func TestWriteIgnoresOverflow(t *testing.T) {
	r := New()
	fillFrame(r, 1)
	require.NotPanics(t, func() { r.Write(2) })
	require.Equal(t, uint8(1), r.frame.Pix[0])
}

func TestSaveFrameAppendsDistinctFrames(t *testing.T) {
	r := New()
	fillFrame(r, 1)
	r.VBlank()
	require.Len(t, r.GIF.Image, 1)

	fillFrame(r, 2)
	r.VBlank()
	require.Len(t, r.GIF.Image, 2)
}

func TestSaveFrameExtendsDelayOnRepeat(t *testing.T) {
	r := New()
	fillFrame(r, 1)
	r.VBlank()
	require.Len(t, r.GIF.Delay, 1)
	firstDelay := r.GIF.Delay[0]

	fillFrame(r, 1)
	r.VBlank()
	require.Len(t, r.GIF.Image, 1, "identical frame should extend delay, not append")
	require.Greater(t, r.GIF.Delay[0], firstDelay)
}

func TestBlankSubstitutesDisabledFrame(t *testing.T) {
	r := New()
	r.Blank()
	r.VBlank()
	require.Len(t, r.GIF.Image, 1)
	require.Equal(t, r.disabled.Pix, r.GIF.Image[0].Pix)
}

func TestOpenCloseWritesFile(t *testing.T) {
	r := New()
	path := filepath.Join(t.TempDir(), "out.gif")
	require.NoError(t, r.Open(path))
	require.True(t, r.IsOpen())

	fillFrame(r, 3)
	r.VBlank()

	require.NoError(t, r.Close())
	require.False(t, r.IsOpen())

	_, statErr := os.Stat(path)
	require.NoError(t, statErr)
}

func TestReopenClosesPriorRecording(t *testing.T) {
	r := New()
	first := filepath.Join(t.TempDir(), "first.gif")
	second := filepath.Join(t.TempDir(), "second.gif")

	require.NoError(t, r.Open(first))
	require.NoError(t, r.Open(second))
	require.Equal(t, second, r.Filename)
	require.NoError(t, r.Close())
}
