package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBackgroundFIFOPushPopOrder(t *testing.T) {
	var f BackgroundFIFO
	require.True(t, f.HasRoomForRow())

	f.PushRow([8]uint8{0, 1, 2, 3, 0, 1, 2, 3})
	require.Equal(t, 8, f.Len())

	for i, want := range []uint8{0, 1, 2, 3, 0, 1, 2, 3} {
		px, ok := f.Pop()
		require.True(t, ok, "pop %d", i)
		require.Equal(t, want, px)
	}
	_, ok := f.Pop()
	require.False(t, ok, "fifo should be empty")
}

func TestBackgroundFIFORoomForRowCeiling(t *testing.T) {
	var f BackgroundFIFO
	f.PushRow([8]uint8{})
	require.True(t, f.HasRoomForRow(), "occupancy 8 still has room")
	f.PushRow([8]uint8{})
	require.False(t, f.HasRoomForRow(), "occupancy 16 has no room")
}

func TestSpriteFIFOMixKeepsOpaqueWinner(t *testing.T) {
	var f SpriteFIFO
	f.PushRow([8]SpritePixel{
		{Color: 1}, {Color: 0}, {Color: 2}, {Color: 0},
		{Color: 0}, {Color: 0}, {Color: 0}, {Color: 0},
	})

	f.MixRow([8]SpritePixel{
		{Color: 3}, {Color: 3}, {Color: 3}, {Color: 3},
		{Color: 0}, {Color: 3}, {Color: 0}, {Color: 0},
	})

	want := []uint8{1, 3, 2, 3, 0, 3, 0, 0}
	for i, w := range want {
		px, ok := f.Pop()
		require.True(t, ok, "pop %d", i)
		require.Equal(t, w, px.Color, "pixel %d", i)
	}
}

func TestSpriteFIFOMixIntoEmptyActsAsPush(t *testing.T) {
	var f SpriteFIFO
	row := [8]SpritePixel{{Color: 1}, {Color: 2}}
	f.MixRow(row)
	require.Equal(t, 8, f.Len())
	px, ok := f.Pop()
	require.True(t, ok)
	require.Equal(t, uint8(1), px.Color)
}
