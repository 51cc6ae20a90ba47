// Command dmgppu drives the PPU core standalone, without a CPU: a "run"
// subcommand loads a static VRAM/OAM snapshot (plus an LCDC value given as a
// flag; the other registers keep their reset values) and renders it live
// (or to a GIF), a "dump-tiles" subcommand renders raw tile data to a PNG,
// and a "dump-bgmap" subcommand renders the 32x32 background/window tile
// map to a PNG, the way a test fixture for the PPU alone would. The CLI
// surface is built on urfave/cli/v2, per this module's ambient-stack choice
// over a bare flag.FlagSet.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tigris-emu/dmgppu/config"
	"github.com/tigris-emu/dmgppu/display"
	gifsink "github.com/tigris-emu/dmgppu/display/gif"
	pngdump "github.com/tigris-emu/dmgppu/display/png"
	sdlsink "github.com/tigris-emu/dmgppu/display/sdl"
	"github.com/tigris-emu/dmgppu/internal/ppulog"
	"github.com/tigris-emu/dmgppu/ppu"
)

var log = ppulog.Sub("main")

func main() {
	app := &cli.App{
		Name:  "dmgppu",
		Usage: "stand-alone Game Boy PPU core: render VRAM/OAM snapshots to a window, a GIF, or PNG tile dumps",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to config.ini", Value: config.ConfigFolder + "config.ini"},
			&cli.StringFlag{Name: "level", Usage: "log level (debug, info, warn)"},
		},
		Commands: []*cli.Command{
			runCommand(),
			dumpTilesCommand(),
			dumpBgMapCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorf("%s", err)
		os.Exit(1)
	}
}

func loadOptions(c *cli.Context) *config.Options {
	config.EnsureDefaultConfig()
	opts := config.Default()

	flagsSet := map[string]bool{}
	for _, name := range []string{"level", "gif", "font", "zoom", "nosync"} {
		if c.IsSet(name) {
			flagsSet[name] = true
		}
	}
	opts.Update(c.String("config"), flagsSet)

	if c.String("level") != "" {
		opts.LogLevel = c.String("level")
	}
	if opts.LogLevel == "debug" {
		ppulog.SetDevelopment()
	}
	return opts
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "load a VRAM/OAM snapshot and render frames to a window and/or a GIF",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "zoom", Usage: "integer window zoom factor"},
			&cli.StringFlag{Name: "vram", Usage: "path to a raw 8KiB VRAM snapshot", Required: true},
			&cli.StringFlag{Name: "oam", Usage: "path to a raw 160-byte OAM snapshot"},
			&cli.StringFlag{Name: "lcdc", Usage: "LCDC register value as hex, e.g. 0x91", Value: "0x91"},
			&cli.UintFlag{Name: "frames", Usage: "number of frames to render before exiting (0 = no limit: rendering continues until the process is stopped)"},
			&cli.StringFlag{Name: "gif", Usage: "record frames to this GIF file"},
			&cli.StringFlag{Name: "font", Usage: "path to a TTF font for the debug overlay"},
			&cli.BoolFlag{Name: "headless", Usage: "skip opening an SDL window entirely"},
		},
		Action: func(c *cli.Context) error {
			opts := loadOptions(c)
			if c.IsSet("zoom") {
				opts.Zoom = c.Uint("zoom")
			}
			if c.IsSet("gif") {
				opts.GIFOutput = c.String("gif")
			}
			if c.IsSet("font") {
				opts.FontPath = c.String("font")
			}
			return runSnapshot(c, opts)
		},
	}
}

func runSnapshot(c *cli.Context, opts *config.Options) error {
	var sink display.Display
	var window *sdlsink.Window
	var recorder *gifsink.Recorder

	if !c.Bool("headless") {
		w, err := sdlsink.New("dmgppu", int(opts.Zoom), opts.FontPath)
		if err != nil {
			return fmt.Errorf("opening display window: %w", err)
		}
		window = w
		sink = w
		defer w.Close()
	} else {
		sink = display.NewRecorder()
	}

	if opts.GIFOutput != "" {
		recorder = gifsink.New()
		if err := recorder.Open(opts.GIFOutput); err != nil {
			return err
		}
		defer recorder.Close()
		sink = multiSink{sink, recorder}
	}

	p := ppu.New(sink)

	lcdc, err := parseHexByte(c.String("lcdc"))
	if err != nil {
		return fmt.Errorf("parsing -lcdc: %w", err)
	}
	p.Write(0xff40, lcdc)

	if err := loadSnapshot(p, c.String("vram"), 0x8000, 0x2000); err != nil {
		return fmt.Errorf("loading VRAM snapshot: %w", err)
	}
	if path := c.String("oam"); path != "" {
		if err := loadSnapshot(p, path, 0xfe00, 0xa0); err != nil {
			return fmt.Errorf("loading OAM snapshot: %w", err)
		}
	}

	frameLimit := c.Uint("frames")
	framesRendered := uint(0)
	for frameLimit == 0 || framesRendered < frameLimit {
		for i := 0; i < ppu.FrameCycles(); i++ {
			p.Tick()
		}
		framesRendered++
		if window != nil {
			window.SetStatus(p.Mode.String(), p.LY, p.SpriteBuf.Len())
		}
	}

	log.Infof("rendered %d frames", framesRendered)
	return nil
}

// multiSink fans Display calls out to several sinks at once, so a live
// window and a GIF recorder can both observe the same pixel stream.
type multiSink []display.Display

func (m multiSink) Write(pixel uint8) {
	for _, s := range m {
		s.Write(pixel)
	}
}
func (m multiSink) HBlank() {
	for _, s := range m {
		s.HBlank()
	}
}
func (m multiSink) VBlank() {
	for _, s := range m {
		s.VBlank()
	}
}
func (m multiSink) Blank() {
	for _, s := range m {
		s.Blank()
	}
}

func dumpTilesCommand() *cli.Command {
	return &cli.Command{
		Name:  "dump-tiles",
		Usage: "render raw 8x8 tile data from a VRAM snapshot to a PNG",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "vram", Usage: "path to a raw 8KiB VRAM snapshot", Required: true},
			&cli.StringFlag{Name: "out", Usage: "output PNG path", Value: "tiles.png"},
			&cli.UintFlag{Name: "count", Usage: "number of tiles to render", Value: 384},
			&cli.UintFlag{Name: "addr", Usage: "VRAM address of the first tile", Value: 0x8000},
		},
		Action: func(c *cli.Context) error {
			opts := loadOptions(c)
			opts.TileDump = c.String("out")

			p := ppu.New(display.NewRecorder())
			if err := loadSnapshot(p, c.String("vram"), 0x8000, 0x2000); err != nil {
				return fmt.Errorf("loading VRAM snapshot: %w", err)
			}
			return pngdump.DumpTiles(p, uint(c.Uint("addr")), int(c.Uint("count")), opts.TileDump)
		},
	}
}

func dumpBgMapCommand() *cli.Command {
	return &cli.Command{
		Name:  "dump-bgmap",
		Usage: "render the 32x32 background/window tile map from a VRAM snapshot to a PNG",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "vram", Usage: "path to a raw 8KiB VRAM snapshot", Required: true},
			&cli.StringFlag{Name: "out", Usage: "output PNG path", Value: "bgmap.png"},
			&cli.StringFlag{Name: "map", Usage: "tile map base, hex: 0x9800 or 0x9c00", Value: "0x9800"},
			&cli.StringFlag{Name: "tiledata", Usage: "tile data base, hex: 0x8000 (unsigned) or 0x9000 (signed)", Value: "0x8000"},
		},
		Action: func(c *cli.Context) error {
			opts := loadOptions(c)
			opts.TileDump = c.String("out")

			p := ppu.New(display.NewRecorder())
			if err := loadSnapshot(p, c.String("vram"), 0x8000, 0x2000); err != nil {
				return fmt.Errorf("loading VRAM snapshot: %w", err)
			}

			mapBase, err := parseHexUint(c.String("map"))
			if err != nil {
				return fmt.Errorf("parsing -map: %w", err)
			}
			tileDataBase, err := parseHexUint(c.String("tiledata"))
			if err != nil {
				return fmt.Errorf("parsing -tiledata: %w", err)
			}
			signed := tileDataBase != 0x8000

			return pngdump.DumpBackgroundMap(p, mapBase, tileDataBase, signed, opts.TileDump)
		},
	}
}

func loadSnapshot(p *ppu.PPU, path string, base uint, size int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) > size {
		data = data[:size]
	}
	for i, b := range data {
		p.Write(base+uint(i), b)
	}
	return nil
}

func parseHexByte(s string) (uint8, error) {
	var v uint8
	_, err := fmt.Sscanf(s, "0x%x", &v)
	if err != nil {
		_, err = fmt.Sscanf(s, "%d", &v)
	}
	return v, err
}

func parseHexUint(s string) (uint, error) {
	var v uint
	_, err := fmt.Sscanf(s, "0x%x", &v)
	if err != nil {
		_, err = fmt.Sscanf(s, "%d", &v)
	}
	return v, err
}
