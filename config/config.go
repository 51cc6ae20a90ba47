// Package config loads runtime options for the cmd/dmgppu harness: an INI
// config file merged with command-line flags, plus an SDL keymap for two
// hotkey actions (screenshot, GIF recording toggle). This package only
// resolves the key codes; it handles no key events.
// Adapted from the teacher's options/config.go, narrowed to what a PPU-only
// harness needs: no BootROM/CPUProfile/FastBoot/WaitKey, since this module
// has no CPU to boot or profile.
package config

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/veandco/go-sdl2/sdl"
	"gopkg.in/ini.v1"

	"github.com/tigris-emu/dmgppu/internal/ppulog"
)

var log = ppulog.Sub("config")

// ConfigFolder is the path to this harness's dedicated folder in the user's
// home directory.
const ConfigFolder = "~/.dmgppu/"

// DefaultConfig is written to ConfigFolder/config.ini the first time the
// harness runs without one, following the teacher's "ship a commented
// default" convention.
const DefaultConfig = `# Most of these flags can be overridden on the command line; see -help.

#level = debug
#zoom = 4
#nosync = 1
#gif = capture.gif

[keymap]
screenshot = F12
recordgif  = g
`

// Keymap associates a hotkey action name with an SDL key code.
type Keymap map[string]sdl.Keycode

// DefaultKeymap is a reasonable QWERTY/AZERTY default.
var DefaultKeymap = Keymap{
	"screenshot": sdl.K_F12,
	"recordgif":  sdl.K_g,
}

// Options holds every runtime-tunable knob for the harness.
type Options struct {
	ConfigPath string
	LogLevel   string
	Zoom       uint
	VSync      bool
	FontPath   string
	GIFOutput  string
	TileDump   string
	Keymap     Keymap
}

// Default returns Options populated with sensible defaults, mirroring the
// teacher's zero-value-Options-plus-DefaultKeymap starting point.
func Default() *Options {
	return &Options{
		Zoom:   4,
		VSync:  true,
		Keymap: cloneKeymap(DefaultKeymap),
	}
}

func cloneKeymap(src Keymap) Keymap {
	dst := make(Keymap, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func configKey(cfg *ini.File, flagsSet map[string]bool, name string) *ini.Key {
	if !flagsSet[name] && cfg.Section("").HasKey(name) {
		return cfg.Section("").Key(name)
	}
	return nil
}

func apply(cfg *ini.File, flagsSet map[string]bool, name string, dst *string) {
	if key := configKey(cfg, flagsSet, name); key != nil {
		*dst = key.String()
	}
}

func applyBool(cfg *ini.File, flagsSet map[string]bool, name string, dst *bool) {
	if key := configKey(cfg, flagsSet, name); key != nil {
		if b, err := key.Bool(); err == nil {
			*dst = b
		}
	}
}

func applyUint(cfg *ini.File, flagsSet map[string]bool, name string, dst *uint) {
	if key := configKey(cfg, flagsSet, name); key != nil {
		if v, err := key.Uint(); err == nil {
			*dst = v
		}
	}
}

// EnsureDefaultConfig creates ConfigFolder/config.ini if the folder doesn't
// exist yet. Failures are logged, never fatal: a missing or unwritable
// config folder should not stop the harness from running with defaults.
func EnsureDefaultConfig() {
	folder := expandHome(ConfigFolder)
	if _, err := os.Stat(folder); !os.IsNotExist(err) {
		return
	}

	log.Infof("no config folder at %s, creating default config", folder)
	if err := os.Mkdir(folder, 0755); err != nil {
		log.Warnf("can't create config folder %s: %s", folder, err)
		return
	}

	path := filepath.Join(folder, "config.ini")
	f, err := os.Create(path)
	if err != nil {
		log.Warnf("creating %s failed: %s", path, err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(DefaultConfig); err != nil {
		log.Warnf("writing default config failed: %s", err)
	}
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	u, err := user.Current()
	if err != nil {
		return path
	}
	return filepath.Join(u.HomeDir, path[1:])
}

// Update reads configPath and overlays it onto o, skipping any option named
// in flagsSet (those were already set explicitly on the command line and
// take precedence over the file).
func (o *Options) Update(configPath string, flagsSet map[string]bool) {
	if configPath == "" {
		return
	}
	configPath = expandHome(configPath)

	cfg, err := ini.Load(configPath)
	if err != nil {
		log.Warnf("can't load config file %s: %s", configPath, err)
		return
	}

	apply(cfg, flagsSet, "level", &o.LogLevel)
	apply(cfg, flagsSet, "gif", &o.GIFOutput)
	apply(cfg, flagsSet, "font", &o.FontPath)
	noSync := !o.VSync
	applyBool(cfg, flagsSet, "nosync", &noSync)
	o.VSync = !noSync
	applyUint(cfg, flagsSet, "zoom", &o.Zoom)

	keySection := cfg.Section("keymap")
	for action := range o.Keymap {
		keyName := keySection.Key(action).String()
		if keySym := sdl.GetKeyFromName(keyName); keySym != sdl.K_UNKNOWN {
			o.Keymap[action] = keySym
		}
	}
}
