package spellwalk

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/spellwalk/gesture"
)

// Config describes a spellwalk scene. Fields omitted from a YAML file keep
// the values from DefaultConfig.
type Config struct {
	Window     WindowConfig `yaml:"window"`
	Background string       `yaml:"background"`
	Map        MapConfig    `yaml:"map"`
	Player     PlayerConfig `yaml:"player"`
	Keys       KeyConfig    `yaml:"keys"`
	Spell      SpellConfig  `yaml:"spell"`
	Effect     EffectConfig `yaml:"effect"`
	Assets     AssetConfig  `yaml:"assets"`

	Debug         bool   `yaml:"debug"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// WindowConfig sizes the game window. Width and Height are also the logical
// screen size.
type WindowConfig struct {
	Title   string `yaml:"title"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	ShowFPS bool   `yaml:"show_fps"`
}

// MapConfig is the walkable world rectangle, anchored at the origin.
type MapConfig struct {
	Width  float64   `yaml:"width"`
	Height float64   `yaml:"height"`
	Spawn  PointSpec `yaml:"spawn"`
}

// PointSpec is a YAML-friendly point.
type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// PlayerConfig tunes the player sprite.
type PlayerConfig struct {
	// Speed is the distance moved per tick.
	Speed float64 `yaml:"speed"`
	// FrameSize is the cell size of the generated atlas, used when no atlas
	// asset is configured.
	FrameSize int `yaml:"frame_size"`
}

// KeyConfig binds movement and cancel actions to Ebitengine key names
// ("W", "ArrowUp", "Escape"). Names are case-insensitive.
type KeyConfig struct {
	Up     string `yaml:"up"`
	Down   string `yaml:"down"`
	Left   string `yaml:"left"`
	Right  string `yaml:"right"`
	Cancel string `yaml:"cancel"`
}

// SpellConfig styles the stroke drawn while a gesture is in progress.
type SpellConfig struct {
	StrokeWidth float64 `yaml:"stroke_width"`
	StrokeColor string  `yaml:"stroke_color"`
}

// EffectConfig times the spell effect. All values are in seconds. A zero
// Lifetime keeps the effect on screen for the rest of the session.
type EffectConfig struct {
	Lifetime float64 `yaml:"lifetime"`
	FadeIn   float64 `yaml:"fade_in"`
	FadeOut  float64 `yaml:"fade_out"`
}

// AssetConfig points at optional on-disk assets. Empty paths fall back to
// generated placeholders.
type AssetConfig struct {
	// Atlas is a TexturePacker JSON file; AtlasImage defaults to the
	// meta.image entry resolved next to it.
	Atlas      string `yaml:"atlas"`
	AtlasImage string `yaml:"atlas_image"`
	// Background is tiled across the map.
	Background string `yaml:"background"`
}

// DefaultConfig returns the stock scene: an 800x600 window over a
// 10000x10000 map with the player spawning in the middle.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:  "spellwalk",
			Width:  800,
			Height: 600,
		},
		Background: "aquamarine",
		Map: MapConfig{
			Width:  10000,
			Height: 10000,
			Spawn:  PointSpec{X: 5000, Y: 5000},
		},
		Player: PlayerConfig{
			Speed:     5,
			FrameSize: 48,
		},
		Keys: KeyConfig{
			Up:     "W",
			Down:   "S",
			Left:   "A",
			Right:  "D",
			Cancel: "Escape",
		},
		Spell: SpellConfig{
			StrokeWidth: 2,
			StrokeColor: "#ff0000",
		},
		Effect: EffectConfig{
			FadeIn:  0.3,
			FadeOut: 0.5,
		},
		ScreenshotDir: "screenshots",
	}
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("spellwalk: load config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("spellwalk: config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks sizes, timings, key names and colors.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		return fmt.Errorf("map size %gx%g must be positive", c.Map.Width, c.Map.Height)
	}
	if !c.MapRect().Contains(c.Map.Spawn.X, c.Map.Spawn.Y) {
		return fmt.Errorf("spawn (%g, %g) is outside the map", c.Map.Spawn.X, c.Map.Spawn.Y)
	}
	if c.Player.Speed < 0 {
		return fmt.Errorf("player speed %g must not be negative", c.Player.Speed)
	}
	if c.Player.FrameSize <= 0 {
		return fmt.Errorf("player frame_size %d must be positive", c.Player.FrameSize)
	}
	if c.Spell.StrokeWidth <= 0 {
		return fmt.Errorf("spell stroke_width %g must be positive", c.Spell.StrokeWidth)
	}
	if c.Effect.Lifetime < 0 || c.Effect.FadeIn < 0 || c.Effect.FadeOut < 0 {
		return fmt.Errorf("effect timings must not be negative")
	}
	if _, err := c.Keys.resolve(); err != nil {
		return err
	}
	if _, err := ParseColor(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if _, err := ParseColor(c.Spell.StrokeColor); err != nil {
		return fmt.Errorf("spell stroke_color: %w", err)
	}
	return nil
}

// MapRect returns the map as a Rect anchored at the origin.
func (c Config) MapRect() Rect {
	return Rect{Width: c.Map.Width, Height: c.Map.Height}
}

// SpawnPoint returns the configured spawn.
func (c Config) SpawnPoint() gesture.Point {
	return gesture.Point{X: c.Map.Spawn.X, Y: c.Map.Spawn.Y}
}

// RunConfig returns the window settings for Run.
func (c Config) RunConfig() RunConfig {
	return RunConfig{
		Title:   c.Window.Title,
		Width:   c.Window.Width,
		Height:  c.Window.Height,
		ShowFPS: c.Window.ShowFPS,
	}
}

// --- Key bindings ---

// Action is a bindable input action.
type Action uint8

const (
	ActionUp Action = iota
	ActionDown
	ActionLeft
	ActionRight
	ActionCancel
	actionCount
)

var actionNames = [actionCount]string{"up", "down", "left", "right", "cancel"}

// String returns the lower-case action name used in test scripts.
func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return "Action(" + strconv.Itoa(int(a)) + ")"
}

// ParseAction resolves an action name.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if strings.EqualFold(n, name) {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

type keyBindings [actionCount]ebiten.Key

var keysByName map[string]ebiten.Key

func lookupKey(name string) (ebiten.Key, bool) {
	if keysByName == nil {
		keysByName = make(map[string]ebiten.Key, int(ebiten.KeyMax)+1)
		for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
			keysByName[strings.ToLower(k.String())] = k
		}
	}
	k, ok := keysByName[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

func (k KeyConfig) resolve() (keyBindings, error) {
	var b keyBindings
	names := [actionCount]string{k.Up, k.Down, k.Left, k.Right, k.Cancel}
	for i, name := range names {
		key, ok := lookupKey(name)
		if !ok {
			return b, fmt.Errorf("keys.%s: unknown key %q", Action(i), name)
		}
		b[i] = key
	}
	return b, nil
}

// --- Colors ---

// ParseColor accepts an SVG color name ("aquamarine") or a hex triplet with
// optional alpha ("#7fffd4", "#ff000080").
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 && len(hex) != 8 {
			return Color{}, fmt.Errorf("bad hex color %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("bad hex color %q: %w", s, err)
		}
		if len(hex) == 6 {
			v = v<<8 | 0xff
		}
		return ColorFrom(color.NRGBA{
			R: uint8(v >> 24),
			G: uint8(v >> 16),
			B: uint8(v >> 8),
			A: uint8(v),
		}), nil
	}
	c, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return Color{}, fmt.Errorf("unknown color %q", s)
	}
	return ColorFrom(c), nil
}

// mustColor is only used on validated configs.
func mustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		return ColorWhite
	}
	return c
}
