package spellwalk

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/spellwalk/anim"
	"github.com/phanxgames/spellwalk/gesture"
)

const (
	// cameraLerp of 1 keeps the player locked to the screen centre.
	cameraLerp = 1.0
	// recenterSeconds is the camera scroll time after a map reload.
	recenterSeconds = 0.6
)

// HUD text position in screen pixels.
const hudX, hudY = 200, 200

// Scene is the running game: it owns the Session, the camera, the active
// spell effects and the assets, and implements ebiten.Game.
type Scene struct {
	cfg   Config
	debug bool

	session *Session
	cam     *Camera
	atlas   *Atlas
	tile    *ebiten.Image

	background Color
	stroke     Color

	input   InputSource
	script  *ScriptedInput
	runner  *TestRunner
	watcher *ConfigWatcher

	effects []*Effect
	frame   Frame
	clock   time.Duration
	fps     *fpsOverlay
	stats   debugStats

	screenshotQueue []string
}

// NewScene builds a scene from a validated config. The player atlas is
// loaded from cfg.Assets when set and generated otherwise.
func NewScene(cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("spellwalk: config: %w", err)
	}
	keys, err := cfg.Keys.resolve()
	if err != nil {
		return nil, fmt.Errorf("spellwalk: config: %w", err)
	}

	s := &Scene{
		cfg:        cfg,
		background: mustColor(cfg.Background),
		stroke:     mustColor(cfg.Spell.StrokeColor),
		session:    NewSession(cfg.MapRect(), cfg.SpawnPoint(), cfg.Player.Speed),
		input:      newEbitenInput(keys),
	}
	s.SetDebugMode(cfg.Debug)
	s.SetShowFPS(cfg.Window.ShowFPS)

	if cfg.Assets.Atlas != "" {
		s.atlas, err = LoadAtlasFile(cfg.Assets.Atlas, cfg.Assets.AtlasImage)
		if err != nil {
			return nil, err
		}
		if missing := s.atlas.MissingFrames(anim.FrameNames()); len(missing) > 0 {
			log.Printf("spellwalk: atlas %s is missing %d frames (first %q)", cfg.Assets.Atlas, len(missing), missing[0])
		}
	} else {
		s.atlas = GenerateHumanAtlas(cfg.Player.FrameSize)
	}
	if cfg.Assets.Background != "" {
		s.tile, _, err = ebitenutil.NewImageFromFile(cfg.Assets.Background)
		if err != nil {
			return nil, fmt.Errorf("spellwalk: load background %s: %w", cfg.Assets.Background, err)
		}
	}

	spawn := cfg.SpawnPoint()
	s.cam = NewCamera(Rect{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)})
	s.cam.SetBounds(cfg.MapRect())
	s.cam.SetTarget(spawn.X, spawn.Y)
	s.cam.Follow(cameraLerp)
	s.cam.CenterOn(spawn.X, spawn.Y)

	s.frame = Frame{Player: spawn, Anim: s.session.Anim, FrameName: anim.FrameName(s.session.Anim)}
	return s, nil
}

// Config returns the active config.
func (s *Scene) Config() Config { return s.cfg }

// Session returns the player session.
func (s *Scene) Session() *Session { return s.session }

// Camera returns the scene camera.
func (s *Scene) Camera() *Camera { return s.cam }

// Frame returns the result of the most recent tick.
func (s *Scene) Frame() Frame { return s.frame }

// Effects returns the live spell effects. The returned slice MUST NOT be
// mutated.
func (s *Scene) Effects() []*Effect { return s.effects }

// Clock returns the scene time: ticks run times the tick duration.
func (s *Scene) Clock() time.Duration { return s.clock }

// SetInput replaces the input source.
func (s *Scene) SetInput(src InputSource) {
	s.input = src
}

// SetTestRunner attaches a TestRunner. The scene switches to a
// ScriptedInput that the runner drives.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.runner = runner
	s.script = NewScriptedInput()
	s.input = s.script
}

// TestRunner returns the attached runner, or nil.
func (s *Scene) TestRunner() *TestRunner { return s.runner }

// SetDebugMode enables per-cast logging, atlas-miss warnings and per-frame
// timing stats on stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// SetShowFPS toggles the FPS/TPS overlay.
func (s *Scene) SetShowFPS(show bool) {
	switch {
	case show && s.fps == nil:
		s.fps = newFPSOverlay()
	case !show:
		s.fps = nil
	}
}

// globalDebug mirrors the most recently set Scene debug flag so that code
// without a Scene pointer (atlas lookups) can check it cheaply.
var globalDebug bool

// tickDuration is the clock advance per Update.
func tickDuration() time.Duration {
	return time.Second / time.Duration(ebiten.TPS())
}

// Update implements ebiten.Game. It returns ebiten.Termination once an
// attached test script has finished.
func (s *Scene) Update() error {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.pollWatcher()
	if s.runner != nil {
		// Stop one frame after the last step so queued screenshots are drawn.
		if s.runner.Done() {
			return ebiten.Termination
		}
		s.runner.step(s.script, s.Screenshot)
	}

	f := s.session.Tick(s.clock, s.input.Poll(s.cam))
	for _, c := range f.Casts {
		s.cast(c)
	}
	if f.Aborted && s.debug {
		log.Printf("spellwalk: gesture cancelled")
	}
	s.frame = f

	step := tickDuration()
	dt := float32(step.Seconds())
	s.cam.SetTarget(f.Player.X, f.Player.Y)
	s.cam.Update(dt)

	live := s.effects[:0]
	for _, e := range s.effects {
		e.Update(dt)
		if !e.Done() {
			live = append(live, e)
		}
	}
	clear(s.effects[len(live):])
	s.effects = live

	s.clock += step
	if s.fps != nil {
		s.fps.update(step.Seconds())
	}

	if s.debug {
		s.stats.update = time.Since(t0)
		s.stats.effects = len(s.effects)
		s.stats.pathPoints = len(f.Path)
	}
	return nil
}

// cast places an effect over the cast's box.
func (s *Scene) cast(c Cast) {
	e := NewEffect(c.Bounds, s.cfg.Effect)
	s.effects = append(s.effects, e)
	if s.debug {
		debugLogCast(c)
	}
}

// Draw implements ebiten.Game.
func (s *Scene) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	screen.Fill(s.background.RGBA())
	s.drawTiles(screen)

	px, py := s.cam.WorldToScreen(s.frame.Player.X, s.frame.Player.Y)
	s.atlas.DrawFrame(screen, s.frame.FrameName, px, py, 1)

	s.drawStroke(screen, s.frame.Path)

	t := s.clock.Seconds()
	for _, e := range s.effects {
		e.Draw(screen, s.cam, t)
	}

	ebitenutil.DebugPrintAt(screen, hudText(s.frame.Player), hudX, hudY)
	if s.fps != nil {
		s.fps.draw(screen)
	}

	s.flushScreenshots(screen)

	if s.debug {
		s.stats.draw = time.Since(t0)
		s.debugLog(s.stats)
	}
}

// Layout implements ebiten.Game. The logical screen is the configured
// window size.
func (s *Scene) Layout(outsideWidth, outsideHeight int) (int, int) {
	return s.cfg.Window.Width, s.cfg.Window.Height
}

// hudText is the coordinate readout drawn on screen.
func hudText(p gesture.Point) string {
	return fmt.Sprintf("coords: %.0f, %.0f", p.X, p.Y)
}

// drawTiles repeats the background tile over the visible part of the map.
func (s *Scene) drawTiles(screen *ebiten.Image) {
	if s.tile == nil {
		return
	}
	tb := s.tile.Bounds()
	tw, th := float64(tb.Dx()), float64(tb.Dy())
	if tw == 0 || th == 0 {
		return
	}
	view := s.cam.VisibleBounds()
	m := s.session.Map
	x0 := max(view.X, m.X)
	y0 := max(view.Y, m.Y)
	x1 := min(view.X+view.Width, m.X+m.Width)
	y1 := min(view.Y+view.Height, m.Y+m.Height)

	startX := m.X + float64(int((x0-m.X)/tw))*tw
	startY := m.Y + float64(int((y0-m.Y)/th))*th
	camM := s.cam.GeoM()
	var op ebiten.DrawImageOptions
	for y := startY; y < y1; y += th {
		for x := startX; x < x1; x += tw {
			op.GeoM.Reset()
			op.GeoM.Translate(x, y)
			op.GeoM.Concat(camM)
			screen.DrawImage(s.tile, &op)
		}
	}
}

// drawStroke outlines the gesture in progress as a closed polygon.
func (s *Scene) drawStroke(screen *ebiten.Image, path []gesture.Point) {
	if len(path) < 2 {
		return
	}
	w := float32(s.cfg.Spell.StrokeWidth)
	c := s.stroke.RGBA()
	prev := path[len(path)-1]
	for _, p := range path {
		x0, y0 := s.cam.WorldToScreen(prev.X, prev.Y)
		x1, y1 := s.cam.WorldToScreen(p.X, p.Y)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), w, c, true)
		prev = p
	}
}

// ApplyConfig swaps in a new config without restarting. Speed, colours, key
// bindings and effect timings apply immediately; a changed map or spawn
// respawns the player and scrolls the camera there. Window size changes
// resize the viewport. Assets are not reloaded.
func (s *Scene) ApplyConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("spellwalk: config: %w", err)
	}
	keys, err := cfg.Keys.resolve()
	if err != nil {
		return fmt.Errorf("spellwalk: config: %w", err)
	}

	old := s.cfg
	s.cfg = cfg
	if in, ok := s.input.(*ebitenInput); ok {
		in.keys = keys
	}
	s.background = mustColor(cfg.Background)
	s.stroke = mustColor(cfg.Spell.StrokeColor)
	s.session.Speed = cfg.Player.Speed
	s.SetDebugMode(cfg.Debug)
	s.SetShowFPS(cfg.Window.ShowFPS)

	if cfg.Window.Width != old.Window.Width || cfg.Window.Height != old.Window.Height {
		s.cam.Viewport = Rect{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)}
		ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Title != old.Window.Title {
		ebiten.SetWindowTitle(cfg.Window.Title)
	}

	if cfg.Map != old.Map {
		spawn := cfg.SpawnPoint()
		s.session.Map = cfg.MapRect()
		s.session.Respawn(spawn)
		s.cam.SetBounds(cfg.MapRect())
		s.cam.ScrollTo(spawn.X, spawn.Y, recenterSeconds, ease.InOutQuad)
	}
	return nil
}

// WatchConfig reloads the config file at path whenever it changes.
func (s *Scene) WatchConfig(path string) error {
	w, err := NewConfigWatcher(path)
	if err != nil {
		return err
	}
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	s.watcher = w
	return nil
}

// pollWatcher applies pending reloads. A config that fails to load or
// validate is logged and the running config kept.
func (s *Scene) pollWatcher() {
	if s.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-s.watcher.Events:
			if !ok {
				s.watcher = nil
				return
			}
			cfg, err := LoadConfig(path)
			if err == nil {
				err = s.ApplyConfig(cfg)
			}
			if err != nil {
				log.Printf("spellwalk: reload: %v", err)
				continue
			}
			log.Printf("spellwalk: reloaded %s", path)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				s.watcher = nil
				return
			}
			log.Printf("spellwalk: watch: %v", err)
		default:
			return
		}
	}
}

// Close releases the config watcher.
func (s *Scene) Close() error {
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}
