package spellwalk

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func newTestScene(t *testing.T) (*Scene, *ScriptedInput) {
	t.Helper()
	s, err := NewScene(DefaultConfig())
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	si := NewScriptedInput()
	s.SetInput(si)
	return s, si
}

func update(t *testing.T, s *Scene, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := s.Update(); err != nil {
			t.Fatalf("Update %d: %v", i, err)
		}
	}
}

func TestNewSceneDefaults(t *testing.T) {
	s, _ := newTestScene(t)
	if s.Frame().FrameName != "n" {
		t.Errorf("FrameName = %q, want n", s.Frame().FrameName)
	}
	if s.Camera().X != 5000 || s.Camera().Y != 5000 {
		t.Errorf("camera = (%f,%f), want spawn", s.Camera().X, s.Camera().Y)
	}
	if s.atlas.Len() != 72 {
		t.Errorf("generated atlas has %d frames, want 72", s.atlas.Len())
	}
}

func TestNewSceneErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Player.Speed = -1
	if _, err := NewScene(cfg); err == nil {
		t.Error("expected error for invalid config")
	}

	cfg = DefaultConfig()
	cfg.Assets.Atlas = filepath.Join(t.TempDir(), "human.json")
	if _, err := NewScene(cfg); err == nil {
		t.Error("expected error for missing atlas")
	}
}

func TestSceneWalk(t *testing.T) {
	s, si := newTestScene(t)
	si.Hold(ActionRight)
	update(t, s, 6)

	f := s.Frame()
	if f.Player.X != 5030 || f.Player.Y != 5000 {
		t.Errorf("Player = %v, want (5030,5000)", f.Player)
	}
	if f.FrameName != "e_p2" {
		t.Errorf("FrameName = %q, want e_p2", f.FrameName)
	}
	if s.Camera().X != 5030 {
		t.Errorf("camera X = %f, want to follow the player to 5030", s.Camera().X)
	}
	if s.Clock() != 6*tickDuration() {
		t.Errorf("Clock = %v, want %v", s.Clock(), 6*tickDuration())
	}
}

func TestSceneDragCastsEffect(t *testing.T) {
	s, si := newTestScene(t)
	si.Drag(300, 300, 500, 400, 6)

	update(t, s, 5)
	if !s.Session().Drawing() {
		t.Fatal("not drawing before release")
	}
	if n := len(s.Frame().Path); n != 3 {
		t.Errorf("Path has %d points, want 3", n)
	}
	if len(s.Effects()) != 0 {
		t.Fatal("effect placed before release")
	}

	update(t, s, 1)
	if len(s.Effects()) != 1 {
		t.Fatalf("Effects = %d, want 1", len(s.Effects()))
	}
	// Screen (400,300) is the world spawn (5000,5000).
	b := s.Effects()[0].Bounds
	if !approxEqual(b.MinX, 4900, 1e-9) || !approxEqual(b.MinY, 4800, 1e-9) ||
		!approxEqual(b.MaxX, 5060, 1e-9) || !approxEqual(b.MaxY, 4880, 1e-9) {
		t.Errorf("effect bounds = %+v, want (4900,4800)-(5060,4880)", b)
	}

	// A zero lifetime keeps the effect.
	update(t, s, 120)
	if len(s.Effects()) != 1 {
		t.Errorf("Effects = %d after 2s, want 1", len(s.Effects()))
	}
}

func TestSceneEffectsExpire(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Effect = EffectConfig{Lifetime: 0.5, FadeIn: 0.1, FadeOut: 0.1}
	s, err := NewScene(cfg)
	if err != nil {
		t.Fatal(err)
	}
	si := NewScriptedInput()
	s.SetInput(si)
	si.Drag(100, 100, 200, 200, 4)
	update(t, s, 4)
	if len(s.Effects()) != 1 {
		t.Fatalf("Effects = %d, want 1", len(s.Effects()))
	}
	update(t, s, 60)
	if len(s.Effects()) != 0 {
		t.Errorf("Effects = %d after lifetime, want 0", len(s.Effects()))
	}
}

func TestSceneCancel(t *testing.T) {
	s, si := newTestScene(t)
	si.Press(100, 100)
	si.Move(150, 150)
	update(t, s, 2)

	si.Hold(ActionCancel)
	update(t, s, 1)
	si.Release(ActionCancel)
	if s.Session().Drawing() {
		t.Error("still drawing after cancel")
	}
	si.Up(150, 150)
	update(t, s, 1)
	if len(s.Effects()) != 0 {
		t.Error("cancelled gesture placed an effect")
	}
}

func TestSceneTestRunner(t *testing.T) {
	s, err := NewScene(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "hold", "key": "down"},
		{"action": "wait", "frames": 4},
		{"action": "release", "key": "down"},
		{"action": "drag", "fromX": 10, "fromY": 10, "toX": 90, "toY": 50, "frames": 5}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(runner)

	var err2 error
	for i := 0; i < 100 && err2 == nil; i++ {
		err2 = s.Update()
	}
	if !errors.Is(err2, ebiten.Termination) {
		t.Fatalf("Update returned %v, want ebiten.Termination", err2)
	}
	if !runner.Done() {
		t.Error("runner not done")
	}
	if s.Frame().Player.Y <= 5000 {
		t.Errorf("Player.Y = %f, want moved down", s.Frame().Player.Y)
	}
	if s.Frame().Anim.Direction.String() != "S" {
		t.Errorf("facing %v, want S", s.Frame().Anim.Direction)
	}
	if len(s.Effects()) != 1 {
		t.Errorf("Effects = %d, want 1", len(s.Effects()))
	}
}

func TestSceneApplyConfig(t *testing.T) {
	s, _ := newTestScene(t)

	cfg := DefaultConfig()
	cfg.Player.Speed = 9
	cfg.Spell.StrokeColor = "blue"
	cfg.Map = MapConfig{Width: 2000, Height: 2000, Spawn: PointSpec{X: 100, Y: 200}}
	if err := s.ApplyConfig(cfg); err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	if s.Session().Speed != 9 {
		t.Errorf("Speed = %f, want 9", s.Session().Speed)
	}
	if s.stroke != (Color{0, 0, 1, 1}) {
		t.Errorf("stroke = %+v, want blue", s.stroke)
	}
	if s.Session().Player.X != 100 || s.Session().Player.Y != 200 {
		t.Errorf("Player = %v, want respawned at (100,200)", s.Session().Player)
	}
	if !s.Camera().Scrolling() {
		t.Error("camera not scrolling to the new spawn")
	}

	bad := cfg
	bad.Player.Speed = -3
	if err := s.ApplyConfig(bad); err == nil {
		t.Error("expected error for invalid config")
	}
	if s.Session().Speed != 9 {
		t.Errorf("invalid config changed Speed to %f", s.Session().Speed)
	}
}

func TestSceneWatchConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spellwalk.yaml")
	if err := os.WriteFile(path, []byte("player: {speed: 5}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, _ := newTestScene(t)
	if err := s.WatchConfig(path); err != nil {
		t.Fatalf("WatchConfig: %v", err)
	}
	defer s.Close()

	if err := os.WriteFile(path, []byte("player: {speed: 7}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for s.Session().Speed != 7 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
		s.pollWatcher()
	}
	if s.Session().Speed != 7 {
		t.Errorf("Speed = %f, want reloaded 7", s.Session().Speed)
	}
}

func TestHUDText(t *testing.T) {
	s, _ := newTestScene(t)
	if got := hudText(s.Frame().Player); got != "coords: 5000, 5000" {
		t.Errorf("hudText = %q", got)
	}
}
