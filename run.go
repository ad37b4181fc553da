package spellwalk

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
}

// Run opens a window and runs scene until the window is closed or an
// attached test script finishes. The scene's config watcher is closed on
// return.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = scene.cfg.Window.Width, scene.cfg.Window.Height
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.ShowFPS {
		scene.SetShowFPS(true)
	}
	defer scene.Close()

	if err := ebiten.RunGame(scene); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
