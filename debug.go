package spellwalk

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing and scene counts. Only populated when
// the scene is in debug mode.
type debugStats struct {
	update     time.Duration
	draw       time.Duration
	effects    int
	pathPoints int
}

// debugLog prints timing stats to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[spellwalk] update: %v | draw: %v | total: %v | effects: %d | path: %d\n",
		stats.update, stats.draw, stats.update+stats.draw, stats.effects, stats.pathPoints)
}

// debugLogCast prints the box a cast places its effect at.
func debugLogCast(c Cast) {
	_, _ = fmt.Fprintln(os.Stderr, formatCast(c))
}

func formatCast(c Cast) string {
	b := c.Bounds
	ctr := b.Center()
	return fmt.Sprintf("[spellwalk] cast at %v: box (%g,%g)-(%g,%g) centre (%g,%g) size %gx%g, %d points",
		c.At, b.MinX, b.MinY, b.MaxX, b.MaxY, ctr.X, ctr.Y, b.Width(), b.Height(), c.Points)
}
