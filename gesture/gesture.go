// Package gesture records a freehand pointer path and tracks its bounding box.
//
// A [Gesture] lives from pointer-down to pointer-up. Pointer samples are
// throttled to [SampleInterval] so the path density does not depend on the
// host's tick rate, and the bounding box is extended with every accepted
// point so it is available immediately when the gesture ends.
package gesture

import "time"

// SampleInterval is the minimum time between two accepted samples (30 Hz).
const SampleInterval = time.Second / 30

// Point is a position in world space.
type Point struct {
	X, Y float64
}

// Bounds is an axis-aligned box. A Bounds built through BoundsOf and Extend
// always satisfies MinX <= MaxX and MinY <= MaxY.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// BoundsOf returns the zero-area box containing only p.
func BoundsOf(p Point) Bounds {
	return Bounds{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
}

// Extend returns the smallest box containing both b and p.
func (b Bounds) Extend(p Point) Bounds {
	return Bounds{
		MinX: min(b.MinX, p.X),
		MinY: min(b.MinY, p.Y),
		MaxX: max(b.MaxX, p.X),
		MaxY: max(b.MaxY, p.Y),
	}
}

// Width returns MaxX - MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Empty reports whether the box has zero area. A gesture with a single point,
// or with all points on one line, ends with an empty box.
func (b Bounds) Empty() bool {
	return b.Width() == 0 || b.Height() == 0
}

// Fold computes the bounds of points with a plain min/max scan.
// It reports false for an empty slice.
func Fold(points []Point) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b := Bounds{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}
	return b, true
}

// Gesture is one pointer-down to pointer-up drawing. It owns its path, its
// bounds and its throttle clock; nothing is shared between gestures.
type Gesture struct {
	points     []Point
	bounds     Bounds
	lastSample time.Duration
	sampled    bool
	ended      bool
}

// Begin starts a gesture at start. The path holds exactly that point and the
// bounds collapse onto it. The throttle clock starts fresh, so the first
// MaybeSample call is always accepted.
func Begin(start Point) *Gesture {
	return &Gesture{
		points: []Point{start},
		bounds: BoundsOf(start),
	}
}

// MaybeSample appends p if this is the first sample of the gesture or at
// least SampleInterval has passed since the last accepted sample. It reports
// whether p was accepted. Samples after End are rejected.
func (g *Gesture) MaybeSample(now time.Duration, p Point) bool {
	if g.ended {
		return false
	}
	if g.sampled && now-g.lastSample < SampleInterval {
		return false
	}
	g.points = append(g.points, p)
	g.bounds = g.bounds.Extend(p)
	g.lastSample = now
	g.sampled = true
	return true
}

// End finishes the gesture and returns its final bounds. The path is
// released; calling End again returns the same bounds.
func (g *Gesture) End() Bounds {
	g.ended = true
	g.points = nil
	return g.bounds
}

// Ended reports whether End has been called.
func (g *Gesture) Ended() bool { return g.ended }

// Bounds returns the bounds of all points accepted so far.
func (g *Gesture) Bounds() Bounds { return g.bounds }

// Len returns the number of points in the path.
func (g *Gesture) Len() int { return len(g.points) }

// Points returns a copy of the path in insertion order.
func (g *Gesture) Points() []Point {
	out := make([]Point, len(g.points))
	copy(out, g.points)
	return out
}

// AppendPoints appends the path to dst and returns the extended slice.
func (g *Gesture) AppendPoints(dst []Point) []Point {
	return append(dst, g.points...)
}
