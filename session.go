package spellwalk

import (
	"math"
	"time"

	"github.com/phanxgames/spellwalk/anim"
	"github.com/phanxgames/spellwalk/gesture"
)

// Input is the per-tick snapshot a Session consumes. Directional flags are
// the pressed state of the bound movement keys; Pointer is already converted
// to world space.
type Input struct {
	Up, Down, Left, Right bool
	// Cancel aborts the gesture in progress.
	Cancel      bool
	PointerDown bool
	Pointer     gesture.Point
}

// Cast is emitted when a drawing gesture ends. The effect layer places its
// shader at Bounds.
type Cast struct {
	Bounds gesture.Bounds
	// Points is the number of path points the gesture accepted.
	Points int
	At     time.Duration
}

// Frame is the result of one Session tick.
type Frame struct {
	Player    gesture.Point
	Anim      anim.State
	FrameName string
	// Path is the polyline of the gesture in progress, nil when not drawing.
	// It is only valid until the next Tick.
	Path  []gesture.Point
	Casts []Cast
	// Aborted is set on the tick a gesture was cancelled.
	Aborted bool
}

// Delta turns the four directional flags into a movement vector of length
// speed. Opposing keys cancel out; no key yields the zero vector.
func Delta(in Input, speed float64) (dx, dy float64) {
	if in.Up {
		dy--
	}
	if in.Down {
		dy++
	}
	if in.Left {
		dx--
	}
	if in.Right {
		dx++
	}
	l := math.Hypot(dx, dy)
	if l == 0 {
		return 0, 0
	}
	return dx / l * speed, dy / l * speed
}

// Session owns the per-player state of a running scene: position, animation
// state and the drawing gesture. It has no engine dependencies; the host calls
// Tick once per frame with a monotonic clock.
type Session struct {
	Player gesture.Point
	Anim   anim.State
	// Speed is the distance moved per tick while a direction is held.
	Speed float64
	// Map bounds the player position.
	Map Rect

	gesture     *gesture.Gesture
	pointerDown bool
	// suppressed ignores a held pointer after a cancel until it is released.
	suppressed bool

	pathBuf []gesture.Point
	castBuf []Cast
}

// NewSession creates a session with the player idle at spawn.
func NewSession(m Rect, spawn gesture.Point, speed float64) *Session {
	return &Session{
		Player: spawn,
		Anim:   anim.Initial(),
		Speed:  speed,
		Map:    m,
	}
}

// Drawing reports whether a gesture is in progress.
func (s *Session) Drawing() bool {
	return s.gesture != nil
}

// Tick advances the session to time now. Input is fully applied before the
// animation and the gesture are updated, and the returned Frame describes the
// resulting state.
func (s *Session) Tick(now time.Duration, in Input) Frame {
	dx, dy := Delta(in, s.Speed)
	s.Player.X, s.Player.Y = s.Map.Clamp(s.Player.X+dx, s.Player.Y+dy)
	s.Anim = anim.Advance(s.Anim, dx, dy, now)

	s.castBuf = s.castBuf[:0]
	aborted := false

	switch {
	case in.PointerDown && !s.pointerDown:
		if !s.suppressed {
			s.gesture = gesture.Begin(in.Pointer)
		}
	case in.PointerDown && s.gesture != nil:
		s.gesture.MaybeSample(now, in.Pointer)
	case !in.PointerDown && s.pointerDown:
		if s.gesture != nil {
			n := s.gesture.Len()
			s.castBuf = append(s.castBuf, Cast{Bounds: s.gesture.End(), Points: n, At: now})
			s.gesture = nil
		}
		s.suppressed = false
	}
	s.pointerDown = in.PointerDown

	if in.Cancel && s.gesture != nil {
		s.gesture = nil
		s.suppressed = in.PointerDown
		aborted = true
	}

	f := Frame{
		Player:    s.Player,
		Anim:      s.Anim,
		FrameName: anim.FrameName(s.Anim),
		Aborted:   aborted,
	}
	if s.gesture != nil {
		s.pathBuf = s.gesture.AppendPoints(s.pathBuf[:0])
		f.Path = s.pathBuf
	}
	if len(s.castBuf) > 0 {
		f.Casts = s.castBuf
	}
	return f
}

// Respawn moves the player to p, clamped to the map, and abandons any
// gesture. The animation keeps its facing direction.
func (s *Session) Respawn(p gesture.Point) {
	s.Player.X, s.Player.Y = s.Map.Clamp(p.X, p.Y)
	s.gesture = nil
	s.suppressed = s.pointerDown
}
