// Package anim derives a character's facing direction and walk cycle frame
// from per-tick movement input.
//
// The state machine is a pure function: [Advance] takes the previous [State],
// a movement delta and the current time and returns the next State. It holds
// no references and never touches the host engine, so the caller owns the
// state and decides when to tick it.
package anim

import (
	"fmt"
	"time"
)

// FrameInterval is the minimum time a walk frame stays on screen (15 fps).
const FrameInterval = time.Second / 15

// WalkFrames is the length of the walk cycle.
const WalkFrames = 8

// Direction is one of the eight compass directions a character can face.
type Direction uint8

const (
	W Direction = iota
	NW
	N
	NE
	E
	SE
	S
	SW
)

// Directions lists every Direction.
var Directions = [...]Direction{W, NW, N, NE, E, SE, S, SW}

var directionNames = [...]string{
	W:  "W",
	NW: "NW",
	N:  "N",
	NE: "NE",
	E:  "E",
	SE: "SE",
	S:  "S",
	SW: "SW",
}

var directionLower = [...]string{
	W:  "w",
	NW: "nw",
	N:  "n",
	NE: "ne",
	E:  "e",
	SE: "se",
	S:  "s",
	SW: "sw",
}

// String returns the upper-case compass name ("NW").
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Lower returns the lower-case compass name used in atlas frame names ("nw").
func (d Direction) Lower() string {
	if int(d) < len(directionLower) {
		return directionLower[d]
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// Locomotion selects between the static pose and the walk cycle.
type Locomotion uint8

const (
	Idle Locomotion = iota
	Walk
)

// String returns "idle" or "walk".
func (l Locomotion) String() string {
	switch l {
	case Idle:
		return "idle"
	case Walk:
		return "walk"
	default:
		return fmt.Sprintf("Locomotion(%d)", uint8(l))
	}
}

// State is a snapshot of the animation. Frame is in [0, WalkFrames) and only
// selects an image while walking. LastFrameChange uses the same clock as the
// now argument of Advance.
type State struct {
	Frame           int
	Locomotion      Locomotion
	Direction       Direction
	LastFrameChange time.Duration
}

// Initial returns the state a character starts a session in: idle, facing
// north, frame 0.
func Initial() State {
	return State{Locomotion: Idle, Direction: N}
}

// DirectionOf maps the signs of a movement delta to a compass direction.
// Magnitudes are ignored. The zero vector has no direction and reports false.
func DirectionOf(dx, dy float64) (Direction, bool) {
	switch {
	case dx > 0 && dy == 0:
		return E, true
	case dx < 0 && dy == 0:
		return W, true
	case dx > 0 && dy > 0:
		return SE, true
	case dx > 0 && dy < 0:
		return NE, true
	case dx < 0 && dy > 0:
		return SW, true
	case dx < 0 && dy < 0:
		return NW, true
	case dx == 0 && dy < 0:
		return N, true
	case dx == 0 && dy > 0:
		return S, true
	}
	return 0, false
}

// Advance returns the state that follows s given the movement delta (dx, dy)
// observed at time now.
//
// The character walks whenever the delta is non-zero and idles otherwise.
// While idle it keeps facing its last direction. A walk frame advances only
// when the character was already walking on the previous tick and at least
// FrameInterval has passed since the last frame change, so the cycle speed is
// independent of the tick rate. Starting a walk or stopping resets the frame
// to 0.
func Advance(s State, dx, dy float64, now time.Duration) State {
	next := s
	if dir, ok := DirectionOf(dx, dy); ok {
		next.Direction = dir
	}
	next.Locomotion = Idle
	if dx != 0 || dy != 0 {
		next.Locomotion = Walk
	}

	if s.Locomotion == Walk && next.Locomotion == Walk {
		if now-s.LastFrameChange >= FrameInterval {
			next.Frame = (s.Frame + 1) % WalkFrames
			next.LastFrameChange = now
		}
		return next
	}

	next.Frame = 0
	if next.Locomotion == Walk || s.Frame != 0 {
		next.LastFrameChange = now
	}
	return next
}

// FrameName returns the atlas frame name for s: the lower-case direction when
// idle ("nw"), and the direction plus the 1-based walk frame when walking
// ("nw_p3").
func FrameName(s State) string {
	if s.Locomotion == Walk {
		return fmt.Sprintf("%s_p%d", s.Direction.Lower(), s.Frame%WalkFrames+1)
	}
	return s.Direction.Lower()
}

// FrameNames lists every frame name FrameName can return, idle poses first,
// then each direction's walk cycle in order.
func FrameNames() []string {
	names := make([]string, 0, len(Directions)*(WalkFrames+1))
	for _, d := range Directions {
		names = append(names, FrameName(State{Direction: d}))
	}
	for _, d := range Directions {
		for f := 0; f < WalkFrames; f++ {
			names = append(names, FrameName(State{Locomotion: Walk, Direction: d, Frame: f}))
		}
	}
	return names
}
