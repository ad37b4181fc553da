package spellwalk

import "github.com/phanxgames/spellwalk/gesture"

// syntheticPointerEvent is one queued pointer state. Screen coordinates are
// used, matching what a screenshot shows, and converted to world space
// through the camera exactly like real mouse input.
type syntheticPointerEvent struct {
	screenX, screenY float64
	pressed          bool
}

// ScriptedInput is an InputSource fed by code or a test script instead of
// the keyboard and mouse. Held actions stay down until released; pointer
// events are consumed one per Poll.
type ScriptedInput struct {
	held  [actionCount]bool
	queue []syntheticPointerEvent

	pressed      bool
	lastX, lastY float64
}

// NewScriptedInput returns an idle ScriptedInput.
func NewScriptedInput() *ScriptedInput {
	return &ScriptedInput{}
}

// Hold presses an action until Release is called.
func (si *ScriptedInput) Hold(a Action) {
	if a < actionCount {
		si.held[a] = true
	}
}

// Release lifts a held action.
func (si *ScriptedInput) Release(a Action) {
	if a < actionCount {
		si.held[a] = false
	}
}

// ReleaseAll lifts every held action.
func (si *ScriptedInput) ReleaseAll() {
	si.held = [actionCount]bool{}
}

// Press queues a pointer press at the given screen coordinates.
func (si *ScriptedInput) Press(x, y float64) {
	si.queue = append(si.queue, syntheticPointerEvent{screenX: x, screenY: y, pressed: true})
}

// Move queues a pointer move with the button held down. Use this between
// Press and Up to draw.
func (si *ScriptedInput) Move(x, y float64) {
	si.queue = append(si.queue, syntheticPointerEvent{screenX: x, screenY: y, pressed: true})
}

// Up queues a pointer release at the given screen coordinates.
func (si *ScriptedInput) Up(x, y float64) {
	si.queue = append(si.queue, syntheticPointerEvent{screenX: x, screenY: y})
}

// Click queues a press followed by a release at the same point. Consumes two
// frames.
func (si *ScriptedInput) Click(x, y float64) {
	si.Press(x, y)
	si.Up(x, y)
}

// Drag queues a full stroke: press at (fromX, fromY), linearly interpolated
// moves over frames-2 intermediate frames, and release at (toX, toY). The
// sequence consumes frames frames; the minimum is 2.
func (si *ScriptedInput) Drag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	si.Press(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		si.Move(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	si.Up(toX, toY)
}

// Pending returns the number of queued pointer events.
func (si *ScriptedInput) Pending() int {
	return len(si.queue)
}

// Poll implements InputSource. With an empty queue the pointer keeps its
// last position and pressed state.
func (si *ScriptedInput) Poll(cam *Camera) Input {
	if len(si.queue) > 0 {
		evt := si.queue[0]
		copy(si.queue, si.queue[1:])
		si.queue = si.queue[:len(si.queue)-1]
		si.lastX, si.lastY = evt.screenX, evt.screenY
		si.pressed = evt.pressed
	}

	wx, wy := screenToWorld(cam, si.lastX, si.lastY)
	return Input{
		Up:          si.held[ActionUp],
		Down:        si.held[ActionDown],
		Left:        si.held[ActionLeft],
		Right:       si.held[ActionRight],
		Cancel:      si.held[ActionCancel],
		PointerDown: si.pressed,
		Pointer:     gesture.Point{X: wx, Y: wy},
	}
}
