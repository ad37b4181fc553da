package spellwalk

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/spellwalk/gesture"
)

// InputSource produces the per-tick Input for a Session. Pointer positions
// are converted to world space through cam.
type InputSource interface {
	Poll(cam *Camera) Input
}

// ebitenInput reads the keyboard, the left mouse button and the first touch.
type ebitenInput struct {
	keys keyBindings

	touchIDs []ebiten.TouchID
	touch    ebiten.TouchID
	touching bool
	// lastX and lastY keep a released touch at its final position.
	lastX, lastY float64
}

func newEbitenInput(keys keyBindings) *ebitenInput {
	return &ebitenInput{keys: keys}
}

// Poll implements InputSource.
func (in *ebitenInput) Poll(cam *Camera) Input {
	var out Input
	out.Up = ebiten.IsKeyPressed(in.keys[ActionUp])
	out.Down = ebiten.IsKeyPressed(in.keys[ActionDown])
	out.Left = ebiten.IsKeyPressed(in.keys[ActionLeft])
	out.Right = ebiten.IsKeyPressed(in.keys[ActionRight])
	out.Cancel = inpututil.IsKeyJustPressed(in.keys[ActionCancel])

	sx, sy, down := in.pointer()
	wx, wy := screenToWorld(cam, sx, sy)
	out.PointerDown = down
	out.Pointer = gesture.Point{X: wx, Y: wy}
	return out
}

// pointer returns the screen position and pressed state of the primary
// pointer. An active touch takes precedence over the mouse.
func (in *ebitenInput) pointer() (float64, float64, bool) {
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])

	if in.touching {
		for _, id := range in.touchIDs {
			if id == in.touch {
				tx, ty := ebiten.TouchPosition(id)
				in.lastX, in.lastY = float64(tx), float64(ty)
				return in.lastX, in.lastY, true
			}
		}
		in.touching = false
		return in.lastX, in.lastY, false
	}
	if len(in.touchIDs) > 0 {
		in.touch = in.touchIDs[0]
		in.touching = true
		tx, ty := ebiten.TouchPosition(in.touch)
		in.lastX, in.lastY = float64(tx), float64(ty)
		return in.lastX, in.lastY, true
	}

	mx, my := ebiten.CursorPosition()
	return float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

// screenToWorld converts screen coordinates to world coordinates; a nil
// camera is the identity.
func screenToWorld(cam *Camera, sx, sy float64) (float64, float64) {
	if cam != nil {
		return cam.ScreenToWorld(sx, sy)
	}
	return sx, sy
}
