package spellwalk

import (
	"testing"

	"github.com/phanxgames/spellwalk/gesture"
)

var testBox = gesture.Bounds{MinX: 100, MinY: 100, MaxX: 300, MaxY: 200}

func TestEffectFadeInHoldOut(t *testing.T) {
	e := NewEffect(testBox, EffectConfig{Lifetime: 2, FadeIn: 0.5, FadeOut: 0.5})
	if e.Alpha() != 0 {
		t.Fatalf("initial Alpha = %f, want 0", e.Alpha())
	}

	e.Update(0.25)
	if !approxEqual(e.Alpha(), 0.5, 1e-3) {
		t.Errorf("Alpha after 0.25s = %f, want 0.5", e.Alpha())
	}
	e.Update(0.25)
	if !approxEqual(e.Alpha(), 1, 1e-3) {
		t.Errorf("Alpha after fade-in = %f, want 1", e.Alpha())
	}

	// Hold until lifetime-fadeOut.
	e.Update(0.5)
	if !approxEqual(e.Alpha(), 1, 1e-3) || e.Done() {
		t.Errorf("hold: Alpha = %f done = %v", e.Alpha(), e.Done())
	}

	e.Update(0.5) // age 1.5: fade-out starts
	e.Update(0.25)
	if !approxEqual(e.Alpha(), 0.5, 1e-3) {
		t.Errorf("Alpha mid fade-out = %f, want 0.5", e.Alpha())
	}
	e.Update(0.3)
	if !e.Done() || e.Alpha() != 0 {
		t.Errorf("after lifetime: Alpha = %f done = %v, want 0 true", e.Alpha(), e.Done())
	}
	if e.Visible() {
		t.Error("finished effect still visible")
	}
}

func TestEffectZeroLifetimePersists(t *testing.T) {
	e := NewEffect(testBox, EffectConfig{FadeIn: 0.1, FadeOut: 0.5})
	for i := 0; i < 600; i++ {
		e.Update(1.0 / 60)
	}
	if e.Done() || !approxEqual(e.Alpha(), 1, 1e-6) {
		t.Errorf("Alpha = %f done = %v, want persistent at 1", e.Alpha(), e.Done())
	}
}

func TestEffectNoFades(t *testing.T) {
	e := NewEffect(testBox, EffectConfig{Lifetime: 1})
	if e.Alpha() != 1 || !e.Visible() {
		t.Fatalf("Alpha = %f visible = %v, want 1 true", e.Alpha(), e.Visible())
	}
	e.Update(0.5)
	if e.Done() {
		t.Error("done before lifetime")
	}
	e.Update(0.5)
	if !e.Done() {
		t.Error("not done at lifetime")
	}
}

func TestEffectDegenerateBoxInvisible(t *testing.T) {
	for _, b := range []gesture.Bounds{
		gesture.BoundsOf(gesture.Point{X: 5, Y: 5}),
		{MinX: 0, MinY: 3, MaxX: 10, MaxY: 3},
		{MinX: 2, MinY: 0, MaxX: 2, MaxY: 10},
	} {
		e := NewEffect(b, EffectConfig{})
		if e.Visible() {
			t.Errorf("box %+v is visible", b)
		}
		e.Update(1)
		if e.Done() {
			t.Errorf("box %+v: zero-lifetime effect finished", b)
		}
	}
}

func TestEffectScreenRect(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.X, cam.Y = 400, 300

	e := NewEffect(testBox, EffectConfig{})
	r, ok := e.screenRect(cam, 800, 600)
	if !ok {
		t.Fatal("box on screen reported off screen")
	}
	if r.x != 100 || r.y != 100 || r.width != 200 || r.height != 100 || r.offX != 0 || r.offY != 0 {
		t.Errorf("rect = %+v", r)
	}

	// Clipped at the left and top edges.
	cam.X, cam.Y = 550, 400
	r, ok = e.screenRect(cam, 800, 600)
	if !ok {
		t.Fatal("partially visible box reported off screen")
	}
	if r.x != 0 || r.y != 0 || r.offX != 50 || r.offY != 0 || r.width != 150 || r.fullW != 200 {
		t.Errorf("clipped rect = %+v", r)
	}

	cam.X = 5000
	if _, ok := e.screenRect(cam, 800, 600); ok {
		t.Error("box far off screen reported visible")
	}
}
