package spellwalk

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera is the view into the map: the world point at the viewport centre
// and a zoom factor.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in).
	Zoom float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	// BoundsEnabled clamps the camera so the visible area stays within Bounds.
	BoundsEnabled bool
	Bounds        Rect

	following  bool
	targetX    float64
	targetY    float64
	followLerp float64

	scrollTween *scrollAnim
}

// NewCamera creates a Camera centered on the origin.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Zoom:     1.0,
		Viewport: viewport,
	}
}

// Follow makes the camera track the point last passed to SetTarget. A lerp
// of 1.0 snaps immediately; lower values trail behind.
func (c *Camera) Follow(lerp float64) {
	c.following = true
	c.followLerp = lerp
}

// Unfollow stops tracking the target.
func (c *Camera) Unfollow() {
	c.following = false
}

// SetTarget sets the world point the camera follows.
func (c *Camera) SetTarget(x, y float64) {
	c.targetX, c.targetY = x, y
}

// CenterOn snaps the camera onto (x, y), cancelling any scroll.
func (c *Camera) CenterOn(x, y float64) {
	c.scrollTween = nil
	c.X, c.Y = x, y
	c.ClampToBounds()
}

// ScrollTo animates the camera to the given world position over duration
// seconds. Following is suspended until the scroll completes.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if duration <= 0 {
		c.CenterOn(x, y)
		return
	}
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is running.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// SetBounds enables clamping to bounds.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClampToBounds immediately clamps the camera position. No-op if
// BoundsEnabled is false.
func (c *Camera) ClampToBounds() {
	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// Update advances the scroll animation or the follow lerp by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	} else if c.following {
		c.X += (c.targetX - c.X) * c.followLerp
		c.Y += (c.targetY - c.Y) * c.followLerp
	}

	c.ClampToBounds()
}

// clampToBounds restricts the camera so the visible area stays within Bounds.
// A map smaller than the viewport is centered.
func (c *Camera) clampToBounds() {
	halfW := c.Viewport.Width / (2 * c.Zoom)
	halfH := c.Viewport.Height / (2 * c.Zoom)

	minX := c.Bounds.X + halfW
	maxX := c.Bounds.X + c.Bounds.Width - halfW
	minY := c.Bounds.Y + halfH
	maxY := c.Bounds.Y + c.Bounds.Height - halfH

	if minX > maxX {
		c.X = c.Bounds.X + c.Bounds.Width/2
	} else {
		c.X = math.Max(minX, math.Min(c.X, maxX))
	}
	if minY > maxY {
		c.Y = c.Bounds.Y + c.Bounds.Height/2
	} else {
		c.Y = math.Max(minY, math.Min(c.Y, maxY))
	}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	sx = c.Viewport.X + c.Viewport.Width/2 + (wx-c.X)*c.Zoom
	sy = c.Viewport.Y + c.Viewport.Height/2 + (wy-c.Y)*c.Zoom
	return
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	wx = (sx-c.Viewport.X-c.Viewport.Width/2)/c.Zoom + c.X
	wy = (sy-c.Viewport.Y-c.Viewport.Height/2)/c.Zoom + c.Y
	return
}

// VisibleBounds returns the world-space rectangle the camera shows.
func (c *Camera) VisibleBounds() Rect {
	w := c.Viewport.Width / c.Zoom
	h := c.Viewport.Height / c.Zoom
	return Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

// GeoM returns the world-to-screen transform for DrawImage calls.
func (c *Camera) GeoM() ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(-c.X, -c.Y)
	m.Scale(c.Zoom, c.Zoom)
	m.Translate(c.Viewport.X+c.Viewport.Width/2, c.Viewport.Y+c.Viewport.Height/2)
	return m
}
