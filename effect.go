package spellwalk

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/spellwalk/gesture"
)

// plasmaShaderSrc is a domain-warped fbm plasma with a soft elliptical edge.
// Offset is the position of the drawn rect inside the full effect rect of
// size Resolution, so a clipped draw renders the same pixels.
const plasmaShaderSrc = `//kage:unit pixels
package main

var Time float
var Resolution vec2
var Offset vec2
var Alpha float

func hash(p vec2) float {
	h := dot(p, vec2(127.1, 311.7))
	return -1.0 + 2.0*fract(sin(h)*43758.5453123)
}

func noise(p vec2) float {
	i := floor(p)
	f := fract(p)
	u := f * f * (vec2(3.0) - 2.0*f)
	a := mix(hash(i+vec2(0.0, 0.0)), hash(i+vec2(1.0, 0.0)), u.x)
	b := mix(hash(i+vec2(0.0, 1.0)), hash(i+vec2(1.0, 1.0)), u.x)
	return mix(a, b, u.y)
}

func rotate(p vec2) vec2 {
	return vec2(0.8*p.x-0.6*p.y, 0.6*p.x+0.8*p.y)
}

func fbm(p vec2) float {
	q := p
	f := 0.0
	f += 0.5000 * noise(q)
	q = rotate(q) * 2.02
	f += 0.2500 * noise(q)
	q = rotate(q) * 2.03
	f += 0.1250 * noise(q)
	q = rotate(q) * 2.01
	f += 0.0625 * noise(q)
	return f / 0.9375
}

func fbm2(p vec2) vec2 {
	return vec2(fbm(p.xy), fbm(p.yx))
}

func plasma(p vec2) vec3 {
	q := p * 0.7
	warp := fbm2(vec2(-0.3*Time) + 2.0*(q+fbm2(4.0*q)))
	f := dot(fbm2(vec2(0.3*Time)+q+warp), vec2(1.0, -1.0))
	bl := smoothstep(-0.8, 0.8, f)
	ti := smoothstep(-1.0, 1.0, fbm(q))
	return mix(mix(vec3(0.50, 0.00, 0.00), vec3(1.00, 0.10, 0.35), ti), vec3(0.00, 0.00, 0.02), bl)
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	frag := src + Offset
	p := (2.0*frag - Resolution) / Resolution.y

	e := 0.0045
	colc := plasma(p)
	gc := dot(colc, vec3(0.333))
	cola := plasma(p + vec2(e, 0.0))
	ga := dot(cola, vec3(0.333))
	colb := plasma(p + vec2(0.0, e))
	gb := dot(colb, vec3(0.333))

	nor := normalize(vec3(ga-gc, e, gb-gc))

	col := colc
	col += vec3(0.6, 0.7, 0.6) * 8.0 * abs(2.0*gc-ga-gb)
	col *= 1.0 + 0.2*nor.y*nor.y
	col += vec3(0.05 * nor.y * nor.y * nor.y)

	q := frag / Resolution
	col *= pow(16.0*q.x*q.y*(1.0-q.x)*(1.0-q.y), 0.1)

	normDist := length((frag - Resolution*0.5) / (Resolution * 0.5))
	a := -2.901118 + 3.901118/(1.0+pow(normDist, 50.15829))
	a = clamp(a, 0.0, 1.0) * Alpha
	return vec4(clamp(col, vec3(0.0), vec3(1.0))*a, a)
}
`

// Lazy shader compilation (no sync.Once: the game loop is single-threaded).
var plasmaShader *ebiten.Shader

func ensurePlasmaShader() *ebiten.Shader {
	if plasmaShader == nil {
		s, err := ebiten.NewShader([]byte(plasmaShaderSrc))
		if err != nil {
			panic("spellwalk: failed to compile plasma shader: " + err.Error())
		}
		plasmaShader = s
	}
	return plasmaShader
}

// Effect is the plasma drawn over a cast's bounding box. It fades in, holds
// and fades out; a zero lifetime holds forever.
type Effect struct {
	// Bounds is the world-space box the plasma fills.
	Bounds gesture.Bounds

	age       float32
	lifetime  float32
	fadeOut   float32
	alpha     float32
	fade      *gween.Tween
	fadingOut bool
	done      bool

	shaderOp ebiten.DrawRectShaderOptions
}

// NewEffect creates an effect over b with the configured timings.
func NewEffect(b gesture.Bounds, cfg EffectConfig) *Effect {
	e := &Effect{
		Bounds:   b,
		lifetime: float32(cfg.Lifetime),
		fadeOut:  float32(cfg.FadeOut),
		alpha:    1,
	}
	if cfg.FadeIn > 0 {
		e.alpha = 0
		e.fade = gween.New(0, 1, float32(cfg.FadeIn), ease.Linear)
	}
	e.shaderOp.Uniforms = make(map[string]any, 4)
	return e
}

// Update advances the fades by dt seconds.
func (e *Effect) Update(dt float32) {
	if e.done {
		return
	}
	e.age += dt

	if e.fade != nil {
		val, finished := e.fade.Update(dt)
		e.alpha = val
		if finished {
			e.fade = nil
			if e.fadingOut {
				e.alpha = 0
				e.done = true
				return
			}
		}
	}

	if e.lifetime > 0 && !e.fadingOut && e.age >= e.lifetime-e.fadeOut {
		e.fadingOut = true
		if e.fadeOut <= 0 {
			e.alpha = 0
			e.done = true
			return
		}
		e.fade = gween.New(e.alpha, 0, e.fadeOut, ease.Linear)
	}
}

// Alpha returns the current opacity in [0, 1].
func (e *Effect) Alpha() float64 {
	return float64(e.alpha)
}

// Done reports whether the effect has faded out and can be dropped.
func (e *Effect) Done() bool {
	return e.done
}

// Visible reports whether Draw would render anything: the box has area and
// the effect is not fully transparent.
func (e *Effect) Visible() bool {
	return !e.done && e.alpha > 0 && !e.Bounds.Empty()
}

// shaderRect is the on-screen placement of an effect. fullW and fullH are
// the projected box size; x, y is the screen position of the clipped rect and
// offX, offY its origin inside the full box.
type shaderRect struct {
	fullW, fullH  float64
	x, y          float64
	offX, offY    float64
	width, height int
}

// screenRect projects the box through cam and clips it to a screen of size
// sw x sh. It reports false when nothing is on screen.
func (e *Effect) screenRect(cam *Camera, sw, sh int) (shaderRect, bool) {
	x0, y0 := cam.WorldToScreen(e.Bounds.MinX, e.Bounds.MinY)
	x1, y1 := cam.WorldToScreen(e.Bounds.MaxX, e.Bounds.MaxY)

	cx0 := math.Max(x0, 0)
	cy0 := math.Max(y0, 0)
	cx1 := math.Min(x1, float64(sw))
	cy1 := math.Min(y1, float64(sh))
	w := int(math.Ceil(cx1 - cx0))
	h := int(math.Ceil(cy1 - cy0))
	if w <= 0 || h <= 0 {
		return shaderRect{}, false
	}
	return shaderRect{
		fullW:  x1 - x0,
		fullH:  y1 - y0,
		x:      cx0,
		y:      cy0,
		offX:   cx0 - x0,
		offY:   cy0 - y0,
		width:  w,
		height: h,
	}, true
}

// Draw renders the plasma into dst. t is the scene clock in seconds and
// drives the animation. Degenerate boxes draw nothing.
func (e *Effect) Draw(dst *ebiten.Image, cam *Camera, t float64) {
	if !e.Visible() {
		return
	}
	b := dst.Bounds()
	r, ok := e.screenRect(cam, b.Dx(), b.Dy())
	if !ok {
		return
	}

	e.shaderOp.GeoM.Reset()
	e.shaderOp.GeoM.Translate(r.x, r.y)
	e.shaderOp.Uniforms["Time"] = float32(t)
	e.shaderOp.Uniforms["Resolution"] = []float32{float32(r.fullW), float32(r.fullH)}
	e.shaderOp.Uniforms["Offset"] = []float32{float32(r.offX), float32(r.offY)}
	e.shaderOp.Uniforms["Alpha"] = e.alpha
	dst.DrawRectShader(r.width, r.height, ensurePlasmaShader(), &e.shaderOp)
}
