package spellwalk

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/spellwalk/anim"
)

// TextureRegion describes a sub-rectangle within an atlas page.
type TextureRegion struct {
	Page      uint16 // atlas page index
	X, Y      uint16 // top-left corner of the sub-image rect within the page
	Width     uint16 // width of the rect as stored (may differ from OriginalW if trimmed)
	Height    uint16 // height of the rect as stored
	OriginalW uint16 // untrimmed sprite width as authored
	OriginalH uint16 // untrimmed sprite height as authored
	OffsetX   int16  // horizontal trim offset from TexturePacker
	OffsetY   int16  // vertical trim offset from TexturePacker
	Rotated   bool   // stored 90 degrees clockwise in the page
}

// Atlas holds one or more page images and a map of named regions.
type Atlas struct {
	// Pages contains the atlas page images indexed by page number.
	Pages   []*ebiten.Image
	regions map[string]TextureRegion
}

// Len returns the number of named regions.
func (a *Atlas) Len() int { return len(a.regions) }

// Has reports whether the atlas defines name.
func (a *Atlas) Has(name string) bool {
	_, ok := a.regions[name]
	return ok
}

// Region returns the TextureRegion for the given name. A missing name logs a
// warning in debug mode and yields a 1x1 magenta placeholder region.
func (a *Atlas) Region(name string) TextureRegion {
	if r, ok := a.regions[name]; ok {
		return r
	}
	if globalDebug {
		log.Printf("spellwalk: atlas region %q not found, using magenta placeholder", name)
	}
	return magentaRegion()
}

// MissingFrames returns the names in want that the atlas does not define.
func (a *Atlas) MissingFrames(want []string) []string {
	var missing []string
	for _, name := range want {
		if !a.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Image returns the page sub-image for a region, or the magenta placeholder.
func (a *Atlas) Image(r TextureRegion) *ebiten.Image {
	if r.Page == magentaPlaceholderPage || int(r.Page) >= len(a.Pages) || a.Pages[r.Page] == nil {
		return ensureMagentaImage()
	}
	x, y := int(r.X), int(r.Y)
	return a.Pages[r.Page].SubImage(image.Rect(x, y, x+int(r.Width), y+int(r.Height))).(*ebiten.Image)
}

// DrawFrame draws the named frame centered on the screen point (cx, cy),
// undoing TexturePacker trimming and rotation. The placeholder for a missing
// frame is drawn as a placeholderSize square.
func (a *Atlas) DrawFrame(dst *ebiten.Image, name string, cx, cy, alpha float64) {
	r := a.Region(name)
	img := a.Image(r)

	var op ebiten.DrawImageOptions
	if r.Page == magentaPlaceholderPage {
		op.GeoM.Scale(placeholderSize, placeholderSize)
		op.GeoM.Translate(cx-placeholderSize/2, cy-placeholderSize/2)
	} else {
		if r.Rotated {
			// Stored clockwise: rotate back and shift into the positive quadrant.
			op.GeoM.Rotate(-math.Pi / 2)
			op.GeoM.Translate(0, float64(r.Width))
		}
		op.GeoM.Translate(float64(r.OffsetX), float64(r.OffsetY))
		op.GeoM.Translate(cx-float64(r.OriginalW)/2, cy-float64(r.OriginalH)/2)
	}
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(img, &op)
}

const placeholderSize = 16

// magenta placeholder singleton (no sync.Once: the game loop is single-threaded)
var magentaImage *ebiten.Image

func ensureMagentaImage() *ebiten.Image {
	if magentaImage == nil {
		magentaImage = ebiten.NewImage(1, 1)
		magentaImage.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
	}
	return magentaImage
}

// magentaPlaceholderPage is a sentinel page index high enough to never collide
// with real atlas pages.
const magentaPlaceholderPage = 0xFFFF

func magentaRegion() TextureRegion {
	return TextureRegion{
		Page:      magentaPlaceholderPage,
		Width:     1,
		Height:    1,
		OriginalW: 1,
		OriginalH: 1,
	}
}

// LoadAtlas parses TexturePacker JSON data and associates the given page images.
// Supports both the hash format (single "frames" object) and the array format
// ("textures" array with per-page frame lists).
func LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("spellwalk: failed to parse atlas JSON: %w", err)
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]TextureRegion),
	}

	switch {
	case probe.Textures != nil:
		if err := parseArrayFormat(probe.Textures, atlas); err != nil {
			return nil, err
		}
	case probe.Frames != nil:
		if err := parseHashFrames(probe.Frames, 0, atlas); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("spellwalk: atlas JSON has neither \"frames\" nor \"textures\" key")
	}

	return atlas, nil
}

// LoadAtlasFile reads a TexturePacker JSON file and its page images. When
// imagePath is empty the page names are taken from the JSON (meta.image for
// the hash format, textures[].image for the array format), relative to the
// JSON file.
func LoadAtlasFile(jsonPath, imagePath string) (*Atlas, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("spellwalk: read atlas %s: %w", jsonPath, err)
	}

	var paths []string
	if imagePath != "" {
		paths = []string{imagePath}
	} else {
		names, err := atlasPageNames(data)
		if err != nil {
			return nil, err
		}
		dir := filepath.Dir(jsonPath)
		for _, n := range names {
			paths = append(paths, filepath.Join(dir, n))
		}
	}

	pages := make([]*ebiten.Image, 0, len(paths))
	for _, p := range paths {
		img, _, err := ebitenutil.NewImageFromFile(p)
		if err != nil {
			return nil, fmt.Errorf("spellwalk: load atlas page %s: %w", p, err)
		}
		pages = append(pages, img)
	}
	return LoadAtlas(data, pages)
}

// atlasPageNames lists the page image names referenced by atlas JSON.
func atlasPageNames(data []byte) ([]string, error) {
	var doc struct {
		Meta struct {
			Image string `json:"image"`
		} `json:"meta"`
		Textures []jsonTexturePage `json:"textures"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("spellwalk: failed to parse atlas JSON: %w", err)
	}
	var names []string
	for _, t := range doc.Textures {
		names = append(names, t.Image)
	}
	if len(names) == 0 && doc.Meta.Image != "" {
		names = append(names, doc.Meta.Image)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("spellwalk: atlas JSON names no page image")
	}
	return names, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage, pageIndex uint16, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("spellwalk: failed to parse atlas frames: %w", err)
	}
	for name, f := range frames {
		atlas.regions[name] = frameToRegion(f, pageIndex)
	}
	return nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("spellwalk: failed to parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		for name, f := range tex.Frames {
			atlas.regions[name] = frameToRegion(f, uint16(i))
		}
	}
	return nil
}

func frameToRegion(f jsonFrame, page uint16) TextureRegion {
	r := TextureRegion{
		Page:      page,
		X:         uint16(f.Frame.X),
		Y:         uint16(f.Frame.Y),
		Width:     uint16(f.Frame.W),
		Height:    uint16(f.Frame.H),
		OriginalW: uint16(f.SourceSize.W),
		OriginalH: uint16(f.SourceSize.H),
		OffsetX:   int16(f.SpriteSourceSize.X),
		OffsetY:   int16(f.SpriteSourceSize.Y),
		Rotated:   f.Rotated,
	}
	// Exporters that omit sourceSize describe untrimmed frames.
	if r.OriginalW == 0 && r.OriginalH == 0 {
		r.OriginalW, r.OriginalH = r.Width, r.Height
	}
	return r
}

// --- Generated human atlas ---

// humanAtlasLayout places every anim frame in a grid of size x size cells:
// one row per direction, the idle pose in column 0 and the walk cycle in
// columns 1..8.
func humanAtlasLayout(size int) map[string]TextureRegion {
	regions := make(map[string]TextureRegion, len(anim.Directions)*(anim.WalkFrames+1))
	for row, d := range anim.Directions {
		for col := 0; col <= anim.WalkFrames; col++ {
			s := anim.State{Direction: d}
			if col > 0 {
				s.Locomotion = anim.Walk
				s.Frame = col - 1
			}
			regions[anim.FrameName(s)] = TextureRegion{
				X:         uint16(col * size),
				Y:         uint16(row * size),
				Width:     uint16(size),
				Height:    uint16(size),
				OriginalW: uint16(size),
				OriginalH: uint16(size),
			}
		}
	}
	return regions
}

// directionVector returns the unit vector a Direction faces, Y down.
func directionVector(d anim.Direction) (float64, float64) {
	const h = math.Sqrt2 / 2
	switch d {
	case anim.W:
		return -1, 0
	case anim.NW:
		return -h, -h
	case anim.N:
		return 0, -1
	case anim.NE:
		return h, -h
	case anim.E:
		return 1, 0
	case anim.SE:
		return h, h
	case anim.S:
		return 0, 1
	default:
		return -h, h
	}
}

// GenerateHumanAtlas draws a placeholder character sheet covering every frame
// name the animation state machine produces: a body with a facing marker, and
// legs that swing through the walk cycle.
func GenerateHumanAtlas(size int) *Atlas {
	regions := humanAtlasLayout(size)
	page := ebiten.NewImage(size*(anim.WalkFrames+1), size*len(anim.Directions))

	body := color.RGBA{R: 0x8b, G: 0x5a, B: 0x2b, A: 0xff}
	skin := color.RGBA{R: 0xf1, G: 0xc2, B: 0x7d, A: 0xff}
	legs := color.RGBA{R: 0x2f, G: 0x2f, B: 0x4f, A: 0xff}
	s := float32(size)

	for name, r := range regions {
		cell := page.SubImage(image.Rect(int(r.X), int(r.Y), int(r.X)+size, int(r.Y)+size)).(*ebiten.Image)
		ox, oy := float32(r.X), float32(r.Y)
		cx, cy := ox+s/2, oy+s/2

		st := stateForFrame(name)
		fx, fy := directionVector(st.Direction)

		// Legs swing along the facing axis while walking.
		swing := float32(0)
		if st.Locomotion == anim.Walk {
			swing = float32(math.Sin(float64(st.Frame)/float64(anim.WalkFrames)*2*math.Pi)) * s * 0.18
		}
		px, py := float32(-fy), float32(fx)
		for _, side := range []float32{-1, 1} {
			hx := cx + px*side*s*0.12
			hy := cy + py*side*s*0.12
			vector.StrokeLine(cell, hx, hy, hx+float32(fx)*swing*side, hy+s*0.4, s*0.08, legs, true)
		}

		vector.DrawFilledCircle(cell, cx, cy, s*0.26, body, true)
		vector.DrawFilledCircle(cell, cx+float32(fx)*s*0.16, cy+float32(fy)*s*0.16, s*0.12, skin, true)
	}

	return &Atlas{Pages: []*ebiten.Image{page}, regions: regions}
}

// stateForFrame reverses FrameName for the generated layout.
func stateForFrame(name string) anim.State {
	for _, d := range anim.Directions {
		if name == d.Lower() {
			return anim.State{Direction: d}
		}
		for f := 0; f < anim.WalkFrames; f++ {
			s := anim.State{Locomotion: anim.Walk, Direction: d, Frame: f}
			if name == anim.FrameName(s) {
				return s
			}
		}
	}
	return anim.Initial()
}
