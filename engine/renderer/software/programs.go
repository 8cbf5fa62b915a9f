package software

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

// Program is the CPU stand-in for a shader. Draw rasterises one sub-mesh
// footprint, Blit runs a fullscreen pass. Either may be nil.
type Program struct {
	Draw func(dst *image.RGBA, bounds image.Rectangle, material *metadata.Material, pass int)
	Blit func(dst, src *image.RGBA, material *metadata.Material, pass int, globals map[string]*metadata.Texture)
}

func (c *Context) registerBuiltinPrograms() {
	c.RegisterProgram(metadata.ShaderNameCopy, Program{Blit: blitCopy})
	c.RegisterProgram(metadata.ShaderNameUnlit, Program{Draw: drawFlat(math.NewVec4One())})
	c.RegisterProgram(metadata.ShaderNameLit, Program{Draw: drawFlat(math.NewVec4Create(0.5, 0.5, 0.5, 1))})
	c.RegisterProgram(metadata.ShaderNameSimpleLit, Program{Draw: drawFlat(math.NewVec4Create(0.5, 0.5, 0.5, 1))})
	c.RegisterProgram(metadata.ShaderNameGhost, Program{Draw: drawGhost})
	c.RegisterProgram(metadata.ShaderNameOutline, Program{Blit: blitOutline})
	c.RegisterProgram(metadata.ShaderNameOutlineBlend, Program{Blit: blitOver})
	c.RegisterProgram(metadata.ShaderNameBlur, Program{Blit: blitBlur})
	c.RegisterProgram(metadata.ShaderNameVolumetric, Program{Blit: blitVolumetric})
}

func blitCopy(dst, src *image.RGBA, material *metadata.Material, pass int, globals map[string]*metadata.Texture) {
	copyImage(dst, src)
}

func drawFlat(fallback math.Vec4) func(*image.RGBA, image.Rectangle, *metadata.Material, int) {
	return func(dst *image.RGBA, bounds image.Rectangle, material *metadata.Material, pass int) {
		fill(dst, bounds, toRGBA(materialColour(material, "_Color", fallback)))
	}
}

func drawGhost(dst *image.RGBA, bounds image.Rectangle, material *metadata.Material, pass int) {
	c := materialColour(material, "_Color", math.NewVec4Create(1, 1, 1, 0.5))
	draw.Draw(dst, bounds, image.NewUniform(premultiplied(c)), image.Point{}, draw.Over)
}

// blitOutline writes _OutlineColor on every empty pixel touching a filled one.
func blitOutline(dst, src *image.RGBA, material *metadata.Material, pass int, globals map[string]*metadata.Texture) {
	outline := toRGBA(materialColour(material, "_OutlineColor", math.NewVec4Create(1, 0.5, 0, 1)))
	b := src.Bounds()
	fill(dst, dst.Bounds(), color.RGBA{})
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if src.RGBAAt(x, y).A != 0 {
				continue
			}
			if filledNeighbour(src, x, y) {
				dst.SetRGBA(x, y, outline)
			}
		}
	}
}

func filledNeighbour(img *image.RGBA, x, y int) bool {
	b := img.Bounds()
	for _, d := range [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		p := image.Pt(x+d.X, y+d.Y)
		if p.In(b) && img.RGBAAt(p.X, p.Y).A != 0 {
			return true
		}
	}
	return false
}

// blitOver composites src over dst.
func blitOver(dst, src *image.RGBA, material *metadata.Material, pass int, globals map[string]*metadata.Texture) {
	if src.Bounds().Size() == dst.Bounds().Size() {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
		return
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
}

func blitBlur(dst, src *image.RGBA, material *metadata.Material, pass int, globals map[string]*metadata.Texture) {
	radius := 1
	if material != nil {
		if r, ok := material.GetFloat("_Radius"); ok {
			radius = int(r)
		}
	}
	boxBlur(dst, src, radius)
}

// blitVolumetric: pass 0 extracts tinted light, 1 and 2 blur it, 3 adds it back onto _FinalTex.
func blitVolumetric(dst, src *image.RGBA, material *metadata.Material, pass int, globals map[string]*metadata.Texture) {
	switch pass {
	case 0:
		tint := materialColour(material, "_Color", math.NewVec4One())
		intensity, _ := material.GetFloat("_LightIntensity")
		scale := tint.MulScalar(intensity * 10)
		mapPixels(dst, src, func(c math.Vec4) math.Vec4 {
			l := 0.2126*c.X + 0.7152*c.Y + 0.0722*c.Z
			return math.NewVec4Create(l*scale.X, l*scale.Y, l*scale.Z, 1).Saturate()
		})
	case 1, 2:
		boxBlur(dst, src, 1)
	case 3:
		final := Image(globals["_FinalTex"])
		if final == nil || final.Bounds() != src.Bounds() {
			copyImage(dst, src)
			return
		}
		b := src.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				v := fromRGBA(final.RGBAAt(x, y)).Add(fromRGBA(src.RGBAAt(x, y)))
				v.W = 1
				dst.SetRGBA(x, y, toRGBA(v.Saturate()))
			}
		}
	default:
		copyImage(dst, src)
	}
}

func copyImage(dst, src *image.RGBA) {
	if dst == src {
		return
	}
	if src.Bounds().Size() == dst.Bounds().Size() {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
		return
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// mapPixels writes f(src) into dst; both must share bounds.
func mapPixels(dst, src *image.RGBA, f func(math.Vec4) math.Vec4) {
	b := src.Bounds().Intersect(dst.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetRGBA(x, y, toRGBA(f(fromRGBA(src.RGBAAt(x, y)))))
		}
	}
}

func boxBlur(dst, src *image.RGBA, radius int) {
	if radius <= 0 || dst == src {
		copyImage(dst, src)
		return
	}
	b := src.Bounds().Intersect(dst.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var r, g, bl, a, n int
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					p := image.Pt(x+dx, y+dy)
					if !p.In(b) {
						continue
					}
					c := src.RGBAAt(p.X, p.Y)
					r += int(c.R)
					g += int(c.G)
					bl += int(c.B)
					a += int(c.A)
					n++
				}
			}
			dst.SetRGBA(x, y, color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n), A: uint8(a / n)})
		}
	}
}

func materialColour(m *metadata.Material, name string, fallback math.Vec4) math.Vec4 {
	if m == nil {
		return fallback
	}
	if c, ok := m.GetColour(name); ok {
		return c
	}
	return fallback
}

func toRGBA(c math.Vec4) color.RGBA {
	return color.RGBA{R: math.ToByte(c.X), G: math.ToByte(c.Y), B: math.ToByte(c.Z), A: math.ToByte(c.W)}
}

func fromRGBA(c color.RGBA) math.Vec4 {
	return math.NewVec4Create(math.FromByte(c.R), math.FromByte(c.G), math.FromByte(c.B), math.FromByte(c.A))
}

func premultiplied(c math.Vec4) color.RGBA {
	return toRGBA(math.NewVec4Create(c.X*c.W, c.Y*c.W, c.Z*c.W, c.W))
}
