package scheduler

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/effects"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/spaghettifunk/prism/engine/renderer/software"
	"github.com/spaghettifunk/prism/engine/systems"
)

const tagShader = "Test/Tag"

// tagEffect maps the red channel of every pixel to red*3 + id, so the
// final value encodes the order effects ran in.
type tagEffect struct {
	name     string
	id       int
	order    int
	active   bool
	material *metadata.Material
	setups   int
}

func newTagEffect(name string, id, order int, active bool) *tagEffect {
	m := metadata.NewMaterial(name, &metadata.Shader{Name: tagShader, PassCount: 1})
	m.SetInt("_Tag", int32(id))
	return &tagEffect{name: name, id: id, order: order, active: active, material: m}
}

func (e *tagEffect) Name() string                            { return e.name }
func (e *tagEffect) InjectionPoint() metadata.InjectionPoint { return metadata.AfterPostProcess }
func (e *tagEffect) OrderInInjectionPoint() int              { return e.order }
func (e *tagEffect) RenderNormals() bool                     { return false }
func (e *tagEffect) Setup()                                  { e.setups++ }
func (e *tagEffect) IsActive() bool                          { return e.active }
func (e *tagEffect) Dispose()                                {}

func (e *tagEffect) OnCameraSetup(cmd renderer.CommandList, data *metadata.RenderingData) {}

func (e *tagEffect) Render(cmd renderer.CommandList, data *metadata.RenderingData, source, destination *metadata.Texture) {
	cmd.Blit(source, destination, e.material, 0)
}

func blitTag(dst, src *image.RGBA, material *metadata.Material, pass int, globals map[string]*metadata.Texture) {
	tag, _ := material.GetInt("_Tag")
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := src.RGBAAt(x, y)
			c.R = c.R*3 + uint8(tag)
			dst.SetRGBA(x, y, c)
		}
	}
}

type harness struct {
	host    *software.Context
	alloc   *software.Allocator
	targets *systems.RenderTargetSystem
	data    *metadata.RenderingData
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	alloc := software.NewAllocator()
	targets, err := systems.NewRenderTargetSystem(&systems.RenderTargetSystemConfig{MaxTargetCount: 8}, alloc)
	require.NoError(t, err)

	host := software.NewContext(nil)
	host.RegisterProgram(tagShader, software.Program{Blit: blitTag})

	colour := software.NewColorTarget("camera", 4, 4)
	img := software.Image(colour)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 1, A: 255})
		}
	}

	return &harness{
		host:    host,
		alloc:   alloc,
		targets: targets,
		data: &metadata.RenderingData{Camera: &metadata.CameraData{
			ID:               7,
			Name:             "main",
			Type:             metadata.CameraTypeGame,
			TargetDescriptor: metadata.RenderTargetDescriptor{Width: 4, Height: 4, MSAASamples: 4, DepthBufferBits: metadata.DepthBits24},
			ColorTarget:      colour,
		}},
	}
}

func (h *harness) red() uint8 {
	return software.Image(h.data.Camera.ColorTarget).RGBAAt(2, 2).R
}

func TestEffectPassSortsOnce(t *testing.T) {
	a := newTagEffect("a", 1, 10, true)
	b := newTagEffect("b", 2, 5, true)
	c := newTagEffect("c", 3, 5, true)
	p := NewEffectPass("AfterPostProcess", metadata.AfterPostProcess, []effects.Effect{a, b, nil, c}, nil)

	require.Len(t, p.Effects(), 3)
	assert.Same(t, b, p.Effects()[0])
	assert.Same(t, c, p.Effects()[1])
	assert.Same(t, a, p.Effects()[2])
	assert.Equal(t, metadata.AfterRenderingPostProcessing, p.Event())
	assert.Equal(t, metadata.PassInputColor, p.Input())
}

func TestSetupEffectsFiltersInactive(t *testing.T) {
	a := newTagEffect("a", 1, 1, false)
	b := newTagEffect("b", 2, 2, true)
	p := NewEffectPass("pass", metadata.AfterPostProcess, []effects.Effect{a, b}, nil)

	assert.True(t, p.SetupEffects())
	assert.Equal(t, []effects.Effect{b}, p.ActiveEffects())
	assert.Equal(t, 1, a.setups)
	assert.Equal(t, 1, b.setups)

	b.active = false
	assert.False(t, p.SetupEffects())
	assert.Empty(t, p.ActiveEffects())
}

func TestNoActiveEffectAllocatesNothing(t *testing.T) {
	h := newHarness(t)
	p := NewEffectPass("pass", metadata.AfterPostProcess, []effects.Effect{
		newTagEffect("a", 1, 0, false),
		newTagEffect("b", 2, 1, false),
	}, h.targets)

	for i := 0; i < 10; i++ {
		p.Execute(h.host, h.data)
	}
	assert.Equal(t, uint64(0), h.targets.Stats().Allocations)
	assert.Equal(t, 0, h.alloc.Allocations)
	assert.Equal(t, 0, h.host.Stats().Submissions)
}

func TestSingleEffectRendersThroughOneTarget(t *testing.T) {
	h := newHarness(t)
	p := NewEffectPass("pass", metadata.AfterPostProcess, []effects.Effect{newTagEffect("a", 5, 0, true)}, h.targets)

	p.Execute(h.host, h.data)

	assert.Equal(t, uint64(1), h.targets.Stats().Allocations)
	assert.Equal(t, 0, h.targets.Stats().InUse)
	assert.Equal(t, uint8(8), h.red())
	assert.Equal(t, 2, h.host.Stats().Blits)

	handle, ok := h.targets.Get("pass_Temp0_7")
	require.True(t, ok)
	assert.Equal(t, uint8(1), handle.Descriptor.MSAASamples)
	assert.Equal(t, metadata.DepthBitsNone, handle.Descriptor.DepthBufferBits)
}

func TestManyEffectsUseTwoTargets(t *testing.T) {
	h := newHarness(t)
	members := make([]effects.Effect, 0, 6)
	for i := 0; i < 6; i++ {
		members = append(members, newTagEffect(string(rune('a'+i)), 0, i, true))
	}
	p := NewEffectPass("pass", metadata.AfterPostProcess, members, h.targets)

	for frame := 0; frame < 3; frame++ {
		p.Execute(h.host, h.data)
	}

	stats := h.targets.Stats()
	assert.Equal(t, uint64(2), stats.Allocations)
	assert.Equal(t, 2, stats.Live)
	assert.Equal(t, 0, stats.InUse)
	assert.Equal(t, 2, h.alloc.Live())
	// copy in, six effects, copy out
	assert.Equal(t, 3*8, h.host.Stats().Blits)
}

func TestActiveEffectsRunInDeclaredOrder(t *testing.T) {
	h := newHarness(t)
	p := NewEffectPass("pass", metadata.AfterPostProcess, []effects.Effect{
		newTagEffect("ten", 10, 10, true),
		newTagEffect("idle", 99, 1, false),
		newTagEffect("five", 5, 5, true),
	}, h.targets)

	p.Execute(h.host, h.data)

	// f10(f5(1)) = (1*3+5)*3+10, the reverse order would give 44
	assert.Equal(t, uint8(34), h.red())

	var samples []string
	for _, c := range h.host.History() {
		if c.Kind == software.CommandBeginSample {
			samples = append(samples, c.Name)
		}
	}
	assert.Equal(t, []string{"pass/five", "pass/ten"}, samples)

	s, ok := core.MetricsSample("pass/ten")
	require.True(t, ok)
	assert.GreaterOrEqual(t, s.Calls, uint64(1))
	_, ok = core.MetricsSample("pass/idle")
	assert.False(t, ok)
}

func TestExcludedCamerasEmitNothing(t *testing.T) {
	for _, kind := range []metadata.CameraType{metadata.CameraTypeSceneView, metadata.CameraTypePreview} {
		t.Run(kind.String(), func(t *testing.T) {
			h := newHarness(t)
			h.data.Camera.Type = kind
			e := newTagEffect("a", 1, 0, true)
			p := NewEffectPass("pass", metadata.AfterPostProcess, []effects.Effect{e, newTagEffect("b", 2, 1, true)}, h.targets)

			cmd := h.host.GetCommandList("setup")
			p.OnCameraSetup(cmd, h.data)
			p.Execute(h.host, h.data)

			assert.Empty(t, cmd.(*software.CommandList).Commands())
			assert.Equal(t, 0, h.host.Stats().Submissions)
			assert.Empty(t, h.host.History())
			assert.Equal(t, uint64(0), h.targets.Stats().Allocations)
			assert.Equal(t, 0, e.setups)
			assert.Equal(t, uint8(1), h.red())
		})
	}
}

func TestMissingPoolIsMisconfigured(t *testing.T) {
	h := newHarness(t)
	p := NewEffectPass("pass", metadata.AfterPostProcess, []effects.Effect{newTagEffect("a", 1, 0, true)}, nil)

	p.Execute(h.host, h.data)
	assert.Equal(t, 0, h.host.Stats().Submissions)
	assert.Equal(t, uint8(1), h.red())
}

func TestEffectPassThroughSoftwareRenderer(t *testing.T) {
	h := newHarness(t)
	r := software.NewRenderer(h.host)
	p := NewEffectPass("pass", metadata.AfterPostProcess, []effects.Effect{
		newTagEffect("a", 1, 0, true),
		newTagEffect("b", 2, 1, true),
	}, h.targets)

	r.EnqueuePass(p)
	r.Render(h.data)

	assert.Equal(t, []string{"pass"}, r.ExecutedPasses())
	// (1*3+1)*3+2
	assert.Equal(t, uint8(14), h.red())
	assert.Equal(t, 0, h.targets.Stats().InUse)
}
