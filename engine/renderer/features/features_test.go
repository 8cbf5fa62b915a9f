package features

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/conversion"
	"github.com/spaghettifunk/prism/engine/renderer/effects"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/spaghettifunk/prism/engine/renderer/passes"
	"github.com/spaghettifunk/prism/engine/renderer/software"
	"github.com/spaghettifunk/prism/engine/systems"
)

const tagShader = "Test/Tag"

// stubEffect multiplies the red channel by 3 and adds its id.
type stubEffect struct {
	name     string
	point    metadata.InjectionPoint
	order    int
	active   bool
	normals  bool
	disposed bool
	material *metadata.Material
}

func (e *stubEffect) Name() string                            { return e.name }
func (e *stubEffect) InjectionPoint() metadata.InjectionPoint { return e.point }
func (e *stubEffect) OrderInInjectionPoint() int              { return e.order }
func (e *stubEffect) RenderNormals() bool                     { return e.normals }
func (e *stubEffect) Setup()                                  {}
func (e *stubEffect) IsActive() bool                          { return e.active }
func (e *stubEffect) Dispose()                                { e.disposed = true }

func (e *stubEffect) OnCameraSetup(cmd renderer.CommandList, data *metadata.RenderingData) {}

func (e *stubEffect) Render(cmd renderer.CommandList, data *metadata.RenderingData, source, destination *metadata.Texture) {
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

type stubSet struct {
	registry *effects.Registry
	built    map[string]*stubEffect
}

func (s *stubSet) add(name string, id int, point metadata.InjectionPoint, order int, active bool) {
	s.registry.MustRegister(name, func(ctx *effects.Context) effects.Effect {
		m := metadata.NewMaterial(name, &metadata.Shader{Name: tagShader, PassCount: 1})
		m.SetInt("_Tag", int32(id))
		e := &stubEffect{name: name, point: point, order: order, active: active, material: m}
		s.built[name] = e
		return e
	})
}

func newStubSet() *stubSet {
	return &stubSet{registry: effects.NewRegistry(), built: make(map[string]*stubEffect)}
}

type scene struct {
	host    *software.Renderer
	targets *systems.RenderTargetSystem
	data    *metadata.RenderingData
}

func newScene(t *testing.T) *scene {
	t.Helper()
	targets, err := systems.NewRenderTargetSystem(&systems.RenderTargetSystemConfig{MaxTargetCount: 16}, software.NewAllocator())
	require.NoError(t, err)

	ctx := software.NewContext(nil)
	ctx.RegisterProgram(tagShader, software.Program{Blit: blitTag})

	colour := software.NewColorTarget("camera", 4, 4)
	img := software.Image(colour)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 1, A: 255})
		}
	}

	return &scene{
		host:    software.NewRenderer(ctx),
		targets: targets,
		data: &metadata.RenderingData{Camera: &metadata.CameraData{
			ID:                 1,
			Name:               "main",
			Type:               metadata.CameraTypeGame,
			PostProcessEnabled: true,
			TargetDescriptor:   metadata.NewRenderTargetDescriptor(4, 4, metadata.TextureFormatRGBA8),
			ColorTarget:        colour,
		}},
	}
}

func (s *scene) red() uint8 {
	return software.Image(s.data.Camera.ColorTarget).RGBAAt(1, 1).R
}

func enqueuedNames(r *software.Renderer) []string {
	var names []string
	for _, p := range r.Enqueued() {
		names = append(names, p.Name())
	}
	return names
}

func TestCreatePartitionsByInjectionPoint(t *testing.T) {
	set := newStubSet()
	set.add("late", 1, metadata.AfterPostProcess, 0, true)
	set.add("opaque", 2, metadata.AfterOpaque, 0, true)
	set.add("late-2", 3, metadata.AfterPostProcess, 1, true)

	f := NewPostProcessingFeature(PostProcessingConfig{}, set.registry, &effects.Context{})
	require.NoError(t, f.Create())
	require.NoError(t, f.Create())

	require.Len(t, f.Passes(), 2)
	assert.Equal(t, metadata.AfterOpaque, f.Passes()[0].InjectionPoint())
	assert.Equal(t, metadata.AfterRenderingOpaques, f.Passes()[0].Event())
	assert.Equal(t, metadata.AfterPostProcess, f.Passes()[1].InjectionPoint())
	assert.Equal(t, metadata.AfterRenderingPostProcessing, f.Passes()[1].Event())
	assert.Len(t, f.Passes()[1].Effects(), 2)
	assert.Len(t, f.Effects(), 3)
}

func TestAddRenderPassesFilters(t *testing.T) {
	set := newStubSet()
	set.add("skybox", 1, metadata.AfterSkybox, 0, false)
	set.add("before", 2, metadata.BeforePostProcess, 0, true)

	s := newScene(t)
	f := NewPostProcessingFeature(PostProcessingConfig{}, set.registry, &effects.Context{Targets: s.targets})

	f.AddRenderPasses(s.host, s.data)
	assert.Empty(t, s.host.Enqueued(), "not created")

	require.NoError(t, f.Create())

	s.data.Camera.PostProcessEnabled = false
	f.AddRenderPasses(s.host, s.data)
	assert.Empty(t, s.host.Enqueued())

	s.data.Camera.PostProcessEnabled = true
	s.data.Camera.Type = metadata.CameraTypePreview
	f.AddRenderPasses(s.host, s.data)
	assert.Empty(t, s.host.Enqueued())

	s.data.Camera.Type = metadata.CameraTypeGame
	f.AddRenderPasses(s.host, s.data)
	assert.Equal(t, []string{metadata.BeforePostProcess.String()}, enqueuedNames(s.host))
}

func TestNormalsPassRequested(t *testing.T) {
	set := newStubSet()
	set.add("a", 1, metadata.AfterOpaque, 0, false)

	s := newScene(t)
	f := NewPostProcessingFeature(PostProcessingConfig{}, set.registry, &effects.Context{Targets: s.targets})
	require.NoError(t, f.Create())

	f.AddRenderPasses(s.host, s.data)
	assert.Empty(t, s.host.Enqueued())

	set.built["a"].normals = true
	f.AddRenderPasses(s.host, s.data)
	assert.Equal(t, []string{passes.DepthNormalsPassName}, enqueuedNames(s.host))
	s.host.Render(s.data)
	assert.True(t, s.host.RequestedInputs().Has(metadata.PassInputNormal))

	set.built["a"].normals = false
	f.Config.NormalTexture = true
	f.AddRenderPasses(s.host, s.data)
	assert.Equal(t, []string{passes.DepthNormalsPassName}, enqueuedNames(s.host))
}

func TestActiveEffectsChainInOrder(t *testing.T) {
	set := newStubSet()
	set.add("ten", 10, metadata.AfterPostProcess, 10, true)
	set.add("five", 5, metadata.AfterPostProcess, 5, true)
	set.add("idle", 99, metadata.AfterPostProcess, 1, false)

	s := newScene(t)
	f := NewPostProcessingFeature(PostProcessingConfig{}, set.registry, &effects.Context{Targets: s.targets})
	require.NoError(t, f.Create())

	f.AddRenderPasses(s.host, s.data)
	s.host.Render(s.data)

	assert.Equal(t, []string{metadata.AfterPostProcess.String()}, s.host.ExecutedPasses())
	assert.Equal(t, uint8(34), s.red())
	assert.Equal(t, 2, s.targets.Stats().Live)
	assert.Equal(t, 0, s.targets.Stats().InUse)
}

func TestConfigureAndDispose(t *testing.T) {
	shaders, err := systems.NewShaderSystem(&systems.ShaderSystemConfig{MaxShaderCount: 8})
	require.NoError(t, err)
	for name, count := range effects.BuiltinShaders() {
		_, err := shaders.Register(name, count)
		require.NoError(t, err)
	}

	f := NewPostProcessingFeature(PostProcessingConfig{}, nil, &effects.Context{Shaders: shaders})
	require.NoError(t, f.Create())

	require.NoError(t, f.Configure(effects.VolumetricLightName, map[string]interface{}{"light_intensity": 0.08}))
	e, ok := f.Effect(effects.VolumetricLightName)
	require.True(t, ok)
	e.Setup()
	assert.True(t, e.IsActive())

	assert.ErrorIs(t, f.Configure("Bloom", nil), core.ErrUnknownEffect)

	require.NoError(t, f.Dispose())
	assert.Empty(t, f.Passes())
	assert.Nil(t, e.(*effects.VolumetricLight).Material())
}

func TestDisposeReleasesEffects(t *testing.T) {
	set := newStubSet()
	set.add("a", 1, metadata.AfterOpaque, 0, true)
	f := NewPostProcessingFeature(PostProcessingConfig{}, set.registry, nil)
	require.NoError(t, f.Create())
	require.NoError(t, f.Dispose())
	assert.True(t, set.built["a"].disposed)
}

func outlineSettings() passes.OutlineSettings {
	return passes.OutlineSettings{
		Unlit:        metadata.NewMaterial("unlit", &metadata.Shader{Name: metadata.ShaderNameUnlit, PassCount: 1}),
		Outline:      metadata.NewMaterial("outline", &metadata.Shader{Name: metadata.ShaderNameOutline, PassCount: 1}),
		OutlineBlend: metadata.NewMaterial("blend", &metadata.Shader{Name: metadata.ShaderNameOutlineBlend, PassCount: 1}),
		Event:        metadata.AfterRenderingSkybox,
	}
}

func TestOutlineFeature(t *testing.T) {
	s := newScene(t)

	invalid := NewOutlineFeature(passes.OutlineSettings{}, s.targets)
	assert.False(t, invalid.IsValid())
	invalid.AddRenderPasses(s.host, s.data)
	assert.Empty(t, s.host.Enqueued())

	f := NewOutlineFeature(outlineSettings(), s.targets)
	require.NoError(t, f.Create())
	a := metadata.NewMeshRenderer("a", nil)
	f.Add(a, false)
	f.Add(a, false)
	f.AddRange([]metadata.SceneRenderer{a}, false)
	assert.Len(t, f.Pass().Objects(), 2)
	f.Remove(a)
	assert.Len(t, f.Pass().Objects(), 1)

	f.AddRenderPasses(s.host, s.data)
	require.Len(t, s.host.Enqueued(), 1)
	assert.Equal(t, metadata.AfterRenderingSkybox, s.host.Enqueued()[0].Event())
	s.host.Render(s.data)
	assert.Equal(t, 1, s.host.Stats().DrawCalls)
	assert.Equal(t, 2, s.host.Stats().Blits)

	f.Clear()
	assert.Empty(t, f.Pass().Objects())
	require.NoError(t, f.Dispose())
}

func TestGhostFeature(t *testing.T) {
	s := newScene(t)
	f := NewGhostFeature(metadata.AfterRenderingPostProcessing)
	require.NoError(t, f.Create())

	lit := metadata.NewMaterial("lit", &metadata.Shader{Name: metadata.ShaderNameLit, PassCount: 2})
	f.Add(metadata.NewMeshRenderer("a", lit), false)

	f.AddRenderPasses(s.host, s.data)
	s.host.Render(s.data)
	assert.Equal(t, 0, s.host.Stats().DrawCalls)

	template := metadata.NewMaterial("ghost", &metadata.Shader{Name: metadata.ShaderNameGhost, PassCount: 2})
	f.SetConversion(conversion.NewChain(conversion.NewLitStrategy(template)))
	f.Event = metadata.AfterRenderingTransparents
	f.AddRenderPasses(s.host, s.data)
	assert.Equal(t, metadata.AfterRenderingTransparents, s.host.Enqueued()[0].Event())
	s.host.Render(s.data)
	assert.Equal(t, 1, s.host.Stats().DrawCalls)

	require.NoError(t, f.Dispose())
	assert.Empty(t, f.Pass().Objects())
}
