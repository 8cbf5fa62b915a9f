package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prism/engine/assets"
	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/spaghettifunk/prism/engine/renderer/software"
	"github.com/spaghettifunk/prism/engine/systems"
)

func newCamera(id uint32, kind metadata.CameraType) *metadata.CameraData {
	return &metadata.CameraData{
		ID:                 id,
		Name:               "camera",
		Type:               kind,
		PostProcessEnabled: true,
		TargetDescriptor:   metadata.NewRenderTargetDescriptor(16, 16, metadata.TextureFormatRGBA8),
		ColorTarget:        software.NewColorTarget("camera", 16, 16),
	}
}

func newEngine(t *testing.T, cfg *assets.Config) (*Engine, *software.Allocator) {
	t.Helper()
	allocator := software.NewAllocator()
	e, err := New(cfg, allocator, nil)
	require.NoError(t, err)
	t.Cleanup(func() { e.Shutdown() })
	return e, allocator
}

func TestNewDefaults(t *testing.T) {
	e, _ := newEngine(t, nil)

	assert.Equal(t, EngineStageBootComplete, e.Stage())
	assert.Equal(t, assets.DefaultConfig(), e.Config())
	for name, count := range BuiltinShaders() {
		s, ok := e.Shaders().Find(name)
		require.True(t, ok, name)
		assert.Equal(t, count, s.PassCount, name)
	}
	assert.True(t, e.Outline().IsValid())
	assert.Equal(t, metadata.AfterRenderingPostProcessing, e.Outline().Settings.Event)
	assert.Equal(t, metadata.AfterRenderingPostProcessing, e.Ghost().Event)
	assert.Len(t, e.Features(), 3)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := assets.DefaultConfig()
	cfg.MaxTargets = 0
	_, err := New(cfg, software.NewAllocator(), nil)
	assert.Error(t, err)

	_, err = New(nil, nil, nil)
	assert.Error(t, err)
}

func TestNewKeepsHostShaders(t *testing.T) {
	shaders, err := systems.NewShaderSystem(&systems.ShaderSystemConfig{MaxShaderCount: 32})
	require.NoError(t, err)
	_, err = shaders.Register(metadata.ShaderNameLit, 5)
	require.NoError(t, err)

	e, err := New(nil, software.NewAllocator(), shaders)
	require.NoError(t, err)
	defer e.Shutdown()

	lit, ok := shaders.Find(metadata.ShaderNameLit)
	require.True(t, ok)
	assert.Equal(t, 5, lit.PassCount)
	_, ok = shaders.Find(metadata.ShaderNameVolumetric)
	assert.True(t, ok)
}

func TestStageTransitions(t *testing.T) {
	e, _ := newEngine(t, nil)
	host := software.NewRenderer(nil)
	data := &metadata.RenderingData{Camera: newCamera(1, metadata.CameraTypeGame)}

	e.RenderCamera(host, data)
	assert.Empty(t, host.Enqueued())

	require.NoError(t, e.Initialize())
	assert.Equal(t, EngineStageInitialized, e.Stage())
	assert.Error(t, e.Initialize())

	require.NoError(t, e.Shutdown())
	assert.Equal(t, EngineStageUninitialized, e.Stage())
	require.NoError(t, e.Shutdown())
}

func TestRenderFrame(t *testing.T) {
	e, allocator := newEngine(t, nil)
	require.NoError(t, e.Initialize())

	lit, err := e.Materials().Acquire("crate", metadata.ShaderNameLit)
	require.NoError(t, err)
	crate := metadata.NewMeshRenderer("crate", lit).WithBounds(math.NewRect(4, 4, 6, 6))
	e.Outline().Add(crate, false)

	conv, err := e.GhostConversion()
	require.NoError(t, err)
	e.Ghost().SetConversion(conv)
	e.Ghost().Add(crate, false)

	host := software.NewRenderer(nil)
	game := newCamera(1, metadata.CameraTypeGame)
	scene := newCamera(2, metadata.CameraTypeSceneView)
	e.RenderFrame(host, 0.016, game, scene)

	// the scene view camera only runs the ghost pass, which skips it
	assert.Equal(t, []string{"Ghost"}, host.ExecutedPasses())
	assert.Equal(t, 2, allocator.Live())

	host.ResetStats()
	e.RenderFrame(host, 0.016, game)
	assert.ElementsMatch(t, []string{"Outline", "Ghost"}, host.ExecutedPasses())
	assert.Positive(t, host.Stats().DrawCalls)
	assert.Equal(t, 2, allocator.Live())

	require.NoError(t, e.Shutdown())
	assert.Equal(t, 0, allocator.Live())
}

func TestApplyConfig(t *testing.T) {
	e, _ := newEngine(t, nil)
	require.NoError(t, e.Initialize())

	host := software.NewRenderer(nil)
	data := &metadata.RenderingData{Camera: newCamera(1, metadata.CameraTypeGame)}
	e.PostProcessing().AddRenderPasses(host, data)
	assert.Empty(t, host.Enqueued())

	cfg, err := assets.ParseConfig([]byte(`
[postprocessing]
normal_texture = true

[ghost]
event = "AfterRenderingTransparents"

[effects.VolumetricLight]
light_intensity = 0.08

[effects.Blur]
radius = 2.0
`))
	require.NoError(t, err)
	require.NoError(t, e.ApplyConfig(cfg))

	assert.Same(t, cfg, e.Config())
	assert.Equal(t, metadata.AfterRenderingTransparents, e.Ghost().Event)
	assert.True(t, e.PostProcessing().Config.NormalTexture)

	e.PostProcessing().AddRenderPasses(host, data)
	var names []string
	for _, p := range host.Enqueued() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"BeforePostProcess", "AfterPostProcess", "DepthNormals"}, names)
}

func TestApplyConfigReportsEffectErrors(t *testing.T) {
	e, _ := newEngine(t, nil)
	require.NoError(t, e.Initialize())

	cfg := assets.DefaultConfig()
	cfg.Effects["Bloom"] = map[string]interface{}{"intensity": 1.0}
	cfg.Effects["Blur"] = map[string]interface{}{"radius": "wide"}
	err := e.ApplyConfig(cfg)
	assert.Error(t, err)

	assert.NoError(t, e.ApplyConfig(nil))
}

func TestWatchConfigAppliedOnBeginFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.toml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	e, _ := newEngine(t, nil)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.WatchConfig(path))

	require.NoError(t, os.WriteFile(path, []byte("[outline]\nevent = \"AfterRenderingOpaques\"\n"), 0o644))
	assert.Eventually(t, func() bool {
		e.BeginFrame()
		return e.Outline().Settings.Event == metadata.AfterRenderingOpaques
	}, 5*time.Second, 20*time.Millisecond)
}

func TestRunStopsAfterMaxFrames(t *testing.T) {
	e, _ := newEngine(t, nil)
	require.NoError(t, e.Initialize())

	var updates, renders, shutdowns int
	var size [2]uint32
	g := &Game{
		ApplicationConfig: &ApplicationConfig{Name: "test", StartWidth: 32, StartHeight: 16, MaxFrames: 5},
		FnInitialize: func(engine *Engine) error {
			assert.Same(t, e, engine)
			return nil
		},
		FnUpdate: func(deltaTime float64) error {
			assert.GreaterOrEqual(t, deltaTime, 0.0)
			updates++
			return nil
		},
		FnRender: func(frameNumber uint64, deltaTime float64) error {
			assert.Equal(t, uint64(renders), frameNumber)
			renders++
			return nil
		},
		FnOnResize: func(width, height uint32) error {
			size = [2]uint32{width, height}
			return nil
		},
		FnShutdown: func() error {
			shutdowns++
			return nil
		},
	}
	require.NoError(t, e.Run(g))
	assert.Equal(t, 5, updates)
	assert.Equal(t, 5, renders)
	assert.Equal(t, uint64(5), e.FrameNumber())
	assert.Equal(t, [2]uint32{32, 16}, size)
	assert.Equal(t, 1, shutdowns)
	assert.Equal(t, EngineStageInitialized, e.Stage())
}

func TestRunRequiresInitialize(t *testing.T) {
	e, _ := newEngine(t, nil)
	assert.Error(t, e.Run(&Game{ApplicationConfig: &ApplicationConfig{MaxFrames: 1}}))
}

func TestRunReportsGameErrors(t *testing.T) {
	e, _ := newEngine(t, nil)
	require.NoError(t, e.Initialize())

	shutdown := false
	g := &Game{
		ApplicationConfig: &ApplicationConfig{Name: "test"},
		FnRender: func(frameNumber uint64, deltaTime float64) error {
			return errors.New("device lost")
		},
		FnShutdown: func() error {
			shutdown = true
			return nil
		},
	}
	assert.EqualError(t, e.Run(g), "device lost")
	assert.True(t, shutdown)
}

func TestStopFromUpdate(t *testing.T) {
	e, _ := newEngine(t, nil)
	require.NoError(t, e.Initialize())

	frames := 0
	g := &Game{
		ApplicationConfig: &ApplicationConfig{Name: "test"},
		FnUpdate: func(deltaTime float64) error {
			frames++
			if frames == 3 {
				e.Stop()
			}
			return nil
		},
	}
	require.NoError(t, e.Run(g))
	assert.Equal(t, 3, frames)
}
