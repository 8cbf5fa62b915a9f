package testbed

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spaghettifunk/prism/engine"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/spaghettifunk/prism/engine/renderer/software"
)

type TestGame struct {
	*engine.Game

	host       *software.Renderer
	outputPath string
}

type gameState struct {
	engine *engine.Engine

	camera  *metadata.CameraData
	preview *metadata.CameraData

	crates    []*metadata.MeshRenderer
	ghost     *metadata.MeshRenderer
	elapsed   float64
	destroyed bool

	width  uint32
	height uint32
}

// NewTestGame renders a small scene on host. When outputPath is set the
// last frame is written there as a PNG on shutdown.
func NewTestGame(host *software.Renderer, outputPath string) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				Name:            "Prism Testbed",
				StartWidth:      320,
				StartHeight:     180,
				MaxFrames:       300,
				TargetFrameTime: 1.0 / 60.0,
			},
			State: &gameState{},
		},
		host:       host,
		outputPath: outputPath,
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	core.LogInfo("initializing testbed...")
	state := g.state()
	state.engine = e

	red, err := litMaterial(e, "crate_red", math.NewVec4Create(0.8, 0.1, 0.1, 1))
	if err != nil {
		return err
	}
	blue, err := litMaterial(e, "crate_blue", math.NewVec4Create(0.1, 0.2, 0.8, 1))
	if err != nil {
		return err
	}
	glass, err := litMaterial(e, "glass", math.NewVec4Create(0.2, 0.9, 0.4, 1))
	if err != nil {
		return err
	}

	state.crates = []*metadata.MeshRenderer{
		metadata.NewMeshRenderer("crate_0", red).WithBounds(math.NewRect(20, 100, 60, 140)),
		metadata.NewMeshRenderer("crate_1", blue, red).WithBounds(math.NewRect(120, 90, 170, 140), math.NewRect(130, 70, 160, 90)),
		metadata.NewMeshRenderer("crate_2", blue).WithBounds(math.NewRect(230, 110, 260, 140)),
	}
	state.ghost = metadata.NewMeshRenderer("ghost", glass).WithBounds(math.NewRect(200, 40, 240, 80))

	outline := e.Outline()
	outline.AddRange([]metadata.SceneRenderer{state.crates[1], state.crates[2]}, true)

	conv, err := e.GhostConversion()
	if err != nil {
		return err
	}
	e.Ghost().SetConversion(conv)
	e.Ghost().Add(state.ghost, true)

	return nil
}

func litMaterial(e *engine.Engine, name string, colour math.Vec4) (*metadata.Material, error) {
	m, err := e.Materials().Acquire(name, metadata.ShaderNameLit)
	if err != nil {
		return nil, err
	}
	m.SetColour("_Color", colour)
	return m, nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.state()
	state.width = width
	state.height = height

	descriptor := metadata.NewRenderTargetDescriptor(width, height, metadata.TextureFormatRGBA8)
	state.camera = &metadata.CameraData{
		ID:                 1,
		Name:               "Main",
		Type:               metadata.CameraTypeGame,
		PostProcessEnabled: true,
		TargetDescriptor:   descriptor,
		ColorTarget:        software.NewColorTarget("Camera_Main", width, height),
	}
	state.preview = &metadata.CameraData{
		ID:                 2,
		Name:               "Preview",
		Type:               metadata.CameraTypePreview,
		PostProcessEnabled: true,
		TargetDescriptor:   descriptor,
		ColorTarget:        software.NewColorTarget("Camera_Preview", width, height),
	}
	core.LogDebug("testbed resized to %dx%d", width, height)
	return nil
}

// Update slides the first crate across the screen and destroys the last
// one after two seconds, which the outline pass has to prune.
func (g *TestGame) Update(deltaTime float64) error {
	state := g.state()
	state.elapsed += deltaTime

	width := int(state.width)
	if width > 40 {
		x := int(state.elapsed*40) % (width - 40)
		state.crates[0].Bounds[0] = math.NewRect(x, 100, x+40, 140)
	}

	if !state.destroyed && state.elapsed > 2 {
		state.crates[2].Destroy()
		state.destroyed = true
		core.LogInfo("crate %s destroyed", state.crates[2].Name)
	}
	return nil
}

func (g *TestGame) Render(frameNumber uint64, deltaTime float64) error {
	state := g.state()
	if state.camera == nil {
		return fmt.Errorf("render before resize")
	}

	for _, camera := range []*metadata.CameraData{state.camera, state.preview} {
		g.drawOpaques(camera, state.crates)
	}
	state.engine.RenderFrame(g.host, deltaTime, state.camera, state.preview)

	if frameNumber%60 == 0 {
		stats := state.engine.Targets().Stats()
		core.LogDebug("frame %d: %d targets live, %d allocations", frameNumber, stats.Live, stats.Allocations)
	}
	return nil
}

// drawOpaques stands in for the host's own opaque rendering.
func (g *TestGame) drawOpaques(camera *metadata.CameraData, renderers []*metadata.MeshRenderer) {
	cmd := g.host.GetCommandList("Opaques")
	defer g.host.ReleaseCommandList(cmd)

	cmd.SetRenderTarget(camera.ColorTarget)
	cmd.ClearRenderTarget(metadata.RENDERPASS_CLEAR_ALL_FLAG, math.NewVec4Create(0.05, 0.05, 0.1, 1))
	for _, r := range renderers {
		if !r.Alive() {
			continue
		}
		for i, m := range r.SharedMaterials() {
			cmd.DrawRenderer(r, i, m, 0)
		}
	}
	g.host.ExecuteCommandList(cmd)
}

func (g *TestGame) Shutdown() error {
	state := g.state()

	for _, s := range core.MetricsSamples() {
		core.LogInfo("%s: %d calls, %.3fms avg", s.Name, s.Calls, s.MSavg)
	}
	if g.outputPath == "" || state.camera == nil {
		return nil
	}

	img := software.Image(state.camera.ColorTarget)
	if img == nil {
		return fmt.Errorf("camera %s has no pixels", state.camera.Name)
	}
	f, err := os.Create(g.outputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return err
	}
	core.LogInfo("last frame written to %s", g.outputPath)
	return nil
}
