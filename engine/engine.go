package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/prism/engine/assets"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/conversion"
	"github.com/spaghettifunk/prism/engine/renderer/effects"
	"github.com/spaghettifunk/prism/engine/renderer/features"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/spaghettifunk/prism/engine/renderer/passes"
	"github.com/spaghettifunk/prism/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "Uninitialized"
	case EngineStageBooting:
		return "Booting"
	case EngineStageBootComplete:
		return "BootComplete"
	case EngineStageInitializing:
		return "Initializing"
	case EngineStageInitialized:
		return "Initialized"
	case EngineStageRunning:
		return "Running"
	case EngineStageShuttingDown:
		return "ShuttingDown"
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// Role materials created for the built-in features.
const (
	OutlineUnlitMaterialName string = "Prism/Outline/Unlit"
	OutlineMaterialName      string = "Prism/Outline/Edge"
	OutlineBlendMaterialName string = "Prism/Outline/Blend"
	GhostMaterialName        string = "Prism/Ghost"
)

const (
	defaultMaxShaderCount   uint16 = 64
	defaultMaxMaterialCount uint32 = 256
)

// BuiltinShaders lists every shader, and its pass count, the built-in
// features and effects render with.
func BuiltinShaders() map[string]int {
	shaders := map[string]int{
		metadata.ShaderNameLit:          3,
		metadata.ShaderNameSimpleLit:    3,
		metadata.ShaderNameUnlit:        1,
		metadata.ShaderNameOutline:      1,
		metadata.ShaderNameOutlineBlend: 1,
		metadata.ShaderNameGhost:        3,
		metadata.ShaderNameCopy:         1,
	}
	for name, count := range effects.BuiltinShaders() {
		shaders[name] = count
	}
	return shaders
}

// Engine owns the render feature set of one host renderer: the target
// pool, the role materials and the Outline, Ghost and PostProcessing
// features.
type Engine struct {
	currentStage Stage
	config       *assets.Config
	watcher      *assets.ConfigWatcher

	shaders   *systems.ShaderSystem
	materials *systems.MaterialSystem
	targets   *systems.RenderTargetSystem
	registry  *effects.Registry

	postProcessing *features.PostProcessingFeature
	outline        *features.OutlineFeature
	ghost          *features.GhostFeature
	features       []features.Feature

	clock       *core.Clock
	lastTime    float64
	frameNumber uint64
	isRunning   atomic.Bool
	isSuspended atomic.Bool
	width       uint32
	height      uint32
}

// New builds the engine with config, or the defaults when config is nil.
// Render targets come from allocator. When shaders is nil the engine keeps
// its own library; missing built-in shaders are registered either way.
func New(config *assets.Config, allocator systems.TargetAllocator, shaders *systems.ShaderSystem) (*Engine, error) {
	if config == nil {
		config = assets.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, fmt.Errorf("func New - %w", err)
	}
	core.SetLogLevel(config.Level())

	e := &Engine{
		currentStage: EngineStageBooting,
		config:       config,
		clock:        core.NewClock(),
	}

	if shaders == nil {
		ss, err := systems.NewShaderSystem(&systems.ShaderSystemConfig{MaxShaderCount: defaultMaxShaderCount})
		if err != nil {
			return nil, err
		}
		shaders = ss
	}
	if err := registerBuiltinShaders(shaders); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	e.shaders = shaders

	ms, err := systems.NewMaterialSystem(&systems.MaterialSystemConfig{MaxMaterialCount: defaultMaxMaterialCount}, shaders)
	if err != nil {
		return nil, err
	}
	e.materials = ms

	rts, err := systems.NewRenderTargetSystem(&systems.RenderTargetSystemConfig{MaxTargetCount: config.MaxTargets}, allocator)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	e.targets = rts
	e.registry = effects.NewDefaultRegistry()

	settings, err := e.outlineSettings()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	outlineEvent, _ := config.Outline.RenderPassEvent()
	settings.Event = outlineEvent
	ghostEvent, _ := config.Ghost.RenderPassEvent()

	e.postProcessing = features.NewPostProcessingFeature(
		features.PostProcessingConfig{NormalTexture: config.PostProcessing.NormalTexture},
		e.registry,
		&effects.Context{Shaders: shaders, Targets: rts},
	)
	e.outline = features.NewOutlineFeature(settings, rts)
	e.ghost = features.NewGhostFeature(ghostEvent)
	e.features = []features.Feature{e.postProcessing, e.outline, e.ghost}

	e.currentStage = EngineStageBootComplete
	return e, nil
}

func registerBuiltinShaders(shaders *systems.ShaderSystem) error {
	builtin := BuiltinShaders()
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := shaders.Find(name); ok {
			continue
		}
		if _, err := shaders.Register(name, builtin[name]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) outlineSettings() (passes.OutlineSettings, error) {
	unlit, err := e.materials.Acquire(OutlineUnlitMaterialName, metadata.ShaderNameUnlit)
	if err != nil {
		return passes.OutlineSettings{}, err
	}
	outline, err := e.materials.Acquire(OutlineMaterialName, metadata.ShaderNameOutline)
	if err != nil {
		return passes.OutlineSettings{}, err
	}
	blend, err := e.materials.Acquire(OutlineBlendMaterialName, metadata.ShaderNameOutlineBlend)
	if err != nil {
		return passes.OutlineSettings{}, err
	}
	return passes.OutlineSettings{
		Unlit:        unlit,
		Outline:      outline,
		OutlineBlend: blend,
	}, nil
}

// Initialize creates every feature and applies the effect parameters of
// the configuration.
func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageBootComplete {
		return fmt.Errorf("func Initialize - engine is %s", e.currentStage)
	}
	e.currentStage = EngineStageInitializing

	for _, f := range e.features {
		if err := f.Create(); err != nil {
			core.LogError("feature %s: %s", f.Name(), err.Error())
			return err
		}
	}
	if err := e.configureEffects(e.config); err != nil {
		core.LogWarn(err.Error())
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("engine initialized with %d features", len(e.features))
	return nil
}

// WatchConfig reloads path whenever it changes. Reloaded configurations
// are applied by BeginFrame.
func (e *Engine) WatchConfig(path string) error {
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			core.LogWarn(err.Error())
		}
	}
	w, err := assets.NewConfigWatcher(path)
	if err != nil {
		return fmt.Errorf("func WatchConfig - %w", err)
	}
	e.watcher = w
	core.LogDebug("watching configuration %s", w.Path())
	return nil
}

// BeginFrame applies the configuration reloaded since the last frame, if any.
func (e *Engine) BeginFrame() {
	if e.watcher == nil {
		return
	}
	cfg, ok := e.watcher.Latest()
	if !ok {
		return
	}
	if err := e.ApplyConfig(cfg); err != nil {
		core.LogWarn(err.Error())
	}
}

// ApplyConfig updates the features from cfg. max_targets only takes
// effect on restart.
func (e *Engine) ApplyConfig(cfg *assets.Config) error {
	if cfg == nil {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("func ApplyConfig - %w", err)
	}
	core.SetLogLevel(cfg.Level())
	if cfg.MaxTargets != e.config.MaxTargets {
		core.LogWarn("max_targets changed from %d to %d, restart to apply", e.config.MaxTargets, cfg.MaxTargets)
	}

	e.postProcessing.Config.NormalTexture = cfg.PostProcessing.NormalTexture
	outlineEvent, _ := cfg.Outline.RenderPassEvent()
	e.outline.Settings.Event = outlineEvent
	ghostEvent, _ := cfg.Ghost.RenderPassEvent()
	e.ghost.Event = ghostEvent

	err := e.configureEffects(cfg)
	e.config = cfg
	return err
}

func (e *Engine) configureEffects(cfg *assets.Config) error {
	names := make([]string, 0, len(cfg.Effects))
	for name := range cfg.Effects {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := e.postProcessing.Configure(name, cfg.Effects[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RenderCamera lets every feature enqueue its passes for one camera.
func (e *Engine) RenderCamera(r renderer.Renderer, data *metadata.RenderingData) {
	if e.currentStage != EngineStageInitialized && e.currentStage != EngineStageRunning {
		core.LogWarnOnce("engine-not-initialized", "camera rendered while the engine is %s", e.currentStage)
		return
	}
	if r == nil || data == nil {
		return
	}
	for _, f := range e.features {
		f.AddRenderPasses(r, data)
	}
}

// RenderFrame renders every camera on backend, one after the other.
func (e *Engine) RenderFrame(backend renderer.RendererBackend, deltaTime float64, cameras ...*metadata.CameraData) {
	for _, camera := range cameras {
		data := &metadata.RenderingData{
			Camera:      camera,
			FrameNumber: e.frameNumber,
			DeltaTime:   deltaTime,
		}
		e.RenderCamera(backend, data)
		backend.Render(data)
	}
}

// Run drives g until Stop is called, g fails or MaxFrames frames were rendered.
func (e *Engine) Run(g *Game) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("func Run - engine is %s", e.currentStage)
	}
	if g == nil || g.ApplicationConfig == nil {
		return fmt.Errorf("func Run - game and application config cannot be nil")
	}
	app := g.ApplicationConfig

	if g.FnInitialize != nil {
		if err := g.FnInitialize(e); err != nil {
			return err
		}
	}
	if err := e.OnResize(g, app.StartWidth, app.StartHeight); err != nil {
		return err
	}

	e.currentStage = EngineStageRunning
	err := e.loop(g)
	if g.FnShutdown != nil {
		if serr := g.FnShutdown(); serr != nil {
			core.LogError("game shutdown failed: %s", serr.Error())
			err = errors.Join(err, serr)
		}
	}
	e.currentStage = EngineStageInitialized
	return err
}

func (e *Engine) loop(g *Game) error {
	app := g.ApplicationConfig
	e.isRunning.Store(true)
	defer e.isRunning.Store(false)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()
	defer e.clock.Stop()

	var runningTime float64 = 0.0
	for e.isRunning.Load() {
		if app.MaxFrames > 0 && e.frameNumber >= app.MaxFrames {
			break
		}
		if e.isSuspended.Load() {
			time.Sleep(time.Millisecond)
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		var currentTime float64 = e.clock.Elapsed()
		var delta float64 = currentTime - e.lastTime
		frameStart := time.Now()

		e.BeginFrame()

		if g.FnUpdate != nil {
			if err := g.FnUpdate(delta); err != nil {
				core.LogError("game update failed, shutting down: %s", err.Error())
				return err
			}
		}
		if g.FnRender != nil {
			if err := g.FnRender(e.frameNumber, delta); err != nil {
				core.LogError("game render failed, shutting down: %s", err.Error())
				return err
			}
		}

		// If there is time left, give it back to the OS.
		frameElapsed := time.Since(frameStart).Seconds()
		runningTime += frameElapsed
		if remaining := app.TargetFrameTime - frameElapsed; remaining > 0 {
			time.Sleep(time.Duration(remaining * float64(time.Second)))
		}

		e.frameNumber++
		e.lastTime = currentTime
	}

	core.LogDebug("%s rendered %d frames in %.3fs", app.Name, e.frameNumber, runningTime)
	return nil
}

// Stop ends Run after the current frame. Safe to call from another goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

// Suspend pauses Run without stopping it.
func (e *Engine) Suspend(suspended bool) {
	e.isSuspended.Store(suspended)
}

func (e *Engine) OnResize(g *Game, width, height uint32) error {
	e.width = width
	e.height = height
	if g != nil && g.FnOnResize != nil {
		return g.FnOnResize(width, height)
	}
	return nil
}

// GhostConversion returns a conversion substituting lit materials with a
// copy of the ghost role material.
func (e *Engine) GhostConversion() (*conversion.Chain, error) {
	template, err := e.materials.Acquire(GhostMaterialName, metadata.ShaderNameGhost)
	if err != nil {
		return nil, err
	}
	return conversion.NewChain(conversion.NewLitStrategy(template, metadata.ShaderNameLit, metadata.ShaderNameSimpleLit)), nil
}

func (e *Engine) Stage() Stage                                    { return e.currentStage }
func (e *Engine) Config() *assets.Config                          { return e.config }
func (e *Engine) FrameNumber() uint64                             { return e.frameNumber }
func (e *Engine) Outline() *features.OutlineFeature               { return e.outline }
func (e *Engine) Ghost() *features.GhostFeature                   { return e.ghost }
func (e *Engine) PostProcessing() *features.PostProcessingFeature { return e.postProcessing }
func (e *Engine) Targets() *systems.RenderTargetSystem            { return e.targets }
func (e *Engine) Shaders() *systems.ShaderSystem                  { return e.shaders }
func (e *Engine) Materials() *systems.MaterialSystem              { return e.materials }
func (e *Engine) Features() []features.Feature                    { return e.features }

// Shutdown disposes every feature, frees the pooled targets and stops
// watching the configuration.
func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageUninitialized {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.Stop()

	var errs []error
	for _, f := range e.features {
		if err := f.Dispose(); err != nil {
			errs = append(errs, fmt.Errorf("feature %s: %w", f.Name(), err))
		}
	}
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		e.watcher = nil
	}
	if err := e.materials.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	if err := e.targets.Shutdown(); err != nil {
		errs = append(errs, err)
	}

	e.currentStage = EngineStageUninitialized
	if err := errors.Join(errs...); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("engine shut down")
	return nil
}
