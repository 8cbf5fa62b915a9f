package features

import (
	"fmt"

	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/effects"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/spaghettifunk/prism/engine/renderer/passes"
	"github.com/spaghettifunk/prism/engine/renderer/scheduler"
)

const PostProcessingFeatureName = "PostProcessing"

type PostProcessingConfig struct {
	/** @brief Always ask the host for a normals buffer. */
	NormalTexture bool
}

/**
 * @brief Runs every registered effect. Effects are grouped into one pass
 * per injection point when the feature is created.
 */
type PostProcessingFeature struct {
	Config PostProcessingConfig

	registry *effects.Registry
	context  *effects.Context

	effects      []effects.Effect
	passes       []*scheduler.EffectPass
	depthNormals *passes.DepthNormalsPass
	created      bool
}

func NewPostProcessingFeature(config PostProcessingConfig, registry *effects.Registry, ctx *effects.Context) *PostProcessingFeature {
	if registry == nil {
		registry = effects.NewDefaultRegistry()
	}
	if ctx == nil {
		ctx = &effects.Context{}
	}
	return &PostProcessingFeature{
		Config:   config,
		registry: registry,
		context:  ctx,
	}
}

func (f *PostProcessingFeature) Name() string {
	return PostProcessingFeatureName
}

func (f *PostProcessingFeature) Create() error {
	if f.created {
		return nil
	}
	f.effects = f.registry.Instantiate(f.context)
	for _, point := range metadata.InjectionPoints {
		var members []effects.Effect
		for _, e := range f.effects {
			if e.InjectionPoint() == point {
				members = append(members, e)
			}
		}
		if len(members) == 0 {
			continue
		}
		f.passes = append(f.passes, scheduler.NewEffectPass(point.String(), point, members, f.context.Targets))
	}
	f.depthNormals = passes.NewDepthNormalsPass()
	f.created = true
	core.LogDebug("post-processing feature created with %d effects in %d passes", len(f.effects), len(f.passes))
	return nil
}

func (f *PostProcessingFeature) AddRenderPasses(r renderer.Renderer, data *metadata.RenderingData) {
	if !f.created {
		core.LogWarnOnce("postprocessing-not-created", "feature %s used before Create", f.Name())
		return
	}
	if data == nil || data.Camera == nil || !data.Camera.PostProcessEnabled || data.Camera.IsExcluded() {
		return
	}

	requireNormals := f.Config.NormalTexture
	for _, e := range f.effects {
		if e.RenderNormals() {
			requireNormals = true
			break
		}
	}

	for _, p := range f.passes {
		if p.SetupEffects() {
			r.EnqueuePass(p)
		}
	}
	if requireNormals {
		r.EnqueuePass(f.depthNormals)
	}
}

// Configure forwards params to the effect called name.
func (f *PostProcessingFeature) Configure(name string, params map[string]interface{}) error {
	e, ok := f.Effect(name)
	if !ok {
		return fmt.Errorf("func Configure - %s: %w", name, core.ErrUnknownEffect)
	}
	c, ok := e.(effects.Configurable)
	if !ok {
		return fmt.Errorf("func Configure - effect %s takes no parameters", name)
	}
	return c.Configure(params)
}

func (f *PostProcessingFeature) Effect(name string) (effects.Effect, bool) {
	for _, e := range f.effects {
		if e.Name() == name {
			return e, true
		}
	}
	return nil, false
}

func (f *PostProcessingFeature) Effects() []effects.Effect {
	return f.effects
}

// Passes returns one pass per injection point that has effects, in timeline order.
func (f *PostProcessingFeature) Passes() []*scheduler.EffectPass {
	return f.passes
}

func (f *PostProcessingFeature) Dispose() error {
	for _, p := range f.passes {
		p.Dispose()
	}
	for _, e := range f.effects {
		e.Dispose()
	}
	f.passes = nil
	f.effects = nil
	f.created = false
	return nil
}
