// Package scheduler chains the active effects of one injection point
// through two pooled offscreen targets.
package scheduler

import (
	"slices"

	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/effects"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/spaghettifunk/prism/engine/systems"
)

/**
 * @brief A render pass running every active effect of one injection point.
 * Membership and order are fixed at construction; activity is computed
 * every frame.
 */
type EffectPass struct {
	name    string
	point   metadata.InjectionPoint
	effects []effects.Effect
	// one profiling sampler per member, same index
	samplers []string

	// indices into effects, reused every frame
	active []int

	targets *systems.RenderTargetSystem
	temp0   *systems.TargetNames
	temp1   *systems.TargetNames

	descriptor metadata.RenderTargetDescriptor
}

// NewEffectPass sorts members ascending by OrderInInjectionPoint, ties kept
// in the given order. The slice is copied.
func NewEffectPass(name string, point metadata.InjectionPoint, members []effects.Effect, targets *systems.RenderTargetSystem) *EffectPass {
	sorted := make([]effects.Effect, 0, len(members))
	for _, e := range members {
		if e != nil {
			sorted = append(sorted, e)
		}
	}
	slices.SortStableFunc(sorted, func(a, b effects.Effect) int {
		return a.OrderInInjectionPoint() - b.OrderInInjectionPoint()
	})

	samplers := make([]string, len(sorted))
	for i, e := range sorted {
		samplers[i] = name + "/" + e.Name()
	}

	return &EffectPass{
		name:     name,
		point:    point,
		effects:  sorted,
		samplers: samplers,
		active:   make([]int, 0, len(sorted)),
		targets:  targets,
		temp0:    systems.NewTargetNames(name + "_Temp0"),
		temp1:    systems.NewTargetNames(name + "_Temp1"),
	}
}

func (p *EffectPass) Name() string {
	return p.name
}

func (p *EffectPass) InjectionPoint() metadata.InjectionPoint {
	return p.point
}

func (p *EffectPass) Event() metadata.RenderPassEvent {
	return p.point.Event()
}

func (p *EffectPass) Input() metadata.PassInput {
	return metadata.PassInputColor
}

// Effects returns every member in execution order.
func (p *EffectPass) Effects() []effects.Effect {
	return p.effects
}

// SetupEffects runs Setup then IsActive on every member and keeps the
// survivors in static order. It reports whether any effect is active.
func (p *EffectPass) SetupEffects() bool {
	p.active = p.active[:0]
	for i, e := range p.effects {
		e.Setup()
		if e.IsActive() {
			p.active = append(p.active, i)
		}
	}
	return len(p.active) > 0
}

// ActiveEffects returns the subset computed by the last SetupEffects.
func (p *EffectPass) ActiveEffects() []effects.Effect {
	out := make([]effects.Effect, len(p.active))
	for i, idx := range p.active {
		out[i] = p.effects[idx]
	}
	return out
}

func (p *EffectPass) OnCameraSetup(cmd renderer.CommandList, data *metadata.RenderingData) {
	if data == nil || data.Camera.IsExcluded() {
		return
	}
	p.descriptor = data.Camera.TargetDescriptor.ColorOnly()
	for _, idx := range p.active {
		p.effects[idx].OnCameraSetup(cmd, data)
	}
}

func (p *EffectPass) Execute(ctx renderer.Context, data *metadata.RenderingData) {
	if data == nil || data.Camera.IsExcluded() {
		return
	}
	if !p.SetupEffects() {
		return
	}
	camera := data.Camera
	if p.targets == nil || camera.ColorTarget == nil {
		core.LogWarnOnce("effect-pass-misconfigured:"+p.name, "pass %s: %s", p.name, core.ErrMisconfiguredPass.Error())
		return
	}
	descriptor := camera.TargetDescriptor.ColorOnly()
	p.descriptor = descriptor

	temp0, err := p.targets.Acquire(descriptor, p.temp0.For(camera.ID))
	if err != nil {
		core.LogError("pass %s: %s", p.name, err.Error())
		return
	}
	defer p.targets.Release(temp0)

	var temp1 *systems.RenderTargetHandle
	if len(p.active) > 1 {
		temp1, err = p.targets.Acquire(descriptor, p.temp1.For(camera.ID))
		if err != nil {
			core.LogError("pass %s: %s", p.name, err.Error())
			return
		}
		defer p.targets.Release(temp1)
	}

	cmd := ctx.GetCommandList(p.name)
	defer ctx.ReleaseCommandList(cmd)

	source := camera.ColorTarget
	if temp1 == nil {
		p.render(cmd, p.active[0], data, source, temp0.Texture)
		cmd.Blit(temp0.Texture, source, nil, 0)
	} else {
		cmd.Blit(source, temp0.Texture, nil, 0)
		front, back := temp0.Texture, temp1.Texture
		for _, idx := range p.active {
			p.render(cmd, idx, data, front, back)
			front, back = back, front
		}
		cmd.Blit(front, source, nil, 0)
	}
	ctx.ExecuteCommandList(cmd)
}

func (p *EffectPass) render(cmd renderer.CommandList, idx int, data *metadata.RenderingData, source, destination *metadata.Texture) {
	defer core.ProfilingScope(cmd, p.samplers[idx])()
	p.effects[idx].Render(cmd, data, source, destination)
}

func (p *EffectPass) OnCameraCleanup(cmd renderer.CommandList) {}

// Dispose forgets the per frame state. Effects are disposed by their owner.
func (p *EffectPass) Dispose() {
	p.active = p.active[:0]
	p.descriptor = metadata.RenderTargetDescriptor{}
}
