package effects

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/spaghettifunk/prism/engine/systems"
)

const BlurName = "Blur"

// Blur box blurs the frame before post-processing. Multiple iterations
// ping-pong through two pooled targets.
type Blur struct {
	Base

	Radius     ClampedParameter[float32]
	Iterations ClampedParameter[int]

	targets *systems.RenderTargetSystem
	temps   [2]*systems.TargetNames
}

func NewBlur(ctx *Context) Effect {
	b := &Blur{
		Radius:     NewClampedParameter[float32](0, 0, 16),
		Iterations: NewClampedParameter(1, 1, 8),
		temps: [2]*systems.TargetNames{
			systems.NewTargetNames("BlurTemp0"),
			systems.NewTargetNames("BlurTemp1"),
		},
	}
	var shaders metadata.ShaderLibrary
	if ctx != nil {
		shaders = ctx.Shaders
		b.targets = ctx.Targets
	}
	b.Base = NewBase(BlurName, metadata.ShaderNameBlur, shaders)
	return b
}

func (b *Blur) InjectionPoint() metadata.InjectionPoint {
	return metadata.BeforePostProcess
}

func (b *Blur) OrderInInjectionPoint() int {
	return 0
}

func (b *Blur) Setup() {
	b.EnsureMaterial()
}

func (b *Blur) IsActive() bool {
	return b.Material() != nil && b.Radius.Value() > 0
}

func (b *Blur) Render(cmd renderer.CommandList, data *metadata.RenderingData, source, destination *metadata.Texture) {
	material := b.Material()
	if material == nil {
		cmd.Blit(source, destination, nil, 0)
		return
	}
	material.SetFloat("_Radius", b.Radius.Value())

	iterations := b.Iterations.Value()
	if iterations == 1 || b.targets == nil {
		cmd.Blit(source, destination, material, 0)
		return
	}

	descriptor := data.Camera.TargetDescriptor.ColorOnly()
	var handles [2]*systems.RenderTargetHandle
	for i := range handles {
		h, err := b.targets.Acquire(descriptor, b.temps[i].For(data.Camera.ID))
		if err != nil {
			core.LogError("effect %s: %s", b.Name(), err.Error())
			cmd.Blit(source, destination, material, 0)
			return
		}
		defer b.targets.Release(h)
		handles[i] = h
	}

	current := source
	for i := 0; i < iterations; i++ {
		next := destination
		if i < iterations-1 {
			next = handles[i%2].Texture
		}
		cmd.Blit(current, next, material, 0)
		current = next
	}
}

func (b *Blur) Configure(params map[string]interface{}) error {
	var errs []error
	if v, ok, err := paramFloat(params, "radius"); err != nil {
		errs = append(errs, err)
	} else if ok {
		b.Radius.Set(v)
	}
	if v, ok, err := paramInt(params, "iterations"); err != nil {
		errs = append(errs, err)
	} else if ok {
		b.Iterations.Set(v)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("func Configure - %s: %w", b.Name(), err)
	}
	return nil
}
