// Package effects holds the post-processing effects the scheduler chains.
package effects

import (
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

// Effect is one post-processing step. Effects are created once when the
// post-processing feature is created and disposed with it.
type Effect interface {
	Name() string
	InjectionPoint() metadata.InjectionPoint
	// OrderInInjectionPoint sorts effects sharing an injection point, ascending.
	OrderInInjectionPoint() int
	// RenderNormals asks the host for a normals buffer.
	RenderNormals() bool
	// Setup runs every frame before IsActive. It creates the material on first use.
	Setup()
	IsActive() bool
	OnCameraSetup(cmd renderer.CommandList, data *metadata.RenderingData)
	// Render records the effect reading source and writing destination.
	Render(cmd renderer.CommandList, data *metadata.RenderingData, source, destination *metadata.Texture)
	Dispose()
}

// Configurable effects accept parameters from the feature configuration.
type Configurable interface {
	Configure(params map[string]interface{}) error
}

// Base carries what every effect shares: the lazily created material and
// the normals request.
type Base struct {
	name          string
	shaderName    string
	shaders       metadata.ShaderLibrary
	material      *metadata.Material
	renderNormals bool
}

func NewBase(name, shaderName string, shaders metadata.ShaderLibrary) Base {
	return Base{
		name:       name,
		shaderName: shaderName,
		shaders:    shaders,
	}
}

func (b *Base) Name() string {
	return b.name
}

// EnsureMaterial creates the material the first time the shader can be
// found. It never creates a second one.
func (b *Base) EnsureMaterial() *metadata.Material {
	if b.material != nil {
		return b.material
	}
	if b.shaders == nil {
		core.LogWarnOnce("effect-no-library:"+b.name, "effect %s has no shader library", b.name)
		return nil
	}
	shader, ok := b.shaders.Find(b.shaderName)
	if !ok {
		core.LogWarnOnce("effect-no-shader:"+b.name, "effect %s: shader %s not found", b.name, b.shaderName)
		return nil
	}
	b.material = metadata.NewMaterial(b.name, shader)
	return b.material
}

func (b *Base) Material() *metadata.Material {
	return b.material
}

func (b *Base) RenderNormals() bool {
	return b.renderNormals
}

func (b *Base) SetRenderNormals(enabled bool) {
	b.renderNormals = enabled
}

// SetKeyword toggles a shader keyword on the material, if it exists.
func (b *Base) SetKeyword(keyword string, enabled bool) {
	if b.material == nil {
		return
	}
	if enabled {
		b.material.EnableKeyword(keyword)
	} else {
		b.material.DisableKeyword(keyword)
	}
}

func (b *Base) OnCameraSetup(cmd renderer.CommandList, data *metadata.RenderingData) {}

func (b *Base) Dispose() {
	b.material = nil
}
