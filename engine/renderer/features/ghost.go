package features

import (
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/conversion"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/spaghettifunk/prism/engine/renderer/passes"
)

const GhostFeatureName = "Ghost"

// GhostFeature draws the renderers in its queue with translucent
// substitutes. It draws nothing until a conversion is set.
type GhostFeature struct {
	Event metadata.RenderPassEvent

	pass *passes.GhostPass
}

func NewGhostFeature(event metadata.RenderPassEvent) *GhostFeature {
	return &GhostFeature{
		Event: event,
		pass:  passes.NewGhostPass(event, nil),
	}
}

func (f *GhostFeature) Name() string {
	return GhostFeatureName
}

func (f *GhostFeature) Create() error {
	return nil
}

func (f *GhostFeature) AddRenderPasses(r renderer.Renderer, data *metadata.RenderingData) {
	f.pass.SetEvent(f.Event)
	f.pass.Setup(data)
	r.EnqueuePass(f.pass)
}

func (f *GhostFeature) SetConversion(conv conversion.MaterialConversion) {
	f.pass.SetConversion(conv)
}

func (f *GhostFeature) Pass() *passes.GhostPass {
	return f.pass
}

func (f *GhostFeature) Add(obj metadata.SceneRenderer, clearFirst bool) {
	f.pass.Add(obj, clearFirst)
}

func (f *GhostFeature) AddRange(objs []metadata.SceneRenderer, clearFirst bool) {
	f.pass.AddRange(objs, clearFirst)
}

func (f *GhostFeature) Remove(obj metadata.SceneRenderer) {
	f.pass.Remove(obj)
}

func (f *GhostFeature) Clear() {
	f.pass.Clear()
}

func (f *GhostFeature) Dispose() error {
	f.pass.Clear()
	if r, ok := f.pass.Conversion().(interface{ Release() }); ok {
		r.Release()
	}
	return nil
}
