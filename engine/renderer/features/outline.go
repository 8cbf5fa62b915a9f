package features

import (
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/spaghettifunk/prism/engine/renderer/passes"
	"github.com/spaghettifunk/prism/engine/systems"
)

const OutlineFeatureName = "Outline"

// OutlineFeature outlines the renderers in its queue.
type OutlineFeature struct {
	Settings passes.OutlineSettings

	pass *passes.OutlinePass
}

func NewOutlineFeature(settings passes.OutlineSettings, targets *systems.RenderTargetSystem) *OutlineFeature {
	return &OutlineFeature{
		Settings: settings,
		pass:     passes.NewOutlinePass(targets),
	}
}

func (f *OutlineFeature) Name() string {
	return OutlineFeatureName
}

func (f *OutlineFeature) Create() error {
	return nil
}

// IsValid reports whether every material the pass needs is set.
func (f *OutlineFeature) IsValid() bool {
	return f.Settings.IsValid()
}

func (f *OutlineFeature) AddRenderPasses(r renderer.Renderer, data *metadata.RenderingData) {
	if !f.IsValid() {
		core.LogWarnOnce("outline-feature-invalid", "feature %s: %s, materials missing", f.Name(), core.ErrMisconfiguredPass.Error())
		return
	}
	if data == nil || data.Camera.IsExcluded() {
		return
	}
	f.pass.Setup(f.Settings, data)
	r.EnqueuePass(f.pass)
}

func (f *OutlineFeature) Pass() *passes.OutlinePass {
	return f.pass
}

func (f *OutlineFeature) Add(obj metadata.SceneRenderer, clearFirst bool) {
	f.pass.Add(obj, clearFirst)
}

func (f *OutlineFeature) AddRange(objs []metadata.SceneRenderer, clearFirst bool) {
	f.pass.AddRange(objs, clearFirst)
}

func (f *OutlineFeature) Remove(obj metadata.SceneRenderer) {
	f.pass.Remove(obj)
}

func (f *OutlineFeature) Clear() {
	f.pass.Clear()
}

func (f *OutlineFeature) Dispose() error {
	f.pass.Clear()
	return nil
}
