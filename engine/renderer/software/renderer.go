package software

import (
	"slices"

	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

// Renderer is a host camera renderer: passes enqueued during a frame run in
// event order, ties kept in enqueue order.
type Renderer struct {
	*Context

	queue []renderer.RenderPass

	// what the last Render call did
	lastPasses []string
	lastInputs metadata.PassInput
}

func NewRenderer(ctx *Context) *Renderer {
	if ctx == nil {
		ctx = NewContext(nil)
	}
	return &Renderer{Context: ctx}
}

func (r *Renderer) EnqueuePass(pass renderer.RenderPass) {
	if pass == nil {
		return
	}
	r.queue = append(r.queue, pass)
}

// Enqueued returns the passes waiting for the next Render.
func (r *Renderer) Enqueued() []renderer.RenderPass {
	return r.queue
}

func (r *Renderer) Render(data *metadata.RenderingData) {
	slices.SortStableFunc(r.queue, func(a, b renderer.RenderPass) int {
		return int(a.Event()) - int(b.Event())
	})

	r.lastPasses = r.lastPasses[:0]
	r.lastInputs = metadata.PassInputNone
	for _, pass := range r.queue {
		r.lastInputs |= pass.Input()
	}
	if r.lastInputs.Has(metadata.PassInputNormal) {
		core.LogDebug("camera %s: producing normals buffer", data.Camera.Name)
	}

	for _, pass := range r.queue {
		cmd := r.GetCommandList(pass.Name())
		pass.OnCameraSetup(cmd, data)
		r.ExecuteCommandList(cmd)

		pass.Execute(r, data)
		r.lastPasses = append(r.lastPasses, pass.Name())

		pass.OnCameraCleanup(cmd)
		r.ExecuteCommandList(cmd)
		r.ReleaseCommandList(cmd)
	}
	clear(r.queue)
	r.queue = r.queue[:0]
}

// ExecutedPasses lists, in order, the passes run by the last Render.
func (r *Renderer) ExecutedPasses() []string {
	return r.lastPasses
}

// RequestedInputs is the union of the inputs of the passes run by the last Render.
func (r *Renderer) RequestedInputs() metadata.PassInput {
	return r.lastInputs
}
