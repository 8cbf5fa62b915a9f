package renderer

import (
	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

// CommandList records GPU work. Nothing recorded runs until the list is
// handed to Context.ExecuteCommandList.
type CommandList interface {
	Name() string
	SetRenderTarget(target *metadata.Texture)
	ClearRenderTarget(flags metadata.RenderpassClearFlag, colour math.Vec4)
	// DrawRenderer draws one sub-mesh of r with material using sub-pass pass.
	DrawRenderer(r metadata.SceneRenderer, subMesh int, material *metadata.Material, pass int)
	// Blit runs a fullscreen pass from source into destination. A nil
	// material is a plain copy.
	Blit(source, destination *metadata.Texture, material *metadata.Material, pass int)
	SetGlobalTexture(name string, texture *metadata.Texture)
	BeginSample(name string)
	EndSample(name string)
	// Clear drops every recorded command.
	Clear()
}

// Context hands out command lists and submits them.
type Context interface {
	GetCommandList(name string) CommandList
	ExecuteCommandList(cmd CommandList)
	ReleaseCommandList(cmd CommandList)
}

// RenderPass is the unit the host schedules on its per camera timeline.
type RenderPass interface {
	Name() string
	Event() metadata.RenderPassEvent
	// Input lists the buffers the host must produce before the pass runs.
	Input() metadata.PassInput
	OnCameraSetup(cmd CommandList, data *metadata.RenderingData)
	Execute(ctx Context, data *metadata.RenderingData)
	OnCameraCleanup(cmd CommandList)
}

// Renderer is the host side of a camera render, passes are enqueued per frame.
type Renderer interface {
	EnqueuePass(pass RenderPass)
}

// RendererBackend is a Renderer that can also execute what was enqueued.
type RendererBackend interface {
	Renderer
	Context
	// Render runs every enqueued pass for data in event order and empties the queue.
	Render(data *metadata.RenderingData)
}
