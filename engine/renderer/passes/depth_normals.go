package passes

import (
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

const DepthNormalsPassName = "DepthNormals"

// DepthNormalsPass draws nothing. Enqueuing it makes the host produce a
// normals buffer for the frame.
type DepthNormalsPass struct{}

func NewDepthNormalsPass() *DepthNormalsPass {
	return &DepthNormalsPass{}
}

func (p *DepthNormalsPass) Name() string {
	return DepthNormalsPassName
}

func (p *DepthNormalsPass) Event() metadata.RenderPassEvent {
	return metadata.AfterRenderingOpaques
}

func (p *DepthNormalsPass) Input() metadata.PassInput {
	return metadata.PassInputNormal
}

func (p *DepthNormalsPass) OnCameraSetup(cmd renderer.CommandList, data *metadata.RenderingData) {}

func (p *DepthNormalsPass) Execute(ctx renderer.Context, data *metadata.RenderingData) {}

func (p *DepthNormalsPass) OnCameraCleanup(cmd renderer.CommandList) {}
