package passes

import (
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/conversion"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

const GhostPassName = "Ghost"

// GhostPass draws its queue straight into the camera target with the
// materials its conversion substitutes.
type GhostPass struct {
	objectPass
}

// NewGhostPass returns a pass without conversion; it draws nothing until
// SetConversion is called.
func NewGhostPass(event metadata.RenderPassEvent, conv conversion.MaterialConversion) *GhostPass {
	return &GhostPass{objectPass: newObjectPass(GhostPassName, event, conv)}
}

func (p *GhostPass) Setup(data *metadata.RenderingData) {
	p.configure(data)
}

func (p *GhostPass) Execute(ctx renderer.Context, data *metadata.RenderingData) {
	defer func() { p.state = PassStateIdle }()
	if p.state != PassStateConfigured || data == nil || data.Camera.IsExcluded() {
		return
	}
	if p.conversion == nil || data.Camera.ColorTarget == nil {
		core.LogWarnOnce("ghost-misconfigured", "pass %s: %s", p.name, core.ErrMisconfiguredPass.Error())
		return
	}

	p.prune()
	if p.queue.Len() == 0 {
		return
	}
	p.state = PassStateExecuting

	cmd := ctx.GetCommandList(p.name)
	defer ctx.ReleaseCommandList(cmd)

	cmd.SetRenderTarget(data.Camera.ColorTarget)
	p.drawObjects(cmd, p.conversion)
	ctx.ExecuteCommandList(cmd)
}
