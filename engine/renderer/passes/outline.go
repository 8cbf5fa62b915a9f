package passes

import (
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/conversion"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/spaghettifunk/prism/engine/systems"
)

const OutlinePassName = "Outline"

/**
 * @brief Materials and timing of the outline pass.
 */
type OutlineSettings struct {
	/** @brief Flat material the silhouettes are drawn with. */
	Unlit *metadata.Material
	/** @brief Edge detection material run over the silhouettes. */
	Outline *metadata.Material
	/** @brief Composites the edges onto the camera target. */
	OutlineBlend *metadata.Material
	Event        metadata.RenderPassEvent
}

func (s OutlineSettings) IsValid() bool {
	return s.Unlit != nil && s.Outline != nil && s.OutlineBlend != nil
}

// OutlinePass draws silhouettes into a temporary target, extracts their
// edges into a second one and blends the edges over the camera target.
type OutlinePass struct {
	objectPass

	settings OutlineSettings
	unlit    *conversion.Override
	targets  *systems.RenderTargetSystem

	tempNames    *systems.TargetNames
	outlineNames *systems.TargetNames
	descriptor   metadata.RenderTargetDescriptor
}

func NewOutlinePass(targets *systems.RenderTargetSystem) *OutlinePass {
	unlit := conversion.NewOverride(nil, 0)
	return &OutlinePass{
		objectPass:   newObjectPass(OutlinePassName, metadata.AfterRenderingPostProcessing, unlit),
		unlit:        unlit,
		targets:      targets,
		tempNames:    systems.NewTargetNames("OutlineTempRT"),
		outlineNames: systems.NewTargetNames("OutlineRT"),
	}
}

func (p *OutlinePass) Settings() OutlineSettings {
	return p.settings
}

// Setup takes the settings for this camera and sizes the targets from its
// descriptor, without depth.
func (p *OutlinePass) Setup(settings OutlineSettings, data *metadata.RenderingData) {
	p.settings = settings
	p.event = settings.Event
	p.unlit.Material = settings.Unlit
	if !p.configure(data) {
		return
	}
	p.descriptor = data.Camera.TargetDescriptor
	p.descriptor.DepthBufferBits = metadata.DepthBitsNone
}

func (p *OutlinePass) Execute(ctx renderer.Context, data *metadata.RenderingData) {
	defer func() { p.state = PassStateIdle }()
	if p.state != PassStateConfigured || data == nil || data.Camera.IsExcluded() {
		return
	}
	camera := data.Camera
	if !p.settings.IsValid() || p.targets == nil || camera.ColorTarget == nil || p.conversion == nil {
		core.LogWarnOnce("outline-misconfigured", "pass %s: %s", p.name, core.ErrMisconfiguredPass.Error())
		return
	}

	temp, err := p.targets.Acquire(p.descriptor, p.tempNames.For(camera.ID))
	if err != nil {
		core.LogError("pass %s: %s", p.name, err.Error())
		return
	}
	defer p.targets.Release(temp)
	outline, err := p.targets.Acquire(p.descriptor, p.outlineNames.For(camera.ID))
	if err != nil {
		core.LogError("pass %s: %s", p.name, err.Error())
		return
	}
	defer p.targets.Release(outline)

	p.prune()
	if p.queue.Len() == 0 {
		return
	}
	p.state = PassStateExecuting

	cmd := ctx.GetCommandList(p.name)
	defer ctx.ReleaseCommandList(cmd)

	cmd.SetRenderTarget(temp.Texture)
	cmd.ClearRenderTarget(metadata.RENDERPASS_CLEAR_ALL_FLAG, math.NewVec4Zero())
	p.drawObjects(cmd, p.conversion)

	p.settings.Outline.SetMainTexture(temp.Texture)
	cmd.Blit(temp.Texture, outline.Texture, p.settings.Outline, 0)

	p.settings.OutlineBlend.SetMainTexture(outline.Texture)
	cmd.Blit(outline.Texture, camera.ColorTarget, p.settings.OutlineBlend, 0)

	ctx.ExecuteCommandList(cmd)
}
