package software

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

func TestAllocator(t *testing.T) {
	a := NewAllocator()
	tex, err := a.Allocate(metadata.NewRenderTargetDescriptor(4, 2, metadata.TextureFormatRGBA8), "t")
	require.NoError(t, err)
	img := Image(tex)
	require.NotNil(t, img)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, 1, a.Live())

	require.NoError(t, a.Free(tex))
	assert.Equal(t, 0, a.Live())
	assert.Error(t, a.Free(tex))

	_, err = a.Allocate(metadata.RenderTargetDescriptor{}, "bad")
	assert.Error(t, err)
}

func TestCommandListRecordsUntilExecuted(t *testing.T) {
	ctx := NewContext(nil)
	src := NewColorTarget("src", 2, 2)
	dst := NewColorTarget("dst", 2, 2)
	fill(Image(src), Image(src).Bounds(), color.RGBA{R: 10, A: 255})

	cmd := ctx.GetCommandList("copy")
	cmd.Blit(src, dst, nil, 0)
	assert.Len(t, cmd.(*CommandList).Commands(), 1)
	assert.Equal(t, uint8(0), Image(dst).RGBAAt(0, 0).R)

	ctx.ExecuteCommandList(cmd)
	assert.Equal(t, uint8(10), Image(dst).RGBAAt(1, 1).R)
	assert.Empty(t, cmd.(*CommandList).Commands())
	assert.Equal(t, Stats{Submissions: 1, Blits: 1}, ctx.Stats())

	ctx.ReleaseCommandList(cmd)
	again := ctx.GetCommandList("again")
	assert.Same(t, cmd, again)
	assert.Equal(t, "again", again.Name())
}

func TestEmptyCommandListIsNotSubmitted(t *testing.T) {
	ctx := NewContext(nil)
	ctx.ExecuteCommandList(ctx.GetCommandList("empty"))
	assert.Zero(t, ctx.Stats().Submissions)
}

func TestDrawUsesRendererBounds(t *testing.T) {
	ctx := NewContext(nil)
	target := NewColorTarget("target", 8, 8)
	unlit := metadata.NewMaterial("unlit", &metadata.Shader{Name: metadata.ShaderNameUnlit, PassCount: 1})
	unlit.SetColour("_Color", math.NewVec4Create(0, 1, 0, 1))
	mr := metadata.NewMeshRenderer("quad").WithBounds(math.NewRect(2, 2, 4, 4))

	cmd := ctx.GetCommandList("draw")
	cmd.SetRenderTarget(target)
	cmd.ClearRenderTarget(metadata.RENDERPASS_CLEAR_ALL_FLAG, math.Vec4{})
	cmd.DrawRenderer(mr, 0, unlit, 0)
	ctx.ExecuteCommandList(cmd)

	img := Image(target)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, img.RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(4, 4))
	assert.Equal(t, 1, ctx.Stats().DrawCalls)
	assert.Equal(t, 1, ctx.Stats().Clears)
}

func TestOutlineProgramMarksSilhouetteEdge(t *testing.T) {
	src := NewColorTarget("src", 5, 5)
	dst := NewColorTarget("dst", 5, 5)
	Image(src).SetRGBA(2, 2, color.RGBA{R: 255, A: 255})

	outline := metadata.NewMaterial("outline", &metadata.Shader{Name: metadata.ShaderNameOutline, PassCount: 1})
	outline.SetColour("_OutlineColor", math.NewVec4Create(1, 0, 0, 1))
	blitOutline(Image(dst), Image(src), outline, 0, nil)

	red := color.RGBA{R: 255, A: 255}
	assert.Equal(t, red, Image(dst).RGBAAt(1, 2))
	assert.Equal(t, red, Image(dst).RGBAAt(2, 1))
	assert.Equal(t, color.RGBA{}, Image(dst).RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{}, Image(dst).RGBAAt(0, 0))
}

func TestCopyScalesMismatchedTargets(t *testing.T) {
	src := NewColorTarget("src", 2, 2)
	dst := NewColorTarget("dst", 4, 4)
	fill(Image(src), Image(src).Bounds(), color.RGBA{B: 200, A: 255})

	copyImage(Image(dst), Image(src))
	assert.Equal(t, uint8(200), Image(dst).RGBAAt(3, 3).B)
}

type namedPass struct {
	name  string
	event metadata.RenderPassEvent
	input metadata.PassInput
	ran   *[]string
}

func (p *namedPass) Name() string                    { return p.name }
func (p *namedPass) Event() metadata.RenderPassEvent { return p.event }
func (p *namedPass) Input() metadata.PassInput       { return p.input }

func (p *namedPass) OnCameraCleanup(cmd renderer.CommandList) {}

func (p *namedPass) OnCameraSetup(cmd renderer.CommandList, data *metadata.RenderingData) {}

func (p *namedPass) Execute(ctx renderer.Context, data *metadata.RenderingData) {
	*p.ran = append(*p.ran, p.name)
}

func TestRendererRunsPassesInEventOrder(t *testing.T) {
	r := NewRenderer(nil)
	var ran []string
	r.EnqueuePass(&namedPass{name: "post", event: metadata.AfterRenderingPostProcessing, ran: &ran})
	r.EnqueuePass(&namedPass{name: "opaque-a", event: metadata.AfterRenderingOpaques, ran: &ran})
	r.EnqueuePass(&namedPass{name: "normals", event: metadata.AfterRenderingPrePasses, input: metadata.PassInputNormal, ran: &ran})
	r.EnqueuePass(&namedPass{name: "opaque-b", event: metadata.AfterRenderingOpaques, ran: &ran})

	r.Render(&metadata.RenderingData{Camera: &metadata.CameraData{Name: "main"}})

	assert.Equal(t, []string{"normals", "opaque-a", "opaque-b", "post"}, ran)
	assert.Equal(t, ran, r.ExecutedPasses())
	assert.True(t, r.RequestedInputs().Has(metadata.PassInputNormal))
	assert.Empty(t, r.Enqueued())
}
