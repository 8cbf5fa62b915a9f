package software

import (
	"image"

	"github.com/spaghettifunk/prism/engine/containers"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

type ContextConfig struct {
	/** @brief How many released command lists are kept for reuse. */
	MaxPooledCommandLists int
	/** @brief Keep every executed command until ResetStats. */
	RecordHistory bool
}

type Stats struct {
	Submissions int
	DrawCalls   int
	Blits       int
	Clears      int
	Samples     int
}

// Context executes command lists on the CPU.
type Context struct {
	Config *ContextConfig

	free     *containers.RingQueue[*CommandList]
	programs map[string]Program
	globals  map[string]*metadata.Texture

	stats   Stats
	history []Command
}

func NewContext(config *ContextConfig) *Context {
	if config == nil {
		config = &ContextConfig{MaxPooledCommandLists: 8, RecordHistory: true}
	}
	size := config.MaxPooledCommandLists
	if size <= 0 {
		size = 1
	}
	c := &Context{
		Config:   config,
		free:     containers.NewRingQueue[*CommandList](size),
		programs: make(map[string]Program),
		globals:  make(map[string]*metadata.Texture),
	}
	c.registerBuiltinPrograms()
	return c
}

// RegisterProgram binds the shader called shaderName to p.
func (c *Context) RegisterProgram(shaderName string, p Program) {
	c.programs[shaderName] = p
}

func (c *Context) GetCommandList(name string) renderer.CommandList {
	cl, err := c.free.Dequeue()
	if err != nil {
		cl = newCommandList()
	}
	cl.name = name
	return cl
}

func (c *Context) ReleaseCommandList(cmd renderer.CommandList) {
	cl, ok := cmd.(*CommandList)
	if !ok || cl == nil {
		return
	}
	cl.Clear()
	if err := c.free.Enqueue(cl); err != nil {
		core.LogDebug("command list pool full, dropping %s", cl.name)
	}
}

// ExecuteCommandList runs and then empties cmd. Empty lists are not submitted.
func (c *Context) ExecuteCommandList(cmd renderer.CommandList) {
	cl, ok := cmd.(*CommandList)
	if !ok || cl == nil {
		core.LogWarnOnce("software-foreign-list", "software context cannot execute a foreign command list")
		return
	}
	if len(cl.commands) == 0 {
		return
	}
	c.stats.Submissions++

	var target *metadata.Texture
	for _, command := range cl.commands {
		switch command.Kind {
		case CommandSetRenderTarget:
			target = command.Target
		case CommandClear:
			c.stats.Clears++
			c.clearTarget(target, command.ClearFlags, command.Colour)
		case CommandDraw:
			c.stats.DrawCalls++
			c.draw(target, command)
		case CommandBlit:
			c.stats.Blits++
			c.blit(command)
		case CommandSetGlobalTexture:
			c.globals[command.Name] = command.Target
		case CommandBeginSample:
			c.stats.Samples++
		}
		if c.Config.RecordHistory {
			c.history = append(c.history, command)
		}
	}
	cl.Clear()
}

func (c *Context) clearTarget(target *metadata.Texture, flags metadata.RenderpassClearFlag, colour math.Vec4) {
	img := Image(target)
	if img == nil || flags&metadata.RENDERPASS_CLEAR_COLOUR_BUFFER_FLAG == 0 {
		return
	}
	fill(img, img.Bounds(), toRGBA(colour))
}

func (c *Context) draw(target *metadata.Texture, command Command) {
	img := Image(target)
	if img == nil {
		core.LogWarnOnce("software-draw-no-target", "draw issued without a render target")
		return
	}
	bounds := img.Bounds()
	if mr, ok := command.Renderer.(*metadata.MeshRenderer); ok {
		if r, ok := mr.SubMeshBounds(command.SubMesh); ok {
			bounds = image.Rect(r.MinX, r.MinY, r.MaxX, r.MaxY).Intersect(bounds)
		}
	}
	p, ok := c.programs[command.Material.ShaderName()]
	if !ok || p.Draw == nil {
		fill(img, bounds, toRGBA(materialColour(command.Material, "_Color", math.NewVec4One())))
		return
	}
	p.Draw(img, bounds, command.Material, command.Pass)
}

func (c *Context) blit(command Command) {
	src, dst := Image(command.Source), Image(command.Destination)
	if src == nil || dst == nil {
		core.LogWarnOnce("software-blit-missing", "blit with a missing source or destination")
		return
	}
	if command.Material == nil {
		copyImage(dst, src)
		return
	}
	p, ok := c.programs[command.Material.ShaderName()]
	if !ok || p.Blit == nil {
		core.LogWarnOnce("software-no-program:"+command.Material.ShaderName(), "no software program for shader %s, copying", command.Material.ShaderName())
		copyImage(dst, src)
		return
	}
	p.Blit(dst, src, command.Material, command.Pass, c.globals)
}

// Global returns the texture last bound with SetGlobalTexture.
func (c *Context) Global(name string) *metadata.Texture {
	return c.globals[name]
}

func (c *Context) Stats() Stats {
	return c.stats
}

// History returns every executed command since the last ResetStats.
func (c *Context) History() []Command {
	return c.history
}

func (c *Context) ResetStats() {
	c.stats = Stats{}
	clear(c.history)
	c.history = c.history[:0]
}
