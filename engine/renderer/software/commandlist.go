package software

import (
	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

type CommandKind int

const (
	CommandSetRenderTarget CommandKind = iota
	CommandClear
	CommandDraw
	CommandBlit
	CommandSetGlobalTexture
	CommandBeginSample
	CommandEndSample
)

func (k CommandKind) String() string {
	switch k {
	case CommandSetRenderTarget:
		return "SetRenderTarget"
	case CommandClear:
		return "Clear"
	case CommandDraw:
		return "Draw"
	case CommandBlit:
		return "Blit"
	case CommandSetGlobalTexture:
		return "SetGlobalTexture"
	case CommandBeginSample:
		return "BeginSample"
	case CommandEndSample:
		return "EndSample"
	}
	return "Unknown"
}

// Command is one recorded call. Only the fields relevant to Kind are set.
type Command struct {
	Kind        CommandKind
	List        string
	Name        string
	Target      *metadata.Texture
	Source      *metadata.Texture
	Destination *metadata.Texture
	Material    *metadata.Material
	Pass        int
	SubMesh     int
	Renderer    metadata.SceneRenderer
	ClearFlags  metadata.RenderpassClearFlag
	Colour      math.Vec4
}

// CommandList records commands until a Context executes it.
type CommandList struct {
	name     string
	commands []Command
}

func newCommandList() *CommandList {
	return &CommandList{commands: make([]Command, 0, 32)}
}

func (cl *CommandList) Name() string {
	return cl.name
}

func (cl *CommandList) SetRenderTarget(target *metadata.Texture) {
	cl.commands = append(cl.commands, Command{Kind: CommandSetRenderTarget, List: cl.name, Target: target})
}

func (cl *CommandList) ClearRenderTarget(flags metadata.RenderpassClearFlag, colour math.Vec4) {
	cl.commands = append(cl.commands, Command{Kind: CommandClear, List: cl.name, ClearFlags: flags, Colour: colour})
}

func (cl *CommandList) DrawRenderer(r metadata.SceneRenderer, subMesh int, material *metadata.Material, pass int) {
	cl.commands = append(cl.commands, Command{Kind: CommandDraw, List: cl.name, Renderer: r, SubMesh: subMesh, Material: material, Pass: pass})
}

func (cl *CommandList) Blit(source, destination *metadata.Texture, material *metadata.Material, pass int) {
	cl.commands = append(cl.commands, Command{Kind: CommandBlit, List: cl.name, Source: source, Destination: destination, Material: material, Pass: pass})
}

func (cl *CommandList) SetGlobalTexture(name string, texture *metadata.Texture) {
	cl.commands = append(cl.commands, Command{Kind: CommandSetGlobalTexture, List: cl.name, Name: name, Target: texture})
}

func (cl *CommandList) BeginSample(name string) {
	cl.commands = append(cl.commands, Command{Kind: CommandBeginSample, List: cl.name, Name: name})
}

func (cl *CommandList) EndSample(name string) {
	cl.commands = append(cl.commands, Command{Kind: CommandEndSample, List: cl.name, Name: name})
}

func (cl *CommandList) Clear() {
	clear(cl.commands)
	cl.commands = cl.commands[:0]
}

// Commands returns what has been recorded and not executed yet.
func (cl *CommandList) Commands() []Command {
	return cl.commands
}
