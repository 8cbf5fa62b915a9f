// Package passes holds the object render passes: they draw a queue of scene
// renderers with substituted materials.
package passes

import (
	"fmt"

	"github.com/spaghettifunk/prism/engine/containers"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/conversion"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

/** @brief Lifecycle of an object pass within one camera frame. */
type PassState int

const (
	PassStateIdle PassState = iota
	PassStateConfigured
	PassStateExecuting
)

func (s PassState) String() string {
	switch s {
	case PassStateIdle:
		return "Idle"
	case PassStateConfigured:
		return "Configured"
	case PassStateExecuting:
		return "Executing"
	}
	return fmt.Sprintf("PassState(%d)", int(s))
}

// objectPass is what Outline and Ghost share: the render queue, the
// conversion and the state machine.
type objectPass struct {
	name       string
	event      metadata.RenderPassEvent
	queue      *containers.ObjectQueue[metadata.SceneRenderer, uint32]
	conversion conversion.MaterialConversion
	state      PassState
}

func newObjectPass(name string, event metadata.RenderPassEvent, conv conversion.MaterialConversion) objectPass {
	return objectPass{
		name:       name,
		event:      event,
		queue:      containers.NewKeyedObjectQueue(metadata.RendererID),
		conversion: conv,
	}
}

func (p *objectPass) Name() string {
	return p.name
}

func (p *objectPass) Event() metadata.RenderPassEvent {
	return p.event
}

func (p *objectPass) SetEvent(event metadata.RenderPassEvent) {
	p.event = event
}

func (p *objectPass) Input() metadata.PassInput {
	return metadata.PassInputNone
}

func (p *objectPass) State() PassState {
	return p.state
}

// Add queues r unless a renderer with the same ID is already queued.
func (p *objectPass) Add(r metadata.SceneRenderer, clearFirst bool) {
	p.queue.Add(r, clearFirst)
}

// AddRange appends rs as given, duplicates included.
func (p *objectPass) AddRange(rs []metadata.SceneRenderer, clearFirst bool) {
	p.queue.AddRange(rs, clearFirst)
}

func (p *objectPass) Remove(r metadata.SceneRenderer) {
	p.queue.Remove(r)
}

func (p *objectPass) Clear() {
	p.queue.Clear()
}

// Objects returns the queue. It is only valid until the next mutation.
func (p *objectPass) Objects() []metadata.SceneRenderer {
	return p.queue.Items()
}

func (p *objectPass) SetConversion(conv conversion.MaterialConversion) {
	p.conversion = conv
}

func (p *objectPass) Conversion() conversion.MaterialConversion {
	return p.conversion
}

// configure moves the pass to Configured for cameras that are not excluded.
func (p *objectPass) configure(data *metadata.RenderingData) bool {
	if data == nil || data.Camera.IsExcluded() {
		p.state = PassStateIdle
		return false
	}
	p.state = PassStateConfigured
	return true
}

func (p *objectPass) prune() {
	if n := p.queue.Prune(func(r metadata.SceneRenderer) bool { return !metadata.IsStale(r) }); n > 0 {
		core.LogDebug("pass %s: pruned %d stale renderers", p.name, n)
	}
}

// drawObjects issues one draw per sub-mesh and per sub-pass the conversion
// returns, and reports how many draws it issued.
func (p *objectPass) drawObjects(cmd renderer.CommandList, conv conversion.MaterialConversion) int {
	draws := 0
	for _, r := range p.queue.Items() {
		for subMesh, original := range r.SharedMaterials() {
			material, indices := conv.Convert(original)
			if material == nil {
				continue
			}
			for _, pass := range conversion.Sanitize(indices, material.PassCount()) {
				cmd.DrawRenderer(r, subMesh, material, pass)
				draws++
			}
		}
	}
	return draws
}

func (p *objectPass) OnCameraSetup(cmd renderer.CommandList, data *metadata.RenderingData) {}

func (p *objectPass) OnCameraCleanup(cmd renderer.CommandList) {}
