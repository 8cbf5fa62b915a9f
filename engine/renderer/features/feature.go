// Package features plugs the passes into a host renderer, once per camera
// per frame.
package features

import (
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

// Feature is a bundle of passes a host renderer runs every frame.
type Feature interface {
	Name() string
	// Create builds the passes. It is called once before the first frame.
	Create() error
	// AddRenderPasses enqueues on r the passes the camera in data needs.
	AddRenderPasses(r renderer.Renderer, data *metadata.RenderingData)
	Dispose() error
}
