// Package software is a CPU implementation of the renderer contract. It
// backs render targets with image.RGBA and runs shaders as Go programs,
// which makes frames inspectable pixel by pixel.
package software

import (
	"fmt"
	"image"

	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

// Allocator backs render targets with *image.RGBA.
type Allocator struct {
	Allocations int
	Frees       int
}

func NewAllocator() *Allocator {
	return &Allocator{}
}

func (a *Allocator) Allocate(descriptor metadata.RenderTargetDescriptor, name string) (*metadata.Texture, error) {
	if err := descriptor.Validate(); err != nil {
		return nil, err
	}
	texture := metadata.NewTexture(name, descriptor)
	texture.InternalData = image.NewRGBA(image.Rect(0, 0, int(descriptor.Width), int(descriptor.Height)))
	a.Allocations++
	return texture, nil
}

func (a *Allocator) Free(texture *metadata.Texture) error {
	if texture == nil {
		return nil
	}
	if _, ok := texture.InternalData.(*image.RGBA); !ok {
		return fmt.Errorf("func Free - texture %s is not a software texture", texture.Name)
	}
	texture.InternalData = nil
	a.Frees++
	return nil
}

// Live is the number of textures allocated and not yet freed.
func (a *Allocator) Live() int {
	return a.Allocations - a.Frees
}

// NewColorTarget creates a camera colour target outside of any pool.
func NewColorTarget(name string, width, height uint32) *metadata.Texture {
	texture := metadata.NewTexture(name, metadata.NewRenderTargetDescriptor(width, height, metadata.TextureFormatRGBA8))
	texture.InternalData = image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	return texture
}

// Image returns the pixels behind texture, nil if it has none.
func Image(texture *metadata.Texture) *image.RGBA {
	if texture == nil {
		return nil
	}
	img, ok := texture.InternalData.(*image.RGBA)
	if !ok {
		core.LogWarnOnce("software-foreign-texture:"+texture.Name, "texture %s has no software backing", texture.Name)
		return nil
	}
	return img
}
