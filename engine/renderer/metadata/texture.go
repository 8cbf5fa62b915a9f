package metadata

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/prism/engine/core"
)

/** @brief Pixel format of a render target colour attachment. */
type TextureFormat int

const (
	TextureFormatRGBA8 TextureFormat = iota
	TextureFormatBGRA8
	TextureFormatRGBA16F
	TextureFormatRGBA32F
)

func (f TextureFormat) String() string {
	switch f {
	case TextureFormatRGBA8:
		return "RGBA8"
	case TextureFormatBGRA8:
		return "BGRA8"
	case TextureFormatRGBA16F:
		return "RGBA16F"
	case TextureFormatRGBA32F:
		return "RGBA32F"
	}
	return fmt.Sprintf("TextureFormat(%d)", int(f))
}

/** @brief Depth buffer precision in bits, 0 means no depth attachment. */
type DepthBits uint8

const (
	DepthBitsNone DepthBits = 0
	DepthBits16   DepthBits = 16
	DepthBits24   DepthBits = 24
	DepthBits32   DepthBits = 32
)

/**
 * @brief Describes an offscreen render target. Two descriptors are
 * interchangeable if and only if they compare equal.
 */
type RenderTargetDescriptor struct {
	/** @brief The target width in pixels. */
	Width uint32
	/** @brief The target height in pixels. */
	Height uint32
	/** @brief The colour format. */
	Format TextureFormat
	/** @brief Multisample count, 1 means no multisampling. */
	MSAASamples uint8
	/** @brief Depth buffer bits, DepthBitsNone for colour only targets. */
	DepthBufferBits DepthBits
}

func NewRenderTargetDescriptor(width, height uint32, format TextureFormat) RenderTargetDescriptor {
	return RenderTargetDescriptor{
		Width:       width,
		Height:      height,
		Format:      format,
		MSAASamples: 1,
	}
}

// Validate reports whether the descriptor can back an allocation.
func (d RenderTargetDescriptor) Validate() error {
	if d.Width == 0 || d.Height == 0 {
		return fmt.Errorf("%w: zero sized target %dx%d", core.ErrInvalidDescriptor, d.Width, d.Height)
	}
	switch d.MSAASamples {
	case 1, 2, 4, 8:
	default:
		return fmt.Errorf("%w: unsupported sample count %d", core.ErrInvalidDescriptor, d.MSAASamples)
	}
	return nil
}

// ColorOnly returns a copy with multisampling and depth removed, the shape
// every intermediate effect target uses.
func (d RenderTargetDescriptor) ColorOnly() RenderTargetDescriptor {
	d.MSAASamples = 1
	d.DepthBufferBits = DepthBitsNone
	return d
}

/**
 * @brief Represents a texture that can be rendered to and sampled from.
 */
type Texture struct {
	/** @brief The unique texture identifier. */
	ID uuid.UUID
	/** @brief The texture Name. */
	Name string
	/** @brief The shape the texture was allocated with. */
	Descriptor RenderTargetDescriptor
	/** @brief The texture Generation. Incremented every time the backing is reallocated. */
	Generation uint32
	/** @brief Backend specific data (an *image.RGBA, a vulkan image...). */
	InternalData interface{}
}

func NewTexture(name string, descriptor RenderTargetDescriptor) *Texture {
	return &Texture{
		ID:         uuid.New(),
		Name:       name,
		Descriptor: descriptor,
	}
}

func (t *Texture) String() string {
	if t == nil {
		return "<nil texture>"
	}
	return fmt.Sprintf("%s(%dx%d %s)", t.Name, t.Descriptor.Width, t.Descriptor.Height, t.Descriptor.Format)
}
