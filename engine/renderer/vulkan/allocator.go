package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

// RenderTargetImages is the InternalData of every texture allocated by TargetAllocator.
type RenderTargetImages struct {
	Colour *VulkanImage
	// nil when the descriptor has no depth buffer
	Depth *VulkanImage
}

// TargetAllocator backs pooled render targets with device local vulkan images.
type TargetAllocator struct {
	context *VulkanContext
}

func NewTargetAllocator(context *VulkanContext) (*TargetAllocator, error) {
	if context == nil || context.Device == nil || context.Device.LogicalDevice == nil {
		return nil, fmt.Errorf("func NewTargetAllocator - a vulkan device is required")
	}
	return &TargetAllocator{context: context}, nil
}

func (ta *TargetAllocator) Allocate(descriptor metadata.RenderTargetDescriptor, name string) (*metadata.Texture, error) {
	if err := descriptor.Validate(); err != nil {
		return nil, err
	}
	format, err := ColourFormat(descriptor.Format)
	if err != nil {
		return nil, err
	}
	samples := SampleCount(descriptor.MSAASamples)

	colour, err := ImageCreate(
		ta.context,
		descriptor.Width,
		descriptor.Height,
		format,
		samples,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit|vk.ImageUsageSampledBit|vk.ImageUsageTransferSrcBit|vk.ImageUsageTransferDstBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true,
		vk.ImageAspectFlags(vk.ImageAspectColorBit))
	if err != nil {
		return nil, fmt.Errorf("failed to allocate colour attachment for %s: %w", name, err)
	}

	images := &RenderTargetImages{Colour: colour}
	if descriptor.DepthBufferBits != metadata.DepthBitsNone {
		depthFormat := DepthFormat(descriptor.DepthBufferBits, ta.context.Device.DepthFormat)
		depth, err := ImageCreate(
			ta.context,
			descriptor.Width,
			descriptor.Height,
			depthFormat,
			samples,
			vk.ImageTilingOptimal,
			vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
			vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
			true,
			vk.ImageAspectFlags(vk.ImageAspectDepthBit))
		if err != nil {
			colour.ImageDestroy(ta.context)
			return nil, fmt.Errorf("failed to allocate depth attachment for %s: %w", name, err)
		}
		images.Depth = depth
	}

	texture := metadata.NewTexture(name, descriptor)
	texture.InternalData = images
	core.LogDebug("vulkan render target %s created", texture)
	return texture, nil
}

func (ta *TargetAllocator) Free(texture *metadata.Texture) error {
	if texture == nil {
		return nil
	}
	images, ok := texture.InternalData.(*RenderTargetImages)
	if !ok {
		return fmt.Errorf("func Free - texture %s was not allocated by the vulkan allocator", texture.Name)
	}
	vk.DeviceWaitIdle(ta.context.Device.LogicalDevice)
	if images.Depth != nil {
		images.Depth.ImageDestroy(ta.context)
	}
	images.Colour.ImageDestroy(ta.context)
	texture.InternalData = nil
	return nil
}

func ColourFormat(format metadata.TextureFormat) (vk.Format, error) {
	switch format {
	case metadata.TextureFormatRGBA8:
		return vk.FormatR8g8b8a8Unorm, nil
	case metadata.TextureFormatBGRA8:
		return vk.FormatB8g8r8a8Unorm, nil
	case metadata.TextureFormatRGBA16F:
		return vk.FormatR16g16b16a16Sfloat, nil
	case metadata.TextureFormatRGBA32F:
		return vk.FormatR32g32b32a32Sfloat, nil
	}
	return vk.FormatUndefined, fmt.Errorf("%w: no vulkan format for %s", core.ErrInvalidDescriptor, format)
}

// DepthFormat picks the vulkan format for bits, falling back to the device's detected format.
func DepthFormat(bits metadata.DepthBits, detected vk.Format) vk.Format {
	switch bits {
	case metadata.DepthBits16:
		return vk.FormatD16Unorm
	case metadata.DepthBits24:
		return vk.FormatD24UnormS8Uint
	case metadata.DepthBits32:
		return vk.FormatD32Sfloat
	}
	return detected
}

func SampleCount(samples uint8) vk.SampleCountFlagBits {
	switch samples {
	case 2:
		return vk.SampleCount2Bit
	case 4:
		return vk.SampleCount4Bit
	case 8:
		return vk.SampleCount8Bit
	}
	return vk.SampleCount1Bit
}
