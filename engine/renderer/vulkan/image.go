package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prism/engine/core"
)

type VulkanImage struct {
	Handle vk.Image
	Memory vk.DeviceMemory
	View   vk.ImageView
	Width  uint32
	Height uint32
	Format vk.Format
}

// ImageCreate creates a 2D image with its own device memory and, optionally, a view.
func ImageCreate(context *VulkanContext, width, height uint32, format vk.Format, samples vk.SampleCountFlagBits,
	tiling vk.ImageTiling, usage vk.ImageUsageFlags, memoryFlags vk.MemoryPropertyFlags,
	createView bool, viewAspectFlags vk.ImageAspectFlags) (*VulkanImage, error) {

	device := context.Device.LogicalDevice
	outImage := &VulkanImage{
		Width:  width,
		Height: height,
		Format: format,
	}

	imageCreateInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Extent: vk.Extent3D{
			Width:  width,
			Height: height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        format,
		Tiling:        tiling,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         usage,
		Samples:       samples,
		SharingMode:   vk.SharingModeExclusive,
	}
	if res := vk.CreateImage(device, &imageCreateInfo, context.Allocator, &outImage.Handle); res != vk.Success {
		err := fmt.Errorf("func ImageCreate - failed to create image: %s", VulkanResultString(res, true))
		core.LogError(err.Error())
		return nil, err
	}

	var memoryRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(device, outImage.Handle, &memoryRequirements)
	memoryRequirements.Deref()

	memoryType := context.FindMemoryIndex(memoryRequirements.MemoryTypeBits, uint32(memoryFlags))
	if memoryType == -1 {
		vk.DestroyImage(device, outImage.Handle, context.Allocator)
		err := fmt.Errorf("func ImageCreate - required memory type not found, image not valid")
		core.LogError(err.Error())
		return nil, err
	}

	memoryAllocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memoryRequirements.Size,
		MemoryTypeIndex: uint32(memoryType),
	}
	if res := vk.AllocateMemory(device, &memoryAllocateInfo, context.Allocator, &outImage.Memory); res != vk.Success {
		vk.DestroyImage(device, outImage.Handle, context.Allocator)
		err := fmt.Errorf("func ImageCreate - failed to allocate memory for image: %s", VulkanResultString(res, true))
		core.LogError(err.Error())
		return nil, err
	}

	if res := vk.BindImageMemory(device, outImage.Handle, outImage.Memory, 0); res != vk.Success {
		outImage.ImageDestroy(context)
		err := fmt.Errorf("func ImageCreate - failed to bind image memory: %s", VulkanResultString(res, true))
		core.LogError(err.Error())
		return nil, err
	}

	if createView {
		if err := outImage.viewCreate(context, viewAspectFlags); err != nil {
			outImage.ImageDestroy(context)
			return nil, err
		}
	}
	return outImage, nil
}

func (image *VulkanImage) viewCreate(context *VulkanContext, aspectFlags vk.ImageAspectFlags) error {
	viewCreateInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image.Handle,
		ViewType: vk.ImageViewType2d,
		Format:   image.Format,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     aspectFlags,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
	if res := vk.CreateImageView(context.Device.LogicalDevice, &viewCreateInfo, context.Allocator, &image.View); res != vk.Success {
		err := fmt.Errorf("func viewCreate - failed to create image view: %s", VulkanResultString(res, true))
		core.LogError(err.Error())
		return err
	}
	return nil
}

func (image *VulkanImage) ImageDestroy(context *VulkanContext) {
	device := context.Device.LogicalDevice
	if image.View != nil {
		vk.DestroyImageView(device, image.View, context.Allocator)
		image.View = nil
	}
	if image.Memory != vk.NullDeviceMemory {
		vk.FreeMemory(device, image.Memory, context.Allocator)
		image.Memory = vk.NullDeviceMemory
	}
	if image.Handle != nil {
		vk.DestroyImage(device, image.Handle, context.Allocator)
		image.Handle = nil
	}
}
