package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prism/engine/core"
)

// VulkanDevice is the subset of the host's device render targets are created on.
type VulkanDevice struct {
	PhysicalDevice vk.PhysicalDevice
	LogicalDevice  vk.Device

	DepthFormat vk.Format
}

// VulkanContext wraps a device owned by the host renderer. The context never
// creates or destroys the device itself.
type VulkanContext struct {
	Allocator *vk.AllocationCallbacks
	Device    *VulkanDevice
}

func NewVulkanContext(physical vk.PhysicalDevice, logical vk.Device, allocator *vk.AllocationCallbacks) *VulkanContext {
	vc := &VulkanContext{
		Allocator: allocator,
		Device: &VulkanDevice{
			PhysicalDevice: physical,
			LogicalDevice:  logical,
		},
	}
	if !DeviceDetectDepthFormat(vc.Device) {
		core.LogWarn("no depth format supported, depth attachments disabled")
		vc.Device.DepthFormat = vk.FormatUndefined
	}
	return vc
}

func (vc *VulkanContext) FindMemoryIndex(typeFilter, propertyFlags uint32) int32 {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(vc.Device.PhysicalDevice, &memoryProperties)
	memoryProperties.Deref()

	for i := uint32(0); i < memoryProperties.MemoryTypeCount; i++ {
		// Check each memory type to see if its bit is set to 1.
		memoryProperties.MemoryTypes[i].Deref()
		if (typeFilter&(1<<i)) != 0 && (uint32(memoryProperties.MemoryTypes[i].PropertyFlags)&propertyFlags) == propertyFlags {
			return int32(i)
		}
	}
	core.LogWarn("Unable to find suitable memory type!")
	return -1
}

func DeviceDetectDepthFormat(device *VulkanDevice) bool {
	candidates := []vk.Format{
		vk.FormatD32Sfloat,
		vk.FormatD32SfloatS8Uint,
		vk.FormatD24UnormS8Uint,
	}
	flags := vk.FormatFeatureDepthStencilAttachmentBit
	for _, candidate := range candidates {
		var properties vk.FormatProperties
		vk.GetPhysicalDeviceFormatProperties(device.PhysicalDevice, candidate, &properties)
		properties.Deref()
		if (vk.FormatFeatureFlagBits(properties.OptimalTilingFeatures) & flags) == flags {
			device.DepthFormat = candidate
			return true
		}
	}
	return false
}
