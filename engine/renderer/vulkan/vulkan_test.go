package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

func TestColourFormat(t *testing.T) {
	tests := []struct {
		format metadata.TextureFormat
		want   vk.Format
	}{
		{metadata.TextureFormatRGBA8, vk.FormatR8g8b8a8Unorm},
		{metadata.TextureFormatBGRA8, vk.FormatB8g8r8a8Unorm},
		{metadata.TextureFormatRGBA16F, vk.FormatR16g16b16a16Sfloat},
		{metadata.TextureFormatRGBA32F, vk.FormatR32g32b32a32Sfloat},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			got, err := ColourFormat(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ColourFormat(metadata.TextureFormat(99))
	assert.ErrorIs(t, err, core.ErrInvalidDescriptor)
}

func TestDepthFormat(t *testing.T) {
	assert.Equal(t, vk.FormatD16Unorm, DepthFormat(metadata.DepthBits16, vk.FormatUndefined))
	assert.Equal(t, vk.FormatD24UnormS8Uint, DepthFormat(metadata.DepthBits24, vk.FormatUndefined))
	assert.Equal(t, vk.FormatD32Sfloat, DepthFormat(metadata.DepthBits32, vk.FormatUndefined))
	assert.Equal(t, vk.FormatD32SfloatS8Uint, DepthFormat(metadata.DepthBitsNone, vk.FormatD32SfloatS8Uint))
}

func TestSampleCount(t *testing.T) {
	assert.Equal(t, vk.SampleCount1Bit, SampleCount(0))
	assert.Equal(t, vk.SampleCount1Bit, SampleCount(1))
	assert.Equal(t, vk.SampleCount2Bit, SampleCount(2))
	assert.Equal(t, vk.SampleCount4Bit, SampleCount(4))
	assert.Equal(t, vk.SampleCount8Bit, SampleCount(8))
	assert.Equal(t, vk.SampleCount1Bit, SampleCount(3))
}

func TestTargetAllocatorNeedsDevice(t *testing.T) {
	_, err := NewTargetAllocator(nil)
	assert.Error(t, err)
	_, err = NewTargetAllocator(&VulkanContext{Device: &VulkanDevice{}})
	assert.Error(t, err)
}

func TestFreeRejectsForeignTextures(t *testing.T) {
	ta := &TargetAllocator{}
	assert.NoError(t, ta.Free(nil))

	texture := metadata.NewTexture("foreign", metadata.NewRenderTargetDescriptor(4, 4, metadata.TextureFormatRGBA8))
	assert.Error(t, ta.Free(texture))
}

func TestVulkanResultString(t *testing.T) {
	assert.Equal(t, "VK_SUCCESS", VulkanResultString(vk.Success, false))
	assert.Equal(t, "VK_ERROR_DEVICE_LOST The logical or physical device has been lost.", VulkanResultString(vk.ErrorDeviceLost, true))
	assert.Equal(t, "VkResult(12345)", VulkanResultString(vk.Result(12345), false))
}
