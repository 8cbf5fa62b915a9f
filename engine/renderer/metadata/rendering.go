package metadata

import "fmt"

/** @brief Classifies cameras. Scene view and preview cameras skip render features. */
type CameraType int

const (
	CameraTypeGame CameraType = iota
	CameraTypeSceneView
	CameraTypePreview
	CameraTypeReflection
)

func (c CameraType) String() string {
	switch c {
	case CameraTypeGame:
		return "Game"
	case CameraTypeSceneView:
		return "SceneView"
	case CameraTypePreview:
		return "Preview"
	case CameraTypeReflection:
		return "Reflection"
	}
	return fmt.Sprintf("CameraType(%d)", int(c))
}

/**
 * @brief Per camera information the host passes to render features.
 */
type CameraData struct {
	/** @brief Stable camera identifier, used to key per camera targets. */
	ID   uint32
	Name string
	Type CameraType
	/** @brief Whether post-processing is enabled for this camera. */
	PostProcessEnabled bool
	/** @brief The shape of the camera's colour target. */
	TargetDescriptor RenderTargetDescriptor
	/** @brief The camera's colour target. */
	ColorTarget *Texture
}

// IsExcluded reports whether render features must skip this camera.
func (c *CameraData) IsExcluded() bool {
	return c == nil || c.Type == CameraTypeSceneView || c.Type == CameraTypePreview
}

/** @brief Everything a pass knows about the frame being rendered. */
type RenderingData struct {
	Camera      *CameraData
	FrameNumber uint64
	DeltaTime   float64
}

/** @brief Bits requested by a pass to the host renderer. */
type PassInput uint8

const (
	PassInputNone   PassInput = 0x0
	PassInputDepth  PassInput = 0x1
	PassInputNormal PassInput = 0x2
	PassInputColor  PassInput = 0x4
	PassInputMotion PassInput = 0x8
)

func (p PassInput) Has(flag PassInput) bool {
	return p&flag == flag
}

type RenderpassClearFlag uint32

const (
	/** @brief No clearing should be done. */
	RENDERPASS_CLEAR_NONE_FLAG RenderpassClearFlag = 0x0
	/** @brief Clear the colour buffer. */
	RENDERPASS_CLEAR_COLOUR_BUFFER_FLAG RenderpassClearFlag = 0x1
	/** @brief Clear the depth buffer. */
	RENDERPASS_CLEAR_DEPTH_BUFFER_FLAG RenderpassClearFlag = 0x2
	/** @brief Clear the stencil buffer. */
	RENDERPASS_CLEAR_STENCIL_BUFFER_FLAG RenderpassClearFlag = 0x4
	/** @brief Clear every buffer. */
	RENDERPASS_CLEAR_ALL_FLAG RenderpassClearFlag = 0x7
)
