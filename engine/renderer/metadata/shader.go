package metadata

// Well known shader identities.
const (
	ShaderNameLit          string = "Prism/Lit"
	ShaderNameSimpleLit    string = "Prism/SimpleLit"
	ShaderNameUnlit        string = "Prism/Unlit"
	ShaderNameOutline      string = "Prism/Outline"
	ShaderNameOutlineBlend string = "Prism/OutlineBlend"
	ShaderNameGhost        string = "Prism/Ghost"
	ShaderNameCopy         string = "Prism/Blit"
	ShaderNameVolumetric   string = "Prism/PostProcessing/VolumetricShader"
	ShaderNameBlur         string = "Prism/PostProcessing/Blur"
)

/**
 * @brief Represents a shader on the frontend. Only the identity and the
 * number of sub-passes matter to render features.
 */
type Shader struct {
	/** @brief The shader identifier */
	ID uint32
	/** @brief The shader identity, used to pick material conversions. */
	Name string
	/** @brief The number of sub-passes (techniques) the shader exposes. */
	PassCount int
}

/** @brief Looks shaders up by identity. */
type ShaderLibrary interface {
	Find(name string) (*Shader, bool)
}
