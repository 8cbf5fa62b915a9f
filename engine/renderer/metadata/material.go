package metadata

import (
	"maps"

	"github.com/google/uuid"
	"github.com/spaghettifunk/prism/engine/math"
)

/** @brief The property holding a material's main (albedo) texture. */
const MainTextureProperty string = "_MainTex"

/**
 * @brief A material: a shader plus the named properties it is rendered
 * with. Properties are untyped by name, like the uniforms of the shader
 * they feed.
 */
type Material struct {
	/** @brief The material id. */
	ID uuid.UUID
	/** @brief The material name. */
	Name string
	/** @brief The shader this material renders with, nil if unassigned. */
	Shader *Shader

	textures map[string]*Texture
	floats   map[string]float32
	ints     map[string]int32
	colours  map[string]math.Vec4
	keywords map[string]bool
}

func NewMaterial(name string, shader *Shader) *Material {
	return &Material{
		ID:       uuid.New(),
		Name:     name,
		Shader:   shader,
		textures: make(map[string]*Texture),
		floats:   make(map[string]float32),
		ints:     make(map[string]int32),
		colours:  make(map[string]math.Vec4),
		keywords: make(map[string]bool),
	}
}

// Clone returns a deep copy of the property tables with a fresh id.
// Textures themselves are shared.
func (m *Material) Clone() *Material {
	if m == nil {
		return nil
	}
	return &Material{
		ID:       uuid.New(),
		Name:     m.Name,
		Shader:   m.Shader,
		textures: maps.Clone(m.textures),
		floats:   maps.Clone(m.floats),
		ints:     maps.Clone(m.ints),
		colours:  maps.Clone(m.colours),
		keywords: maps.Clone(m.keywords),
	}
}

// ShaderName is the shader identity, or "" without a shader.
func (m *Material) ShaderName() string {
	if m == nil || m.Shader == nil {
		return ""
	}
	return m.Shader.Name
}

// PassCount is the number of sub-passes of the material's shader.
func (m *Material) PassCount() int {
	if m == nil || m.Shader == nil {
		return 0
	}
	return m.Shader.PassCount
}

func (m *Material) MainTexture() *Texture {
	return m.GetTexture(MainTextureProperty)
}

func (m *Material) SetMainTexture(t *Texture) {
	m.SetTexture(MainTextureProperty, t)
}

func (m *Material) SetTexture(name string, t *Texture) {
	if m.textures == nil {
		m.textures = make(map[string]*Texture)
	}
	m.textures[name] = t
}

func (m *Material) GetTexture(name string) *Texture {
	if m == nil {
		return nil
	}
	return m.textures[name]
}

func (m *Material) SetFloat(name string, v float32) {
	if m.floats == nil {
		m.floats = make(map[string]float32)
	}
	m.floats[name] = v
}

func (m *Material) GetFloat(name string) (float32, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m.floats[name]
	return v, ok
}

func (m *Material) SetInt(name string, v int32) {
	if m.ints == nil {
		m.ints = make(map[string]int32)
	}
	m.ints[name] = v
}

func (m *Material) GetInt(name string) (int32, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m.ints[name]
	return v, ok
}

func (m *Material) SetColour(name string, c math.Vec4) {
	if m.colours == nil {
		m.colours = make(map[string]math.Vec4)
	}
	m.colours[name] = c
}

func (m *Material) GetColour(name string) (math.Vec4, bool) {
	if m == nil {
		return math.Vec4{}, false
	}
	c, ok := m.colours[name]
	return c, ok
}

func (m *Material) EnableKeyword(keyword string) {
	if m.keywords == nil {
		m.keywords = make(map[string]bool)
	}
	m.keywords[keyword] = true
}

func (m *Material) DisableKeyword(keyword string) {
	delete(m.keywords, keyword)
}

func (m *Material) IsKeywordEnabled(keyword string) bool {
	if m == nil {
		return false
	}
	return m.keywords[keyword]
}
