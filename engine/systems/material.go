package systems

import (
	"fmt"

	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

type MaterialSystemConfig struct {
	/** @brief The maximum number of materials that can be held at once. */
	MaxMaterialCount uint32
}

type materialReference struct {
	material       *metadata.Material
	referenceCount uint64
}

// MaterialSystem owns the role materials (unlit, outline, blend...) render
// features are configured with.
type MaterialSystem struct {
	Config *MaterialSystemConfig

	shaders   *ShaderSystem
	materials map[string]*materialReference
}

func NewMaterialSystem(config *MaterialSystemConfig, shaders *ShaderSystem) (*MaterialSystem, error) {
	if config == nil || config.MaxMaterialCount == 0 {
		err := fmt.Errorf("func NewMaterialSystem - config.MaxMaterialCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	if shaders == nil {
		return nil, fmt.Errorf("func NewMaterialSystem - shader system cannot be nil")
	}
	return &MaterialSystem{
		Config:    config,
		shaders:   shaders,
		materials: make(map[string]*materialReference),
	}, nil
}

// Acquire returns the material called name, creating it with shaderName on first use.
func (ms *MaterialSystem) Acquire(name, shaderName string) (*metadata.Material, error) {
	if ref, ok := ms.materials[name]; ok {
		if ref.material.ShaderName() != shaderName {
			return nil, fmt.Errorf("func Acquire - material %s already exists with shader %s", name, ref.material.ShaderName())
		}
		ref.referenceCount++
		return ref.material, nil
	}
	if uint32(len(ms.materials)) >= ms.Config.MaxMaterialCount {
		return nil, fmt.Errorf("func Acquire - material system is full (max %d)", ms.Config.MaxMaterialCount)
	}
	shader, ok := ms.shaders.Find(shaderName)
	if !ok {
		return nil, fmt.Errorf("func Acquire - shader %s not found for material %s", shaderName, name)
	}
	m := metadata.NewMaterial(name, shader)
	ms.materials[name] = &materialReference{material: m, referenceCount: 1}
	return m, nil
}

// Release drops one reference, removing the material when none remain.
func (ms *MaterialSystem) Release(name string) {
	ref, ok := ms.materials[name]
	if !ok {
		core.LogWarn("func Release - material %s is not registered", name)
		return
	}
	ref.referenceCount--
	if ref.referenceCount == 0 {
		delete(ms.materials, name)
	}
}

func (ms *MaterialSystem) Get(name string) (*metadata.Material, bool) {
	ref, ok := ms.materials[name]
	if !ok {
		return nil, false
	}
	return ref.material, true
}

func (ms *MaterialSystem) Shutdown() error {
	ms.materials = make(map[string]*materialReference)
	return nil
}
