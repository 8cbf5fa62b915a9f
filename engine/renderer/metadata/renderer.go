package metadata

import (
	"sync/atomic"

	"github.com/spaghettifunk/prism/engine/math"
)

/**
 * @brief An object drawn by object passes. References are weak: the host
 * may destroy the object at any time, after which Alive reports false.
 */
type SceneRenderer interface {
	/** @brief Identity of the object, stable for its lifetime. 0 means none. */
	ID() uint32
	/** @brief False once the underlying object has been destroyed. */
	Alive() bool
	/** @brief The material of every sub-mesh, index = sub-mesh index. */
	SharedMaterials() []*Material
}

var rendererIDs atomic.Uint32

/**
 * @brief A renderer for a mesh with one material per sub-mesh.
 */
type MeshRenderer struct {
	UniqueID uint32
	Name     string
	/** @brief Materials, one per sub-mesh. */
	Materials []*Material
	/** @brief Screen space footprint of every sub-mesh, used by software hosts. */
	Bounds []math.Rect

	destroyed bool
}

func NewMeshRenderer(name string, materials ...*Material) *MeshRenderer {
	return &MeshRenderer{
		UniqueID:  rendererIDs.Add(1),
		Name:      name,
		Materials: materials,
	}
}

// WithBounds sets the screen footprint of every sub-mesh.
func (r *MeshRenderer) WithBounds(bounds ...math.Rect) *MeshRenderer {
	r.Bounds = bounds
	return r
}

// SubMeshBounds returns the footprint of sub-mesh i, falling back to the first one.
func (r *MeshRenderer) SubMeshBounds(i int) (math.Rect, bool) {
	if i >= 0 && i < len(r.Bounds) {
		return r.Bounds[i], true
	}
	if len(r.Bounds) > 0 {
		return r.Bounds[0], true
	}
	return math.Rect{}, false
}

func (r *MeshRenderer) ID() uint32 {
	if r == nil {
		return 0
	}
	return r.UniqueID
}

func (r *MeshRenderer) Alive() bool {
	return r != nil && !r.destroyed
}

func (r *MeshRenderer) SharedMaterials() []*Material {
	return r.Materials
}

func (r *MeshRenderer) Destroy() {
	r.destroyed = true
	r.Materials = nil
}

// RendererID returns r.ID(), 0 for a nil reference.
func RendererID(r SceneRenderer) uint32 {
	if r == nil {
		return 0
	}
	return r.ID()
}

// IsStale reports whether r is a nil or destroyed reference.
func IsStale(r SceneRenderer) bool {
	return r == nil || !r.Alive()
}
