package systems

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

// TargetAllocator creates and destroys the backing of render targets.
type TargetAllocator interface {
	Allocate(descriptor metadata.RenderTargetDescriptor, name string) (*metadata.Texture, error)
	Free(texture *metadata.Texture) error
}

type RenderTargetSystemConfig struct {
	/** @brief The maximum number of distinct named targets alive at once. */
	MaxTargetCount uint16
}

/**
 * @brief A pooled, named render target. The backing texture stays alive
 * between frames and is only replaced when the requested descriptor changes.
 */
type RenderTargetHandle struct {
	Name       string
	Descriptor metadata.RenderTargetDescriptor
	Texture    *metadata.Texture

	inUse bool
}

func (h *RenderTargetHandle) InUse() bool {
	return h != nil && h.inUse
}

type RenderTargetStats struct {
	// Allocations counts every backing allocation since creation.
	Allocations uint64
	// Frees counts every backing release since creation.
	Frees uint64
	// Live is the number of targets currently backed.
	Live int
	// InUse is the number of targets acquired and not yet released.
	InUse int
}

type RenderTargetSystem struct {
	Config *RenderTargetSystemConfig

	allocator TargetAllocator
	targets   map[string]*RenderTargetHandle

	allocations uint64
	frees       uint64
}

func NewRenderTargetSystem(config *RenderTargetSystemConfig, allocator TargetAllocator) (*RenderTargetSystem, error) {
	if config == nil || config.MaxTargetCount == 0 {
		err := fmt.Errorf("func NewRenderTargetSystem - config.MaxTargetCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	if allocator == nil {
		err := fmt.Errorf("func NewRenderTargetSystem - allocator cannot be nil")
		core.LogError(err.Error())
		return nil, err
	}
	return &RenderTargetSystem{
		Config:    config,
		allocator: allocator,
		targets:   make(map[string]*RenderTargetHandle),
	}, nil
}

// Acquire returns the target called name with the given shape, allocating
// only when no target has that name yet or its descriptor differs.
func (rts *RenderTargetSystem) Acquire(descriptor metadata.RenderTargetDescriptor, name string) (*RenderTargetHandle, error) {
	if err := descriptor.Validate(); err != nil {
		return nil, fmt.Errorf("func Acquire - target %s: %w", name, err)
	}

	handle, exists := rts.targets[name]
	if exists && handle.Texture != nil && handle.Descriptor == descriptor {
		handle.inUse = true
		return handle, nil
	}

	if !exists {
		if len(rts.targets) >= int(rts.Config.MaxTargetCount) {
			return nil, fmt.Errorf("func Acquire - target %s: %w (max %d)", name, core.ErrTargetLimit, rts.Config.MaxTargetCount)
		}
		handle = &RenderTargetHandle{Name: name}
		rts.targets[name] = handle
	}

	var generation uint32
	if handle.Texture != nil {
		generation = handle.Texture.Generation + 1
		if err := rts.free(handle); err != nil {
			return nil, err
		}
	}

	texture, err := rts.allocator.Allocate(descriptor, name)
	if err != nil {
		if !exists {
			delete(rts.targets, name)
		}
		return nil, fmt.Errorf("func Acquire - failed to allocate target %s: %w", name, err)
	}
	texture.Generation = generation
	rts.allocations++
	core.LogDebug("render target %s allocated %dx%d", name, descriptor.Width, descriptor.Height)

	handle.Descriptor = descriptor
	handle.Texture = texture
	handle.inUse = true
	return handle, nil
}

// Release marks the handle as not in use. Memory is kept for the next Acquire.
func (rts *RenderTargetSystem) Release(handle *RenderTargetHandle) {
	if handle == nil {
		return
	}
	handle.inUse = false
}

// Get returns the named target without changing its state.
func (rts *RenderTargetSystem) Get(name string) (*RenderTargetHandle, bool) {
	h, ok := rts.targets[name]
	return h, ok
}

// Names lists every pooled target, sorted.
func (rts *RenderTargetSystem) Names() []string {
	names := make([]string, 0, len(rts.targets))
	for n := range rts.targets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (rts *RenderTargetSystem) Stats() RenderTargetStats {
	stats := RenderTargetStats{
		Allocations: rts.allocations,
		Frees:       rts.frees,
	}
	for _, h := range rts.targets {
		if h.Texture != nil {
			stats.Live++
		}
		if h.inUse {
			stats.InUse++
		}
	}
	return stats
}

func (rts *RenderTargetSystem) free(handle *RenderTargetHandle) error {
	if err := rts.allocator.Free(handle.Texture); err != nil {
		return fmt.Errorf("func free - failed to free target %s: %w", handle.Name, err)
	}
	rts.frees++
	handle.Texture = nil
	return nil
}

// Shutdown frees every pooled target.
func (rts *RenderTargetSystem) Shutdown() error {
	var errs []error
	for _, name := range rts.Names() {
		h := rts.targets[name]
		if h.Texture != nil {
			if err := rts.free(h); err != nil {
				core.LogError(err.Error())
				errs = append(errs, err)
			}
		}
		delete(rts.targets, name)
	}
	return errors.Join(errs...)
}

// TargetNames caches per camera target names so the frame loop does not
// format strings.
type TargetNames struct {
	base  string
	names map[uint32]string
}

func NewTargetNames(base string) *TargetNames {
	return &TargetNames{base: base, names: make(map[uint32]string)}
}

// For returns base suffixed with the camera id.
func (tn *TargetNames) For(cameraID uint32) string {
	if n, ok := tn.names[cameraID]; ok {
		return n
	}
	n := tn.base + "_" + strconv.FormatUint(uint64(cameraID), 10)
	tn.names[cameraID] = n
	return n
}
