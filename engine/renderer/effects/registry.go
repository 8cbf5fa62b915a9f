package effects

import (
	"fmt"
	"sort"

	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/spaghettifunk/prism/engine/systems"
)

// Context is what effect constructors may depend on.
type Context struct {
	Shaders metadata.ShaderLibrary
	Targets *systems.RenderTargetSystem
}

type Constructor func(ctx *Context) Effect

// Registry maps effect names to constructors. It is built explicitly and
// handed to the post-processing feature at creation.
type Registry struct {
	constructors map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// NewDefaultRegistry returns a registry with every built-in effect.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(VolumetricLightName, NewVolumetricLight)
	r.MustRegister(BlurName, NewBlur)
	return r
}

// BuiltinShaders lists the shaders, and their pass counts, built-in effects render with.
func BuiltinShaders() map[string]int {
	return map[string]int{
		metadata.ShaderNameVolumetric: VolumetricPassCount,
		metadata.ShaderNameBlur:       1,
	}
}

func (r *Registry) Register(name string, ctor Constructor) error {
	if name == "" || ctor == nil {
		return fmt.Errorf("func Register - effect name and constructor are required")
	}
	if _, ok := r.constructors[name]; ok {
		return fmt.Errorf("func Register - %s: %w", name, core.ErrEffectExists)
	}
	r.constructors[name] = ctor
	return nil
}

func (r *Registry) MustRegister(name string, ctor Constructor) {
	if err := r.Register(name, ctor); err != nil {
		panic(err)
	}
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.constructors))
	for n := range r.constructors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) New(name string, ctx *Context) (Effect, error) {
	ctor, ok := r.constructors[name]
	if !ok {
		return nil, fmt.Errorf("func New - %s: %w", name, core.ErrUnknownEffect)
	}
	return ctor(ctx), nil
}

// Instantiate creates one instance of every registered effect, in name order.
func (r *Registry) Instantiate(ctx *Context) []Effect {
	out := make([]Effect, 0, len(r.constructors))
	for _, name := range r.Names() {
		e := r.constructors[name](ctx)
		if e == nil {
			core.LogWarn("effect constructor %s returned nil", name)
			continue
		}
		out = append(out, e)
	}
	return out
}
