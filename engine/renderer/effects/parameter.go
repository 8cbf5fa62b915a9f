package effects

import (
	"golang.org/x/exp/constraints"

	"github.com/spaghettifunk/prism/engine/math"
)

// Parameter is an effect setting with a default. Overridden reports whether
// it was ever set explicitly.
type Parameter[T comparable] struct {
	value      T
	def        T
	overridden bool
}

func NewParameter[T comparable](def T) Parameter[T] {
	return Parameter[T]{value: def, def: def}
}

func (p *Parameter[T]) Value() T {
	return p.value
}

func (p *Parameter[T]) Default() T {
	return p.def
}

func (p *Parameter[T]) Set(v T) {
	p.value = v
	p.overridden = true
}

func (p *Parameter[T]) Reset() {
	p.value = p.def
	p.overridden = false
}

func (p *Parameter[T]) Overridden() bool {
	return p.overridden
}

// IsDefault compares exactly, no tolerance.
func (p *Parameter[T]) IsDefault() bool {
	return p.value == p.def
}

type Number interface {
	constraints.Integer | constraints.Float
}

// ClampedParameter keeps its value inside [Min, Max].
type ClampedParameter[T Number] struct {
	Parameter[T]
	min T
	max T
}

func NewClampedParameter[T Number](def, min, max T) ClampedParameter[T] {
	return ClampedParameter[T]{
		Parameter: NewParameter(math.Clamp(def, min, max)),
		min:       min,
		max:       max,
	}
}

func (p *ClampedParameter[T]) Set(v T) {
	p.Parameter.Set(math.Clamp(v, p.min, p.max))
}

func (p *ClampedParameter[T]) Min() T {
	return p.min
}

func (p *ClampedParameter[T]) Max() T {
	return p.max
}
