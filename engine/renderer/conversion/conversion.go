// Package conversion decides, per sub-mesh, which material and which
// sub-passes an object pass draws with.
package conversion

import (
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

// MaterialConversion maps an object's original material to the material to
// draw with and the sub-pass indices to draw. An empty list means "draw nothing".
type MaterialConversion interface {
	Convert(original *metadata.Material) (*metadata.Material, []int)
}

// Strategy is one shader specific conversion inside a Chain.
type Strategy interface {
	Name() string
	Matches(original *metadata.Material) bool
	Convert(original *metadata.Material) (*metadata.Material, []int)
}

// Chain tries its strategies in order and falls back to Passthrough.
type Chain struct {
	strategies []Strategy
}

func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Append adds a strategy with the lowest priority.
func (c *Chain) Append(s Strategy) {
	c.strategies = append(c.strategies, s)
}

func (c *Chain) Convert(original *metadata.Material) (*metadata.Material, []int) {
	if original == nil {
		return nil, nil
	}
	for _, s := range c.strategies {
		if !s.Matches(original) {
			continue
		}
		material, indices := s.Convert(original)
		return material, Sanitize(indices, material.PassCount())
	}
	return Passthrough{}.Convert(original)
}

// Release drops any cached substitutes held by the chain's strategies.
func (c *Chain) Release() {
	for _, s := range c.strategies {
		if r, ok := s.(interface{ Release() }); ok {
			r.Release()
		}
	}
}

// Passthrough keeps the original material and draws nothing.
type Passthrough struct{}

func (Passthrough) Name() string                             { return "passthrough" }
func (Passthrough) Matches(original *metadata.Material) bool { return true }

func (Passthrough) Convert(original *metadata.Material) (*metadata.Material, []int) {
	return original, nil
}

// Sanitize removes, in place, the indices outside [0, passCount).
func Sanitize(indices []int, passCount int) []int {
	n := 0
	for _, idx := range indices {
		if idx < 0 || idx >= passCount {
			core.LogDebug("dropping sub-pass %d, material has %d passes", idx, passCount)
			continue
		}
		indices[n] = idx
		n++
	}
	return indices[:n]
}
