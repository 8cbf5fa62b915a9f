package conversion

import (
	"slices"

	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

// LitStrategy replaces lit materials with a copy of a template that keeps the
// original's main texture, drawn with the original's last sub-pass.
type LitStrategy struct {
	template    *metadata.Material
	shaderNames []string

	substitutes map[*metadata.Material]*metadata.Material
	indices     []int
}

// NewLitStrategy matches materials using any of shaderNames, metadata.ShaderNameLit by default.
func NewLitStrategy(template *metadata.Material, shaderNames ...string) *LitStrategy {
	if len(shaderNames) == 0 {
		shaderNames = []string{metadata.ShaderNameLit}
	}
	return &LitStrategy{
		template:    template,
		shaderNames: shaderNames,
		substitutes: make(map[*metadata.Material]*metadata.Material),
		indices:     make([]int, 0, 1),
	}
}

func (ls *LitStrategy) Name() string {
	return "lit"
}

func (ls *LitStrategy) Template() *metadata.Material {
	return ls.template
}

func (ls *LitStrategy) Matches(original *metadata.Material) bool {
	return ls.template != nil && slices.Contains(ls.shaderNames, original.ShaderName())
}

// Convert reuses the substitute created for original on earlier frames; only
// the main texture is refreshed. The returned slice is reused by the next call.
func (ls *LitStrategy) Convert(original *metadata.Material) (*metadata.Material, []int) {
	substitute, ok := ls.substitutes[original]
	if !ok {
		substitute = ls.template.Clone()
		ls.substitutes[original] = substitute
	}
	substitute.SetMainTexture(original.MainTexture())

	ls.indices = append(ls.indices[:0], original.PassCount()-1)
	return substitute, ls.indices
}

// Release forgets every cached substitute.
func (ls *LitStrategy) Release() {
	clear(ls.substitutes)
}

func (ls *LitStrategy) CachedCount() int {
	return len(ls.substitutes)
}
