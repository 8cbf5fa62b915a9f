package conversion

import "github.com/spaghettifunk/prism/engine/renderer/metadata"

// Override draws every sub-mesh with one fixed material and sub-pass,
// whatever the original material is.
type Override struct {
	Material *metadata.Material
	Pass     int

	indices []int
}

func NewOverride(material *metadata.Material, pass int) *Override {
	return &Override{Material: material, Pass: pass, indices: make([]int, 1)}
}

func (o *Override) Name() string {
	return "override"
}

func (o *Override) Matches(original *metadata.Material) bool {
	return o.Material != nil
}

func (o *Override) Convert(original *metadata.Material) (*metadata.Material, []int) {
	if o.Material == nil {
		return original, nil
	}
	if len(o.indices) != 1 {
		o.indices = make([]int, 1)
	}
	o.indices[0] = o.Pass
	return o.Material, Sanitize(o.indices, o.Material.PassCount())
}
