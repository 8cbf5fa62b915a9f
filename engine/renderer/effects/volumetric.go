package effects

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/spaghettifunk/prism/engine/systems"
)

const (
	VolumetricLightName = "VolumetricLight"

	// march, gaussian blur, bilateral filter, composite
	VolumetricPassCount = 4

	volumetricPassMarch     = 0
	volumetricPassGaussian  = 1
	volumetricPassBilateral = 2
	volumetricPassComposite = 3
)

type BlurMode int

const (
	BlurModeNone BlurMode = iota
	BlurModeGaussianBlur
	BlurModeBilateralFilter
)

func (m BlurMode) String() string {
	switch m {
	case BlurModeGaussianBlur:
		return "GaussianBlur"
	case BlurModeBilateralFilter:
		return "BilateralFilter"
	}
	return "None"
}

func ParseBlurMode(s string) (BlurMode, error) {
	for _, m := range []BlurMode{BlurModeNone, BlurModeGaussianBlur, BlurModeBilateralFilter} {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}
	return BlurModeNone, fmt.Errorf("unknown blur mode %q", s)
}

// VolumetricLight ray marches light shafts into a temporary target,
// optionally blurs them, then composites them over the source.
type VolumetricLight struct {
	Base

	Colour         Parameter[math.Vec4]
	LightIntensity ClampedParameter[float32]
	StepSize       ClampedParameter[float32]
	MaxDistance    Parameter[float32]
	MaxStep        Parameter[int32]

	Mode Parameter[BlurMode]
	// gaussian blur
	Loop          ClampedParameter[int]
	BlurIntensity ClampedParameter[float32]
	// bilateral filter
	SpaceSigma ClampedParameter[float32]
	RangeSigma ClampedParameter[float32]
	KernelSize ClampedParameter[float32]

	targets *systems.RenderTargetSystem
	temp1   *systems.TargetNames
	temp2   *systems.TargetNames
}

func NewVolumetricLight(ctx *Context) Effect {
	vl := &VolumetricLight{
		Colour:         NewParameter(math.NewVec4One()),
		LightIntensity: NewClampedParameter[float32](0.05, 0, 0.1),
		StepSize:       NewClampedParameter[float32](0.1, 0.1, 0.5),
		MaxDistance:    NewParameter[float32](1000),
		MaxStep:        NewParameter[int32](500),
		Mode:           NewParameter(BlurModeNone),
		Loop:           NewClampedParameter(3, 1, 10),
		BlurIntensity:  NewClampedParameter[float32](0.3, 0, 1),
		SpaceSigma:     NewClampedParameter[float32](0.3, 0.1, 5),
		RangeSigma:     NewClampedParameter[float32](0.3, 0.1, 5),
		KernelSize:     NewClampedParameter[float32](0.5, 0.1, 50),
		temp1:          systems.NewTargetNames("VolumetricTemp1"),
		temp2:          systems.NewTargetNames("VolumetricTemp2"),
	}
	var shaders metadata.ShaderLibrary
	if ctx != nil {
		shaders = ctx.Shaders
		vl.targets = ctx.Targets
	}
	vl.Base = NewBase(VolumetricLightName, metadata.ShaderNameVolumetric, shaders)
	return vl
}

func (vl *VolumetricLight) InjectionPoint() metadata.InjectionPoint {
	return metadata.AfterPostProcess
}

func (vl *VolumetricLight) OrderInInjectionPoint() int {
	return 6
}

func (vl *VolumetricLight) Setup() {
	vl.EnsureMaterial()
}

// IsActive needs a material and at least one light parameter away from its default.
func (vl *VolumetricLight) IsActive() bool {
	if vl.Material() == nil {
		return false
	}
	return !vl.Colour.IsDefault() ||
		!vl.LightIntensity.IsDefault() ||
		!vl.StepSize.IsDefault() ||
		!vl.MaxDistance.IsDefault() ||
		!vl.MaxStep.IsDefault()
}

func (vl *VolumetricLight) Render(cmd renderer.CommandList, data *metadata.RenderingData, source, destination *metadata.Texture) {
	camera := data.Camera
	material := vl.Material()
	if material == nil || vl.targets == nil {
		if vl.targets == nil {
			core.LogWarnOnce("volumetric-no-pool", "effect %s has no render target pool, copying through", vl.Name())
		}
		cmd.Blit(source, destination, nil, 0)
		return
	}
	vl.applyMaterial(material)

	descriptor := camera.TargetDescriptor.ColorOnly()
	temp1, err := vl.targets.Acquire(descriptor, vl.temp1.For(camera.ID))
	if err != nil {
		core.LogError("effect %s: %s", vl.Name(), err.Error())
		cmd.Blit(source, destination, nil, 0)
		return
	}
	defer vl.targets.Release(temp1)
	temp2, err := vl.targets.Acquire(descriptor, vl.temp2.For(camera.ID))
	if err != nil {
		core.LogError("effect %s: %s", vl.Name(), err.Error())
		cmd.Blit(source, destination, nil, 0)
		return
	}
	defer vl.targets.Release(temp2)

	cmd.Blit(source, temp1.Texture, material, volumetricPassMarch)

	blurPass := -1
	switch vl.Mode.Value() {
	case BlurModeGaussianBlur:
		blurPass = volumetricPassGaussian
	case BlurModeBilateralFilter:
		blurPass = volumetricPassBilateral
	}
	if blurPass >= 0 {
		for i := 0; i < vl.Loop.Value(); i++ {
			cmd.Blit(temp1.Texture, temp2.Texture, material, blurPass)
			cmd.Blit(temp2.Texture, temp1.Texture, nil, 0)
		}
	}

	cmd.SetGlobalTexture("_FinalTex", source)
	cmd.Blit(temp1.Texture, destination, material, volumetricPassComposite)
}

func (vl *VolumetricLight) applyMaterial(m *metadata.Material) {
	m.SetInt("_MaxStep", vl.MaxStep.Value())
	m.SetFloat("_MaxDistance", vl.MaxDistance.Value())
	m.SetFloat("_LightIntensity", vl.LightIntensity.Value())
	m.SetFloat("_StepSize", vl.StepSize.Value())
	m.SetColour("_Color", vl.Colour.Value())
	m.SetFloat("_BlurInt", vl.BlurIntensity.Value())

	m.SetFloat("_Space_Sigma", vl.SpaceSigma.Value())
	m.SetFloat("_Range_Sigma", vl.RangeSigma.Value())
	m.SetFloat("_KernelSize", vl.KernelSize.Value())
}

func (vl *VolumetricLight) Configure(params map[string]interface{}) error {
	var errs []error
	floats := map[string]func(float32){
		"light_intensity": vl.LightIntensity.Set,
		"step_size":       vl.StepSize.Set,
		"max_distance":    vl.MaxDistance.Set,
		"blur_intensity":  vl.BlurIntensity.Set,
		"space_sigma":     vl.SpaceSigma.Set,
		"range_sigma":     vl.RangeSigma.Set,
		"kernel_size":     vl.KernelSize.Set,
	}
	for key, set := range floats {
		v, ok, err := paramFloat(params, key)
		if err != nil {
			errs = append(errs, err)
		} else if ok {
			set(v)
		}
	}
	if v, ok, err := paramInt(params, "max_step"); err != nil {
		errs = append(errs, err)
	} else if ok {
		vl.MaxStep.Set(int32(v))
	}
	if v, ok, err := paramInt(params, "loop"); err != nil {
		errs = append(errs, err)
	} else if ok {
		vl.Loop.Set(v)
	}
	if v, ok, err := paramColour(params, "colour"); err != nil {
		errs = append(errs, err)
	} else if ok {
		vl.Colour.Set(v)
	}
	if v, ok, err := paramString(params, "blur_mode"); err != nil {
		errs = append(errs, err)
	} else if ok {
		mode, err := ParseBlurMode(v)
		if err != nil {
			errs = append(errs, err)
		} else {
			vl.Mode.Set(mode)
		}
	}
	if v, ok, err := paramBool(params, "render_normals"); err != nil {
		errs = append(errs, err)
	} else if ok {
		vl.SetRenderNormals(v)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("func Configure - %s: %w", vl.Name(), err)
	}
	return nil
}
