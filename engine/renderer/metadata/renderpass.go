package metadata

import (
	"fmt"
	"strings"
)

/**
 * @brief A position on the host's per camera timeline. Passes run in
 * ascending event order.
 */
type RenderPassEvent int

const (
	BeforeRendering               RenderPassEvent = 0
	BeforeRenderingShadows        RenderPassEvent = 50
	AfterRenderingShadows         RenderPassEvent = 100
	BeforeRenderingPrePasses      RenderPassEvent = 150
	AfterRenderingPrePasses       RenderPassEvent = 200
	BeforeRenderingOpaques        RenderPassEvent = 250
	AfterRenderingOpaques         RenderPassEvent = 300
	BeforeRenderingSkybox         RenderPassEvent = 350
	AfterRenderingSkybox          RenderPassEvent = 400
	BeforeRenderingTransparents   RenderPassEvent = 450
	AfterRenderingTransparents    RenderPassEvent = 500
	BeforeRenderingPostProcessing RenderPassEvent = 550
	AfterRenderingPostProcessing  RenderPassEvent = 600
	AfterRendering                RenderPassEvent = 1000
)

var renderPassEventNames = map[RenderPassEvent]string{
	BeforeRendering:               "BeforeRendering",
	BeforeRenderingShadows:        "BeforeRenderingShadows",
	AfterRenderingShadows:         "AfterRenderingShadows",
	BeforeRenderingPrePasses:      "BeforeRenderingPrePasses",
	AfterRenderingPrePasses:       "AfterRenderingPrePasses",
	BeforeRenderingOpaques:        "BeforeRenderingOpaques",
	AfterRenderingOpaques:         "AfterRenderingOpaques",
	BeforeRenderingSkybox:         "BeforeRenderingSkybox",
	AfterRenderingSkybox:          "AfterRenderingSkybox",
	BeforeRenderingTransparents:   "BeforeRenderingTransparents",
	AfterRenderingTransparents:    "AfterRenderingTransparents",
	BeforeRenderingPostProcessing: "BeforeRenderingPostProcessing",
	AfterRenderingPostProcessing:  "AfterRenderingPostProcessing",
	AfterRendering:                "AfterRendering",
}

func (e RenderPassEvent) String() string {
	if n, ok := renderPassEventNames[e]; ok {
		return n
	}
	return fmt.Sprintf("RenderPassEvent(%d)", int(e))
}

// ParseRenderPassEvent accepts the event names, case insensitive.
func ParseRenderPassEvent(s string) (RenderPassEvent, error) {
	for e, n := range renderPassEventNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown render pass event %q", s)
}

/**
 * @brief The four positions at which effects can be injected, in
 * timeline order.
 */
type InjectionPoint int

const (
	AfterOpaque InjectionPoint = iota
	AfterSkybox
	BeforePostProcess
	AfterPostProcess
)

// InjectionPoints lists every injection point in timeline order.
var InjectionPoints = []InjectionPoint{AfterOpaque, AfterSkybox, BeforePostProcess, AfterPostProcess}

// Event maps the injection point onto the host timeline.
func (p InjectionPoint) Event() RenderPassEvent {
	switch p {
	case AfterOpaque:
		return AfterRenderingOpaques
	case AfterSkybox:
		return AfterRenderingSkybox
	case BeforePostProcess:
		return BeforeRenderingPostProcessing
	default:
		return AfterRenderingPostProcessing
	}
}

func (p InjectionPoint) String() string {
	switch p {
	case AfterOpaque:
		return "AfterOpaque"
	case AfterSkybox:
		return "AfterSkybox"
	case BeforePostProcess:
		return "BeforePostProcess"
	case AfterPostProcess:
		return "AfterPostProcess"
	}
	return fmt.Sprintf("InjectionPoint(%d)", int(p))
}

func ParseInjectionPoint(s string) (InjectionPoint, error) {
	for _, p := range InjectionPoints {
		if strings.EqualFold(p.String(), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown injection point %q", s)
}
