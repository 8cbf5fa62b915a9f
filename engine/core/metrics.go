package core

import (
	"sort"
	"sync"
	"time"
)

const AVG_COUNT uint8 = 30

// SampleRecorder is implemented by anything that can bracket GPU work with a
// named marker, usually a command list.
type SampleRecorder interface {
	BeginSample(name string)
	EndSample(name string)
}

type SamplerState struct {
	Name         string
	FrameCounter uint8
	MStimes      [AVG_COUNT]float64
	MSavg        float64
	Calls        uint64
}

type Profiler struct {
	mutex    sync.Mutex
	samplers map[string]*SamplerState
}

var onceMetrics sync.Once
var profiler *Profiler = nil

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		profiler = &Profiler{
			samplers: make(map[string]*SamplerState),
		}
	})
	return nil
}

func getProfiler() *Profiler {
	MetricsInitialize()
	return profiler
}

func (p *Profiler) record(name string, elapsed time.Duration) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	s, ok := p.samplers[name]
	if !ok {
		s = &SamplerState{Name: name}
		p.samplers[name] = s
	}

	ms := float64(elapsed.Nanoseconds()) / float64(time.Millisecond)
	s.MStimes[s.FrameCounter] = ms
	if s.FrameCounter == AVG_COUNT-1 {
		s.MSavg = 0
		for i := uint8(0); i < AVG_COUNT; i++ {
			s.MSavg += s.MStimes[i]
		}
		s.MSavg /= float64(AVG_COUNT)
	}
	s.FrameCounter++
	s.FrameCounter %= AVG_COUNT
	s.Calls++
}

// MetricsSample returns a copy of the named sampler.
func MetricsSample(name string) (SamplerState, bool) {
	p := getProfiler()
	p.mutex.Lock()
	defer p.mutex.Unlock()

	s, ok := p.samplers[name]
	if !ok {
		return SamplerState{}, false
	}
	return *s, true
}

// MetricsSamples returns every sampler sorted by name.
func MetricsSamples() []SamplerState {
	p := getProfiler()
	p.mutex.Lock()
	defer p.mutex.Unlock()

	out := make([]SamplerState, 0, len(p.samplers))
	for _, s := range p.samplers {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func MetricsReset() {
	p := getProfiler()
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.samplers = make(map[string]*SamplerState)
}

// ProfilingScope brackets a region with a recorder marker and a CPU timing.
// The returned function closes the scope:
//
//	defer core.ProfilingScope(cmd, "Blur")()
func ProfilingScope(recorder SampleRecorder, name string) func() {
	if recorder != nil {
		recorder.BeginSample(name)
	}
	start := time.Now()
	return func() {
		getProfiler().record(name, time.Since(start))
		if recorder != nil {
			recorder.EndSample(name)
		}
	}
}
