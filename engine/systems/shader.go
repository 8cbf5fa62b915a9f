package systems

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

/** @brief Configuration for the shader system. */
type ShaderSystemConfig struct {
	/** @brief The maximum number of shaders held in the system. */
	MaxShaderCount uint16
}

// ShaderSystem is the shader library render features look shaders up in.
type ShaderSystem struct {
	// This system's configuration.
	Config *ShaderSystemConfig

	mutex  sync.RWMutex
	nextID uint32
	// A lookup table for shader name->shader
	lookup map[string]*metadata.Shader
}

func NewShaderSystem(config *ShaderSystemConfig) (*ShaderSystem, error) {
	if config == nil || config.MaxShaderCount == 0 {
		err := fmt.Errorf("func NewShaderSystem - config.MaxShaderCount must be greater than 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &ShaderSystem{
		Config: config,
		lookup: make(map[string]*metadata.Shader),
	}, nil
}

// Register adds the shader called name, or updates its pass count.
func (ss *ShaderSystem) Register(name string, passCount int) (*metadata.Shader, error) {
	if name == "" {
		return nil, fmt.Errorf("func Register - shader name cannot be empty")
	}
	if passCount < 0 {
		return nil, fmt.Errorf("func Register - shader %s has negative pass count %d", name, passCount)
	}
	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	if s, ok := ss.lookup[name]; ok {
		s.PassCount = passCount
		return s, nil
	}
	if len(ss.lookup) >= int(ss.Config.MaxShaderCount) {
		return nil, fmt.Errorf("func Register - shader system is full (max %d)", ss.Config.MaxShaderCount)
	}
	ss.nextID++
	s := &metadata.Shader{ID: ss.nextID, Name: name, PassCount: passCount}
	ss.lookup[name] = s
	return s, nil
}

func (ss *ShaderSystem) Find(name string) (*metadata.Shader, bool) {
	ss.mutex.RLock()
	defer ss.mutex.RUnlock()
	s, ok := ss.lookup[name]
	return s, ok
}

func (ss *ShaderSystem) Names() []string {
	ss.mutex.RLock()
	defer ss.mutex.RUnlock()
	names := make([]string, 0, len(ss.lookup))
	for n := range ss.lookup {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (ss *ShaderSystem) Shutdown() error {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	ss.lookup = make(map[string]*metadata.Shader)
	return nil
}
