package engine

type ApplicationConfig struct {
	// The application name, used in logs.
	Name string
	// Path of the render feature configuration. Defaults are used when empty.
	ConfigPath string
	// Reload ConfigPath between frames whenever it changes on disk.
	WatchConfig bool
	// Camera starting width.
	StartWidth uint32
	// Camera starting height.
	StartHeight uint32
	// Frames rendered before Run returns, 0 runs until Stop.
	MaxFrames uint64
	// Seconds a frame should last at least, 0 renders as fast as possible.
	TargetFrameTime float64
}
