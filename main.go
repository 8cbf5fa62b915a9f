/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/prism/engine"
	"github.com/spaghettifunk/prism/engine/assets"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/software"
	"github.com/spaghettifunk/prism/testbed"
)

// usage: prism [config.toml [output.png]]
func main() {
	config := assets.DefaultConfig()
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
		c, err := assets.LoadConfig(configPath)
		if err != nil {
			core.LogFatal(err.Error())
		}
		config = c
	}
	outputPath := "frame.png"
	if len(os.Args) > 2 {
		outputPath = os.Args[2]
	}

	host := software.NewRenderer(software.NewContext(&software.ContextConfig{MaxPooledCommandLists: 8}))
	tb := testbed.NewTestGame(host, outputPath)
	tb.ApplicationConfig.ConfigPath = configPath
	tb.ApplicationConfig.WatchConfig = configPath != ""

	e, err := engine.New(config, software.NewAllocator(), nil)
	if err != nil {
		panic(err)
	}

	if err := e.Initialize(); err != nil {
		panic(err)
	}
	if tb.ApplicationConfig.WatchConfig {
		if err := e.WatchConfig(tb.ApplicationConfig.ConfigPath); err != nil {
			panic(err)
		}
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		e.Stop()
	}()

	// run engine
	runErr := e.Run(tb.Game)
	if err := e.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if runErr != nil {
		core.LogFatal(runErr.Error())
	}
}
