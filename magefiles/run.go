//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed. PRISM_CONFIG points at a configuration file to load and watch.
func (Run) Engine() error {
	mg.Deps(Build.Engine)

	args := []string{}
	if path := os.Getenv("PRISM_CONFIG"); path != "" {
		args = append(args, path)
	}
	fmt.Println("Run engine...")
	if err := executeCmd(true, "bin/prism", args...); err != nil {
		return err
	}
	return nil
}
