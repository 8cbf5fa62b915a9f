//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Tidies the modules and builds the testbed binary into bin/.
func (Build) Engine() error {
	if err := goTidy(); err != nil {
		return err
	}
	if err := executeCmd(true, "go", "build", "-o", "bin/prism", "."); err != nil {
		return err
	}
	return nil
}

// Runs every package test with the race detector.
func (Build) Test() error {
	if err := executeCmd(true, "go", "test", "-race", "./..."); err != nil {
		return err
	}
	return nil
}

// Runs go vet over the module.
func (Build) Lint() error {
	if err := executeCmd(true, "go", "vet", "./..."); err != nil {
		return err
	}
	return nil
}
