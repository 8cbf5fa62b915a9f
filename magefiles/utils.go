//go:build mage

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/magefile/mage/mg"
)

// executeCmd runs command with args. Output goes to the terminal when
// stream is set or mage runs verbose, and is only dumped on failure
// otherwise.
func executeCmd(stream bool, command string, args ...string) error {
	fmt.Printf("Executing: %s %s\n", command, strings.Join(args, " "))
	cmd := exec.Command(command, args...)

	stream = stream || mg.Verbose()

	var b bytes.Buffer
	if stream {
		cmd.Stdout = io.MultiWriter(&b, os.Stdout)
		cmd.Stderr = io.MultiWriter(&b, os.Stderr)
	} else {
		cmd.Stdout = &b
		cmd.Stderr = &b
	}
	if err := cmd.Run(); err != nil {
		if !stream {
			fmt.Println("... failed command output:")
			fmt.Println(b.String())
		}
		return fmt.Errorf("error executing %s: %w", command, err)
	}
	return nil
}

func goTidy() error {
	if err := executeCmd(false, "go", "mod", "tidy"); err != nil {
		return fmt.Errorf("failed to run go mod tidy: %w", err)
	}
	return nil
}
