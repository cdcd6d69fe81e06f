//go:build mage

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "bin/testdash"

// Default target builds the binary.
var Default = Build

// Build compiles cmd/testdash into bin/.
func Build() error {
	if err := os.MkdirAll("bin", 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", binary, "./cmd/testdash")
}

// Install installs testdash into GOBIN.
func Install() error {
	return sh.RunV("go", "install", "./cmd/testdash")
}

// Clean removes build artifacts.
func Clean() error {
	return sh.Rm("bin")
}

// Test namespace for testing commands.
type Test mg.Namespace

// All runs all tests.
func (Test) All() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs tests with the race detector.
func (Test) Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Coverage writes coverage.out and prints the per-function summary.
func (Test) Coverage() error {
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// Lint namespace for static checks.
type Lint mg.Namespace

// All runs every linter.
func (Lint) All() {
	mg.SerialDeps(Lint.Format, Lint.Vet, Lint.Staticcheck)
}

// Format fails when gofmt would change a file.
func (Lint) Format() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Staticcheck runs staticcheck when it is installed.
func (Lint) Staticcheck() error {
	err := sh.RunV("staticcheck", "./...")
	if errors.Is(err, exec.ErrNotFound) {
		fmt.Fprintln(os.Stderr, "staticcheck not found (install: go install honnef.co/go/tools/cmd/staticcheck@latest)")
		return nil
	}
	return err
}

// QA runs linters and tests.
func QA() {
	mg.SerialDeps(Lint.All, Test.All)
}
