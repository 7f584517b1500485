//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
)

var Default = Build

const binDir = "bin"

// Build compiles probetool into bin/.
func Build() error {
	mg.Deps(Vet)
	_, err := executeCmd("go",
		withArgs("build", "-o", filepath.Join(binDir, "probetool"), "./cmd/probetool"),
		withEnv("CGO_ENABLED", "1"),
		withStream(),
	)
	return err
}

// Test runs the unit tests.
func Test() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Bench runs the codec and encoder benchmarks.
func Bench() error {
	_, err := executeCmd("go", withArgs("test", "-run", "^$", "-bench", ".", "./pkg/..."), withStream())
	return err
}

// Vet runs go vet.
func Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."))
	return err
}
