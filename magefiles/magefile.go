//go:build mage

// Package main provides build targets for cellar using Mage.
//
// Usage:
//
//	mage build     Compile the cellar binary to bin/
//	mage test      Run all tests
//	mage cover     Run tests with a coverage profile in bin/coverage.out
//	mage lint      Run golangci-lint
//	mage clean     Remove build artifacts
//	mage install   Install cellar to GOPATH/bin
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "cellar"
	binaryDir  = "bin"
	cmdDir     = "./cmd/cellar"
	coverFile  = "coverage.out"
)

// Build compiles the cellar binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs every package's tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// Cover runs the tests with a coverage profile and prints the summary.
func Cover() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	profile := filepath.Join(binaryDir, coverFile)
	if err := sh.RunV(binGo, "test", "-coverprofile", profile, "./..."); err != nil {
		return err
	}
	out, err := sh.Output(binGo, "tool", "cover", "-func", profile)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
