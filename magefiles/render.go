//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const sampleRecords = "testdata/patients.yaml"

// Sample renders testdata/patients.yaml to output/handoff_dual_column.pdf.
func Sample() error {
	mg.Deps(Build, Init)
	out := filepath.Join("output", "handoff_dual_column.pdf")
	if err := sh.RunV(filepath.Join(binDir, binName), "render", "--input", sampleRecords, "--output", out); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Serve runs the web form on :8080, writing reports to output/.
func Serve() error {
	mg.Deps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName), "serve", "--output-dir", "output")
}
