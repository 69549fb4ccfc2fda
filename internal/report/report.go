// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders an ordered list of patient records into the
// two-column handoff PDF and manages the artifact on disk.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/handoff/internal/format"
	"github.com/pdiddy/handoff/internal/layout"
	"github.com/pdiddy/handoff/internal/pdf"
	"github.com/pdiddy/handoff/pkg/types"
)

// Result describes a rendered report.
type Result struct {
	// Slots holds the grid position of each record, in record order.
	Slots []layout.Slot

	// Overflow lists the 0-based indexes of records placed below the page
	// bottom. Those blocks are clipped.
	Overflow []int
}

// Options adjusts rendering.
type Options struct {
	// CreatedAt fixes the document timestamps. Zero uses the current time.
	CreatedAt time.Time
}

// Generate formats records, lays them out in two columns and writes the PDF
// to w.
func Generate(records []types.PatientRecord, cfg types.LayoutConfig, opts Options, w io.Writer) (Result, error) {
	doc, err := pdf.New(cfg)
	if err != nil {
		return Result{}, err
	}
	if !opts.CreatedAt.IsZero() {
		doc.SetCreationDate(opts.CreatedAt)
	}

	grid := layout.NewGrid(cfg)
	slots := grid.Render(doc, format.Blocks(records))
	res := Result{
		Slots:    slots,
		Overflow: grid.Overflows(slots, doc.PageHeight()),
	}

	if err := doc.Write(w); err != nil {
		return Result{}, err
	}
	return res, nil
}

// WriteFile renders records to path. The file is written to a temporary
// name in the same directory and renamed into place, so a failed render
// never leaves a partial artifact.
func WriteFile(records []types.PatientRecord, cfg types.LayoutConfig, opts Options, path string) (Result, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".handoff-*.pdf")
	if err != nil {
		return Result{}, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	res, err := Generate(records, cfg, opts, tmp)
	if err != nil {
		tmp.Close()
		return Result{}, err
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Result{}, fmt.Errorf("renaming %s: %w", filepath.Base(path), err)
	}
	return res, nil
}

// Open reopens a written report for streaming.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	return f, nil
}

// FileName returns the artifact filename for a session. With per-session
// naming off every session shares types.DefaultReportName.
func FileName(sessionID string, cfg types.OutputConfig) string {
	if !cfg.PerSession || sessionID == "" {
		return types.DefaultReportName
	}
	base := strings.TrimSuffix(types.DefaultReportName, filepath.Ext(types.DefaultReportName))
	return fmt.Sprintf("%s-%s.pdf", base, sessionID)
}

// Path joins the output directory and FileName.
func Path(sessionID string, cfg types.OutputConfig) string {
	return filepath.Join(cfg.Dir, FileName(sessionID, cfg))
}
