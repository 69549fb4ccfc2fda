// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdf is the rendering surface for handoff reports. It draws
// bordered, auto-wrapped text regions on a single A4 page using fpdf.
//
// Text is always set in a UTF-8 TrueType font, so names and notes in any
// script the font covers print as entered.
package pdf

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/pdiddy/handoff/pkg/types"
)

const (
	family = "HandoffSans"
	title  = "Surgical Handoff"
)

// defaultFont is DejaVu Sans Condensed as shipped with fpdf.
//
//go:embed fonts/DejaVuSansCondensed.ttf
var defaultFont []byte

// Document is a one-page PDF under construction.
type Document struct {
	pdf *fpdf.Fpdf
}

// New creates an A4 portrait document with one blank page. Text uses
// cfg.FontFile when set and the bundled DejaVu Sans Condensed otherwise.
//
// Automatic page breaks are disabled: text drawn past the bottom of the page
// is clipped.
func New(cfg types.LayoutConfig) (*Document, error) {
	cfg = cfg.WithDefaults()

	font := defaultFont
	if cfg.FontFile != "" {
		data, err := os.ReadFile(cfg.FontFile)
		if err != nil {
			return nil, fmt.Errorf("reading font %s: %w", cfg.FontFile, err)
		}
		font = data
	}

	p := fpdf.New("P", "mm", "A4", "")
	p.SetMargins(cfg.LeftMargin, cfg.TopMargin, cfg.LeftMargin)
	p.SetAutoPageBreak(false, 0)
	p.SetCatalogSort(true)
	p.SetTitle(title, true)
	p.SetCreator("handoff", true)
	p.AddUTF8FontFromBytes(family, "", font)
	p.SetFont(family, "", cfg.FontSize)
	p.AddPage()

	if err := p.Error(); err != nil {
		return nil, fmt.Errorf("initializing document: %w", err)
	}
	return &Document{pdf: p}, nil
}

// SetCreationDate fixes the document timestamps, making output reproducible.
func (d *Document) SetCreationDate(t time.Time) {
	d.pdf.SetCreationDate(t)
	d.pdf.SetModificationDate(t)
}

// TextBlock draws text in a bordered region of the given width with its
// top-left corner at (x, y). Lines longer than width wrap.
func (d *Document) TextBlock(x, y, width, lineHeight float64, text string) {
	d.pdf.SetXY(x, y)
	d.pdf.MultiCell(width, lineHeight, text, "1", "L", false)
}

// PageHeight returns the height of the page in millimetres.
func (d *Document) PageHeight() float64 {
	_, h := d.pdf.GetPageSize()
	return h
}

// Write serializes the document to w. The document cannot be reused after
// Write returns.
func (d *Document) Write(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}
