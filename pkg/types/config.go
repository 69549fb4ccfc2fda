// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DefaultReportName is the filename offered to the user on download and the
// default artifact name on disk.
const DefaultReportName = "handoff_dual_column.pdf"

// DefaultSessionTTL is how long an idle web session keeps its records.
const DefaultSessionTTL = 12 * time.Hour

// LayoutConfig holds the two-column grid geometry and font settings.
// Lengths are in millimetres on an A4 page.
type LayoutConfig struct {
	// LeftMargin is the x offset of the left column.
	LeftMargin float64 `json:"left_margin" yaml:"left_margin" mapstructure:"left_margin"`

	// TopMargin is the y offset of the first row.
	TopMargin float64 `json:"top_margin" yaml:"top_margin" mapstructure:"top_margin"`

	// ColumnWidth is the fixed width of every patient block (default 95).
	ColumnWidth float64 `json:"column_width" yaml:"column_width" mapstructure:"column_width"`

	// Gutter is the horizontal gap between the two columns (default 5).
	Gutter float64 `json:"gutter" yaml:"gutter" mapstructure:"gutter"`

	// RowHeight is the vertical advance after each completed row (default 65).
	RowHeight float64 `json:"row_height" yaml:"row_height" mapstructure:"row_height"`

	// LineHeight is the height of one wrapped text line inside a block (default 5).
	LineHeight float64 `json:"line_height" yaml:"line_height" mapstructure:"line_height"`

	// FontFile is an optional UTF-8 TrueType font that replaces the bundled
	// DejaVu Sans Condensed.
	FontFile string `json:"font_file,omitempty" yaml:"font_file,omitempty" mapstructure:"font_file"`

	// FontSize is the text size in points (default 9).
	FontSize float64 `json:"font_size" yaml:"font_size" mapstructure:"font_size"`
}

// DefaultLayoutConfig returns the reference two-column geometry.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		LeftMargin:  10,
		TopMargin:   10,
		ColumnWidth: 95,
		Gutter:      5,
		RowHeight:   65,
		LineHeight:  5,
		FontSize:    9,
	}
}

// WithDefaults fills unset sizes from DefaultLayoutConfig. Column width,
// row height, line height and font size must be positive, so zero means
// unset. Margins and gutter may legitimately be zero; only negative values
// are replaced.
func (c LayoutConfig) WithDefaults() LayoutConfig {
	d := DefaultLayoutConfig()
	if c.LeftMargin < 0 {
		c.LeftMargin = d.LeftMargin
	}
	if c.TopMargin < 0 {
		c.TopMargin = d.TopMargin
	}
	if c.ColumnWidth <= 0 {
		c.ColumnWidth = d.ColumnWidth
	}
	if c.Gutter < 0 {
		c.Gutter = d.Gutter
	}
	if c.RowHeight <= 0 {
		c.RowHeight = d.RowHeight
	}
	if c.LineHeight <= 0 {
		c.LineHeight = d.LineHeight
	}
	if c.FontSize <= 0 {
		c.FontSize = d.FontSize
	}
	return c
}

// OutputConfig controls where generated reports are written.
type OutputConfig struct {
	// Dir is the directory that receives generated PDFs.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// PerSession names each artifact after the session that produced it.
	// When false every session writes DefaultReportName and overwrites
	// the previous report.
	PerSession bool `json:"per_session" yaml:"per_session" mapstructure:"per_session"`
}

// ServerConfig holds settings for the handoff web form.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`

	// SessionTTL is how long an idle session is kept before its records are
	// dropped (default 12h). Zero or negative keeps sessions until exit.
	SessionTTL time.Duration `json:"session_ttl" yaml:"session_ttl" mapstructure:"session_ttl"`
}

// Config groups all handoff settings.
type Config struct {
	Layout LayoutConfig `json:"layout" yaml:"layout" mapstructure:"layout"`
	Output OutputConfig `json:"output" yaml:"output" mapstructure:"output"`
	Server ServerConfig `json:"server" yaml:"server" mapstructure:"server"`
}
