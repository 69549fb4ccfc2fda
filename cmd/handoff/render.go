// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/handoff/internal/format"
	"github.com/pdiddy/handoff/internal/layout"
	"github.com/pdiddy/handoff/internal/records"
	"github.com/pdiddy/handoff/internal/report"
	"github.com/pdiddy/handoff/pkg/types"
)

// --- render ---

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a records file to the two-column PDF",
	Long: `Render reads an ordered list of patients from a YAML or JSON file
(a top-level "patients" list) and writes the two-column handoff PDF.

Patients placed below the bottom of the page are clipped; render reports
them as a warning.`,
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	if input == "" {
		return fmt.Errorf("--input is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	recs, err := records.Load(input)
	if err != nil {
		return err
	}

	res, err := report.WriteFile(recs, cfg.Layout, report.Options{}, output)
	if err != nil {
		return err
	}
	if len(res.Overflow) > 0 {
		logger.Warn().Ints("patients", res.Overflow).Msg("Patients placed below the page bottom are clipped")
	}
	fmt.Fprintf(os.Stdout, "Wrote %s (%d patients)\n", output, len(recs))
	return nil
}

// --- format ---

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Print the formatted text blocks of a records file",
	Long: `Format prints each patient's text block in the order it would appear
in the report, together with its grid slot. Use --json for machine-readable
output.

Use --save to also write the records to another file; the format follows its
extension, so a YAML records file can be converted to JSON and back.`,
	RunE: runFormat,
}

// blockView is one formatted patient with its grid position.
type blockView struct {
	Patient int         `json:"patient"`
	Slot    layout.Slot `json:"slot"`
	Lines   []string    `json:"lines"`
}

func runFormat(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		return fmt.Errorf("--input is required")
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	save, _ := cmd.Flags().GetString("save")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	recs, err := records.Load(input)
	if err != nil {
		return err
	}
	if save != "" {
		if err := records.Save(save, recs); err != nil {
			return err
		}
		logger.Info().Str("path", save).Int("patients", len(recs)).Msg("Saved records")
	}
	return writeBlocks(os.Stdout, recs, cfg.Layout, jsonOutput)
}

func writeBlocks(w io.Writer, recs []types.PatientRecord, cfg types.LayoutConfig, jsonOutput bool) error {
	slots := layout.NewGrid(cfg).Slots(len(recs))
	views := make([]blockView, len(recs))
	for i, r := range recs {
		views[i] = blockView{
			Patient: i + 1,
			Slot:    slots[i],
			Lines:   format.Lines(i+1, r),
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	for i, v := range views {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# column %d, y %g\n", v.Slot.Column, v.Slot.Y)
		for _, l := range v.Lines {
			fmt.Fprintln(w, l)
		}
	}
	return nil
}

func init() {
	renderCmd.Flags().String("input", "", "records file (.yaml, .yml or .json)")
	renderCmd.Flags().String("output", types.DefaultReportName, "output PDF path")

	formatCmd.Flags().String("input", "", "records file (.yaml, .yml or .json)")
	formatCmd.Flags().Bool("json", false, "output blocks as JSON")
	formatCmd.Flags().String("save", "", "also write the records to this file (.yaml, .yml or .json)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(formatCmd)
}
