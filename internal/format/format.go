// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format turns a PatientRecord into the ordered text lines of its
// report block. Blank fields are omitted; the field order is a fixed
// positional template.
package format

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/pdiddy/handoff/pkg/types"
)

const (
	// RecordTitle follows the patient header on every block.
	RecordTitle = "Patient Medical Record"

	// CheckMark prefixes checklist lines.
	CheckMark = "✓"

	vitalsHeading      = "Vital Signs (V/S):"
	devicesHeading     = "Medical Devices:"
	medicationsHeading = "Medications:"
	notesHeading       = "Important Notes:"
)

// Header returns the first line of a block for the patient at the given
// 1-based position.
func Header(index int) string {
	return fmt.Sprintf("Patient #%d", index)
}

// Lines returns the display lines for r, shown as the index-th patient
// (1-based). An entry may contain embedded newlines when the underlying
// field is multi-line text.
func Lines(index int, r types.PatientRecord) []string {
	groups := [][]string{
		{Header(index), RecordTitle},
		{
			labeled("Name", r.Name),
			labeled("Room", r.Room),
			labeled("Specialist", r.Specialist),
			labeled("Age", r.Age),
			labeled("Allergy", r.Allergy),
			labeled("PM Hx", r.PastMedicalHistory),
			labeled("PS Hx", r.PastSurgicalHistory),
			labeled("Diagnosis", r.Diagnosis),
			labeled("Operation", r.Operation),
			labeled("Diet", r.Diet),
			labeled("IVF", r.IVFluids),
		},
		section(vitalsHeading,
			labeled("BP", r.BP),
			labeled("HR", r.HR),
			labeled("RR", r.RR),
			labeled("Temp", r.Temp),
		),
		{
			checked("Ambulation", r.Ambulation),
			checked("Urination", r.Urination),
			checked("Diet", r.DietTolerance),
			checked("Dress", r.DressingChange),
		},
		section(devicesHeading,
			labeled("- Foley's", r.Foley),
			labeled("- NGT", r.NGT),
			labeled("- Drain", r.Drain),
			labeled("- Chest Tube", r.ChestTube),
			labeled("- Stoma", r.Stoma),
		),
		medications(r),
		{
			labeled("DVT Prophylaxis", r.DVTProphylaxis),
			labeled("Analgesia", r.Analgesia),
		},
		section(notesHeading, r.Notes),
		{labeled("Consultation", r.Consultation)},
	}
	return lo.Filter(lo.Flatten(groups), nonBlank)
}

// Block returns Lines joined with newlines: the text drawn inside one
// layout cell.
func Block(index int, r types.PatientRecord) string {
	return strings.Join(Lines(index, r), "\n")
}

// Blocks formats records in order, numbering them from 1.
func Blocks(records []types.PatientRecord) []string {
	return lo.Map(records, func(r types.PatientRecord, i int) string {
		return Block(i+1, r)
	})
}

func labeled(label, value string) string {
	if isBlank(value) {
		return ""
	}
	return label + ": " + value
}

func checked(label string, on bool) string {
	if !on {
		return ""
	}
	return CheckMark + " " + label
}

// medications numbers entries by form slot, so a blank slot leaves a gap
// in the numbering rather than shifting later entries.
func medications(r types.PatientRecord) []string {
	meds := r.MedicationList()
	lines := make([]string, 0, len(meds))
	for i, m := range meds {
		if isBlank(m) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, m))
	}
	return section(medicationsHeading, lines...)
}

// section prefixes the non-blank lines with heading, or returns nil when
// every line is blank.
func section(heading string, lines ...string) []string {
	body := lo.Filter(lines, nonBlank)
	if len(body) == 0 {
		return nil
	}
	return append([]string{heading}, body...)
}

func nonBlank(s string, _ int) bool {
	return !isBlank(s)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
