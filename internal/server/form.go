// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"fmt"
	"net/url"

	"github.com/pdiddy/handoff/pkg/types"
)

type fieldKind string

const (
	kindText     fieldKind = "text"
	kindTextarea fieldKind = "textarea"
	kindCheckbox fieldKind = "checkbox"
)

// formField describes one input on the handoff form. Name matches the
// record's JSON field name.
type formField struct {
	Name  string
	Label string
	Kind  fieldKind
}

// formFields lists the form inputs in display order. Medication inputs are
// inserted after the devices.
var formFields = []formField{
	{"name", "Name", kindText},
	{"room", "Room", kindText},
	{"specialist", "Specialist", kindText},
	{"age", "Age", kindText},
	{"allergy", "Allergy", kindText},
	{"pmhx", "Past Medical History", kindTextarea},
	{"pshx", "Past Surgical History", kindTextarea},
	{"diagnosis", "Diagnosis", kindTextarea},
	{"operation", "Operation", kindTextarea},
	{"diet", "Diet", kindText},
	{"ivf", "IV Fluids", kindText},
	{"bp", "BP", kindText},
	{"hr", "HR", kindText},
	{"rr", "RR", kindText},
	{"temp", "Temp", kindText},
	{"amb", "Ambulation", kindCheckbox},
	{"uri", "Urination", kindCheckbox},
	{"eat", "Diet Tolerance", kindCheckbox},
	{"dress", "Dressing Change", kindCheckbox},
	{"foley", "Foley", kindText},
	{"ngt", "NGT", kindText},
	{"drain", "Drain", kindText},
	{"chest_tube", "Chest Tube", kindText},
	{"stoma", "Stoma", kindText},
}

// trailingFields follow the medication inputs.
var trailingFields = []formField{
	{"dvt", "DVT Prophylaxis", kindText},
	{"analgesia", "Analgesia", kindText},
	{"notes", "Important Notes", kindTextarea},
	{"consult", "Consultation", kindText},
}

func medicationFields() []formField {
	fields := make([]formField, types.MedicationSlots)
	for i := range fields {
		fields[i] = formField{
			Name:  medicationField(i),
			Label: fmt.Sprintf("Medication %d", i+1),
			Kind:  kindText,
		}
	}
	return fields
}

func medicationField(i int) string {
	return fmt.Sprintf("med%d", i+1)
}

// parseRecord builds a record from a submitted form. Missing inputs are
// empty strings; a checkbox is set when its input is present.
func parseRecord(form url.Values) types.PatientRecord {
	meds := make([]string, types.MedicationSlots)
	for i := range meds {
		meds[i] = form.Get(medicationField(i))
	}
	checked := func(name string) bool { return form.Get(name) != "" }

	return types.PatientRecord{
		Name:                form.Get("name"),
		Room:                form.Get("room"),
		Specialist:          form.Get("specialist"),
		Age:                 form.Get("age"),
		Allergy:             form.Get("allergy"),
		PastMedicalHistory:  form.Get("pmhx"),
		PastSurgicalHistory: form.Get("pshx"),
		Diagnosis:           form.Get("diagnosis"),
		Operation:           form.Get("operation"),
		Diet:                form.Get("diet"),
		IVFluids:            form.Get("ivf"),
		BP:                  form.Get("bp"),
		HR:                  form.Get("hr"),
		RR:                  form.Get("rr"),
		Temp:                form.Get("temp"),
		Ambulation:          checked("amb"),
		Urination:           checked("uri"),
		DietTolerance:       checked("eat"),
		DressingChange:      checked("dress"),
		Foley:               form.Get("foley"),
		NGT:                 form.Get("ngt"),
		Drain:               form.Get("drain"),
		ChestTube:           form.Get("chest_tube"),
		Stoma:               form.Get("stoma"),
		Medications:         meds,
		DVTProphylaxis:      form.Get("dvt"),
		Analgesia:           form.Get("analgesia"),
		Notes:               form.Get("notes"),
		Consultation:        form.Get("consult"),
	}
}
