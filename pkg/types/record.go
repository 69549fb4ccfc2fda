// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for handoff records and
// configuration.
package types

// MedicationSlots is the number of medication inputs on the handoff form.
const MedicationSlots = 7

// PatientRecord holds one form submission for a single patient. Records have
// no identity beyond their position in a session and are never edited after
// submission.
type PatientRecord struct {
	Name       string `json:"name" yaml:"name"`
	Room       string `json:"room" yaml:"room"`
	Specialist string `json:"specialist" yaml:"specialist"`
	Age        string `json:"age" yaml:"age"`
	Allergy    string `json:"allergy" yaml:"allergy"`

	// PastMedicalHistory is rendered as "PM Hx".
	PastMedicalHistory string `json:"pmhx" yaml:"pmhx"`

	// PastSurgicalHistory is rendered as "PS Hx".
	PastSurgicalHistory string `json:"pshx" yaml:"pshx"`

	Diagnosis string `json:"diagnosis" yaml:"diagnosis"`
	Operation string `json:"operation" yaml:"operation"`
	Diet      string `json:"diet" yaml:"diet"`

	// IVFluids is rendered as "IVF".
	IVFluids string `json:"ivf" yaml:"ivf"`

	// Vital signs.
	BP   string `json:"bp" yaml:"bp"`
	HR   string `json:"hr" yaml:"hr"`
	RR   string `json:"rr" yaml:"rr"`
	Temp string `json:"temp" yaml:"temp"`

	// Checklist items. Only true values appear in the report.
	Ambulation     bool `json:"amb" yaml:"amb"`
	Urination      bool `json:"uri" yaml:"uri"`
	DietTolerance  bool `json:"eat" yaml:"eat"`
	DressingChange bool `json:"dress" yaml:"dress"`

	// Medical devices.
	Foley     string `json:"foley" yaml:"foley"`
	NGT       string `json:"ngt" yaml:"ngt"`
	Drain     string `json:"drain" yaml:"drain"`
	ChestTube string `json:"chest_tube" yaml:"chest_tube"`
	Stoma     string `json:"stoma" yaml:"stoma"`

	// Medications holds up to MedicationSlots entries in form order. Blank
	// entries keep their slot so numbering follows the form position.
	Medications []string `json:"meds" yaml:"meds"`

	DVTProphylaxis string `json:"dvt" yaml:"dvt"`
	Analgesia      string `json:"analgesia" yaml:"analgesia"`

	// Notes is free text rendered verbatim.
	Notes string `json:"notes" yaml:"notes"`

	Consultation string `json:"consult" yaml:"consult"`
}

// MedicationList returns the medication slots padded or truncated to
// exactly MedicationSlots entries.
func (r PatientRecord) MedicationList() [MedicationSlots]string {
	var meds [MedicationSlots]string
	copy(meds[:], r.Medications)
	return meds
}

// PatientsFile is the on-disk form of an ordered record list.
type PatientsFile struct {
	Patients []PatientRecord `json:"patients" yaml:"patients"`
}
