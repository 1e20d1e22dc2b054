package models

import (
	"time"
)

// Sex enum
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Patient represents one row of the clinical dataset. Optional cells that
// failed coercion at load time are nil pointers, never zero values, so that
// downstream aggregation can exclude them instead of skewing averages.
type Patient struct {
	PatientID          string     `json:"patientId"`
	Name               string     `json:"name"`
	Sex                Sex        `json:"sex"`
	BirthDate          *time.Time `json:"birthDate,omitempty"`
	Address            string     `json:"address,omitempty"`
	LastVisit          *time.Time `json:"lastVisit,omitempty"`
	Conditions         string     `json:"conditions"`
	Medications        string     `json:"medications,omitempty"`
	Hemoglobin         *float64   `json:"hemoglobin,omitempty"`
	Glucose            *float64   `json:"glucose,omitempty"`
	SSN                string     `json:"ssn,omitempty"`
	PhoneNumber        string     `json:"phoneNumber,omitempty"`
	GuardrailViolation bool       `json:"guardrailViolationFlag"`

	// Valid is false when patient_id or name was missing in the source row.
	// Invalid rows stay in the table; callers surface them as a warning.
	Valid bool `json:"-"`
}

// Table is an immutable-per-request view of a loaded dataset.
type Table struct {
	Rows []Patient

	// Flagged counts rows that are missing patient_id or name.
	Flagged int
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// FindByID returns the first record with the given patient_id.
func (t *Table) FindByID(patientID string) (Patient, bool) {
	for _, p := range t.Rows {
		if p.PatientID == patientID {
			return p, true
		}
	}
	return Patient{}, false
}
