package clinic

import (
	"context"
	"errors"
)

// Patient is the part of a patient record the reminder engine needs.
type Patient struct {
	// ID is the patient identifier.
	ID int64 `yaml:"id"`
	// AccountID is the account that receives the patient's notifications.
	AccountID int64 `yaml:"account_id"`
}

// Medication is a prescribed medication resolved through its
// regimen and medical record down to the owning patient.
type Medication struct {
	// ID is the prescribed-medication reference id.
	ID int64 `yaml:"id"`
	// PatientID is the owner reached through regimen -> medical record -> patient.
	PatientID int64 `yaml:"patient_id"`
	// Name of the medication.
	Name string `yaml:"name"`
	// Dosage is optional.
	Dosage string `yaml:"dosage"`
	// UsageInstructions is optional.
	UsageInstructions string `yaml:"usage_instructions"`
}

var (
	// ErrPatientNotFound is returned when no patient has the requested id.
	ErrPatientNotFound = errors.New("patient not found")
	// ErrMedicationNotFound is returned when no prescribed medication has the requested id.
	ErrMedicationNotFound = errors.New("medication not found")
)

// Directory is the read-only lookup surface used by the engine.
type Directory interface {
	FindPatient(ctx context.Context, patientID int64) (*Patient, error)
	FindMedication(ctx context.Context, medicationID int64) (*Medication, error)
}
