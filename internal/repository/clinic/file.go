package clinic

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fixture is the YAML layout read by LoadFileDirectory.
type fixture struct {
	Patients    []Patient    `yaml:"patients"`
	Medications []Medication `yaml:"medications"`
}

// FileDirectory serves lookups from an immutable in-memory snapshot of a YAML fixture.
type FileDirectory struct {
	// patients is keyed by patient id.
	patients map[int64]Patient
	// medications is keyed by prescribed-medication id.
	medications map[int64]Medication
}

// NewFileDirectory builds a directory from already decoded records.
func NewFileDirectory(patients []Patient, medications []Medication) *FileDirectory {
	d := &FileDirectory{
		patients:    make(map[int64]Patient, len(patients)),
		medications: make(map[int64]Medication, len(medications)),
	}

	for _, p := range patients {
		d.patients[p.ID] = p
	}

	for _, m := range medications {
		d.medications[m.ID] = m
	}

	return d
}

// LoadFileDirectory reads a YAML fixture with "patients" and "medications" lists.
func LoadFileDirectory(path string) (*FileDirectory, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read directory fixture: %w", err)
	}

	var f fixture
	if err = yaml.Unmarshal(contents, &f); err != nil {
		return nil, fmt.Errorf("decode directory fixture: %w", err)
	}

	return NewFileDirectory(f.Patients, f.Medications), nil
}

// FindPatient returns the patient with the given id.
func (d *FileDirectory) FindPatient(_ context.Context, patientID int64) (*Patient, error) {
	p, ok := d.patients[patientID]
	if !ok {
		return nil, ErrPatientNotFound
	}

	return &p, nil
}

// FindMedication returns the prescribed medication with the given id.
func (d *FileDirectory) FindMedication(_ context.Context, medicationID int64) (*Medication, error) {
	m, ok := d.medications[medicationID]
	if !ok {
		return nil, ErrMedicationNotFound
	}

	return &m, nil
}
