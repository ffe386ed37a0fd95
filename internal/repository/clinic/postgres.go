package clinic

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// rowQuerier is satisfied by *pgxpool.Pool and by pgxmock pools in tests.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	findPatientQuery = `SELECT id, account_id FROM patients WHERE id = $1`

	findMedicationQuery = `
		SELECT pm.id, mr.patient_id, m.name, pm.dosage, pm.usage_instructions
		FROM prescribed_medications pm
		JOIN medications m ON m.id = pm.medication_id
		JOIN regimens r ON r.id = pm.regimen_id
		JOIN medical_records mr ON mr.id = r.medical_record_id
		WHERE pm.id = $1
	`
)

// PostgresDirectory looks patients and medications up in the clinic database.
type PostgresDirectory struct {
	// db runs the lookup queries.
	db rowQuerier
}

// NewPostgresDirectory creates a directory backed by a pgx pool.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return newPostgresDirectory(pool)
}

// newPostgresDirectory accepts any rowQuerier so tests can pass a mock.
func newPostgresDirectory(db rowQuerier) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

// FindPatient returns the patient with its notification account.
func (d *PostgresDirectory) FindPatient(ctx context.Context, patientID int64) (*Patient, error) {
	var patient Patient

	err := d.db.QueryRow(ctx, findPatientQuery, patientID).Scan(&patient.ID, &patient.AccountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}

		return nil, fmt.Errorf("query patient %d: %w", patientID, err)
	}

	return &patient, nil
}

// FindMedication returns the prescribed medication together with the patient that owns it.
func (d *PostgresDirectory) FindMedication(ctx context.Context, medicationID int64) (*Medication, error) {
	var (
		medication Medication
		dosage     *string
		usage      *string
	)

	err := d.db.QueryRow(ctx, findMedicationQuery, medicationID).Scan(
		&medication.ID,
		&medication.PatientID,
		&medication.Name,
		&dosage,
		&usage,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMedicationNotFound
		}

		return nil, fmt.Errorf("query medication %d: %w", medicationID, err)
	}

	if dosage != nil {
		medication.Dosage = *dosage
	}

	if usage != nil {
		medication.UsageInstructions = *usage
	}

	return &medication, nil
}
