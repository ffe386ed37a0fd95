package clinic

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

var errTestConnection = errors.New("connection reset")

func newMockDirectory(t *testing.T) (pgxmock.PgxPoolIface, *PostgresDirectory) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, newPostgresDirectory(mock)
}

func TestPostgresDirectory_FindPatient(t *testing.T) {
	t.Parallel()

	mock, directory := newMockDirectory(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT id, account_id FROM patients").
		WithArgs(int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "account_id"}).AddRow(int64(10), int64(100)))

	patient, err := directory.FindPatient(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, &Patient{ID: 10, AccountID: 100}, patient)

	mock.ExpectQuery("SELECT id, account_id FROM patients").
		WithArgs(int64(11)).
		WillReturnError(pgx.ErrNoRows)

	_, err = directory.FindPatient(ctx, 11)
	require.ErrorIs(t, err, ErrPatientNotFound)

	mock.ExpectQuery("SELECT id, account_id FROM patients").
		WithArgs(int64(12)).
		WillReturnError(errTestConnection)

	_, err = directory.FindPatient(ctx, 12)
	require.ErrorIs(t, err, errTestConnection)
	require.NotErrorIs(t, err, ErrPatientNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDirectory_FindMedication(t *testing.T) {
	t.Parallel()

	mock, directory := newMockDirectory(t)
	ctx := context.Background()
	dosage := "500 mg"

	columns := []string{"id", "patient_id", "name", "dosage", "usage_instructions"}

	mock.ExpectQuery("FROM prescribed_medications pm").
		WithArgs(int64(55)).
		WillReturnRows(pgxmock.NewRows(columns).AddRow(int64(55), int64(10), "Metformin", &dosage, nil))

	medication, err := directory.FindMedication(ctx, 55)
	require.NoError(t, err)
	require.Equal(t, &Medication{
		ID:        55,
		PatientID: 10,
		Name:      "Metformin",
		Dosage:    "500 mg",
	}, medication)

	mock.ExpectQuery("FROM prescribed_medications pm").
		WithArgs(int64(56)).
		WillReturnError(pgx.ErrNoRows)

	_, err = directory.FindMedication(ctx, 56)
	require.ErrorIs(t, err, ErrMedicationNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
