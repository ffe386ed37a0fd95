package reminder

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	domain "github.com/oshokin/medication-alarm/internal/domain/alarm"
	"github.com/oshokin/medication-alarm/internal/logger"
	"github.com/oshokin/medication-alarm/internal/notify"
	"github.com/oshokin/medication-alarm/internal/observability/metrics"
	"github.com/oshokin/medication-alarm/internal/repository/alarmstore"
	"github.com/oshokin/medication-alarm/internal/repository/clinic"
)

// CreateRequest holds the caller-supplied fields of a new alarm.
type CreateRequest struct {
	PatientID             int64
	MedicationReferenceID int64
	AlarmTime             domain.TimeOfDay
	IsActive              bool
	Notes                 string
}

// Engine is the medication alarm engine. It is safe for concurrent use.
type Engine struct {
	// store holds the alarms.
	store alarmstore.Store
	// directory resolves patients and medications.
	directory clinic.Directory
	// notifier delivers reminders.
	notifier notify.Notifier

	// now returns the current wall-clock time.
	now func() time.Time
	// location is the zone of alarm times and calendar days.
	location *time.Location
	// tolerance is the due window around the alarm time.
	tolerance time.Duration
	// concurrency caps parallel dispatches.
	concurrency int
	// dispatchTimeout bounds a single dispatch; zero means no bound.
	dispatchTimeout time.Duration
	// reportFailure observes dispatch failures; may be nil.
	reportFailure FailureReporter
	// metrics is optional.
	metrics *metrics.SweepMetrics

	// sweepMu serializes sweeps so two triggers never dispatch the same alarm.
	sweepMu sync.Mutex
}

// NewEngine wires the engine to its store and collaborators.
func NewEngine(
	store alarmstore.Store,
	directory clinic.Directory,
	notifier notify.Notifier,
	opts ...Option,
) *Engine {
	e := &Engine{
		store:           store,
		directory:       directory,
		notifier:        notifier,
		now:             time.Now,
		location:        time.Local,
		tolerance:       DefaultTolerance,
		concurrency:     DefaultDispatchConcurrency,
		dispatchTimeout: DefaultDispatchTimeout,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// CreateAlarm creates a reminder for one of the patient's prescribed medications.
// A patient may hold at most one alarm per medication; the uniqueness check and the
// insert are a single atomic store operation.
func (e *Engine) CreateAlarm(ctx context.Context, req CreateRequest) (*domain.Alarm, error) {
	if req.PatientID <= 0 {
		return nil, fmt.Errorf("%w: patient id must be positive", domain.ErrInvalidArgument)
	}

	patient, err := e.directory.FindPatient(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, clinic.ErrPatientNotFound) {
			return nil, fmt.Errorf("%w: patient %d", domain.ErrNotFound, req.PatientID)
		}

		return nil, fmt.Errorf("find patient: %w", err)
	}

	medication, err := e.directory.FindMedication(ctx, req.MedicationReferenceID)
	if err != nil {
		if errors.Is(err, clinic.ErrMedicationNotFound) {
			return nil, fmt.Errorf("%w: medication %d", domain.ErrNotFound, req.MedicationReferenceID)
		}

		return nil, fmt.Errorf("find medication: %w", err)
	}

	if medication.PatientID != req.PatientID {
		return nil, fmt.Errorf(
			"%w: medication %d does not belong to patient %d",
			domain.ErrUnauthorized,
			req.MedicationReferenceID,
			req.PatientID,
		)
	}

	record := &domain.Alarm{
		ID:                    e.store.NextID(),
		PatientID:             req.PatientID,
		PatientAccountID:      patient.AccountID,
		MedicationReferenceID: req.MedicationReferenceID,
		MedicationName:        medication.Name,
		Dosage:                medication.Dosage,
		UsageInstructions:     medication.UsageInstructions,
		AlarmTime:             req.AlarmTime,
		IsActive:              req.IsActive,
		Notes:                 req.Notes,
		CreatedAt:             e.now(),
	}

	created, err := e.store.InsertIfAbsent(record)
	if err != nil {
		if errors.Is(err, alarmstore.ErrDuplicatePair) {
			return nil, fmt.Errorf(
				"%w: an alarm already exists for this medication, update it instead",
				domain.ErrConflict,
			)
		}

		return nil, fmt.Errorf("store alarm: %w", err)
	}

	logger.InfoKV(
		ctx,
		"Alarm created",
		"alarm_id", created.ID,
		"patient_id", created.PatientID,
		"medication_id", created.MedicationReferenceID,
		"alarm_time", created.AlarmTime.String(),
	)

	return created, nil
}

// GetPersonalAlarms returns the patient's alarms ordered by time of day.
func (e *Engine) GetPersonalAlarms(_ context.Context, patientID int64) ([]*domain.Alarm, error) {
	if patientID <= 0 {
		return nil, fmt.Errorf("%w: patient id must be positive", domain.ErrInvalidArgument)
	}

	var result []*domain.Alarm

	for _, record := range e.store.Values() {
		if record.PatientID == patientID {
			result = append(result, record)
		}
	}

	slices.SortFunc(result, func(a, b *domain.Alarm) int {
		if c := cmp.Compare(a.AlarmTime.Minutes(), b.AlarmTime.Minutes()); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	return result, nil
}

// GetAlarmByID returns the alarm when it exists and belongs to the patient.
// Absent and foreign alarms both yield (nil, nil) so existence does not leak.
func (e *Engine) GetAlarmByID(_ context.Context, alarmID, patientID int64) (*domain.Alarm, error) {
	if err := validateIDs(alarmID, patientID); err != nil {
		return nil, err
	}

	record, ok := e.store.Get(alarmID)
	if !ok || record.PatientID != patientID {
		return nil, nil //nolint:nilnil // "none" is a valid answer for reads.
	}

	return record, nil
}

// UpdateAlarm applies the present fields of patch and stamps UpdatedAt.
func (e *Engine) UpdateAlarm(
	ctx context.Context,
	alarmID, patientID int64,
	patch domain.Patch,
) (*domain.Alarm, error) {
	if err := validateIDs(alarmID, patientID); err != nil {
		return nil, err
	}

	updated, err := e.store.Update(alarmID, func(record *domain.Alarm) error {
		if record.PatientID != patientID {
			return ownershipError(alarmID, patientID)
		}

		patch.Apply(record, e.now())

		return nil
	})
	if err != nil {
		return nil, translateStoreError(alarmID, err)
	}

	logger.InfoKV(ctx, "Alarm updated", "alarm_id", alarmID, "patient_id", patientID)

	return updated, nil
}

// DeleteAlarm removes the alarm. It reports false when the alarm does not exist.
func (e *Engine) DeleteAlarm(ctx context.Context, alarmID, patientID int64) (bool, error) {
	if err := validateIDs(alarmID, patientID); err != nil {
		return false, err
	}

	record, ok := e.store.Get(alarmID)
	if !ok {
		return false, nil
	}

	// The owner never changes, so the check stays valid until Remove.
	if record.PatientID != patientID {
		return false, ownershipError(alarmID, patientID)
	}

	removed := e.store.Remove(alarmID)
	if removed {
		logger.InfoKV(ctx, "Alarm deleted", "alarm_id", alarmID, "patient_id", patientID)
	}

	return removed, nil
}

// ToggleAlarmStatus activates or deactivates the alarm. It reports false when the
// alarm does not exist.
func (e *Engine) ToggleAlarmStatus(ctx context.Context, alarmID int64, isActive bool, patientID int64) (bool, error) {
	_, err := e.UpdateAlarm(ctx, alarmID, patientID, domain.Patch{IsActive: &isActive})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// validateIDs rejects non-positive alarm and patient ids.
func validateIDs(alarmID, patientID int64) error {
	if alarmID <= 0 {
		return fmt.Errorf("%w: alarm id must be positive", domain.ErrInvalidArgument)
	}

	if patientID <= 0 {
		return fmt.Errorf("%w: patient id must be positive", domain.ErrInvalidArgument)
	}

	return nil
}

// ownershipError reports an alarm owned by another patient.
func ownershipError(alarmID, patientID int64) error {
	return fmt.Errorf("%w: alarm %d does not belong to patient %d", domain.ErrUnauthorized, alarmID, patientID)
}

// translateStoreError maps store errors onto the domain taxonomy.
func translateStoreError(alarmID int64, err error) error {
	if errors.Is(err, alarmstore.ErrNotFound) {
		return fmt.Errorf("%w: alarm %d", domain.ErrNotFound, alarmID)
	}

	if errors.Is(err, domain.ErrUnauthorized) {
		return err
	}

	return fmt.Errorf("update alarm %d: %w", alarmID, err)
}
