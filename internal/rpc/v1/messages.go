package rpcv1

import (
	"time"

	domain "github.com/oshokin/medication-alarm/internal/domain/alarm"
)

// Alarm is the wire form of a medication alarm.
type Alarm struct {
	ID                    int64      `json:"id"`
	PatientID             int64      `json:"patient_id"`
	PatientAccountID      int64      `json:"patient_account_id"`
	MedicationReferenceID int64      `json:"medication_reference_id"`
	MedicationName        string     `json:"medication_name"`
	Dosage                string     `json:"dosage,omitempty"`
	UsageInstructions     string     `json:"usage_instructions,omitempty"`
	AlarmTime             string     `json:"alarm_time"`
	IsActive              bool       `json:"is_active"`
	Notes                 string     `json:"notes,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             *time.Time `json:"updated_at,omitempty"`
	LastNotificationSent  *time.Time `json:"last_notification_sent,omitempty"`
}

// FromDomain converts a stored alarm to its wire form. A nil alarm yields nil.
func FromDomain(a *domain.Alarm) *Alarm {
	if a == nil {
		return nil
	}

	out := &Alarm{
		ID:                    a.ID,
		PatientID:             a.PatientID,
		PatientAccountID:      a.PatientAccountID,
		MedicationReferenceID: a.MedicationReferenceID,
		MedicationName:        a.MedicationName,
		Dosage:                a.Dosage,
		UsageInstructions:     a.UsageInstructions,
		AlarmTime:             a.AlarmTime.String(),
		IsActive:              a.IsActive,
		Notes:                 a.Notes,
		CreatedAt:             a.CreatedAt,
	}

	if !a.UpdatedAt.IsZero() {
		updatedAt := a.UpdatedAt
		out.UpdatedAt = &updatedAt
	}

	if a.LastNotificationSent != nil {
		sent := *a.LastNotificationSent
		out.LastNotificationSent = &sent
	}

	return out
}

// CreateAlarmRequest asks to create an alarm for one prescribed medication.
type CreateAlarmRequest struct {
	PatientID             int64  `json:"patient_id"`
	MedicationReferenceID int64  `json:"medication_reference_id"`
	AlarmTime             string `json:"alarm_time"`
	IsActive              bool   `json:"is_active"`
	Notes                 string `json:"notes,omitempty"`
}

// CreateAlarmResponse carries the created alarm.
type CreateAlarmResponse struct {
	Alarm *Alarm `json:"alarm"`
}

// ListAlarmsRequest asks for all alarms of a patient.
type ListAlarmsRequest struct {
	PatientID int64 `json:"patient_id"`
}

// ListAlarmsResponse carries the patient's alarms ordered by time of day.
type ListAlarmsResponse struct {
	Alarms []*Alarm `json:"alarms"`
}

// GetAlarmRequest asks for one alarm of a patient.
type GetAlarmRequest struct {
	AlarmID   int64 `json:"alarm_id"`
	PatientID int64 `json:"patient_id"`
}

// GetAlarmResponse reports Found=false for absent and foreign alarms alike.
type GetAlarmResponse struct {
	Found bool   `json:"found"`
	Alarm *Alarm `json:"alarm,omitempty"`
}

// UpdateAlarmRequest carries a partial update; nil fields are left unchanged.
type UpdateAlarmRequest struct {
	AlarmID   int64   `json:"alarm_id"`
	PatientID int64   `json:"patient_id"`
	AlarmTime *string `json:"alarm_time,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// UpdateAlarmResponse carries the updated alarm.
type UpdateAlarmResponse struct {
	Alarm *Alarm `json:"alarm"`
}

// DeleteAlarmRequest asks to delete one alarm.
type DeleteAlarmRequest struct {
	AlarmID   int64 `json:"alarm_id"`
	PatientID int64 `json:"patient_id"`
}

// DeleteAlarmResponse reports whether an alarm was removed.
type DeleteAlarmResponse struct {
	Deleted bool `json:"deleted"`
}

// ToggleAlarmRequest sets the active flag of one alarm.
type ToggleAlarmRequest struct {
	AlarmID   int64 `json:"alarm_id"`
	PatientID int64 `json:"patient_id"`
	IsActive  bool  `json:"is_active"`
}

// ToggleAlarmResponse reports whether the alarm existed and was updated.
type ToggleAlarmResponse struct {
	Updated bool `json:"updated"`
}

// ProcessDueAlarmsRequest triggers one sweep.
type ProcessDueAlarmsRequest struct{}

// ProcessDueAlarmsResponse summarizes the sweep.
type ProcessDueAlarmsResponse struct {
	StartedAt  time.Time `json:"started_at"`
	Candidates int       `json:"candidates"`
	Due        int       `json:"due"`
	Sent       int       `json:"sent"`
	Failed     int       `json:"failed"`
}
