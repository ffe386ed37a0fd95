package alarm

import (
	"strings"
	"time"
)

// CategoryMedicationReminder is the notification category used for reminders.
const CategoryMedicationReminder = "MedicationReminder"

// Alarm is a daily reminder for one prescribed medication of one patient.
type Alarm struct {
	// ID is assigned at creation and never reused.
	ID int64
	// PatientID identifies the owning patient.
	PatientID int64
	// PatientAccountID is the account that receives notifications.
	PatientAccountID int64
	// MedicationReferenceID identifies the prescribed-medication entry.
	MedicationReferenceID int64

	// MedicationName, Dosage and UsageInstructions are copied from the medication
	// lookup at creation time and are not re-synced afterwards.
	MedicationName    string
	Dosage            string
	UsageInstructions string

	// AlarmTime is the time of day at which the reminder recurs.
	AlarmTime TimeOfDay
	// IsActive excludes the alarm from sweeps when false.
	IsActive bool
	// Notes is optional free text shown in the reminder.
	Notes string

	CreatedAt time.Time
	// UpdatedAt is zero until the first update or toggle.
	UpdatedAt time.Time
	// LastNotificationSent is nil until the first successful dispatch.
	LastNotificationSent *time.Time
}

// Clone returns a deep copy so stored records are never shared with callers.
func (a *Alarm) Clone() *Alarm {
	if a == nil {
		return nil
	}

	cloned := *a

	if a.LastNotificationSent != nil {
		sent := *a.LastNotificationSent
		cloned.LastNotificationSent = &sent
	}

	return &cloned
}

// PendingOn reports whether the alarm still owes a notification on the calendar
// day of now: nothing was ever sent, or the last send happened on an earlier day.
// Days are compared in now's location.
func (a *Alarm) PendingOn(now time.Time) bool {
	if a.LastNotificationSent == nil {
		return true
	}

	return calendarDay(*a.LastNotificationSent, now.Location()).Before(calendarDay(now, now.Location()))
}

// calendarDay truncates t to midnight of its date in loc.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()

	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// ReminderMessage builds the body delivered to the patient: the medication name
// followed by dosage, usage instructions and notes when present.
func (a *Alarm) ReminderMessage() string {
	var b strings.Builder

	b.WriteString("Time to take your medication: ")
	b.WriteString(a.MedicationName)
	b.WriteString(".")

	if dosage := strings.TrimSpace(a.Dosage); dosage != "" {
		b.WriteString(" Dosage: ")
		b.WriteString(dosage)
		b.WriteString(".")
	}

	if usage := strings.TrimSpace(a.UsageInstructions); usage != "" {
		b.WriteString(" Instructions: ")
		b.WriteString(usage)
		b.WriteString(".")
	}

	if notes := strings.TrimSpace(a.Notes); notes != "" {
		b.WriteString(" Notes: ")
		b.WriteString(notes)
	}

	return b.String()
}

// Patch carries a partial update: nil fields are left unchanged.
type Patch struct {
	AlarmTime *TimeOfDay
	IsActive  *bool
	Notes     *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.AlarmTime == nil && p.IsActive == nil && p.Notes == nil
}

// Apply copies the present fields onto a and stamps UpdatedAt.
func (p Patch) Apply(a *Alarm, now time.Time) {
	if p.AlarmTime != nil {
		a.AlarmTime = *p.AlarmTime
	}

	if p.IsActive != nil {
		a.IsActive = *p.IsActive
	}

	if p.Notes != nil {
		a.Notes = *p.Notes
	}

	a.UpdatedAt = now
}
