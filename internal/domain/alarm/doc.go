// Package alarm contains the core domain types of the medication reminder engine.
//
// It defines Alarm (a per-patient, per-medication daily reminder), TimeOfDay
// (the date-less time at which the reminder fires), Patch (partial updates) and
// the error taxonomy shared by the engine and its transports. Clone helpers keep
// stored records from leaking to callers.
package alarm
