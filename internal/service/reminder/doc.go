// Package reminder implements the medication alarm engine.
//
// Engine enforces ownership and uniqueness around the alarm store and runs the
// due-alarm sweep: active alarms whose time of day is within the tolerance of the
// current wall-clock time, and which have not been notified today, are
// dispatched in parallel with per-alarm failure isolation.
package reminder
