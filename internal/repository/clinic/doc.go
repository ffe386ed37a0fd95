// Package clinic resolves patients and prescribed medications for the reminder engine.
//
// PostgresDirectory reads the clinic database; FileDirectory serves the same
// lookups from a YAML fixture for local runs and integration tests.
package clinic
