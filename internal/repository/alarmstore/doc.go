// Package alarmstore implements the in-memory registry of medication alarms.
//
// MemoryStore hands out unique ids and keeps a secondary index on the
// (patient, medication) pair so uniqueness is checked and enforced in a single
// critical section. The store is deliberately ephemeral: its contents are lost
// when the process exits.
package alarmstore
