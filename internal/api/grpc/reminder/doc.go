// Package reminder implements the gRPC transport for the medication alarm engine.
//
// It converts wire messages to engine calls and maps the domain error taxonomy
// onto gRPC status codes.
package reminder
