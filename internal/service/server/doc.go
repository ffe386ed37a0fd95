// Package server runs the medication alarm server process: it loads settings,
// builds the alarm engine with its collaborators, serves the gRPC and HTTP APIs
// and drives the in-process sweep scheduler until the context is canceled.
package server
