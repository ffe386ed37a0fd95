// Package common holds helpers shared by the command-line binaries.
//
// It provides a lightweight gRPC client wrapper with per-call timeouts and a
// helper that detects the current system actor (hostname/username), which the
// client sends along with every call for the server's audit log.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
