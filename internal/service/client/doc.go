// Package client implements the medication-alarm command-line operations.
//
// A Session loads settings, detects the local actor for the server's audit log,
// dials the server and renders results as plain text. The sweep operation retries
// while the server is unavailable so it can be driven from cron during restarts.
package client
