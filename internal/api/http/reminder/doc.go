// Package reminder exposes the medication alarm engine over HTTP.
//
// The router serves JSON CRUD routes under /api/medication-alarms, a manual
// sweep trigger, a health probe and the Prometheus scrape endpoint. The calling
// patient is identified by the X-Patient-Id header, which an upstream gateway
// sets after authentication.
package reminder
