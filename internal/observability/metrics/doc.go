// Package metrics holds the Prometheus collectors of the medication alarm service.
package metrics
