// Package scheduler triggers due-alarm sweeps on a fixed interval.
package scheduler
