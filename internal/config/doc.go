// Package config defines the settings shared by the medication alarm binaries
// and provides helpers to load, validate and save them in YAML format.
//
// Every setting can be overridden by a MEDALARM_* environment variable, which
// takes precedence over the file.
package config
