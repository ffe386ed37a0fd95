// Package rpcv1 defines the wire contract of the medication alarm gRPC service.
//
// Messages are plain Go structs encoded with a JSON codec registered under the
// "json" content subtype, so the service descriptor, server registration and
// client stub are written by hand instead of generated from a .proto file.
package rpcv1
