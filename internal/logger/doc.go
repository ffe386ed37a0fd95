// Package logger wraps zap for the medication alarm service:
//   - a global sugared logger built from a format (console or json) and a level,
//   - context helpers (ToContext/FromContext/WithName/WithKV) so request handlers,
//     the sweep and the scheduler log with their own scope,
//   - level parsing and convenience functions (Infof, ErrorKV, etc.).
//
// Every component receives a context and extracts its logger from it.
package logger
