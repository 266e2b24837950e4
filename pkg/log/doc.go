// Package log provides the structured logging abstraction used throughout
// logship.
//
// The library core logs through the [Logger] interface so that embedders can
// plug in their own logging backend. A zerolog-backed adapter is provided for
// applications that do not already have one, and [NewNoopLogger] is the
// default when nothing is configured.
package log
