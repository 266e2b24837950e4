// Package domain contains the core entities and value objects for logship.
//
// This package represents the innermost layer of the architecture. It has no
// dependencies on infrastructure concerns (networking, file system, logging)
// and contains only pure data types and error values.
//
// # Entities
//
//   - [Record]: A single application log record handed to the pipeline
//   - Sentinel errors returned by the public API, checkable with errors.Is
package domain
