package domain

import "time"

// Record is a single application log record submitted for delivery.
// Ownership transfers to the pipeline on Submit; producers must not mutate a
// Record (including its Fields map) after handing it off.
type Record struct {
	// Time is when the record was produced. Zero means "unset"; Submit
	// stamps the current time in that case.
	Time time.Time

	// Level is the severity label (e.g. "info", "error"). Free-form.
	Level string

	// Source identifies the producer (hostname, service name, file path).
	Source string

	// Message is the log line itself.
	Message string

	// Fields carries optional structured context.
	Fields map[string]any
}
