package logger

// Standard field names for structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldSession   = "session"
	FieldComponent = "component"
	FieldPath      = "path"

	// Resolution
	FieldGoal      = "goal"
	FieldDepth     = "depth"
	FieldIteration = "iteration"
	FieldClauses   = "clauses"
	FieldAnswer    = "answer"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts
	FieldCount  = "count"
	FieldFailed = "failed"
)
