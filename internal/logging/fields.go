package logging

const (
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the structured logging key for conversion run identifiers.
	FieldRunID = "run_id"
	// FieldSource is the structured logging key for the source media path.
	FieldSource = "source"
	// FieldChapterIndex is the structured logging key for the 1-based chapter number.
	FieldChapterIndex = "chapter_index"
	// FieldChapterCount is the structured logging key for the number of chapters in a run.
	FieldChapterCount = "chapter_count"
	// FieldEventType classifies log lines for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint carries the next step a user should take after a failure.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)
