package constants

// OutcomeStatus is the terminal status of one document's processing.
type OutcomeStatus string

// Stable values (store these exact strings).
const (
	StatusSuccess OutcomeStatus = "success" // all expectations met
	StatusPartial OutcomeStatus = "partial" // extracted, but heuristically suspect
	StatusFailed  OutcomeStatus = "failed"  // unhandled error for this document
	StatusSkipped OutcomeStatus = "skipped" // no extractor, or unchanged in incremental mode
)
