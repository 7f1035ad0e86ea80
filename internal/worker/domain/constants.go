package domain

// Posting result status constants
const (
	ResultStatusSuccess = "SUCCESS"
	ResultStatusFailed  = "FAILED"
)
