package constants

// FileStatus is the canonical per-file outcome recorded in the run ledger.
type FileStatus string

// Stable values (store these exact strings in the ledger).
const (
	FileStatusOK      FileStatus = "OK"      // record extracted and normalized
	FileStatusFailed  FileStatus = "FAILED"  // extraction or resolution failure
	FileStatusSkipped FileStatus = "SKIPPED" // format backend unavailable
)
