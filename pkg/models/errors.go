package models

import "errors"

// Error taxonomy shared by every component. Callers wrap these with path
// context and test them with errors.Is.
var (
	// ErrIO covers open/read/write/rename failures
	ErrIO = errors.New("i/o error")
	// ErrDigest means a digest could not be computed for the requested algorithm
	ErrDigest = errors.New("digest error")
	// ErrListUnavailable means a blocklist or allowlist could not be opened
	ErrListUnavailable = errors.New("list unavailable")
	// ErrDisposition means a delete/quarantine/restore step failed
	ErrDisposition = errors.New("disposition failed")
	// ErrLedgerInconsistency means a restore named an entry the ledger does not hold
	ErrLedgerInconsistency = errors.New("not found in quarantine ledger")
	// ErrPrivilege means the precondition hook refused a state mutation
	ErrPrivilege = errors.New("insufficient privilege")
)
