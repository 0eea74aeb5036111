package dashboard

import (
	"errors"
	"fmt"
)

// Validation errors: raised before any network call is issued.
var (
	// ErrNotLoggedIn means no session token is present.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrNoSelection means the operation needs a selected record.
	ErrNoSelection = errors.New("no file selected")
	// ErrNoBackups means the rollback gate cannot open because the
	// current selection has no backup history.
	ErrNoBackups = errors.New("no backup history available for the selected file")
	// ErrNoBackupChosen means rollback was confirmed without a backup picked.
	ErrNoBackupChosen = errors.New("no backup chosen")
	// ErrNoPendingDelete means ConfirmDelete was called without RequestDelete.
	ErrNoPendingDelete = errors.New("no delete pending confirmation")
	// ErrNoPendingRollback means a rollback gate operation was called
	// while the gate is closed.
	ErrNoPendingRollback = errors.New("no rollback pending confirmation")
	// ErrInvalidInterval means the requested cadence is outside the closed set.
	ErrInvalidInterval = errors.New("invalid check interval")
)

// PartialRollbackError is the terminal outcome of a rollback whose
// server-side state transition succeeded but whose artifact delivery
// did not. The intermediate state is irreversible by design: no
// compensating action is attempted, and the log set is left
// unrefreshed.
type PartialRollbackError struct {
	Err error
}

func (e *PartialRollbackError) Error() string {
	return fmt.Sprintf("server state was rolled back but the backup file was not retrieved: %v", e.Err)
}

func (e *PartialRollbackError) Unwrap() error { return e.Err }
