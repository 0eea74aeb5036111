package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fimwatch/fimdash/internal/artifact"
)

// The two confirmation gates are independent: a delete toggle, and a
// rollback gate that additionally carries a backup chosen from the
// loaded history. Confirming invokes the operation; cancelling closes
// the gate with no side effects.

// RequestDelete arms the delete confirmation for the current selection.
func (d *Dashboard) RequestDelete() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selected == nil {
		return ErrNoSelection
	}
	d.deleteArmed = true
	return nil
}

// DeletePending reports whether a delete is awaiting confirmation.
func (d *Dashboard) DeletePending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deleteArmed
}

// CancelDelete closes the delete gate without side effects.
func (d *Dashboard) CancelDelete() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleteArmed = false
}

// ConfirmDelete stops monitoring the selected file. On success the
// selection is cleared, the gate closes and the log set is re-fetched.
// On failure the gate and the selection stay as they were so the user
// can retry.
func (d *Dashboard) ConfirmDelete(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.deleteArmed {
		return ErrNoPendingDelete
	}
	if d.selected == nil {
		return ErrNoSelection
	}

	token, err := d.tokenLocked()
	if err != nil {
		return err
	}

	fileID := d.selected.FileID
	if err := d.remote.Delete(ctx, fmt.Sprintf("/api/files/%d", fileID), token); err != nil {
		d.handleRemoteErrLocked(err)
		return fmt.Errorf("stop monitoring: %w", err)
	}

	d.log.Info("monitoring stopped", zap.Int64("file_id", fileID))
	d.deleteArmed = false
	d.selected = nil
	d.history = nil
	return d.refreshLocked(ctx)
}

// OpenRollback opens the rollback gate for the current selection. The
// gate cannot open while the loaded backup history is empty.
func (d *Dashboard) OpenRollback() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selected == nil {
		return ErrNoSelection
	}
	if len(d.history) == 0 {
		return ErrNoBackups
	}
	d.rollbackOpen = true
	return nil
}

// RollbackPending reports whether the rollback gate is open.
func (d *Dashboard) RollbackPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rollbackOpen
}

// ChooseBackup picks the snapshot to restore. The backup must be part
// of the history loaded for the current selection.
func (d *Dashboard) ChooseBackup(backupID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.rollbackOpen {
		return ErrNoPendingRollback
	}
	for _, b := range d.history {
		if b.ID == backupID {
			d.rollbackChosen = true
			d.rollbackID = backupID
			return nil
		}
	}
	return fmt.Errorf("backup %d is not in the loaded history", backupID)
}

// CancelRollback closes the rollback gate without side effects.
func (d *Dashboard) CancelRollback() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rollbackOpen = false
	d.rollbackChosen = false
	d.rollbackID = 0
}

// ConfirmRollback runs the two-phase rollback for the chosen backup:
// first the server-side state revert, then the authenticated download
// of the backup artifact. The two phases fail independently. A phase-2
// failure is surfaced as *PartialRollbackError: the remote transition
// already happened and is not compensated, and the log set is left
// unrefreshed. The gate closes as soon as the operation is dispatched.
func (d *Dashboard) ConfirmRollback(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.rollbackOpen {
		return ErrNoPendingRollback
	}
	if d.selected == nil {
		return ErrNoSelection
	}
	if !d.rollbackChosen {
		return ErrNoBackupChosen
	}

	fileID := d.selected.FileID
	backupID := d.rollbackID
	fallbackName := d.selected.File
	d.rollbackOpen = false
	d.rollbackChosen = false
	d.rollbackID = 0

	token, err := d.tokenLocked()
	if err != nil {
		return err
	}

	// Phase 1: server-side state revert. A failure here stops the
	// workflow before any download is attempted.
	path := fmt.Sprintf("/api/files/%d/rollback", fileID)
	if err := d.remote.Post(ctx, path, token, rollbackRequest{BackupID: backupID}, nil); err != nil {
		d.handleRemoteErrLocked(err)
		return fmt.Errorf("rollback request: %w", err)
	}

	// Phase 2: fetch and persist the backup artifact. The server state
	// has already changed; from here on failures are partial.
	art, err := d.remote.Download(ctx, fmt.Sprintf("/api/backups/%d/download", backupID), token)
	if err != nil {
		d.handleRemoteErrLocked(err)
		return &PartialRollbackError{Err: err}
	}

	name, ok := artifact.FilenameFromDisposition(art.Disposition)
	if !ok {
		name = fallbackName
	}
	saved, err := d.saver.Save(name, art.Data)
	if err != nil {
		return &PartialRollbackError{Err: err}
	}

	d.log.Info("backup restored",
		zap.Int64("file_id", fileID),
		zap.Int64("backup_id", backupID),
		zap.String("saved_to", saved),
	)

	if err := d.refreshLocked(ctx); err != nil {
		return err
	}
	d.reconcileLocked(ctx, fileID)
	return nil
}
