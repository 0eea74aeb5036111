// Package dashboard holds the client state for the file integrity
// dashboard and orchestrates the five remote operations: list,
// verify, reconfigure interval, delete, and rollback.
//
// The Dashboard is the single writer of the log set, the selection,
// the backup history and the login flag. Every mutation follows the
// same shape: issue the remote call, re-fetch the full log set, then
// reconcile the selection against the refreshed set by file id. A 401
// or 403 from any call clears the session and resets the state to
// logged-out, regardless of which operation produced it.
package dashboard

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fimwatch/fimdash/internal/api"
	"github.com/fimwatch/fimdash/internal/logs"
	"github.com/fimwatch/fimdash/internal/models"
)

// RemoteClient is the slice of the API client used for mutations and
// the backup download.
type RemoteClient interface {
	Put(ctx context.Context, path, token string, body, out any) error
	Post(ctx context.Context, path, token string, body, out any) error
	Delete(ctx context.Context, path, token string) error
	Download(ctx context.Context, path, token string) (*api.Artifact, error)
}

// LogSource fetches the full snapshot of file-monitoring records.
type LogSource interface {
	Fetch(ctx context.Context, token string) ([]models.FileLogRecord, error)
}

// BackupSource fetches the backup history of one file.
type BackupSource interface {
	Fetch(ctx context.Context, token string, fileID int64) ([]models.BackupRecord, error)
}

// SessionStore holds the bearer credential.
type SessionStore interface {
	Token() (string, bool)
	Set(token string) error
	Clear() error
}

// ArtifactSaver persists a downloaded backup payload and returns the
// final path.
type ArtifactSaver interface {
	Save(name string, data []byte) (string, error)
}

// Request bodies for the mutation endpoints. Field names follow the
// service's wire contract, including the interval endpoint keying the
// file id as "file".
type statusUpdate struct {
	ID     int64         `json:"id"`
	Status models.Status `json:"status"`
}

type intervalUpdate struct {
	File     int64                `json:"file"`
	Interval models.CheckInterval `json:"interval"`
}

type rollbackRequest struct {
	BackupID int64 `json:"backup_id"`
}

// Dashboard owns the client-side state and serializes all mutations
// behind one mutex, so the interactive shell and background callers
// cannot interleave partial updates.
type Dashboard struct {
	remote  RemoteClient
	logs    LogSource
	backups BackupSource
	session SessionStore
	saver   ArtifactSaver
	log     *zap.Logger

	mu       sync.Mutex
	records  []models.FileLogRecord
	selected *models.FileLogRecord
	history  []models.BackupRecord
	loggedIn bool

	deleteArmed    bool
	rollbackOpen   bool
	rollbackChosen bool
	rollbackID     int64
}

// New creates a Dashboard. The initial login state is derived from the
// presence of a stored session token.
func New(remote RemoteClient, logSrc LogSource, backupSrc BackupSource, sess SessionStore, saver ArtifactSaver, log *zap.Logger) *Dashboard {
	if log == nil {
		log = zap.NewNop()
	}
	_, ok := sess.Token()
	return &Dashboard{
		remote:   remote,
		logs:     logSrc,
		backups:  backupSrc,
		session:  sess,
		saver:    saver,
		log:      log,
		loggedIn: ok,
	}
}

// Records returns a copy of the current log set.
func (d *Dashboard) Records() []models.FileLogRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.FileLogRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Selected returns the focused record, if any.
func (d *Dashboard) Selected() (models.FileLogRecord, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selected == nil {
		return models.FileLogRecord{}, false
	}
	return *d.selected, true
}

// History returns a copy of the backup history of the selection.
func (d *Dashboard) History() []models.BackupRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.BackupRecord, len(d.history))
	copy(out, d.history)
	return out
}

// LoggedIn reports the current login state.
func (d *Dashboard) LoggedIn() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loggedIn
}

// Histogram returns the status histogram of the current log set.
func (d *Dashboard) Histogram() []logs.StatusCount {
	d.mu.Lock()
	defer d.mu.Unlock()
	return logs.Histogram(d.records)
}

// Logout clears the session and resets all state to logged-out.
func (d *Dashboard) Logout() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.invalidateSessionLocked()
}

// Refresh re-fetches the log set and reconciles the selection against
// the refreshed snapshot.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var target int64
	hadSelection := d.selected != nil
	if hadSelection {
		target = d.selected.FileID
	}

	if err := d.refreshLocked(ctx); err != nil {
		return err
	}
	if hadSelection {
		d.reconcileLocked(ctx, target)
	}
	return nil
}

// Select focuses the record with the given file id and loads its backup
// history. The record must be part of the current log set.
func (d *Dashboard) Select(ctx context.Context, fileID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.findLocked(fileID)
	if !ok {
		return fmt.Errorf("file %d is not in the current log set", fileID)
	}
	d.selected = &rec
	d.resetGatesLocked()
	d.fetchHistoryLocked(ctx)
	return nil
}

// ClearSelection drops the focus and empties the backup history. No
// network call is made.
func (d *Dashboard) ClearSelection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selected = nil
	d.history = nil
	d.resetGatesLocked()
}

// Verify requests the UserVerified status for the given file, then
// re-fetches the log set and re-selects the refreshed record.
func (d *Dashboard) Verify(ctx context.Context, fileID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	token, err := d.tokenLocked()
	if err != nil {
		return err
	}

	body := statusUpdate{ID: fileID, Status: models.StatusUserVerified}
	if err := d.remote.Put(ctx, "/api/files/status", token, body, nil); err != nil {
		d.handleRemoteErrLocked(err)
		return fmt.Errorf("update status: %w", err)
	}

	if err := d.refreshLocked(ctx); err != nil {
		return err
	}
	d.reconcileLocked(ctx, fileID)
	return nil
}

// ChangeInterval requests a new polling cadence for the given file,
// then re-fetches the log set and re-selects the refreshed record so
// the detail view reflects the new interval immediately.
func (d *Dashboard) ChangeInterval(ctx context.Context, fileID int64, interval models.CheckInterval) error {
	if !interval.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidInterval, interval)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	token, err := d.tokenLocked()
	if err != nil {
		return err
	}

	body := intervalUpdate{File: fileID, Interval: interval}
	if err := d.remote.Put(ctx, "/api/files/interval", token, body, nil); err != nil {
		d.handleRemoteErrLocked(err)
		return fmt.Errorf("update interval: %w", err)
	}

	if err := d.refreshLocked(ctx); err != nil {
		return err
	}
	d.reconcileLocked(ctx, fileID)
	return nil
}

// refreshLocked replaces the log set with a fresh snapshot. On an auth
// failure the session is invalidated. On any other failure the
// last-known-good set is kept and the error is returned for display.
func (d *Dashboard) refreshLocked(ctx context.Context) error {
	token, err := d.tokenLocked()
	if err != nil {
		return err
	}

	records, err := d.logs.Fetch(ctx, token)
	if err != nil {
		if api.IsAuthError(err) {
			d.invalidateSessionLocked()
			return err
		}
		d.log.Warn("log fetch failed, keeping last known records", zap.Error(err))
		return err
	}

	d.records = records
	d.loggedIn = true
	return nil
}

// reconcileLocked re-establishes the selection invariant after a
// refresh: the selection is either a record of the latest snapshot,
// matched by file id, or none.
func (d *Dashboard) reconcileLocked(ctx context.Context, fileID int64) {
	rec, ok := d.findLocked(fileID)
	if !ok {
		d.selected = nil
		d.history = nil
		d.resetGatesLocked()
		return
	}
	d.selected = &rec
	d.fetchHistoryLocked(ctx)
}

// fetchHistoryLocked loads the backup history of the current selection.
// Failures leave an empty history rather than blocking the selection.
func (d *Dashboard) fetchHistoryLocked(ctx context.Context) {
	d.history = nil
	if d.selected == nil {
		return
	}
	token, err := d.tokenLocked()
	if err != nil {
		return
	}

	history, err := d.backups.Fetch(ctx, token, d.selected.FileID)
	if err != nil {
		if api.IsAuthError(err) {
			d.invalidateSessionLocked()
			return
		}
		d.log.Warn("backup history fetch failed", zap.Error(err))
		return
	}
	d.history = history
}

func (d *Dashboard) findLocked(fileID int64) (models.FileLogRecord, bool) {
	for _, rec := range d.records {
		if rec.FileID == fileID {
			return rec, true
		}
	}
	return models.FileLogRecord{}, false
}

func (d *Dashboard) tokenLocked() (string, error) {
	token, ok := d.session.Token()
	if !ok {
		d.loggedIn = false
		return "", ErrNotLoggedIn
	}
	return token, nil
}

// handleRemoteErrLocked applies the auth-failure rule: any 401/403
// invalidates the session, independent of the operation.
func (d *Dashboard) handleRemoteErrLocked(err error) {
	if api.IsAuthError(err) {
		d.invalidateSessionLocked()
	}
}

// invalidateSessionLocked clears the credential, empties the log set
// and flips the state to logged-out.
func (d *Dashboard) invalidateSessionLocked() {
	if err := d.session.Clear(); err != nil {
		d.log.Warn("session clear failed", zap.Error(err))
	}
	d.records = nil
	d.selected = nil
	d.history = nil
	d.loggedIn = false
	d.resetGatesLocked()
}

func (d *Dashboard) resetGatesLocked() {
	d.deleteArmed = false
	d.rollbackOpen = false
	d.rollbackChosen = false
	d.rollbackID = 0
}
