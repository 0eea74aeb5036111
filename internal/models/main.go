// Package models defines the core data structures for monitored files
// and their backup history.
package models

// Status is the integrity state of a monitored file as reported by the
// monitoring service. The set is closed, but no transition order is
// enforced client-side: the server is authoritative and the client only
// requests transitions.
type Status string

const (
	// StatusUnchanged means no drift has been detected.
	StatusUnchanged Status = "Unchanged"
	// StatusModified means the content digest differs from the last verified baseline.
	StatusModified Status = "Modified"
	// StatusUserVerified means the user accepted the modified content as the new baseline.
	// The wire value contains a space.
	StatusUserVerified Status = "User Verified"
	// StatusDeleted means the monitored source file is absent from disk.
	StatusDeleted Status = "Deleted"
	// StatusRollback means the record was restored from a backup snapshot.
	StatusRollback Status = "Rollback"
	// StatusUserUpdated is an older protocol synonym of StatusUserVerified.
	// It is preserved as a distinct wire value for compatibility.
	StatusUserUpdated Status = "UserUpdated"
)

// Label returns the display name for a status. Wire values and display
// labels differ for two members only.
func (s Status) Label() string {
	switch s {
	case StatusRollback:
		return "Restore"
	case StatusUserUpdated:
		return "User Updated"
	default:
		return string(s)
	}
}

// CheckInterval is the polling cadence assigned to a monitored file.
type CheckInterval string

const (
	Interval1h  CheckInterval = "1h"
	Interval6h  CheckInterval = "6h"
	Interval12h CheckInterval = "12h"
	Interval24h CheckInterval = "24h"
)

// Intervals returns the closed set of valid check intervals.
func Intervals() []CheckInterval {
	return []CheckInterval{Interval1h, Interval6h, Interval12h, Interval24h}
}

// Valid reports whether i is a member of the closed interval set.
func (i CheckInterval) Valid() bool {
	switch i {
	case Interval1h, Interval6h, Interval12h, Interval24h:
		return true
	}
	return false
}

// FileLogRecord is one monitored file's current integrity status and
// metadata, as returned by GET /api/files/logs. Timestamps arrive
// preformatted and are kept as strings for display.
type FileLogRecord struct {
	// LogID is the identifier of the log row itself.
	LogID int64 `json:"id"`
	// FileID is the stable identifier of the monitored file, assigned server-side.
	FileID int64 `json:"file_id"`
	// File is the human-readable path of the monitored file.
	File string `json:"file"`
	// Status is the current integrity state.
	Status Status `json:"status"`
	// Time is the timestamp of the most recent observed transition.
	Time string `json:"time"`
	// OldHash and NewHash are the previous and current content digests.
	// They are meaningful only when Status != StatusUnchanged.
	OldHash string `json:"oldHash"`
	NewHash string `json:"newHash"`
	// CheckInterval is the polling cadence label ("1h", "6h", "12h", "24h").
	CheckInterval string `json:"checkInterval"`
}

// BackupRecord is one stored snapshot of a file's prior content.
// Backups are created server-side and never mutated.
type BackupRecord struct {
	// ID is the backup identifier, unique within its owning file.
	ID int64 `json:"id"`
	// CreatedAt is the snapshot timestamp, preformatted by the server.
	CreatedAt string `json:"created_at"`
	// BackupHash is the content digest of the stored snapshot.
	BackupHash string `json:"backup_hash"`
}
