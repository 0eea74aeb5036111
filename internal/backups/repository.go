// Package backups fetches the backup history of a single monitored file.
package backups

import (
	"context"
	"fmt"

	"github.com/fimwatch/fimdash/internal/models"
)

// Getter is the slice of the remote client this repository needs.
type Getter interface {
	Get(ctx context.Context, path, token string, out any) error
}

// Repository fetches backup records, scoped to one file per call.
type Repository struct {
	api Getter
}

// NewRepository creates a Repository over the given remote client.
func NewRepository(api Getter) *Repository {
	return &Repository{api: api}
}

// Fetch returns the backup history for the file with the given id.
func (r *Repository) Fetch(ctx context.Context, token string, fileID int64) ([]models.BackupRecord, error) {
	var records []models.BackupRecord
	path := fmt.Sprintf("/api/files/%d/backups", fileID)
	if err := r.api.Get(ctx, path, token, &records); err != nil {
		return nil, fmt.Errorf("fetch backups for file %d: %w", fileID, err)
	}
	return records, nil
}
