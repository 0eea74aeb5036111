// Package logs fetches the monitored-file log set and derives its
// status histogram.
package logs

import (
	"context"
	"fmt"

	"github.com/fimwatch/fimdash/internal/models"
)

// Getter is the slice of the remote client this repository needs.
type Getter interface {
	Get(ctx context.Context, path, token string, out any) error
}

// Repository fetches file-monitoring records. Every fetch is a full
// snapshot; callers replace their copy wholesale rather than merging.
type Repository struct {
	api Getter
}

// NewRepository creates a Repository over the given remote client.
func NewRepository(api Getter) *Repository {
	return &Repository{api: api}
}

// Fetch returns the current set of file-monitoring records.
func (r *Repository) Fetch(ctx context.Context, token string) ([]models.FileLogRecord, error) {
	var records []models.FileLogRecord
	if err := r.api.Get(ctx, "/api/files/logs", token, &records); err != nil {
		return nil, fmt.Errorf("fetch logs: %w", err)
	}
	return records, nil
}

// StatusCount is one histogram entry: a status and the number of
// records currently carrying it.
type StatusCount struct {
	Status models.Status
	Count  int
}

// Histogram counts records per status. Each distinct status present in
// the set appears in exactly one entry, in first-seen order, and the
// counts sum to len(records). Used for display only.
func Histogram(records []models.FileLogRecord) []StatusCount {
	index := make(map[models.Status]int, len(records))
	var counts []StatusCount
	for _, rec := range records {
		if i, ok := index[rec.Status]; ok {
			counts[i].Count++
			continue
		}
		index[rec.Status] = len(counts)
		counts = append(counts, StatusCount{Status: rec.Status, Count: 1})
	}
	return counts
}
