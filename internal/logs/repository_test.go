package logs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fimwatch/fimdash/internal/api"
	"github.com/fimwatch/fimdash/internal/models"
)

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/files/logs" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "file_id": 10, "file": "/etc/hosts", "status": "Unchanged", "time": "2024-06-01 10:00:00", "oldHash": "", "newHash": "", "checkInterval": "24h"},
			{"id": 2, "file_id": 11, "file": "/etc/passwd", "status": "Modified", "time": "2024-06-01 11:00:00", "oldHash": "a", "newHash": "b", "checkInterval": "1h"}
		]`))
	}))
	defer srv.Close()

	repo := NewRepository(api.New(srv.URL, srv.Client(), nil))
	records, err := repo.Fetch(context.Background(), "tok")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d; want 2", len(records))
	}
	if records[1].FileID != 11 || records[1].Status != models.StatusModified {
		t.Errorf("unexpected record: %+v", records[1])
	}
}

func TestFetch_AuthErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": "Invalid or expired token"}`))
	}))
	defer srv.Close()

	repo := NewRepository(api.New(srv.URL, srv.Client(), nil))
	_, err := repo.Fetch(context.Background(), "stale")
	if !api.IsAuthError(err) {
		t.Fatalf("IsAuthError(%v) = false", err)
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid or expired token" {
		t.Errorf("err = %v", err)
	}
}

func rec(status models.Status) models.FileLogRecord {
	return models.FileLogRecord{Status: status}
}

func TestHistogram_CountsSumToTotal(t *testing.T) {
	records := []models.FileLogRecord{
		rec(models.StatusModified),
		rec(models.StatusUnchanged),
		rec(models.StatusModified),
		rec(models.StatusRollback),
		rec(models.StatusModified),
		rec(models.StatusUnchanged),
	}

	counts := Histogram(records)

	total := 0
	seen := make(map[models.Status]bool)
	for _, c := range counts {
		total += c.Count
		if seen[c.Status] {
			t.Errorf("status %q appears in more than one entry", c.Status)
		}
		seen[c.Status] = true
	}
	if total != len(records) {
		t.Errorf("counts sum to %d; want %d", total, len(records))
	}
	for _, r := range records {
		if !seen[r.Status] {
			t.Errorf("status %q missing from histogram", r.Status)
		}
	}
}

func TestHistogram_FirstSeenOrder(t *testing.T) {
	records := []models.FileLogRecord{
		rec(models.StatusDeleted),
		rec(models.StatusUnchanged),
		rec(models.StatusDeleted),
	}

	counts := Histogram(records)
	if len(counts) != 2 {
		t.Fatalf("len(counts) = %d; want 2", len(counts))
	}
	if counts[0].Status != models.StatusDeleted || counts[0].Count != 2 {
		t.Errorf("counts[0] = %+v", counts[0])
	}
	if counts[1].Status != models.StatusUnchanged || counts[1].Count != 1 {
		t.Errorf("counts[1] = %+v", counts[1])
	}
}

func TestHistogram_Empty(t *testing.T) {
	if counts := Histogram(nil); len(counts) != 0 {
		t.Errorf("Histogram(nil) = %v; want empty", counts)
	}
}
