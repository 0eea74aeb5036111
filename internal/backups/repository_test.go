package backups

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fimwatch/fimdash/internal/api"
)

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/files/42/backups" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 7, "created_at": "2024-05-30 09:00:00", "backup_hash": "aaa"},
			{"id": 8, "created_at": "2024-05-31 09:00:00", "backup_hash": "bbb"}
		]`))
	}))
	defer srv.Close()

	repo := NewRepository(api.New(srv.URL, srv.Client(), nil))
	records, err := repo.Fetch(context.Background(), "tok", 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d; want 2", len(records))
	}
	if records[0].ID != 7 || records[1].BackupHash != "bbb" {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestFetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "File not found"}`))
	}))
	defer srv.Close()

	repo := NewRepository(api.New(srv.URL, srv.Client(), nil))
	_, err := repo.Fetch(context.Background(), "tok", 99)
	if err == nil {
		t.Fatal("expected error")
	}
	if api.IsAuthError(err) {
		t.Error("404 treated as auth error")
	}
}
