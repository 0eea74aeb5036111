package models

import (
	"encoding/json"
	"testing"
)

func TestStatusLabel(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{StatusUnchanged, "Unchanged"},
		{StatusModified, "Modified"},
		{StatusUserVerified, "User Verified"},
		{StatusDeleted, "Deleted"},
		{StatusRollback, "Restore"},
		{StatusUserUpdated, "User Updated"},
	}
	for _, c := range cases {
		if got := c.status.Label(); got != c.want {
			t.Errorf("Label(%q) = %q; want %q", c.status, got, c.want)
		}
	}
}

func TestStatusWireValuesDistinct(t *testing.T) {
	// UserUpdated and UserVerified share a display meaning but must
	// stay distinct on the wire.
	if StatusUserUpdated == StatusUserVerified {
		t.Fatal("UserUpdated and UserVerified collapsed into one wire value")
	}
	if string(StatusUserVerified) != "User Verified" {
		t.Errorf("UserVerified wire value = %q", StatusUserVerified)
	}
	if string(StatusUserUpdated) != "UserUpdated" {
		t.Errorf("UserUpdated wire value = %q", StatusUserUpdated)
	}
}

func TestCheckIntervalValid(t *testing.T) {
	for _, iv := range Intervals() {
		if !iv.Valid() {
			t.Errorf("Valid(%q) = false; want true", iv)
		}
	}
	for _, iv := range []CheckInterval{"", "2h", "48h", "1d", "6"} {
		if iv.Valid() {
			t.Errorf("Valid(%q) = true; want false", iv)
		}
	}
}

func TestFileLogRecordDecode(t *testing.T) {
	payload := `{
		"id": 17,
		"file_id": 3,
		"file": "/etc/passwd",
		"status": "Modified",
		"time": "2024-06-01 10:30:00",
		"oldHash": "aaa",
		"newHash": "bbb",
		"checkInterval": "6h"
	}`

	var rec FileLogRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.LogID != 17 || rec.FileID != 3 {
		t.Errorf("ids = (%d, %d); want (17, 3)", rec.LogID, rec.FileID)
	}
	if rec.File != "/etc/passwd" || rec.Status != StatusModified {
		t.Errorf("file/status = %q/%q", rec.File, rec.Status)
	}
	if rec.OldHash != "aaa" || rec.NewHash != "bbb" || rec.CheckInterval != "6h" {
		t.Errorf("unexpected hashes/interval: %+v", rec)
	}
}

func TestBackupRecordDecode(t *testing.T) {
	payload := `{"id": 7, "created_at": "2024-05-30 09:00:00", "backup_hash": "ccc"}`

	var rec BackupRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID != 7 || rec.CreatedAt != "2024-05-30 09:00:00" || rec.BackupHash != "ccc" {
		t.Errorf("unexpected record: %+v", rec)
	}
}
