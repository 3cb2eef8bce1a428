package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dukerupert/society/internal/backup"
)

type fakeBackupper struct {
	res    backup.Result
	err    error
	status backup.Status
	calls  int
}

func (f *fakeBackupper) RunNow(context.Context) (backup.Result, error) {
	f.calls++
	return f.res, f.err
}

func (f *fakeBackupper) Status() backup.Status { return f.status }

func TestBackupRun(t *testing.T) {
	fake := &fakeBackupper{res: backup.Result{Key: "society/backup-2024-01-20T103000.000Z-1a2b3c4d.db.enc", SizeBytes: 4096, TakenAt: fixedNow}}
	h := NewBackupHandler(fake, nil)

	rec := call(h.Run, http.MethodPost, "/api/admin/backup", "", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body)
	}
	var got backup.Result
	decodeBody(t, rec, &got)
	if got.Key != fake.res.Key || got.SizeBytes != 4096 {
		t.Errorf("result = %+v", got)
	}
	if fake.calls != 1 {
		t.Errorf("RunNow called %d times, want 1", fake.calls)
	}
}

func TestBackupRunErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		kind string
	}{
		{"disabled", backup.ErrDisabled, http.StatusServiceUnavailable, "unavailable"},
		{"in progress", backup.ErrInProgress, http.StatusConflict, "conflict"},
		{"upload failed", errors.New("upload to s3: timeout"), http.StatusInternalServerError, "store_failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBackupHandler(&fakeBackupper{err: tt.err}, nil)
			rec := call(h.Run, http.MethodPost, "/api/admin/backup", "", "")
			assertError(t, rec, tt.code, tt.kind)
		})
	}
}

func TestBackupStatus(t *testing.T) {
	last := fixedNow.Add(-time.Hour)
	fake := &fakeBackupper{status: backup.Status{State: backup.StateIdle, LastBackup: &last, LastKey: "society/x.db.enc"}}
	h := NewBackupHandler(fake, nil)

	rec := call(h.Status, http.MethodGet, "/api/admin/backup", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got backup.Status
	decodeBody(t, rec, &got)
	if got.State != backup.StateIdle || got.LastKey != "society/x.db.enc" || got.LastBackup == nil {
		t.Errorf("status = %+v", got)
	}
}
