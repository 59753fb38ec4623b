package epitopesparser

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadArchiveNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "archive.zip")
	err := downloadArchive(ts.URL, dest)

	var downloadErr *DownloadError
	if !errors.As(err, &downloadErr) {
		t.Fatalf("expected DownloadError, got %v", err)
	}
	if downloadErr.Status != http.StatusNotFound {
		t.Errorf("expected status 404 in error, got %d", downloadErr.Status)
	}
}

func TestDownloadArchiveTooSmall(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), 500000))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "archive.zip")
	err := downloadArchive(ts.URL, dest)

	var incompleteErr *IncompleteDownloadError
	if !errors.As(err, &incompleteErr) {
		t.Fatalf("expected IncompleteDownloadError, got %v", err)
	}
	if incompleteErr.Size != 500000 {
		t.Errorf("expected reported size 500000, got %d", incompleteErr.Size)
	}
}

func TestDownloadArchiveComplete(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), minArchiveBytes+1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "archive.zip")
	if err := downloadArchive(ts.URL, dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}
	if info.Size() != int64(len(payload)) {
		t.Errorf("expected %d bytes on disk, got %d", len(payload), info.Size())
	}
}

func TestFetchArchiveReturnsStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "archive.zip")
	status, err := fetchArchive(ts.URL, dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != http.StatusTeapot {
		t.Errorf("expected status 418, got %d", status)
	}
}
