// Package epitopesparser downloads the IEDB T-cell full export and reduces
// it to a clean, deduplicated epitope training dataset.
package epitopesparser

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/epibase/epitopes-api/logging"
)

// minArchiveBytes is the smallest size a complete tcell_full export has
// ever plausibly been. Anything below it means a truncated download.
const minArchiveBytes = 1000000

// fetchArchive streams the archive at url into dest and returns the HTTP
// status code. TLS verification uses the system trust store.
func fetchArchive(url string, dest string) (int, error) {
	client := &http.Client{
		Timeout: 5 * time.Minute,
	}
	response, err := client.Get(url)
	if err != nil {
		return 0, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	outFile, err := os.Create(dest)
	if err != nil {
		return response.StatusCode, fmt.Errorf("failed to create file %s: %w", dest, err)
	}
	defer func() {
		if err := outFile.Close(); err != nil {
			logging.Warn("Failed to close archive file", "error", err)
		}
	}()

	if _, err := io.Copy(outFile, response.Body); err != nil {
		return response.StatusCode, fmt.Errorf("failed to write archive to %s: %w", dest, err)
	}

	return response.StatusCode, nil
}

// downloadArchive fetches the archive and applies the completeness checks:
// the status must be 200 and the file at least minArchiveBytes long.
func downloadArchive(url string, dest string) error {
	status, err := fetchArchive(url, dest)
	if err != nil {
		return err
	}

	if status != http.StatusOK {
		return &DownloadError{URL: url, Status: status}
	}

	info, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("failed to stat downloaded archive: %w", err)
	}
	if info.Size() < minArchiveBytes {
		return &IncompleteDownloadError{Path: dest, Size: info.Size(), Min: minArchiveBytes}
	}

	logging.Debug("Archive downloaded without errors", "url", url, "size", info.Size())
	return nil
}
