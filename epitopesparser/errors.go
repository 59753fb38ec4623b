package epitopesparser

import (
	"fmt"
	"strings"
)

// DownloadError reports a non-200 response from the archive server.
type DownloadError struct {
	URL    string
	Status int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download of %s failed: the server returned %d", e.URL, e.Status)
}

// IncompleteDownloadError reports a downloaded archive smaller than the
// minimum plausible size for a full IEDB export.
type IncompleteDownloadError struct {
	Path string
	Size int64
	Min  int64
}

func (e *IncompleteDownloadError) Error() string {
	return fmt.Sprintf("the download was incomplete: %s is %d bytes, expected at least %d", e.Path, e.Size, e.Min)
}

// SchemaError reports required columns missing from the archive's header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("unexpected archive schema: missing columns %s", strings.Join(e.Missing, ", "))
}
