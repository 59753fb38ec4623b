package epitopesparser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/epibase/epitopes-api/epitopesparser/entities"
	"github.com/epibase/epitopes-api/interfaces"
	"github.com/epibase/epitopes-api/logging"
)

// DefaultDatasetURL is the public IEDB T-cell full export.
const DefaultDatasetURL = "http://www.iedb.org/downloader.php?file_name=doc/tcell_full_v3.zip"

// ParseAllEpitopes downloads the archive from url into a temporary
// directory, removed on every exit path, and returns the filtered dataset.
func ParseAllEpitopes(url string) ([]entities.Epitope, error) {
	start := time.Now()

	tmpDir, err := os.MkdirTemp("", "iedb-epitopes-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			logging.Warn("Failed to remove scratch directory", "path", tmpDir, "error", err)
		}
	}()

	archivePath := filepath.Join(tmpDir, "tcell_full_v3.zip")
	if err := downloadArchive(url, archivePath); err != nil {
		return nil, err
	}

	records, err := readArchive(archivePath)
	if err != nil {
		return nil, err
	}

	epitopes := FilterEpitopes(records)

	logging.Info("Epitope dataset built",
		"raw_records", len(records),
		"epitopes", len(epitopes),
		"duration", time.Since(start).String())

	return epitopes, nil
}

// BuildDataset runs the full pipeline and writes iedb_immepitopes.csv into
// destDir. Nothing is written when any stage fails.
func BuildDataset(url string, destDir string) ([]entities.Epitope, error) {
	epitopes, err := ParseAllEpitopes(url)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(destDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create destination directory %s: %w", destDir, err)
	}

	outPath := filepath.Join(destDir, DatasetFileName)
	if err := WriteDatasetFile(outPath, epitopes); err != nil {
		return nil, err
	}

	logging.Info("Dataset written", "path", outPath, "epitopes", len(epitopes))
	return epitopes, nil
}

// Compile-time check to ensure EpitopeParser implements Parser interface
var _ interfaces.Parser = (*EpitopeParser)(nil)

// EpitopeParser implements the Parser interface around the package-level
// pipeline. An empty DatasetURL means the public IEDB export.
type EpitopeParser struct {
	DatasetURL string
}

// NewEpitopeParser creates a parser pointed at the public IEDB export
func NewEpitopeParser() *EpitopeParser {
	return &EpitopeParser{DatasetURL: DefaultDatasetURL}
}

// ParseAllEpitopes implements the Parser interface
func (p *EpitopeParser) ParseAllEpitopes() ([]entities.Epitope, error) {
	url := p.DatasetURL
	if url == "" {
		url = DefaultDatasetURL
	}
	return ParseAllEpitopes(url)
}
