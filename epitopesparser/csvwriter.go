package epitopesparser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/epibase/epitopes-api/epitopesparser/entities"
	"github.com/epibase/epitopes-api/logging"
)

// DatasetFileName is the fixed name of the exported training dataset.
const DatasetFileName = "iedb_immepitopes.csv"

var datasetHeader = []string{"Peptide", "Immunogenicity", "HLA_Allele", "Source_Protein", "Source_Name"}

// WriteDataset serializes the epitopes as comma-separated UTF-8 with a
// header row and no index column.
func WriteDataset(w io.Writer, epitopes []entities.Epitope) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(datasetHeader); err != nil {
		return fmt.Errorf("failed to write dataset header: %w", err)
	}

	for _, e := range epitopes {
		row := []string{e.Peptide, e.Immunogenicity, e.HLAAllele, e.SourceProtein, e.SourceName}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write dataset row: %w", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteDatasetFile writes the dataset to path, creating or truncating it.
func WriteDatasetFile(path string, epitopes []entities.Epitope) error {
	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file %s: %w", path, err)
	}
	defer func() {
		if err := outFile.Close(); err != nil {
			logging.Warn("Failed to close dataset file", "error", err)
		}
	}()

	return WriteDataset(outFile, epitopes)
}
