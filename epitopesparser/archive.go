package epitopesparser

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/epibase/epitopes-api/epitopesparser/entities"
	"github.com/epibase/epitopes-api/logging"
	"golang.org/x/text/encoding/charmap"
)

// Flattened "Category.Field" column names consumed from the export.
const (
	colObjectType         = "Epitope.Object Type"
	colOrganismName       = "Epitope.Organism Name"
	colDescription        = "Epitope.Description"
	colParentProteinIRI   = "Epitope.Parent Protein IRI"
	colHostName           = "Host.Name"
	colProcessType        = "1st in vivo Process.Process Type"
	colQualitativeMeasure = "Assay.Qualitative Measure"
	colResponseFrequency  = "Assay.Response Frequency"
	colAlleleName         = "MHC.Allele Name"
)

var requiredColumns = []string{
	colObjectType,
	colOrganismName,
	colDescription,
	colParentProteinIRI,
	colHostName,
	colProcessType,
	colQualitativeMeasure,
	colResponseFrequency,
	colAlleleName,
}

// readArchive opens the downloaded ZIP, locates the CSV inside and converts
// its rows into epitope records.
func readArchive(path string) ([]entities.EpitopeRecord, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer func() {
		if err := archive.Close(); err != nil {
			logging.Warn("Failed to close archive", "error", err)
		}
	}()

	var csvFile *zip.File
	for _, f := range archive.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			csvFile = f
			break
		}
	}
	if csvFile == nil {
		return nil, fmt.Errorf("archive %s contains no CSV file", path)
	}

	rc, err := csvFile.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in archive: %w", csvFile.Name, err)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			logging.Warn("Failed to close archive entry", "error", err)
		}
	}()

	bodyBytes, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", csvFile.Name, err)
	}

	// Some IEDB exports are not UTF-8; fall back to ISO-8859-1
	var reader io.Reader
	if utf8.Valid(bodyBytes) {
		reader = bytes.NewReader(bodyBytes)
	} else {
		reader = charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	}

	return readRecords(reader)
}

// readRecords parses the two-row-header CSV into epitope records.
func readRecords(r io.Reader) ([]entities.EpitopeRecord, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1

	categories, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read category header: %w", err)
	}
	fields, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read field header: %w", err)
	}

	columns, err := flattenHeader(categories, fields)
	if err != nil {
		return nil, err
	}

	var records []entities.EpitopeRecord
	lineCount := 0
	skippedShortRows := 0

	// The widest required column decides how many fields a row must carry
	maxIndex := 0
	for _, name := range requiredColumns {
		if columns[name] > maxIndex {
			maxIndex = columns[name]
		}
	}

	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read archive row: %w", err)
		}
		lineCount++

		if len(row) <= maxIndex {
			skippedShortRows++
			continue
		}

		record := entities.EpitopeRecord{
			ObjectType:         row[columns[colObjectType]],
			OrganismName:       row[columns[colOrganismName]],
			Description:        row[columns[colDescription]],
			ParentProteinIRI:   row[columns[colParentProteinIRI]],
			HostName:           row[columns[colHostName]],
			ProcessType:        row[columns[colProcessType]],
			QualitativeMeasure: row[columns[colQualitativeMeasure]],
			AlleleName:         row[columns[colAlleleName]],
		}

		if raw := strings.TrimSpace(row[columns[colResponseFrequency]]); raw != "" {
			if freq, err := strconv.ParseFloat(raw, 64); err == nil {
				record.ResponseFrequency = freq
				record.HasFrequency = true
			}
		}

		records = append(records, record)
	}

	if skippedShortRows > 0 {
		logging.Info("Archive row skip statistics",
			"short_rows", skippedShortRows,
			"total_rows", lineCount,
			"records_parsed", len(records))
	}

	return records, nil
}

// flattenHeader joins the two header rows into "Category.Field" column keys.
// Empty category cells inherit the previous category, matching the grouped
// layout of the export.
func flattenHeader(categories []string, fields []string) (map[string]int, error) {
	columns := make(map[string]int, len(fields))

	category := ""
	for i, field := range fields {
		if i < len(categories) && strings.TrimSpace(categories[i]) != "" {
			category = strings.TrimSpace(categories[i])
		}
		name := category + "." + strings.TrimSpace(field)
		if _, exists := columns[name]; !exists {
			columns[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	return columns, nil
}
