// Package validation provides data validation functionality for the epitopes API.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/epibase/epitopes-api/epitopesparser/entities"
	"github.com/epibase/epitopes-api/interfaces"
	"github.com/epibase/epitopes-api/logging"
)

// Pre-compiled regex patterns, compiled once at package initialization
var (
	// Peptide sequences: the 20 standard amino acids plus the IUPAC
	// ambiguity codes B, J, X, Z and the rare U/O residues
	peptideRegex = regexp.MustCompile(`^[ACDEFGHIKLMNPQRSTVWYBJXZUO]+$`)

	// HLA allele names as reported by IEDB, e.g. HLA-A*02:01 or HLA-DRB1*04:05
	alleleRegex = regexp.MustCompile(`^[A-Za-z0-9\-\*:/ \.]+$`)

	// Input validation: alphanumeric plus the punctuation seen in peptides and alleles
	inputRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+\*:/_]+$`)

	// Dangerous substrings; strings.Contains is faster than regex here
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "onload=", "onerror=",
		"eval(", "expression(", "url(", "@import",
		"' or ", "\" or ", "union select", "drop table", "delete from",
		"insert into", "--", "/*", "*/", "exec(", "execute(",
		"; ", "| ", "& ", "`", "$(", "${",
		"../", "..\\", "%2e%2e", "file://",
	}
)

// maxPeptideLength caps user-supplied peptides; IEDB linear peptides stay
// well under this.
const maxPeptideLength = 100

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateEpitope checks if an epitope entity is valid
func (v *DataValidatorImpl) ValidateEpitope(e *entities.Epitope) error {
	if e == nil {
		return fmt.Errorf("epitope is nil")
	}

	if strings.TrimSpace(e.Peptide) == "" {
		return fmt.Errorf("empty peptide")
	}

	if len(e.Peptide) > maxPeptideLength {
		return fmt.Errorf("peptide too long: %d characters", len(e.Peptide))
	}

	if !peptideRegex.MatchString(strings.ToUpper(e.Peptide)) {
		return fmt.Errorf("peptide %q contains non-amino-acid characters", e.Peptide)
	}

	if strings.TrimSpace(e.Immunogenicity) == "" {
		return fmt.Errorf("empty immunogenicity label for peptide %s", e.Peptide)
	}

	if e.HLAAllele != "" && !alleleRegex.MatchString(e.HLAAllele) {
		return fmt.Errorf("malformed HLA allele %q for peptide %s", e.HLAAllele, e.Peptide)
	}

	if len(e.SourceName) > 200 {
		return fmt.Errorf("source organism name too long for peptide %s: %d characters", e.Peptide, len(e.SourceName))
	}

	return nil
}

// CheckDuplicateLabels verifies that no two rows share the same
// (peptide, immunogenicity) pair after final assembly.
func (v *DataValidatorImpl) CheckDuplicateLabels(epitopes []entities.Epitope) error {
	seen := make(map[[2]string]bool, len(epitopes))
	for _, e := range epitopes {
		key := [2]string{e.Peptide, e.Immunogenicity}
		if seen[key] {
			return fmt.Errorf("duplicate (peptide, immunogenicity) pair: (%s, %s)", e.Peptide, e.Immunogenicity)
		}
		seen[key] = true
	}
	return nil
}

// ValidateDataIntegrity performs comprehensive dataset validation
func (v *DataValidatorImpl) ValidateDataIntegrity(epitopes []entities.Epitope) error {
	if len(epitopes) == 0 {
		return fmt.Errorf("dataset is empty")
	}

	for i := range epitopes {
		if err := v.ValidateEpitope(&epitopes[i]); err != nil {
			return fmt.Errorf("invalid epitope at row %d: %w", i, err)
		}
	}

	if err := v.CheckDuplicateLabels(epitopes); err != nil {
		return err
	}

	return nil
}

// ReportDataQuality generates a data quality report with all issues found
func (v *DataValidatorImpl) ReportDataQuality(epitopes []entities.Epitope) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{}

	seen := make(map[[2]string]int, len(epitopes))
	for _, e := range epitopes {
		seen[[2]string{e.Peptide, e.Immunogenicity}]++

		if strings.TrimSpace(e.Immunogenicity) == "" {
			report.EmptyImmunogenicity++
		} else if e.Immunogenicity == "Negative" {
			report.NegativeCount++
		} else {
			report.PositiveCount++
		}

		if e.HLAAllele == "" {
			report.MissingAlleles++
		}
		if e.SourceProtein == "" {
			report.MissingSourceProteins++
		}
	}

	for key, count := range seen {
		if count > 1 {
			report.DuplicateLabels = append(report.DuplicateLabels, key)
		}
	}

	if len(report.DuplicateLabels) > 0 || report.EmptyImmunogenicity > 0 {
		logging.Warn("Data quality issues found",
			"duplicate_labels", len(report.DuplicateLabels),
			"empty_immunogenicity", report.EmptyImmunogenicity)
	}

	return report
}

// ValidateInput validates user input strings from URL parameters
func (v *DataValidatorImpl) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if len(input) > 200 {
		return fmt.Errorf("input too long: %d characters", len(input))
	}

	lowered := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			return fmt.Errorf("input contains forbidden pattern")
		}
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters")
	}

	return nil
}

// ValidatePeptide validates a peptide sequence from user input and returns
// its canonical uppercase form.
func (v *DataValidatorImpl) ValidatePeptide(input string) (string, error) {
	if err := v.ValidateInput(input); err != nil {
		return "", err
	}

	peptide := strings.ToUpper(strings.TrimSpace(input))
	if len(peptide) > maxPeptideLength {
		return "", fmt.Errorf("peptide too long: %d characters", len(peptide))
	}

	if !peptideRegex.MatchString(peptide) {
		return "", fmt.Errorf("peptide contains non-amino-acid characters")
	}

	return peptide, nil
}
