// Package interfaces defines core abstractions for the epitopes API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"time"

	"github.com/epibase/epitopes-api/epitopesparser/entities"
)

// DataQualityReport summarizes issues found in a built dataset
type DataQualityReport struct {
	DuplicateLabels       [][2]string // (peptide, immunogenicity) pairs seen more than once
	EmptyImmunogenicity   int
	MissingAlleles        int // Rows without an HLA allele name
	MissingSourceProteins int // Rows whose parent protein IRI was absent
	PositiveCount         int
	NegativeCount         int
}

// DataStore defines the contract for data storage operations.
// It provides thread-safe access to the epitope dataset with atomic
// operations for zero-downtime updates.
type DataStore interface {
	// Data retrieval methods
	GetEpitopes() []entities.Epitope
	GetEpitopesMap() map[string]entities.Epitope
	GetAllelesMap() map[string][]entities.Epitope
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	// Data update methods. UpdateData swaps in a freshly built dataset and
	// derives the peptide and allele lookup maps from it.
	UpdateData(epitopes []entities.Epitope)
	BeginUpdate() bool
	EndUpdate()
}

// Parser defines the contract for building the epitope dataset from the
// remote IEDB archive.
type Parser interface {
	// ParseAllEpitopes downloads, filters and deduplicates the dataset
	ParseAllEpitopes() ([]entities.Epitope, error)
}

// Scheduler defines the contract for job scheduling and health monitoring.
// It manages automated dataset refreshes and system health checks.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextUpdate returns the next scheduled refresh time
	CalculateNextUpdate() time.Time
}

// DataValidator defines the contract for data validation operations.
type DataValidator interface {
	// ValidateEpitope checks if an epitope entity is valid
	ValidateEpitope(e *entities.Epitope) error

	// CheckDuplicateLabels verifies no two rows share (peptide, immunogenicity)
	CheckDuplicateLabels(epitopes []entities.Epitope) error

	// ValidateDataIntegrity performs comprehensive dataset validation
	ValidateDataIntegrity(epitopes []entities.Epitope) error

	// ReportDataQuality generates a data quality report with all issues found
	ReportDataQuality(epitopes []entities.Epitope) *DataQualityReport

	// ValidateInput validates user input strings
	ValidateInput(input string) error

	// ValidatePeptide validates a peptide sequence from user input
	ValidatePeptide(input string) (string, error)
}
