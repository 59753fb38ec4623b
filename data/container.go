// Package data provides thread-safe data storage and management for the
// epitopes API. It includes the DataContainer struct with atomic operations
// for zero-downtime updates and thread-safe access to the epitope dataset.
package data

import (
	"sync/atomic"
	"time"

	"github.com/epibase/epitopes-api/epitopesparser/entities"
	"github.com/epibase/epitopes-api/interfaces"
	"github.com/epibase/epitopes-api/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the dataset behind atomic pointers for zero-downtime updates
type DataContainer struct {
	epitopes        atomic.Value // []entities.Epitope
	epitopesMap     atomic.Value // map[string]entities.Epitope, keyed by peptide
	allelesMap      atomic.Value // map[string][]entities.Epitope, keyed by HLA allele
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a new DataContainer with empty data
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.epitopes.Store(make([]entities.Epitope, 0))
	dc.epitopesMap.Store(make(map[string]entities.Epitope))
	dc.allelesMap.Store(make(map[string][]entities.Epitope))
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// Thread-safe getters with type check

// GetEpitopes returns the epitope dataset
func (dc *DataContainer) GetEpitopes() []entities.Epitope {
	if v := dc.epitopes.Load(); v != nil {
		if epitopes, ok := v.([]entities.Epitope); ok {
			return epitopes
		}
	}

	logging.Warn("Epitopes list is empty or invalid")
	return []entities.Epitope{}
}

// GetEpitopesMap returns the peptide-keyed map for O(1) lookups
func (dc *DataContainer) GetEpitopesMap() map[string]entities.Epitope {
	if v := dc.epitopesMap.Load(); v != nil {
		if epitopesMap, ok := v.(map[string]entities.Epitope); ok {
			return epitopesMap
		}
	}

	logging.Warn("EpitopesMap is empty or invalid")
	return make(map[string]entities.Epitope)
}

// GetAllelesMap returns the allele-keyed map for O(1) lookups
func (dc *DataContainer) GetAllelesMap() map[string][]entities.Epitope {
	if v := dc.allelesMap.Load(); v != nil {
		if allelesMap, ok := v.(map[string][]entities.Epitope); ok {
			return allelesMap
		}
	}

	logging.Warn("AllelesMap is empty or invalid")
	return make(map[string][]entities.Epitope)
}

// GetLastUpdated returns the time of the last successful refresh
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// GetServerStartTime returns when the server process came up
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}
	return time.Time{}
}

// SetServerStartTime records the server start time
func (dc *DataContainer) SetServerStartTime(t time.Time) {
	dc.serverStartTime.Store(t)
}

// IsUpdating reports whether a refresh is in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// BeginUpdate marks a refresh as started; returns false when one is already running
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the running refresh as finished
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}

// UpdateData atomically swaps in a freshly built dataset (zero downtime
// replacement), deriving the peptide and allele lookup maps from it
func (dc *DataContainer) UpdateData(epitopes []entities.Epitope) {
	epitopesMap, allelesMap := buildIndexes(epitopes)

	dc.epitopes.Store(epitopes)
	dc.epitopesMap.Store(epitopesMap)
	dc.allelesMap.Store(allelesMap)
	dc.lastUpdated.Store(time.Now())
}

// buildIndexes derives the lookup maps for a dataset
func buildIndexes(epitopes []entities.Epitope) (map[string]entities.Epitope, map[string][]entities.Epitope) {
	epitopesMap := make(map[string]entities.Epitope, len(epitopes))
	allelesMap := make(map[string][]entities.Epitope)

	for _, e := range epitopes {
		if _, exists := epitopesMap[e.Peptide]; !exists {
			epitopesMap[e.Peptide] = e
		}
		if e.HLAAllele != "" {
			allelesMap[e.HLAAllele] = append(allelesMap[e.HLAAllele], e)
		}
	}

	return epitopesMap, allelesMap
}
