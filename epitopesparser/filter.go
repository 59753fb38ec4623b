package epitopesparser

import (
	"sort"
	"strings"

	"github.com/epibase/epitopes-api/epitopesparser/entities"
)

// Hosts whose assays count as human responses.
var acceptedHosts = map[string]bool{
	"Homo sapiens":           true,
	"Homo sapiens Black":     true,
	"Homo sapiens Caucasian": true,
}

const (
	objectTypeLinearPeptide  = "Linear peptide"
	organismHuman            = "Homo sapiens"
	processInfectiousDisease = "Occurrence of infectious disease"
	measureNegative          = "Negative"

	// A duplicated peptide is resolved positive only when the assay's
	// response frequency clears this threshold.
	positiveFrequencyThreshold = 50.0
)

// FilterEpitopes reduces raw assay records to the clean training dataset:
// non-human linear peptides assayed in human hosts during infectious
// disease, deduplicated, with conflicting measurements per peptide resolved
// by the positive/negative tie-break.
func FilterEpitopes(records []entities.EpitopeRecord) []entities.Epitope {
	filtered := applyPredicates(records)
	filtered = dropExactDuplicates(filtered)
	resolved := resolveDuplicates(filtered)

	epitopes := make([]entities.Epitope, 0, len(resolved))
	for _, record := range resolved {
		epitopes = append(epitopes, project(record))
	}
	return epitopes
}

// applyPredicates keeps linear peptides of non-human origin, assayed in a
// human host, observed during an occurrence of infectious disease.
func applyPredicates(records []entities.EpitopeRecord) []entities.EpitopeRecord {
	var kept []entities.EpitopeRecord
	for _, r := range records {
		if r.ObjectType != objectTypeLinearPeptide {
			continue
		}
		if r.OrganismName == organismHuman {
			continue
		}
		if !acceptedHosts[r.HostName] {
			continue
		}
		if r.ProcessType != processInfectiousDisease {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// dropExactDuplicates removes rows repeating an already-seen
// (description, qualitative measure) pair, keeping the first occurrence.
func dropExactDuplicates(records []entities.EpitopeRecord) []entities.EpitopeRecord {
	seen := make(map[[2]string]bool, len(records))
	var kept []entities.EpitopeRecord
	for _, r := range records {
		key := [2]string{r.Description, r.QualitativeMeasure}
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, r)
	}
	return kept
}

// resolveDuplicates settles peptides measured more than once. Within the
// duplicated subset, a peptide is resolved by its first positive candidate
// (non-Negative measure with response frequency above the threshold,
// ordered by peptide then ascending frequency); peptides with no positive
// candidate fall back to their Negative row. Rows whose peptide appears
// only once pass through untouched, in the incoming order.
func resolveDuplicates(records []entities.EpitopeRecord) []entities.EpitopeRecord {
	counts := make(map[string]int, len(records))
	for _, r := range records {
		counts[r.Description]++
	}

	// Positive candidates among the duplicated rows, identified by their
	// position so the winning row can be recognized during assembly.
	type candidate struct {
		index     int
		frequency float64
	}
	var candidates []candidate
	for i, r := range records {
		if counts[r.Description] < 2 {
			continue
		}
		if r.QualitativeMeasure != measureNegative && r.HasFrequency && r.ResponseFrequency > positiveFrequencyThreshold {
			candidates = append(candidates, candidate{index: i, frequency: r.ResponseFrequency})
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		da, db := records[candidates[a].index].Description, records[candidates[b].index].Description
		if da != db {
			return da < db
		}
		return candidates[a].frequency < candidates[b].frequency
	})

	positiveIndex := make(map[int]bool, len(candidates))
	positiveDescription := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		desc := records[c.index].Description
		if positiveDescription[desc] {
			continue
		}
		positiveDescription[desc] = true
		positiveIndex[c.index] = true
	}

	var kept []entities.EpitopeRecord
	for i, r := range records {
		switch {
		case counts[r.Description] < 2:
			kept = append(kept, r)
		case positiveIndex[i]:
			kept = append(kept, r)
		case !positiveDescription[r.Description] && r.QualitativeMeasure == measureNegative:
			kept = append(kept, r)
		}
	}
	return kept
}

// project maps a raw record onto the five output columns. The source
// protein is the final path segment of the parent protein IRI; an absent
// IRI passes through the split unchanged.
func project(r entities.EpitopeRecord) entities.Epitope {
	segments := strings.Split(r.ParentProteinIRI, "/")
	return entities.Epitope{
		Peptide:        r.Description,
		Immunogenicity: r.QualitativeMeasure,
		HLAAllele:      r.AlleleName,
		SourceProtein:  segments[len(segments)-1],
		SourceName:     r.OrganismName,
	}
}
