package entities

// Epitope is one row of the clean training dataset: a linear peptide
// labeled by the qualitative immune response it provoked.
type Epitope struct {
	Peptide        string `json:"peptide"`
	Immunogenicity string `json:"immunogenicity"`
	HLAAllele      string `json:"hlaAllele"`
	SourceProtein  string `json:"sourceProtein"`
	SourceName     string `json:"sourceName"`
}
