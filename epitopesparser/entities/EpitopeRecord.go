package entities

// EpitopeRecord is a raw IEDB T-cell assay row, flattened from the
// archive's two-level (category, field) column layout.
type EpitopeRecord struct {
	ObjectType         string  `json:"objectType"`
	OrganismName       string  `json:"organismName"`
	Description        string  `json:"description"`
	ParentProteinIRI   string  `json:"parentProteinIRI"`
	HostName           string  `json:"hostName"`
	ProcessType        string  `json:"processType"`
	QualitativeMeasure string  `json:"qualitativeMeasure"`
	ResponseFrequency  float64 `json:"responseFrequency"`
	HasFrequency       bool    `json:"hasFrequency"`
	AlleleName         string  `json:"alleleName"`
}
