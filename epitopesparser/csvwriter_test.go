package epitopesparser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/epibase/epitopes-api/epitopesparser/entities"
)

func TestWriteDataset(t *testing.T) {
	epitopes := []entities.Epitope{
		{Peptide: "GILGFVFTL", Immunogenicity: "Positive", HLAAllele: "HLA-A*02:01", SourceProtein: "PR_000012345", SourceName: "Influenza A virus"},
		{Peptide: "SIINFEKL", Immunogenicity: "Negative", HLAAllele: "", SourceProtein: "", SourceName: "Chicken ovalbumin, peptide"},
	}

	var buf bytes.Buffer
	if err := WriteDataset(&buf, epitopes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Peptide,Immunogenicity,HLA_Allele,Source_Protein,Source_Name" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	// Fields containing commas must be quoted
	if !strings.Contains(lines[2], `"Chicken ovalbumin, peptide"`) {
		t.Errorf("expected quoted source name, got %q", lines[2])
	}
}

func TestWriteDatasetEmptyKeepsHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDataset(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "Peptide,Immunogenicity,HLA_Allele,Source_Protein,Source_Name" {
		t.Errorf("expected only the header, got %q", buf.String())
	}
}
