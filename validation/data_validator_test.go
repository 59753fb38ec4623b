package validation

import (
	"strings"
	"testing"

	"github.com/epibase/epitopes-api/epitopesparser/entities"
)

func validEpitope() entities.Epitope {
	return entities.Epitope{
		Peptide:        "GILGFVFTL",
		Immunogenicity: "Positive",
		HLAAllele:      "HLA-A*02:01",
		SourceProtein:  "PR_000012345",
		SourceName:     "Influenza A virus",
	}
}

func TestValidateEpitope(t *testing.T) {
	v := NewDataValidator()

	tests := []struct {
		name    string
		mutate  func(*entities.Epitope)
		wantErr bool
	}{
		{"valid", func(e *entities.Epitope) {}, false},
		{"nil allele ok", func(e *entities.Epitope) { e.HLAAllele = "" }, false},
		{"lowercase peptide ok", func(e *entities.Epitope) { e.Peptide = "gilgfvftl" }, false},
		{"ambiguity codes ok", func(e *entities.Epitope) { e.Peptide = "GXLBFZFTJ" }, false},
		{"empty peptide", func(e *entities.Epitope) { e.Peptide = "" }, true},
		{"non amino acid", func(e *entities.Epitope) { e.Peptide = "GILG1FTL" }, true},
		{"peptide too long", func(e *entities.Epitope) { e.Peptide = strings.Repeat("A", 101) }, true},
		{"empty immunogenicity", func(e *entities.Epitope) { e.Immunogenicity = " " }, true},
		{"malformed allele", func(e *entities.Epitope) { e.HLAAllele = "HLA<script>" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEpitope()
			tt.mutate(&e)
			err := v.ValidateEpitope(&e)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEpitope() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := v.ValidateEpitope(nil); err == nil {
		t.Error("expected error for nil epitope")
	}
}

func TestCheckDuplicateLabels(t *testing.T) {
	v := NewDataValidator()

	unique := []entities.Epitope{
		{Peptide: "AAAA", Immunogenicity: "Positive"},
		{Peptide: "AAAA", Immunogenicity: "Negative"},
		{Peptide: "BBBB", Immunogenicity: "Positive"},
	}
	if err := v.CheckDuplicateLabels(unique); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	duplicated := append(unique, entities.Epitope{Peptide: "AAAA", Immunogenicity: "Positive"})
	if err := v.CheckDuplicateLabels(duplicated); err == nil {
		t.Error("expected error for duplicated (peptide, immunogenicity) pair")
	}
}

func TestValidateDataIntegrity(t *testing.T) {
	v := NewDataValidator()

	if err := v.ValidateDataIntegrity(nil); err == nil {
		t.Error("expected error for empty dataset")
	}

	good := []entities.Epitope{validEpitope()}
	if err := v.ValidateDataIntegrity(good); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := append(good, entities.Epitope{Peptide: "NOT A PEPTIDE!", Immunogenicity: "Positive"})
	if err := v.ValidateDataIntegrity(bad); err == nil {
		t.Error("expected error for invalid row")
	}
}

func TestReportDataQuality(t *testing.T) {
	v := NewDataValidator()

	epitopes := []entities.Epitope{
		{Peptide: "AAAA", Immunogenicity: "Positive", HLAAllele: "HLA-A*02:01", SourceProtein: "PR_1"},
		{Peptide: "BBBB", Immunogenicity: "Negative", HLAAllele: "", SourceProtein: ""},
		{Peptide: "CCCC", Immunogenicity: "Positive-High", HLAAllele: "HLA-B*07:02", SourceProtein: "PR_2"},
		{Peptide: "AAAA", Immunogenicity: "Positive", HLAAllele: "HLA-A*02:01", SourceProtein: "PR_1"},
	}

	report := v.ReportDataQuality(epitopes)

	if report.PositiveCount != 3 {
		t.Errorf("expected 3 positive rows, got %d", report.PositiveCount)
	}
	if report.NegativeCount != 1 {
		t.Errorf("expected 1 negative row, got %d", report.NegativeCount)
	}
	if report.MissingAlleles != 1 {
		t.Errorf("expected 1 missing allele, got %d", report.MissingAlleles)
	}
	if report.MissingSourceProteins != 1 {
		t.Errorf("expected 1 missing source protein, got %d", report.MissingSourceProteins)
	}
	if len(report.DuplicateLabels) != 1 {
		t.Errorf("expected 1 duplicate label pair, got %d", len(report.DuplicateLabels))
	}
}

func TestValidateInput(t *testing.T) {
	v := NewDataValidator()

	valid := []string{"GILGFVFTL", "HLA-A*02:01", "Influenza A virus", "HLA-DRB1*04:05"}
	for _, input := range valid {
		if err := v.ValidateInput(input); err != nil {
			t.Errorf("ValidateInput(%q) unexpected error: %v", input, err)
		}
	}

	invalid := []string{
		"",
		"   ",
		"<script>alert(1)</script>",
		"'; drop table epitopes--",
		"../../etc/passwd",
		strings.Repeat("A", 201),
	}
	for _, input := range invalid {
		if err := v.ValidateInput(input); err == nil {
			t.Errorf("ValidateInput(%q) expected error", input)
		}
	}
}

func TestValidatePeptide(t *testing.T) {
	v := NewDataValidator()

	peptide, err := v.ValidatePeptide("gilgfvftl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peptide != "GILGFVFTL" {
		t.Errorf("expected canonical uppercase form, got %q", peptide)
	}

	if _, err := v.ValidatePeptide("GILG1FTL"); err == nil {
		t.Error("expected error for digits in peptide")
	}
}
