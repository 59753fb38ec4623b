package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/epibase/epitopes-api/epitopesparser/entities"
	"github.com/epibase/epitopes-api/health"
	"github.com/epibase/epitopes-api/validation"
	"github.com/go-chi/chi/v5"
)

// stubStore implements the DataStore interface for handler tests
type stubStore struct {
	epitopes    []entities.Epitope
	lastUpdated time.Time
}

func (s *stubStore) GetEpitopes() []entities.Epitope { return s.epitopes }

func (s *stubStore) GetEpitopesMap() map[string]entities.Epitope {
	m := make(map[string]entities.Epitope, len(s.epitopes))
	for _, e := range s.epitopes {
		m[e.Peptide] = e
	}
	return m
}

func (s *stubStore) GetAllelesMap() map[string][]entities.Epitope {
	m := make(map[string][]entities.Epitope)
	for _, e := range s.epitopes {
		if e.HLAAllele != "" {
			m[e.HLAAllele] = append(m[e.HLAAllele], e)
		}
	}
	return m
}

func (s *stubStore) GetLastUpdated() time.Time     { return s.lastUpdated }
func (s *stubStore) IsUpdating() bool              { return false }
func (s *stubStore) GetServerStartTime() time.Time { return time.Time{} }
func (s *stubStore) UpdateData([]entities.Epitope) {}
func (s *stubStore) BeginUpdate() bool             { return true }
func (s *stubStore) EndUpdate()                    {}

func testDataset(n int) []entities.Epitope {
	epitopes := make([]entities.Epitope, 0, n)
	peptides := []string{"GILGFVFTL", "NLVPMVATV", "RAKFKQLL", "YLQPRTFLL", "KTWGQYWQV"}
	for i := 0; i < n; i++ {
		e := entities.Epitope{
			Peptide:        peptides[i%len(peptides)] + strings.Repeat("A", i/len(peptides)),
			Immunogenicity: "Positive",
			HLAAllele:      "HLA-A*02:01",
			SourceProtein:  "PR_000012345",
			SourceName:     "Influenza A virus",
		}
		epitopes = append(epitopes, e)
	}
	return epitopes
}

func newTestRouter(store *stubStore) chi.Router {
	validator := validation.NewDataValidator()
	checker := health.NewHealthChecker(store)
	handler := NewHTTPHandler(store, checker, validator)

	router := chi.NewRouter()
	router.Get("/database/{pageNumber}", handler.ServePagedEpitopes)
	router.Get("/database", handler.ServeAllEpitopes)
	router.Get("/epitope/{peptide}", handler.FindEpitope)
	router.Get("/allele/{allele}", handler.FindByAllele)
	router.Get("/organism/{organism}", handler.FindByOrganism)
	router.Get("/export/csv", handler.ExportDataset)
	router.Get("/health", handler.HealthCheck)
	return router
}

func TestServeAllEpitopes(t *testing.T) {
	store := &stubStore{epitopes: testDataset(5), lastUpdated: time.Now()}
	router := newTestRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/database", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []entities.Epitope
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("expected 5 epitopes, got %d", len(got))
	}
}

func TestServePagedEpitopes(t *testing.T) {
	store := &stubStore{epitopes: testDataset(250), lastUpdated: time.Now()}
	router := newTestRouter(store)

	tests := []struct {
		page     string
		wantCode int
		wantRows int
	}{
		{"1", http.StatusOK, 100},
		{"3", http.StatusOK, 50},
		{"4", http.StatusNotFound, 0},
		{"0", http.StatusBadRequest, 0},
		{"abc", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run("page "+tt.page, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", "/database/"+tt.page, nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			var payload struct {
				Data       []entities.Epitope `json:"data"`
				TotalItems int                `json:"totalItems"`
				MaxPage    int                `json:"maxPage"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("invalid JSON response: %v", err)
			}
			if len(payload.Data) != tt.wantRows {
				t.Errorf("expected %d rows, got %d", tt.wantRows, len(payload.Data))
			}
			if payload.TotalItems != 250 || payload.MaxPage != 3 {
				t.Errorf("unexpected paging metadata: %+v", payload)
			}
		})
	}
}

func TestFindEpitope(t *testing.T) {
	store := &stubStore{epitopes: testDataset(5), lastUpdated: time.Now()}
	router := newTestRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/epitope/GILGFVFTL", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got entities.Epitope
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if got.Peptide != "GILGFVFTL" {
		t.Errorf("expected GILGFVFTL, got %q", got.Peptide)
	}

	// Lookup is canonical on uppercase
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/epitope/gilgfvftl", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for lowercase peptide, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/epitope/WWWWWWWWW", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown peptide, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/epitope/GILG1FTL", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid peptide, got %d", rec.Code)
	}
}

func TestFindByAllele(t *testing.T) {
	store := &stubStore{epitopes: testDataset(3), lastUpdated: time.Now()}
	router := newTestRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/allele/HLA-A*02:01", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []entities.Epitope
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 epitopes, got %d", len(got))
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/allele/HLA-B*57:01", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown allele, got %d", rec.Code)
	}
}

func TestFindByOrganism(t *testing.T) {
	store := &stubStore{epitopes: testDataset(3), lastUpdated: time.Now()}
	router := newTestRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/organism/influenza", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []entities.Epitope
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 matches, got %d", len(got))
	}

	// No matches still answers 200 with an empty array
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/organism/plasmodium", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for empty result, got %d", rec.Code)
	}
}

func TestExportDataset(t *testing.T) {
	store := &stubStore{epitopes: testDataset(2), lastUpdated: time.Now()}
	router := newTestRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/export/csv", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv content type, got %q", ct)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if lines[0] != "Peptide,Immunogenicity,HLA_Allele,Source_Protein,Source_Name" {
		t.Errorf("unexpected CSV header: %q", lines[0])
	}
	if len(lines) != 3 {
		t.Errorf("expected header plus 2 rows, got %d lines", len(lines))
	}
}

func TestExportDatasetUnavailableWhenEmpty(t *testing.T) {
	store := &stubStore{lastUpdated: time.Now()}
	router := newTestRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/export/csv", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before the dataset is loaded, got %d", rec.Code)
	}
}

func TestHealthCheckEndpoint(t *testing.T) {
	store := &stubStore{epitopes: testDataset(1), lastUpdated: time.Now()}
	router := newTestRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if payload["status"] != "healthy" {
		t.Errorf("expected healthy, got %v", payload["status"])
	}
}
