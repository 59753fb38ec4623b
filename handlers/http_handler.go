// Package handlers provides HTTP request handlers for the epitopes API
// endpoints: dataset paging, peptide and allele lookup, CSV export and
// health checks, with input validation and consistent JSON responses.
package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/epibase/epitopes-api/epitopesparser"
	"github.com/epibase/epitopes-api/epitopesparser/entities"
	"github.com/epibase/epitopes-api/interfaces"
	"github.com/epibase/epitopes-api/logging"
	"github.com/go-chi/chi/v5"
)

// pageSize is the number of epitopes per page on /database/{pageNumber}
const pageSize = 100

// HTTPHandler serves the epitope dataset with injected dependencies
type HTTPHandler struct {
	dataStore interfaces.DataStore
	health    interfaces.HealthChecker
	validator interfaces.DataValidator
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(dataStore interfaces.DataStore, health interfaces.HealthChecker,
	validator interfaces.DataValidator) *HTTPHandler {
	return &HTTPHandler{
		dataStore: dataStore,
		health:    health,
		validator: validator,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandler) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandler) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// ServeAllEpitopes returns the full dataset
func (h *HTTPHandler) ServeAllEpitopes(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.dataStore.GetEpitopes())
}

// ServePagedEpitopes returns one page of the dataset
func (h *HTTPHandler) ServePagedEpitopes(w http.ResponseWriter, r *http.Request) {
	pageNumber := chi.URLParam(r, "pageNumber")
	page, err := strconv.Atoi(pageNumber)
	if err != nil || page < 1 {
		logging.Warn("Unusual user input", "pageNumber", pageNumber)
		h.RespondWithError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	epitopes := h.dataStore.GetEpitopes()
	start := (page - 1) * pageSize
	end := start + pageSize

	if start >= len(epitopes) {
		h.RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}

	if end > len(epitopes) {
		end = len(epitopes)
	}

	totalItems := len(epitopes)
	maxPage := (totalItems + pageSize - 1) / pageSize

	response := map[string]interface{}{
		"data":       epitopes[start:end],
		"page":       page,
		"pageSize":   pageSize,
		"totalItems": totalItems,
		"maxPage":    maxPage,
	}

	h.RespondWithJSON(w, http.StatusOK, response)
}

// FindEpitope looks up a single epitope by its exact peptide sequence
func (h *HTTPHandler) FindEpitope(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "peptide")

	peptide, err := h.validator.ValidatePeptide(raw)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	epitopesMap := h.dataStore.GetEpitopesMap()
	epitope, exists := epitopesMap[peptide]
	if !exists {
		h.RespondWithError(w, http.StatusNotFound, "Epitope not found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, epitope)
}

// FindByAllele returns every epitope presented by the given HLA allele
func (h *HTTPHandler) FindByAllele(w http.ResponseWriter, r *http.Request) {
	allele := chi.URLParam(r, "allele")
	if allele == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing allele name")
		return
	}

	if err := h.validator.ValidateInput(allele); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	allelesMap := h.dataStore.GetAllelesMap()
	epitopes, exists := allelesMap[allele]
	if !exists {
		h.RespondWithError(w, http.StatusNotFound, "No epitopes for allele")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, epitopes)
}

// FindByOrganism searches epitopes by source organism (case-insensitive partial match)
func (h *HTTPHandler) FindByOrganism(w http.ResponseWriter, r *http.Request) {
	organism := chi.URLParam(r, "organism")
	if organism == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing organism name")
		return
	}

	if err := h.validator.ValidateInput(organism); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Sanitize input
	needle := regexp.QuoteMeta(strings.ToLower(organism))

	var results []entities.Epitope
	for _, e := range h.dataStore.GetEpitopes() {
		if strings.Contains(strings.ToLower(e.SourceName), needle) {
			results = append(results, e)
		}
	}

	// Always return 200 with results array (empty if no matches)
	h.RespondWithJSON(w, http.StatusOK, results)
}

// ExportDataset streams the dataset as the canonical CSV file
func (h *HTTPHandler) ExportDataset(w http.ResponseWriter, r *http.Request) {
	epitopes := h.dataStore.GetEpitopes()
	if len(epitopes) == 0 {
		h.RespondWithError(w, http.StatusServiceUnavailable, "Dataset not loaded yet")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+epitopesparser.DatasetFileName+`"`)
	w.WriteHeader(http.StatusOK)

	if err := epitopesparser.WriteDataset(w, epitopes); err != nil {
		logging.Error("Failed to stream dataset export", "error", err)
	}
}

// HealthCheck reports dataset freshness and size
func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.health.HealthCheck()

	payload := map[string]any{
		"status": status,
	}
	for k, v := range details {
		payload[k] = v
	}

	h.RespondWithJSON(w, httpStatus, payload)
}
