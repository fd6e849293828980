package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/urjaconsultants/lead-pipeline/internal/apperrors"
	"github.com/urjaconsultants/lead-pipeline/internal/export"
	"github.com/urjaconsultants/lead-pipeline/internal/ingest"
	"github.com/urjaconsultants/lead-pipeline/internal/model"
	"github.com/urjaconsultants/lead-pipeline/internal/query"
	"github.com/urjaconsultants/lead-pipeline/pkg/logger"
	"github.com/urjaconsultants/lead-pipeline/pkg/utils"
)

type errorResponse struct {
	Error string `json:"error"`
}

type importResponse struct {
	Admitted int `json:"admitted"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	filters, view, err := parseListParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	leads, err := s.service.ListLeads(r.Context(), filters, view)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, leads)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	lead, err := s.service.GetLead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, lead)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var lead model.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid request body: %v", apperrors.ErrBadRequest, err))
		return
	}

	created, err := s.service.CreateLead(r.Context(), lead)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, created)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var lead model.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid request body: %v", apperrors.ErrBadRequest, err))
		return
	}
	lead.ID = chi.URLParam(r, "id")

	updated, err := s.service.UpdateLead(r.Context(), lead)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteLead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	if err := s.service.RestoreLead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePurge(w http.ResponseWriter, r *http.Request) {
	if err := s.service.PurgeLead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddActivity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid request body: %v", apperrors.ErrBadRequest, err))
		return
	}

	lead, err := s.service.AddActivity(r.Context(), chi.URLParam(r, "id"), body.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, lead)
}

// handleImport accepts a multipart upload with a "file" part containing a
// delimited table and streams it through the import pipeline.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxFileBytes)
	if err := r.ParseMultipartForm(s.maxFileBytes); err != nil {
		writeError(w, r, fmt.Errorf("%w: failed to parse upload: %v", apperrors.ErrBadRequest, err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: missing file part: %v", apperrors.ErrBadRequest, err))
		return
	}
	defer file.Close()

	admitted, err := s.service.ImportTable(r.Context(), ingest.NewCSVSource(file))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, importResponse{Admitted: admitted})
}

// handleExport streams the filtered, non-deleted leads as a CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filters, _, err := parseListParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	leads, err := s.service.ExportLeads(r.Context(), filters)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)
	if err := export.WriteCSV(w, leads); err != nil {
		logger.FromContext(r.Context()).Error("Failed to stream export", zap.Error(err))
	}
}

func (s *Server) handleSaveView(w http.ResponseWriter, r *http.Request) {
	var filters model.LeadFilters
	if err := json.NewDecoder(r.Body).Decode(&filters); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid request body: %v", apperrors.ErrBadRequest, err))
		return
	}

	if err := s.service.SaveView(r.Context(), chi.URLParam(r, "name"), filters); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLoadView(w http.ResponseWriter, r *http.Request) {
	filters, err := s.service.LoadView(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, filters)
}

func parseListParams(r *http.Request) (model.LeadFilters, query.View, error) {
	q := r.URL.Query()

	view := query.ViewFeed
	switch q.Get("view") {
	case "", "feed":
	case "archive":
		view = query.ViewArchive
	case "generic":
		view = query.ViewGeneric
	default:
		return model.LeadFilters{}, "", fmt.Errorf("%w: unknown view %q", apperrors.ErrBadRequest, q.Get("view"))
	}

	filters := model.LeadFilters{
		SearchTerm:        q.Get("search"),
		Discom:            q.Get("discom"),
		FollowUpDateStart: q.Get("followUpStart"),
		FollowUpDateEnd:   q.Get("followUpEnd"),
	}
	if raw := q.Get("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status := model.LeadStatus(strings.TrimSpace(part))
			if !status.IsValid() {
				return model.LeadFilters{}, "", fmt.Errorf("%w: unknown status %q", apperrors.ErrBadRequest, part)
			}
			filters.Status = append(filters.Status, status)
		}
	}
	return filters, view, nil
}

// writeError maps application errors onto HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsNotFoundError(err):
		status = http.StatusNotFound
	case apperrors.IsValidationError(err), apperrors.IsBadRequestError(err), apperrors.IsStructuralError(err):
		status = http.StatusBadRequest
	case apperrors.IsConflictError(err), apperrors.IsDuplicateError(err):
		status = http.StatusConflict
	case apperrors.IsUnauthorizedError(err):
		status = http.StatusForbidden
	case errors.Is(err, http.ErrMissingFile):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("Request failed", zap.Error(err))
	} else {
		logger.FromContext(r.Context()).Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	utils.WriteJSONResponse(w, status, errorResponse{Error: err.Error()})
}
