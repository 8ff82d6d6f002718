package internal

import (
	"bytes"
	"net/http"

	"asset-tracking-api/internal/models"
	"asset-tracking-api/internal/sheets"
)

// createEntry appends an immutable log record for an asset
func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	var e models.Entry
	if !decodeBody(w, r, &e) {
		return
	}
	if err := models.Validate(e); err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := s.Store.CreateEntry(r.Context(), e); err != nil {
		s.storeFailed(w, r, "create_entry", err)
		return
	}
	s.Metrics.ObserveStore("create_entry", "ok")
	writeJSON(w, http.StatusCreated, models.MessageResponse{Message: "Entry created successfully"})
}

// listAssetGroups returns entries grouped by asset id
func (s *Server) listAssetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.Store.ListAssetGroups(r.Context())
	if err != nil {
		s.storeFailed(w, r, "list_entries", err)
		return
	}
	s.Metrics.ObserveStore("list_entries", "ok")
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) exportEntries(w http.ResponseWriter, r *http.Request) {
	groups, err := s.Store.ListAssetGroups(r.Context())
	if err != nil {
		s.storeFailed(w, r, "export_entries", err)
		return
	}

	var buf bytes.Buffer
	if err := sheets.ExportEntries(&buf, groups); err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "export: "+err.Error())
		return
	}
	s.Metrics.ObserveStore("export_entries", "ok")
	writeWorkbook(w, &buf)
}
