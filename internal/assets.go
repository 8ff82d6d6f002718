package internal

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"asset-tracking-api/internal/models"
	"asset-tracking-api/internal/sheets"
)

const maxImportBytes = 20 << 20 // 20 MB

// listAssets returns every asset record ordered by id
func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.Store.ListAssets(r.Context())
	if err != nil {
		s.storeFailed(w, r, "list", err)
		return
	}
	s.Metrics.ObserveStore("list", "ok")
	writeJSON(w, http.StatusOK, assets)
}

// getAsset handles getting a single asset by ID
func (s *Server) getAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(r)
	if !ok {
		badRequest(w, "invalid asset id")
		return
	}

	a, err := s.Store.GetAsset(r.Context(), id)
	if err != nil {
		s.storeFailed(w, r, "get", err)
		return
	}
	s.Metrics.ObserveStore("get", "ok")
	writeJSON(w, http.StatusOK, a)
}

// createAsset inserts a record and returns its generated id
func (s *Server) createAsset(w http.ResponseWriter, r *http.Request) {
	var in models.AssetInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := models.Validate(in); err != nil {
		badRequest(w, err.Error())
		return
	}

	id, err := s.Store.CreateAsset(r.Context(), in)
	if err != nil {
		s.storeFailed(w, r, "create", err)
		return
	}
	s.Metrics.ObserveStore("create", "ok")
	writeJSON(w, http.StatusCreated, models.MessageResponse{Message: "Asset Added Successfully", ID: &id})
}

// updateAsset replaces every field of an existing record
func (s *Server) updateAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(r)
	if !ok {
		badRequest(w, "invalid asset id")
		return
	}

	var in models.AssetInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := models.Validate(in); err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := s.Store.UpdateAsset(r.Context(), id, in); err != nil {
		s.storeFailed(w, r, "update", err)
		return
	}
	s.Metrics.ObserveStore("update", "ok")
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Asset Updated Successfully"})
}

func (s *Server) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(r)
	if !ok {
		badRequest(w, "invalid asset id")
		return
	}

	if err := s.Store.DeleteAsset(r.Context(), id); err != nil {
		s.storeFailed(w, r, "delete", err)
		return
	}
	s.Metrics.ObserveStore("delete", "ok")
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Asset Deleted Successfully"})
}

// exportAssets downloads every record as an .xlsx workbook
func (s *Server) exportAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.Store.ListAssets(r.Context())
	if err != nil {
		s.storeFailed(w, r, "export", err)
		return
	}

	var buf bytes.Buffer
	if err := sheets.ExportAssets(&buf, assets); err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "export: "+err.Error())
		return
	}
	s.Metrics.ObserveStore("export", "ok")
	writeWorkbook(w, &buf)
}

// importAssets creates records from an uploaded .xlsx workbook. Form fields:
// file (required), mapping (optional YAML), dry_run, max_errors.
func (s *Server) importAssets(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		badRequest(w, "content-type must be multipart/form-data")
		return
	}
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		badRequest(w, "invalid multipart form: "+err.Error())
		return
	}

	opts := sheets.ImportOptions{
		DryRun:    r.FormValue("dry_run") == "true",
		MaxErrors: 50,
	}
	if v := r.FormValue("max_errors"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.MaxErrors = n
		}
	}

	if mf, _, err := r.FormFile("mapping"); err == nil {
		defer mf.Close()
		var mb bytes.Buffer
		if _, err := mb.ReadFrom(mf); err != nil {
			badRequest(w, "invalid mapping: "+err.Error())
			return
		}
		mapping, err := sheets.ParseMapping(mb.Bytes())
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		opts.Mapping = mapping
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "file is required: "+err.Error())
		return
	}
	defer file.Close()

	if !isXLSX(header) {
		badRequest(w, "only .xlsx files are accepted")
		return
	}

	sum, impErr := sheets.ImportAssets(r.Context(), s.Store, file, opts)
	s.Log.Info("asset import",
		"sheet", sum.Sheet,
		"inserted", sum.Inserted,
		"skipped", sum.Skipped,
		"errors", sum.Errors,
		"dry_run", sum.DryRun,
		"request_id", RequestIDFromContext(r.Context()),
	)
	if impErr != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": impErr.Error(),
			"code":  codeImportFailed,
			"data":  sum,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": sum,
		"meta": map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// isXLSX checks if the uploaded file is an Excel .xlsx file
func isXLSX(h *multipart.FileHeader) bool {
	return strings.HasSuffix(strings.ToLower(h.Filename), ".xlsx")
}

func writeWorkbook(w http.ResponseWriter, buf *bytes.Buffer) {
	name := sheets.FileName("asset-tracking", time.Now())
	w.Header().Set("Content-Type", sheets.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
