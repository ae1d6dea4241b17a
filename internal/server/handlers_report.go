package server

import (
	"io"
	"net/http"
	"strings"
)

// maxReportUpload bounds one multipart upload (all PDFs together).
const maxReportUpload = 64 << 20 // 64MB

// handleReports handles POST /api/reports: a multipart upload of quarterly
// earnings report PDFs, one part per quarter, field name = quarter label.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Report == nil {
		WriteError(w, http.StatusServiceUnavailable, "Report analysis requires a Gemini API key")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxReportUpload)
	if err := r.ParseMultipartForm(maxReportUpload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart upload: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	reports := make(map[string]io.ReaderAt)
	sizes := make(map[string]int64)
	for field, headers := range r.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}
		header := headers[0]
		if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			WriteError(w, http.StatusBadRequest, "Only PDF uploads are supported: "+header.Filename)
			return
		}
		file, err := header.Open()
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Could not read upload "+header.Filename)
			return
		}
		defer file.Close()

		reports[field] = file
		sizes[field] = header.Size
	}

	if len(reports) == 0 {
		WriteError(w, http.StatusBadRequest, "No report files in upload")
		return
	}

	analysis, err := s.app.Report.Analyse(r.Context(), reports, sizes)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, analysis)
}
