package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/Nomadcxx/neischeck/internal/logging"
	"github.com/Nomadcxx/neischeck/internal/reading"
	"github.com/Nomadcxx/neischeck/internal/records"
	"github.com/Nomadcxx/neischeck/internal/sheet"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5/middleware"
)

// uploadField is the multipart field carrying the spreadsheet.
const uploadField = "file"

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Timestamp: time.Now(),
	}
	status := http.StatusOK
	if !s.isHealthy() {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleValidateDates(w http.ResponseWriter, r *http.Request) {
	file, name, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	rep, err := s.checker.CheckDates(file, name)
	if err != nil {
		s.writeCheckError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleReadingDuplicates(w http.ResponseWriter, r *http.Request) {
	var threshold float64
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err == nil {
			err = reading.ValidateThreshold(v)
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_threshold",
				fmt.Sprintf("threshold must be a number in (0, 1], got %q", raw))
			return
		}
		threshold = v
	}

	file, name, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	rep, err := s.checker.CheckReading(file, name, threshold)
	if err != nil {
		s.writeCheckError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// readUpload buffers the request body up to the configured limit and returns
// the uploaded spreadsheet. On failure the response has been written.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (multipart.File, string, bool) {
	limit := int64(s.cfg.MaxUploadMB) << 20
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file_too_large",
				fmt.Sprintf("upload exceeds the %s limit", humanize.Bytes(uint64(limit))))
			return nil, "", false
		}
		writeError(w, http.StatusBadRequest, "missing_file", "unable to read request body")
		return nil, "", false
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if err := r.ParseMultipartForm(limit); err != nil {
		writeError(w, http.StatusBadRequest, "missing_file",
			fmt.Sprintf("expected a multipart upload with a %q field", uploadField))
		return nil, "", false
	}
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file",
			fmt.Sprintf("expected a multipart upload with a %q field", uploadField))
		return nil, "", false
	}
	if !sheet.IsSupported(header.Filename) {
		file.Close()
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_format",
			fmt.Sprintf("%s is not a supported spreadsheet (%v)", header.Filename, sheet.SupportedExtensions))
		return nil, "", false
	}

	s.logger.Debug("api", "Upload received",
		logging.F("request_id", middleware.GetReqID(r.Context())),
		logging.F("file", header.Filename),
		logging.F("size", humanize.Bytes(uint64(header.Size))))
	return file, header.Filename, true
}

func (s *Server) writeCheckError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		missing *sheet.MissingColumnError
		invalid *records.InvalidRowError
	)
	switch {
	case errors.As(err, &missing):
		writeError(w, http.StatusUnprocessableEntity, "missing_column", err.Error())
	case errors.As(err, &invalid):
		writeError(w, http.StatusUnprocessableEntity, "invalid_row", err.Error())
	case errors.Is(err, sheet.ErrUnsupportedFormat):
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_format", err.Error())
	case errors.Is(err, reading.ErrInvalidThreshold):
		writeError(w, http.StatusBadRequest, "invalid_threshold", err.Error())
	default:
		s.logger.Error("api", "Check failed", err,
			logging.F("request_id", middleware.GetReqID(r.Context())),
			logging.F("path", r.URL.Path))
		writeError(w, http.StatusInternalServerError, "processing_failed", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
