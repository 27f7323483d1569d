package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/RishabhSinha02/chronologicon/config"
	"github.com/RishabhSinha02/chronologicon/core/ingest"
	"github.com/RishabhSinha02/chronologicon/core/utils"
)

const maxUploadBytes = 64 << 20

type EventsHandler struct {
	cfg    config.IngestConfig
	ingest *ingest.Service
	logger *utils.Logger
}

func NewEventsHandler(cfg config.IngestConfig, svc *ingest.Service, logger *utils.Logger) *EventsHandler {
	return &EventsHandler{cfg: cfg, ingest: svc, logger: logger}
}

type ingestRequest struct {
	FilePath string `json:"filePath"`
}

type ingestResponse struct {
	Status  string `json:"status"`
	JobID   string `json:"jobId"`
	Message string `json:"message"`
}

// SubmitIngestion accepts either a JSON body naming a server-side file or a
// multipart upload carrying the file itself, and starts an asynchronous job.
func (h *EventsHandler) SubmitIngestion(w http.ResponseWriter, r *http.Request) {
	path, err := h.resolveSource(r)
	if err != nil {
		if errors.Is(err, errMissingFilePath) {
			writeError(w, http.StatusBadRequest, "filePath is required")
			return
		}
		h.logger.Errorf("ingest submit: %v", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	jobID := h.ingest.Submit(path)
	writeJSON(w, http.StatusAccepted, ingestResponse{
		Status:  "Ingestion started",
		JobID:   jobID,
		Message: "Check /api/events/ingestion-status/" + jobID + " for progress",
	})
}

var errMissingFilePath = errors.New("missing filePath")

func (h *EventsHandler) resolveSource(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		return h.saveUpload(r)
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return "", errMissingFilePath
	}
	if strings.TrimSpace(req.FilePath) == "" {
		return "", errMissingFilePath
	}
	return req.FilePath, nil
}

func (h *EventsHandler) saveUpload(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", errMissingFilePath
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", errMissingFilePath
	}
	defer file.Close()

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		return "", err
	}
	name := filepath.Base(header.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "upload.txt"
	}
	dst, err := os.CreateTemp(h.cfg.UploadDir, "*-"+name)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return dst.Name(), nil
}

func (h *EventsHandler) IngestionStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	job, ok := h.ingest.Job(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}
