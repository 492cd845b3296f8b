package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jonatjano/HostMyDocs/internal/domain"
	docsysSvc "github.com/jonatjano/HostMyDocs/internal/domain/services/docsystem"
	"github.com/jonatjano/HostMyDocs/internal/httputil"
)

// Multipart field names accepted by AddProject
const (
	fieldName     = "name"
	fieldVersion  = "version"
	fieldLanguage = "language"
	fieldArchive  = "archive"
)

// UploadConfig bounds and locates multipart uploads
type UploadConfig struct {
	Dir         string
	MaxBytes    int64
	MemoryBytes int64
}

// ProjectHandler handles documentation upload and listing requests
type ProjectHandler struct {
	ingestService  docsysSvc.IngestService
	listingService docsysSvc.ListingService
	upload         UploadConfig
	logger         *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(
	ingestService docsysSvc.IngestService,
	listingService docsysSvc.ListingService,
	upload UploadConfig,
	logger *slog.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		ingestService:  ingestService,
		listingService: listingService,
		upload:         upload,
		logger:         logger,
	}
}

// AddProject ingests an uploaded documentation archive.
// POST /addProject
//
// Multipart fields:
//   - name: required, project name
//   - version, language: optional
//   - archive: required, zip file holding one documentation root
//
// Answers 202 with a Warning header when the documentation is served but the
// archive could not be backed up.
func (h *ProjectHandler) AddProject(w http.ResponseWriter, r *http.Request) {
	err := httputil.ParseMultipart(w, r, h.upload.MaxBytes, h.upload.MemoryBytes)
	switch {
	case err == nil:
		defer r.MultipartForm.RemoveAll()
	case httputil.IsTooLarge(err):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("upload exceeds %d bytes", h.upload.MaxBytes))
		return
	case errors.Is(err, http.ErrNotMultipart):
		// No form at all: let the pipeline report the missing parameters
		h.ingest(w, r, nil)
		return
	default:
		handleError(w, h.logger, domain.NewValidationError("malformed multipart body: %v", err))
		return
	}

	req := &docsysSvc.IngestRequest{
		Name:     r.FormValue(fieldName),
		Version:  r.FormValue(fieldVersion),
		Language: r.FormValue(fieldLanguage),
	}

	spooled, err := httputil.SpoolFormFile(r, fieldArchive, h.upload.Dir)
	switch {
	case err == nil:
		defer func() {
			if rmErr := spooled.Remove(); rmErr != nil {
				h.logger.Warn("failed to remove upload", "path", spooled.Path, "error", rmErr)
			}
		}()
		req.Archive = &docsysSvc.UploadedFile{
			Filename: spooled.Filename,
			Path:     spooled.Path,
			Size:     spooled.Size,
		}
	case errors.Is(err, http.ErrMissingFile):
		// Archive stays nil and the pipeline rejects the request
	default:
		handleError(w, h.logger, fmt.Errorf("spool archive: %w", err))
		return
	}

	h.ingest(w, r, req)
}

func (h *ProjectHandler) ingest(w http.ResponseWriter, r *http.Request, req *docsysSvc.IngestRequest) {
	if req != nil {
		h.logger.Info("starting ingestion",
			"name", req.Name,
			"version", req.Version,
			"language", req.Language,
			"principal", httputil.GetPrincipal(r),
		)
	}

	result, err := h.ingestService.Ingest(r.Context(), req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if result.Partial() {
		w.Header().Set("Warning", fmt.Sprintf("199 - %q", result.Warning))
		httputil.RespondJSON(w, http.StatusAccepted, result)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// ListProjects returns every project with its versions and languages.
// GET /listProjects
//
// The response carries an ETag; a matching If-None-Match gets 304.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.listingService.Snapshot(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondCachedJSON(w, r, snapshot.Payload, snapshot.ETag)
}

// DeleteProject is declared but unsupported.
// DELETE /deleteProject
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	handleError(w, h.logger, fmt.Errorf("project deletion: %w", domain.ErrNotImplemented))
}
