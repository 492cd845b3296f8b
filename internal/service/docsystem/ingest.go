package docsystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonatjano/HostMyDocs/internal/domain"
	models "github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"
	"github.com/jonatjano/HostMyDocs/internal/domain/repositories"
	docsysSvc "github.com/jonatjano/HostMyDocs/internal/domain/services/docsystem"
	"github.com/jonatjano/HostMyDocs/internal/observability"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// IngestDependencies groups the collaborators of the ingest service
type IngestDependencies struct {
	Hierarchy docsysSvc.HierarchyService
	Validator docsysSvc.ArchiveValidator
	Extractor docsysSvc.Extractor
	Backup    docsysSvc.BackupManager
	TxManager repositories.TransactionManager
	Cache     docsysSvc.ListingCache // optional
	Paths     models.PathContext
	Metrics   *observability.Metrics // optional
	Logger    *slog.Logger
}

// ingestService implements the IngestService interface.
//
// Pipeline, stopping at the first failure:
//
//	request params → archive validity → documentation root
//	→ [tx: project → version → language (uuid) → extraction]
//	→ backup (failure downgrades the result to partial)
type ingestService struct {
	deps IngestDependencies
}

// NewIngestService creates a new ingest service
func NewIngestService(deps IngestDependencies) docsysSvc.IngestService {
	if deps.Cache == nil {
		deps.Cache = noopListingCache{}
	}
	return &ingestService{deps: deps}
}

// Ingest runs the pipeline and records its outcome
func (s *ingestService) Ingest(ctx context.Context, req *docsysSvc.IngestRequest) (*docsysSvc.IngestResult, error) {
	start := time.Now()

	result, err := s.ingest(ctx, req)

	var size int64
	if req != nil && req.Archive != nil {
		size = req.Archive.Size
	}
	s.deps.Metrics.ObserveIngestion(outcome(result, err), time.Since(start), size)

	return result, err
}

func (s *ingestService) ingest(ctx context.Context, req *docsysSvc.IngestRequest) (*docsysSvc.IngestResult, error) {
	logger := s.deps.Logger

	if err := validateIngestRequest(req); err != nil {
		logger.Info("ingestion rejected", "reason", err)
		return nil, err
	}
	archivePath := req.Archive.Path

	if !s.deps.Validator.IsValid(archivePath) {
		return nil, &domain.ArchiveInvalidError{Message: "Archive is not valid"}
	}

	zipRoot, err := s.deps.Extractor.Inspect(archivePath)
	if err != nil {
		logger.Info("ingestion rejected", "reason", err)
		return nil, err
	}

	logger.Info("parameters ok",
		"name", req.Name,
		"version", req.Version,
		"language", req.Language,
		"archive", req.Archive.Filename,
		"root", zipRoot,
	)

	var language *models.Language
	err = s.deps.TxManager.ExecTx(ctx, func(txCtx context.Context) error {
		project, err := s.deps.Hierarchy.ResolveProject(txCtx, req.Name, true)
		if err != nil {
			return fmt.Errorf("resolve project: %w", err)
		}

		version, err := s.deps.Hierarchy.ResolveVersion(txCtx, project, req.Version, true)
		if err != nil {
			return fmt.Errorf("resolve version: %w", err)
		}

		language, err = s.deps.Hierarchy.ResolveLanguage(txCtx, version, req.Language, true)
		if err != nil {
			return fmt.Errorf("resolve language: %w", err)
		}

		logger.Info("extracting the archive", "uuid", language.UUID)
		if err := s.deps.Extractor.Extract(txCtx, archivePath, language.UUID); err != nil {
			return fmt.Errorf("extract archive: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Warn("ingestion failed", "name", req.Name, "error", err)
		return nil, err
	}

	result := &docsysSvc.IngestResult{
		Project:     req.Name,
		Version:     req.Version,
		Language:    req.Language,
		UUID:        language.UUID,
		IndexPath:   s.deps.Paths.IndexPath(language.UUID),
		ArchivePath: s.deps.Paths.ArchivePath(language.UUID),
		Backup:      docsysSvc.BackupStatusDone,
	}

	if err := s.deps.Backup.Backup(ctx, archivePath, language.UUID); err != nil {
		logger.Error("documentation extracted but not backed up",
			"uuid", language.UUID,
			"error", err,
		)
		result.Backup = docsysSvc.BackupStatusFailed
		result.Warning = err.Error()
	}

	if err := s.deps.Cache.Invalidate(ctx); err != nil {
		logger.Warn("listing cache invalidation failed", "error", err)
	}

	logger.Info("project added",
		"name", req.Name,
		"version", req.Version,
		"language", req.Language,
		"uuid", language.UUID,
		"backup", result.Backup,
	)

	return result, nil
}

// validateIngestRequest checks request parameters, then the archive's presence
func validateIngestRequest(req *docsysSvc.IngestRequest) error {
	if req == nil {
		return &domain.ValidationError{Message: "No parameters found"}
	}

	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required.Error("miss the name parameter")),
	)
	if err != nil {
		return &domain.ValidationError{Message: strings.TrimSuffix(err.Error(), ".")}
	}

	if req.Archive == nil || req.Archive.Path == "" {
		return &domain.ValidationError{Message: "No file provided"}
	}
	return nil
}

// outcome classifies a pipeline run for metrics
func outcome(result *docsysSvc.IngestResult, err error) string {
	var httpErr domain.HTTPError
	switch {
	case err == nil && result != nil && result.Partial():
		return observability.OutcomePartial
	case err == nil:
		return observability.OutcomeSuccess
	case errors.As(err, &httpErr) && httpErr.StatusCode() < 500:
		return observability.OutcomeRejected
	default:
		return observability.OutcomeFailed
	}
}
