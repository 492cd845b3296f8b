package docsystem

import "context"

// IngestService runs the archive ingestion pipeline
type IngestService interface {
	// Ingest resolves (creating as needed) the hierarchy named by req, extracts the
	// archive under the Language UUID and backs the upload up.
	// A failed backup does not fail the call: the result reports it instead.
	Ingest(ctx context.Context, req *IngestRequest) (*IngestResult, error)
}

// IngestRequest names the hierarchy and carries the uploaded archive
type IngestRequest struct {
	Name     string
	Version  string
	Language string
	Archive  *UploadedFile
}

// BackupStatus reports the outcome of the backup step
type BackupStatus string

const (
	BackupStatusDone   BackupStatus = "done"
	BackupStatusFailed BackupStatus = "failed"
)

// IngestResult describes what an ingestion produced
type IngestResult struct {
	Project     string       `json:"name"`
	Version     string       `json:"version"`
	Language    string       `json:"language"`
	UUID        string       `json:"uuid"`
	IndexPath   string       `json:"indexPath"`
	ArchivePath string       `json:"archivePath"`
	Backup      BackupStatus `json:"backup"`
	Warning     string       `json:"warning,omitempty"`
}

// Partial reports whether the documentation is served but not backed up
func (r *IngestResult) Partial() bool {
	return r.Backup == BackupStatusFailed
}
