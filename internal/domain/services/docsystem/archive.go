package docsystem

import "context"

// ArchiveValidator checks that a file is a structurally sound zip archive.
// Malformed input is an expected case: IsValid never errors, it reports false.
type ArchiveValidator interface {
	IsValid(path string) bool
}

// Extractor materializes the documentation root of an archive into the storage tree
type Extractor interface {
	// Inspect locates the single documentation root without touching the disk.
	// Returns the root folder name inside the archive.
	Inspect(archivePath string) (string, error)

	// Extract replaces storageRoot/identifier with the archive's documentation root
	Extract(ctx context.Context, archivePath, identifier string) error
}

// BackupManager persists the original upload as archiveRoot/identifier.zip
type BackupManager interface {
	Backup(ctx context.Context, uploadPath, identifier string) error
}
