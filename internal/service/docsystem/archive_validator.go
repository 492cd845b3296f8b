package docsystem

import (
	"archive/zip"
	"io"
	"log/slog"

	docsysSvc "github.com/jonatjano/HostMyDocs/internal/domain/services/docsystem"
)

// zipArchiveValidator implements ArchiveValidator.
//
// Opening the central directory only proves the trailer is sane. To catch
// archives with a valid trailer but corrupted entries every file is read to EOF,
// which makes archive/zip verify its CRC-32 and declared size.
type zipArchiveValidator struct {
	maxUncompressedBytes uint64
	logger               *slog.Logger
}

// NewArchiveValidator creates a zip validator.
// maxUncompressedBytes caps the declared total size of all entries (0 = unlimited).
func NewArchiveValidator(maxUncompressedBytes uint64, logger *slog.Logger) docsysSvc.ArchiveValidator {
	return &zipArchiveValidator{
		maxUncompressedBytes: maxUncompressedBytes,
		logger:               logger,
	}
}

// IsValid reports whether path is a fully readable zip archive
func (v *zipArchiveValidator) IsValid(path string) bool {
	reader, err := zip.OpenReader(path)
	if err != nil {
		v.logger.Info("archive rejected: cannot open as zip", "path", path, "error", err)
		return false
	}
	defer reader.Close()

	var total uint64
	for _, entry := range reader.File {
		total += entry.UncompressedSize64
		if v.maxUncompressedBytes > 0 && total > v.maxUncompressedBytes {
			v.logger.Info("archive rejected: uncompressed size over limit",
				"path", path,
				"limit", v.maxUncompressedBytes,
			)
			return false
		}

		if entry.FileInfo().IsDir() {
			continue
		}

		if err := drainEntry(entry); err != nil {
			v.logger.Info("archive rejected: corrupt entry",
				"path", path,
				"entry", entry.Name,
				"error", err,
			)
			return false
		}
	}

	return true
}

// drainEntry reads an entry to EOF so checksum and size errors surface
func drainEntry(entry *zip.File) error {
	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	_, err = io.Copy(io.Discard, rc)
	return err
}
