package docsystem

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonatjano/HostMyDocs/internal/domain"
	docsysSvc "github.com/jonatjano/HostMyDocs/internal/domain/services/docsystem"
)

// fileBackupManager implements BackupManager on the local archive tree.
//
// The upload is renamed into place when possible. Renaming fails across
// filesystems (the upload dir is often tmpfs), in which case the file is copied
// next to its destination and renamed from there, so the backup never appears
// half-written.
type fileBackupManager struct {
	archiveRoot string
	rename      func(oldpath, newpath string) error
	logger      *slog.Logger
}

// NewBackupManager creates a backup manager writing under archiveRoot
func NewBackupManager(archiveRoot string, logger *slog.Logger) docsysSvc.BackupManager {
	return &fileBackupManager{
		archiveRoot: archiveRoot,
		rename:      os.Rename,
		logger:      logger,
	}
}

// Backup moves uploadPath to archiveRoot/identifier.zip
func (b *fileBackupManager) Backup(ctx context.Context, uploadPath, identifier string) error {
	if err := ValidateIdentifier(identifier); err != nil {
		return err
	}

	if err := os.MkdirAll(b.archiveRoot, dirPerm); err != nil {
		b.logger.Error("failed to create backup folder", "path", b.archiveRoot, "error", err)
		return &domain.IOError{Op: "create backup folder", Path: b.archiveRoot, Err: err}
	}

	destination := filepath.Join(b.archiveRoot, identifier+".zip")
	b.logger.Info("moving upload to backup folder", "destination", destination)

	renameErr := b.rename(uploadPath, destination)
	if renameErr == nil {
		return nil
	}

	b.logger.Warn("rename failed, falling back to copy",
		"source", uploadPath,
		"destination", destination,
		"error", renameErr,
	)

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := copyIntoPlace(uploadPath, destination); err != nil {
		b.logger.Error("failed twice to move uploaded file to backup folder",
			"source", uploadPath,
			"destination", destination,
			"error", err,
		)
		return &domain.BackupFailedError{Destination: destination, Err: errors.Join(renameErr, err)}
	}

	if err := os.Remove(uploadPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		b.logger.Warn("backup copied but upload could not be removed", "source", uploadPath, "error", err)
	}

	return nil
}

// copyIntoPlace copies src to a temp file beside dst, syncs it, then renames it
// onto dst. The temp file lives in dst's folder so the final rename is local.
func copyIntoPlace(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".backup-*.zip")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	_, copyErr := io.Copy(tmp, in)
	syncErr := tmp.Sync()
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, syncErr, closeErr); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Chmod(tmpPath, filePerm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
