package docsystem

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonatjano/HostMyDocs/internal/domain"
	docsysSvc "github.com/jonatjano/HostMyDocs/internal/domain/services/docsystem"
)

// rootIndexPattern matches "<single folder>/index.html"
var rootIndexPattern = regexp.MustCompile(`^[^/]+/index\.html$`)

const (
	dirPerm  fs.FileMode = 0755
	filePerm fs.FileMode = 0644
)

// zipExtractor implements Extractor over the local storage tree.
//
// Layout produced for an archive containing "docs/index.html" and "docs/css/a.css":
//
//	storageRoot/<identifier>/index.html
//	storageRoot/<identifier>/css/a.css
type zipExtractor struct {
	storageRoot string
	logger      *slog.Logger
}

// NewExtractor creates an extractor writing under storageRoot
func NewExtractor(storageRoot string, logger *slog.Logger) docsysSvc.Extractor {
	return &zipExtractor{
		storageRoot: storageRoot,
		logger:      logger,
	}
}

// extractionEntry is a zip file paired with its destination on disk
type extractionEntry struct {
	file   *zip.File
	target string
}

// Inspect locates the documentation root of the archive without writing anything
func (e *zipExtractor) Inspect(archivePath string) (string, error) {
	reader, err := openArchive(archivePath)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	return findDocumentationRoot(reader.File)
}

// Extract replaces storageRoot/identifier with the archive's documentation root
func (e *zipExtractor) Extract(ctx context.Context, archivePath, identifier string) error {
	reader, err := openArchive(archivePath)
	if err != nil {
		e.logger.Warn("impossible to open archive file", "path", archivePath, "error", err)
		return err
	}
	defer reader.Close()

	zipRoot, err := findDocumentationRoot(reader.File)
	if err != nil {
		e.logger.Warn("archive has no usable documentation root", "path", archivePath, "error", err)
		return err
	}

	if err := ValidateIdentifier(identifier); err != nil {
		e.logger.Warn("extract path contains invalid characters", "identifier", identifier)
		return err
	}
	destination := filepath.Join(e.storageRoot, identifier)

	// Resolve every target before mutating the disk so a zip-slip entry
	// leaves the previous extraction untouched.
	entries, err := planExtraction(reader.File, zipRoot, destination)
	if err != nil {
		e.logger.Warn("archive entry escapes destination", "path", archivePath, "error", err)
		return err
	}

	if err := os.RemoveAll(destination); err != nil {
		return &domain.IOError{Op: "remove previous extraction", Path: destination, Err: err}
	}

	if err := os.MkdirAll(destination, dirPerm); err != nil {
		e.logger.Error("failed to create folder", "path", destination, "error", err)
		return &domain.IOError{Op: "create folder", Path: destination, Err: err}
	}

	e.logger.Info("extracting archive",
		"archive", archivePath,
		"root", zipRoot,
		"destination", destination,
		"entries", len(entries),
	)

	for _, entry := range entries {
		err := ctx.Err()
		if err == nil {
			err = writeEntry(entry)
		}
		if err != nil {
			e.discardPartial(destination)
			return err
		}
	}

	return nil
}

// discardPartial removes a half-written extraction. The previous content is
// already gone, and a new identifier is dropped with the rolled-back row.
func (e *zipExtractor) discardPartial(destination string) {
	if err := os.RemoveAll(destination); err != nil {
		e.logger.Error("failed to remove partial extraction", "path", destination, "error", err)
		return
	}
	e.logger.Warn("partial extraction removed", "path", destination)
}

// openArchive opens archivePath after checking it is a regular file
func openArchive(archivePath string) (*zip.ReadCloser, error) {
	info, err := os.Stat(archivePath)
	if err != nil {
		return nil, &domain.ArchiveInvalidError{Message: "archive is not readable", Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &domain.ArchiveInvalidError{Message: "archive is not a regular file"}
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, &domain.ArchiveInvalidError{Message: "archive cannot be opened", Err: err}
	}
	return reader, nil
}

// findDocumentationRoot returns the folder holding the single top-level index.html
func findDocumentationRoot(files []*zip.File) (string, error) {
	var candidates []string
	for _, f := range files {
		if rootIndexPattern.MatchString(f.Name) {
			candidates = append(candidates, f.Name)
		}
	}

	switch len(candidates) {
	case 0:
		return "", &domain.NoRootFoundError{}
	case 1:
		root, _, _ := strings.Cut(candidates[0], "/")
		return root, nil
	default:
		return "", &domain.AmbiguousRootError{Candidates: candidates}
	}
}

// planExtraction maps every entry under zipRoot/ to its destination path
func planExtraction(files []*zip.File, zipRoot, destination string) ([]extractionEntry, error) {
	prefix := zipRoot + "/"

	var entries []extractionEntry
	for _, f := range files {
		rel, ok := strings.CutPrefix(f.Name, prefix)
		if !ok || rel == "" {
			continue
		}

		target, err := SecureJoin(destination, rel)
		if err != nil {
			return nil, err
		}
		entries = append(entries, extractionEntry{file: f, target: target})
	}
	return entries, nil
}

// writeEntry materializes one zip entry
func writeEntry(entry extractionEntry) error {
	if entry.file.FileInfo().IsDir() {
		if err := os.MkdirAll(entry.target, dirPerm); err != nil {
			return &domain.IOError{Op: "create folder", Path: entry.target, Err: err}
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(entry.target), dirPerm); err != nil {
		return &domain.IOError{Op: "create folder", Path: filepath.Dir(entry.target), Err: err}
	}

	src, err := entry.file.Open()
	if err != nil {
		return &domain.IOError{Op: "open entry", Path: entry.file.Name, Err: err}
	}
	defer src.Close()

	dst, err := os.OpenFile(entry.target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return &domain.IOError{Op: "create file", Path: entry.target, Err: err}
	}

	_, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		return &domain.IOError{Op: "write file", Path: entry.target, Err: fmt.Errorf("extract %s: %w", entry.file.Name, err)}
	}
	return nil
}
