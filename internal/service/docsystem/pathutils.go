package docsystem

import (
	"path/filepath"
	"strings"

	"github.com/jonatjano/HostMyDocs/internal/domain"
)

// pathutils.go - Path construction shared by the extractor and the backup manager.
//
// Every path written by the pipeline is built from a trusted root and an
// untrusted name (an identifier or a zip entry). SecureJoin is the only place
// those two are combined.

// SecureJoin joins name under root and rejects results that leave root.
//
// Examples:
//   - SecureJoin("/data/docs", "api/index.html") → "/data/docs/api/index.html"
//   - SecureJoin("/data/docs", "../etc/passwd") → InvalidPathError
func SecureJoin(root, name string) (string, error) {
	if name == "" || strings.ContainsRune(name, 0) {
		return "", &domain.InvalidPathError{Path: name}
	}

	target := filepath.Join(root, filepath.FromSlash(name))

	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &domain.InvalidPathError{Path: name}
	}

	return target, nil
}

// ValidateIdentifier ensures identifier is a single path element that can name
// a folder or file directly under a root.
func ValidateIdentifier(identifier string) error {
	if identifier == "" ||
		identifier == "." ||
		identifier == ".." ||
		strings.ContainsAny(identifier, `/\`) ||
		strings.ContainsRune(identifier, 0) {
		return &domain.InvalidPathError{Path: identifier}
	}
	return nil
}
