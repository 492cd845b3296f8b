package httputil

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
)

// SpooledFile is a multipart file copied to local storage
type SpooledFile struct {
	Filename string
	Path     string
	Size     int64
}

// Remove deletes the spooled copy. A file that was already moved is not an error.
func (f *SpooledFile) Remove() error {
	if f == nil || f.Path == "" {
		return nil
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ParseMultipart limits the request body to maxBytes and parses it as a
// multipart form, keeping at most memoryBytes of file data in memory.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes, memoryBytes int64) error {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	return r.ParseMultipartForm(memoryBytes)
}

// IsTooLarge reports whether err came from a body exceeding the ParseMultipart limit
func IsTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// SpoolFormFile copies the named file field of a parsed multipart form into
// a new file under dir. Returns http.ErrMissingFile when the field is absent.
func SpoolFormFile(r *http.Request, field, dir string) (*SpooledFile, error) {
	if r.MultipartForm == nil {
		return nil, http.ErrNotMultipart
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, http.ErrMissingFile
	}
	return spool(headers[0], dir)
}

func spool(header *multipart.FileHeader, dir string) (*SpooledFile, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open form file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	dst, err := os.CreateTemp(dir, "upload-*.zip")
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}

	size, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("spool upload: %w", errors.Join(copyErr, closeErr))
	}

	return &SpooledFile{
		Filename: header.Filename,
		Path:     dst.Name(),
		Size:     size,
	}, nil
}
