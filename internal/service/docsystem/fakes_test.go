package docsystem

import (
	"archive/zip"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jonatjano/HostMyDocs/internal/domain"
	models "github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"
	"github.com/jonatjano/HostMyDocs/internal/domain/repositories"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory store enforcing the same unique keys as the SQL schema
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	projects  []models.Project
	versions  []models.Version
	languages []models.Language
}

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) counts() (int, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.projects), len(s.versions), len(s.languages)
}

// ExecTx snapshots the store and restores it when fn fails
func (s *memStore) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	s.mu.Lock()
	projects := append([]models.Project(nil), s.projects...)
	versions := append([]models.Version(nil), s.versions...)
	languages := append([]models.Language(nil), s.languages...)
	nextID := s.nextID
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.projects, s.versions, s.languages, s.nextID = projects, versions, languages, nextID
		s.mu.Unlock()
		return err
	}
	return nil
}

type memProjectRepo struct{ s *memStore }

func (r memProjectRepo) FindByName(_ context.Context, name string) ([]models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Project
	for _, p := range r.s.projects {
		if p.Name == name {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memProjectRepo) Create(_ context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.projects {
		if p.Name == project.Name {
			return &domain.ConflictError{Message: "project exists", ResourceType: "project"}
		}
	}
	project.ID = r.s.id()
	r.s.projects = append(r.s.projects, *project)
	return nil
}

func (r memProjectRepo) List(context.Context) ([]models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]models.Project(nil), r.s.projects...), nil
}

type memVersionRepo struct{ s *memStore }

func (r memVersionRepo) FindByNumber(_ context.Context, projectID int64, number string) ([]models.Version, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Version
	for _, v := range r.s.versions {
		if v.ProjectID == projectID && v.Number == number {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r memVersionRepo) Create(_ context.Context, version *models.Version) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.versions {
		if v.ProjectID == version.ProjectID && v.Number == version.Number {
			return &domain.ConflictError{Message: "version exists", ResourceType: "version"}
		}
	}
	version.ID = r.s.id()
	r.s.versions = append(r.s.versions, *version)
	return nil
}

func (r memVersionRepo) List(context.Context) ([]models.Version, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]models.Version(nil), r.s.versions...), nil
}

type memLanguageRepo struct{ s *memStore }

func (r memLanguageRepo) FindByName(_ context.Context, versionID int64, name string) ([]models.Language, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Language
	for _, l := range r.s.languages {
		if l.VersionID == versionID && l.Name == name {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r memLanguageRepo) ExistsByUUID(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.languages {
		if l.UUID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r memLanguageRepo) Create(_ context.Context, language *models.Language) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.languages {
		if (l.VersionID == language.VersionID && l.Name == language.Name) || l.UUID == language.UUID {
			return &domain.ConflictError{Message: "language exists", ResourceType: "language"}
		}
	}
	language.ID = r.s.id()
	r.s.languages = append(r.s.languages, *language)
	return nil
}

func (r memLanguageRepo) List(context.Context) ([]models.Language, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]models.Language(nil), r.s.languages...), nil
}

// zipEntry describes one entry of a test archive; names ending in "/" are folders
type zipEntry struct {
	name    string
	content string
}

// writeZip builds an archive in dir and returns its path
func writeZip(t *testing.T, dir, filename string, entries ...zipEntry) string {
	t.Helper()

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Store})
		require.NoError(t, err)
		if e.content != "" {
			_, err = io.WriteString(w, e.content)
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func docsArchive(t *testing.T, dir string) string {
	t.Helper()
	return writeZip(t, dir, "docs.zip",
		zipEntry{name: "docs/"},
		zipEntry{name: "docs/index.html", content: "<h1>acme</h1>"},
		zipEntry{name: "docs/css/"},
		zipEntry{name: "docs/css/style.css", content: "body{}"},
	)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
