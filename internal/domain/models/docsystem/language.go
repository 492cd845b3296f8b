package docsystem

import (
	"path"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Language is a localized documentation variant of a Version.
// UUID names both the extracted documentation folder and the backup archive;
// it is assigned once, at creation.
type Language struct {
	ID        int64     `json:"-" db:"id"`
	VersionID int64     `json:"-" db:"version_id"`
	Name      string    `json:"name" db:"name"`
	UUID      string    `json:"-" db:"uuid"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// Validate implements validation.Validatable
func (l Language) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.VersionID, validation.Required),
		validation.Field(&l.Name, languageNameRules...),
		validation.Field(&l.UUID, validation.Required, noPathSeparator),
	)
}

// PathContext carries the roots used to derive client-facing paths.
// It is passed to View explicitly and never stored on entities.
type PathContext struct {
	StorageRoot string
	ArchiveRoot string
}

// IndexPath returns storageRoot/uuid/index.html
func (pc PathContext) IndexPath(uuid string) string {
	return path.Join(pc.StorageRoot, uuid, "index.html")
}

// ArchivePath returns archiveRoot/uuid.zip
func (pc PathContext) ArchivePath(uuid string) string {
	return path.Join(pc.ArchiveRoot, uuid+".zip")
}

// LanguageView is the serialized form of a Language.
// Path fields are omitted while no UUID is assigned.
type LanguageView struct {
	Name        string `json:"name"`
	IndexPath   string `json:"indexPath,omitempty"`
	ArchivePath string `json:"archivePath,omitempty"`
}

// View renders the language against the given roots
func (l Language) View(pc PathContext) LanguageView {
	view := LanguageView{Name: l.Name}
	if l.UUID != "" {
		view.IndexPath = pc.IndexPath(l.UUID)
		view.ArchivePath = pc.ArchivePath(l.UUID)
	}
	return view
}
