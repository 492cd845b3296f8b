package docsystem

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Version is a release of a Project. An empty Number means "no specific version".
type Version struct {
	ID        int64     `json:"-" db:"id"`
	ProjectID int64     `json:"-" db:"project_id"`
	Number    string    `json:"number" db:"number"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// Validate implements validation.Validatable
func (v Version) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.ProjectID, validation.Required),
		validation.Field(&v.Number, versionNumberRules...),
	)
}
