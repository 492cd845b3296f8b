package docsystem

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Project is the root of the hierarchy, identified by its unique name
type Project struct {
	ID        int64     `json:"-" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// Validate implements validation.Validatable
func (p Project) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, projectNameRules...),
	)
}
