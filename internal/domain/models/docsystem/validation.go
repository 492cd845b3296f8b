package docsystem

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxNameLength bounds project names, version numbers and language names.
// Matches the VARCHAR(255) columns of both stores.
const MaxNameLength = 255

// pathSeparators are rejected in every natural key: names end up in URLs and
// on-disk lookups, so a separator would let a key address another subtree.
const pathSeparators = `/\`

// noPathSeparator rejects strings containing '/' or '\'
var noPathSeparator = validation.NewStringRule(func(s string) bool {
	return !strings.ContainsAny(s, pathSeparators)
}, "must not contain path separators")

var (
	projectNameRules   = []validation.Rule{validation.Required, validation.RuneLength(1, MaxNameLength), noPathSeparator}
	versionNumberRules = []validation.Rule{validation.RuneLength(0, MaxNameLength), noPathSeparator}
	languageNameRules  = []validation.Rule{validation.RuneLength(0, MaxNameLength), noPathSeparator}
)

// ValidateProjectName checks a project name without building a Project
func ValidateProjectName(name string) error {
	return validation.Validate(name, projectNameRules...)
}

// ValidateVersionNumber checks a version number. Empty is allowed.
func ValidateVersionNumber(number string) error {
	return validation.Validate(number, versionNumberRules...)
}

// ValidateLanguageName checks a language name. Empty is allowed.
func ValidateLanguageName(name string) error {
	return validation.Validate(name, languageNameRules...)
}
