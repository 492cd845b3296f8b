package docsystem

// ProjectView is a Project with its full Version/Language subtree
type ProjectView struct {
	Name     string        `json:"name"`
	Versions []VersionView `json:"versions"`
}

// VersionView is a Version with its Languages
type VersionView struct {
	Number    string         `json:"number"`
	Languages []LanguageView `json:"languages"`
}

// ListingSnapshot is a serialized listing together with its cache validator
type ListingSnapshot struct {
	Payload []byte
	ETag    string
}
