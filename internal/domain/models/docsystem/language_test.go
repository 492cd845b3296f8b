package docsystem

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguage_View(t *testing.T) {
	pc := PathContext{StorageRoot: "/data/docs", ArchiveRoot: "/data/archives"}

	tests := []struct {
		name     string
		language Language
		wantJSON string
	}{
		{
			name:     "uuid set exposes both paths",
			language: Language{Name: "en", UUID: "0b5f6c9e-5a4f-4f53-9d0d-4d1c2a7f6b11"},
			wantJSON: `{"name":"en","indexPath":"/data/docs/0b5f6c9e-5a4f-4f53-9d0d-4d1c2a7f6b11/index.html","archivePath":"/data/archives/0b5f6c9e-5a4f-4f53-9d0d-4d1c2a7f6b11.zip"}`,
		},
		{
			name:     "no uuid omits paths",
			language: Language{Name: "fr"},
			wantJSON: `{"name":"fr"}`,
		},
		{
			name:     "empty name is still serialized",
			language: Language{UUID: "abc"},
			wantJSON: `{"name":"","indexPath":"/data/docs/abc/index.html","archivePath":"/data/archives/abc.zip"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.language.View(pc))
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(got))
		})
	}
}

func TestLanguage_ViewDoesNotDependOnPriorCalls(t *testing.T) {
	lang := Language{Name: "en", UUID: "u1"}

	first := lang.View(PathContext{StorageRoot: "/a", ArchiveRoot: "/b"})
	second := lang.View(PathContext{StorageRoot: "/c", ArchiveRoot: "/d"})

	assert.Equal(t, "/a/u1/index.html", first.IndexPath)
	assert.Equal(t, "/c/u1/index.html", second.IndexPath)
	assert.Equal(t, "/d/u1.zip", second.ArchivePath)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		value   Validatable
		wantErr bool
	}{
		{"project ok", Project{Name: "acme"}, false},
		{"project empty", Project{Name: ""}, true},
		{"project slash", Project{Name: "ac/me"}, true},
		{"project backslash", Project{Name: `ac\me`}, true},
		{"version empty number", Version{ProjectID: 1, Number: ""}, false},
		{"version number", Version{ProjectID: 1, Number: "1.0"}, false},
		{"version slash", Version{ProjectID: 1, Number: "1/0"}, true},
		{"version without project", Version{Number: "1.0"}, true},
		{"language empty name", Language{VersionID: 1, Name: "", UUID: "u"}, false},
		{"language slash", Language{VersionID: 1, Name: "en/us", UUID: "u"}, true},
		{"language without uuid", Language{VersionID: 1, Name: "en"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.value.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// Validatable mirrors validation.Validatable for the table above
type Validatable interface {
	Validate() error
}

func TestValidateNames_Length(t *testing.T) {
	long := make([]rune, MaxNameLength+1)
	for i := range long {
		long[i] = 'a'
	}

	assert.Error(t, ValidateProjectName(string(long)))
	assert.Error(t, ValidateVersionNumber(string(long)))
	assert.Error(t, ValidateLanguageName(string(long)))
	assert.NoError(t, ValidateLanguageName(string(long[:MaxNameLength])))
}
