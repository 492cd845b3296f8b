package httputil

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesETag(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{`"abc"`, true},
		{`W/"abc"`, true},
		{`"xyz", "abc"`, true},
		{`*`, true},
		{`"xyz"`, false},
		{``, false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesETag(tt.header, "abc"))
		})
	}
}

func TestRespondCachedJSON(t *testing.T) {
	payload := []byte(`[{"name":"acme"}]`)

	t.Run("fresh", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RespondCachedJSON(rec, httptest.NewRequest(http.MethodGet, "/listProjects", nil), payload, "abc")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `"abc"`, rec.Header().Get("ETag"))
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, payload, rec.Body.Bytes())
	})

	t.Run("not modified", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/listProjects", nil)
		r.Header.Set("If-None-Match", `"abc"`)
		rec := httptest.NewRecorder()

		RespondCachedJSON(rec, r, payload, "abc")

		assert.Equal(t, http.StatusNotModified, rec.Code)
		assert.Empty(t, rec.Body.Bytes())
	})
}

func TestRespondErrorWithExtras(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusBadRequest, "two roots", map[string]interface{}{
		"candidates": []string{"a", "b"},
	})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, float64(http.StatusBadRequest), body["status"])
	assert.Equal(t, "two roots", body["detail"])
	assert.Equal(t, []interface{}{"a", "b"}, body["candidates"])
}

func multipartRequest(t *testing.T, fields map[string]string, file []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		part, err := mw.CreateFormFile("archive", "docs.zip")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/addProject", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestSpoolFormFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	r := multipartRequest(t, map[string]string{"name": "acme"}, []byte("zip bytes"))

	require.NoError(t, ParseMultipart(httptest.NewRecorder(), r, 1<<20, 1<<10))
	defer r.MultipartForm.RemoveAll()

	spooled, err := SpoolFormFile(r, "archive", dir)
	require.NoError(t, err)

	assert.Equal(t, "docs.zip", spooled.Filename)
	assert.Equal(t, int64(len("zip bytes")), spooled.Size)
	assert.True(t, strings.HasPrefix(spooled.Path, dir))

	data, err := os.ReadFile(spooled.Path)
	require.NoError(t, err)
	assert.Equal(t, "zip bytes", string(data))

	require.NoError(t, spooled.Remove())
	require.NoError(t, spooled.Remove(), "removing twice is not an error")
	assert.NoFileExists(t, spooled.Path)
}

func TestSpoolFormFile_Missing(t *testing.T) {
	r := multipartRequest(t, map[string]string{"name": "acme"}, nil)
	require.NoError(t, ParseMultipart(httptest.NewRecorder(), r, 1<<20, 1<<10))

	_, err := SpoolFormFile(r, "archive", t.TempDir())
	assert.ErrorIs(t, err, http.ErrMissingFile)
}

func TestParseMultipart_TooLarge(t *testing.T) {
	r := multipartRequest(t, nil, bytes.Repeat([]byte("x"), 4096))

	err := ParseMultipart(httptest.NewRecorder(), r, 512, 1<<10)
	require.Error(t, err)
	assert.True(t, IsTooLarge(err))
}

func TestPrincipalContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetPrincipal(r))
	assert.Equal(t, "admin", GetPrincipal(WithPrincipal(r, "admin")))
}
