package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookDoc = "Book:\n  title: string\n  price: integer(0)\n  hardcover?:\n"

func newServer(t *testing.T, doc string) (*Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.yml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return New(Config{Location: path}), path
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newServer(t, bookDoc)
	require.NoError(t, s.Reload(context.Background()))

	rec := get(t, s.Routes(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","models":1}`, rec.Body.String())
}

func TestHealth_Degraded(t *testing.T) {
	s, _ := newServer(t, "Book: string\n")
	require.Error(t, s.Reload(context.Background()))

	rec := get(t, s.Routes(), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "shape_mismatch", body["kind"])
}

func TestModels(t *testing.T) {
	s, _ := newServer(t, bookDoc)
	require.NoError(t, s.Reload(context.Background()))

	rec := get(t, s.Routes(), "/models")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t,
		`{"Book":{"title":{"type":"string","default":null},"price":{"type":"integer","default":0},"hardcover?":{"type":"boolean","default":true}}}`,
		strings.TrimSpace(rec.Body.String()))
}

func TestModel(t *testing.T) {
	s, _ := newServer(t, bookDoc)
	require.NoError(t, s.Reload(context.Background()))
	h := s.Routes()

	rec := get(t, h, "/models/Book")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"title":{"type":"string","default":null},"price":{"type":"integer","default":0},"hardcover?":{"type":"boolean","default":true}}`,
		rec.Body.String())

	rec = get(t, h, "/models/Author")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"not_found"`)
}

func TestCompile(t *testing.T) {
	s := New(Config{})
	h := s.Routes()

	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{name: "valid", body: "Author:\n  name:\n  books_count:\n", status: http.StatusOK, want: `"books_count":{"type":"integer","default":null}`},
		{name: "bullets", body: "Author:\n  - name\n", status: http.StatusOK, want: `"name":{"type":"string","default":null}`},
		{name: "shape mismatch", body: "Author: string\n", status: http.StatusUnprocessableEntity, want: `"kind":"shape_mismatch"`},
		{name: "parse error", body: "Author:\n  name: string, default: foo\n", status: http.StatusUnprocessableEntity, want: `"kind":"parse_failed"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/compile", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestCompile_TooLarge(t *testing.T) {
	s := New(Config{})
	body := strings.Repeat("#", maxDocumentSize+1)

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/compile", strings.NewReader(body)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestWatch_Reloads(t *testing.T) {
	s, path := newServer(t, bookDoc)
	require.NoError(t, s.Reload(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(bookDoc+"Author:\n  name:\n"), 0o644))

	assert.Eventually(t, func() bool {
		spec, err := s.Spec()
		return err == nil && spec.Len() == 2
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatch_RemoteUnsupported(t *testing.T) {
	s := New(Config{Location: "s3://models/db/models.yml"})
	err := s.Watch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only local files")
}
