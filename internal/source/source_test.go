package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/koustreak/ezschema/internal/errs"
	"github.com/koustreak/ezschema/internal/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memObject struct {
	io.Reader
	closed *bool
}

func (o memObject) Close() error {
	*o.closed = true
	return nil
}

type memStore struct {
	objects map[string]string
	closed  bool
}

func (s *memStore) Ping(context.Context) error { return nil }
func (s *memStore) Close() error               { return nil }

func (s *memStore) GetObject(_ context.Context, bucket, key string) (filestore.Object, error) {
	body, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, errs.New(errs.ErrKindNotFound, "no such key")
	}
	return memObject{Reader: strings.NewReader(body), closed: &s.closed}, nil
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Location
		wantErr bool
	}{
		{in: "db/models.yml", want: Location{Path: "db/models.yml"}},
		{in: "s3://schemas/db/models.yml", want: Location{Bucket: "schemas", Key: "db/models.yml"}},
		{in: "s3://schemas", wantErr: true},
		{in: "s3:///models.yml", wantErr: true},
		{in: "s3://schemas/", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.IsInvalidInput(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestReader_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yml")
	require.NoError(t, os.WriteFile(path, []byte("Book\n  title: string\n"), 0o644))

	text, err := New(nil).Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Book\n  title: string\n", text)

	_, err = New(nil).Read(context.Background(), filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestReader_Object(t *testing.T) {
	store := &memStore{objects: map[string]string{"schemas/db/models.yml": "Book\n"}}
	r := New(store)

	text, err := r.Read(context.Background(), "s3://schemas/db/models.yml")
	require.NoError(t, err)
	assert.Equal(t, "Book\n", text)
	assert.True(t, store.closed)

	_, err = r.Read(context.Background(), "s3://schemas/other.yml")
	assert.True(t, errs.IsNotFound(err))
}

func TestReader_ObjectWithoutStore(t *testing.T) {
	_, err := New(nil).Read(context.Background(), "s3://schemas/models.yml")
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}
