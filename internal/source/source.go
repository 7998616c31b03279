// Package source reads model documents from a local path or from an object
// store location of the form s3://bucket/key.
package source

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/koustreak/ezschema/internal/errs"
	"github.com/koustreak/ezschema/internal/filestore"
)

const s3Scheme = "s3://"

// Location is a parsed document location. Exactly one of Path or the
// Bucket/Key pair is set.
type Location struct {
	Path   string
	Bucket string
	Key    string
}

// Remote reports whether the location lives in an object store.
func (l Location) Remote() bool { return l.Bucket != "" }

func (l Location) String() string {
	if l.Remote() {
		return s3Scheme + l.Bucket + "/" + l.Key
	}
	return l.Path
}

// Parse splits a location string.
func Parse(location string) (Location, error) {
	if location == "" {
		return Location{}, errs.New(errs.ErrKindInvalidInput, "document location is empty")
	}
	if !strings.HasPrefix(location, s3Scheme) {
		return Location{Path: location}, nil
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(location, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return Location{}, errs.Newf(errs.ErrKindInvalidInput, "object location %q must look like s3://bucket/key", location)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// Reader fetches documents. The zero value reads local files only.
type Reader struct {
	store filestore.Store
}

// New returns a Reader. store may be nil when no object store is configured.
func New(store filestore.Store) *Reader {
	return &Reader{store: store}
}

// Read returns the full text of the document at location.
func (r *Reader) Read(ctx context.Context, location string) (string, error) {
	loc, err := Parse(location)
	if err != nil {
		return "", err
	}
	if loc.Remote() {
		return r.readObject(ctx, loc)
	}
	return readFile(loc.Path)
}

func (r *Reader) readObject(ctx context.Context, loc Location) (string, error) {
	if r == nil || r.store == nil {
		return "", errs.Newf(errs.ErrKindInvalidInput, "cannot read %s: no object store configured", loc)
	}

	obj, err := r.store.GetObject(ctx, loc.Bucket, loc.Key)
	if err != nil {
		return "", err
	}
	defer obj.Close()

	b, err := io.ReadAll(obj)
	if err != nil {
		return "", errs.Wrap(errs.ErrKindConnectionFailed, "failed to read "+loc.String(), err)
	}
	return string(b), nil
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		return string(b), nil
	case errors.Is(err, fs.ErrNotExist):
		return "", errs.Wrap(errs.ErrKindNotFound, "models file "+path+" does not exist", err)
	case errors.Is(err, fs.ErrPermission):
		return "", errs.Wrap(errs.ErrKindPermissionDenied, "cannot read models file "+path, err)
	default:
		return "", errs.Wrap(errs.ErrKindInvalidInput, "cannot read models file "+path, err)
	}
}
