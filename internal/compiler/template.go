package compiler

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/koustreak/ezschema/internal/errs"
)

// Template is the starter document written by GenerateTemplate.
const Template = `# Example table for a typical Book model.
# ---
Book
  title: string
  price: integer
  author: string
  summary: text
  hardcover: boolean
# ---
# Indent consistently!  Follow the above syntax exactly.
# Typical column choices are string, text, integer, boolean, date and datetime
# ---
# Default column values can be specified like this:
#    price: integer(0)
# ---
# Have fun!
`

// GenerateTemplate writes Template to path unless a file is already there.
// It reports whether the file was created.
func GenerateTemplate(path string) (bool, error) {
	if path == "" {
		path = DefaultLocation
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, errs.Wrap(errs.ErrKindPermissionDenied, "cannot create directory for "+path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, errs.Wrap(errs.ErrKindPermissionDenied, "cannot create "+path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(Template); err != nil {
		return false, errs.Wrap(errs.ErrKindUnknown, "cannot write "+path, err)
	}
	return true, nil
}
