// Package staging writes request payloads to uniquely named temp files that
// the engine reads through an environment variable or a file argument.
package staging

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/wagiedev/query-engine-go/internal/errors"
)

// FilePrefix starts every staged file name.
const FilePrefix = "query-engine-"

// File is a staged payload on disk.
type File struct {
	Path string
}

// Write stages payload in dir (os.TempDir() when empty) and returns the file.
// The name embeds a ULID, so concurrent calls never collide. Any failure is
// returned as *errors.StagingError labeled with op.
func Write(dir, op, ext, payload string) (*File, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	path := filepath.Join(dir, FilePrefix+strings.ToLower(ulid.Make().String())+ext)

	//nolint:gosec // G304: path is built from a trusted dir and a generated name
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, &errors.StagingError{Op: op, Err: err}
	}

	if _, err := f.WriteString(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(path)

		return nil, &errors.StagingError{Op: op, Err: err}
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)

		return nil, &errors.StagingError{Op: op, Err: err}
	}

	return &File{Path: path}, nil
}

// Remove deletes the staged file. Removing a missing file is not an error.
func (f *File) Remove() error {
	if f == nil {
		return nil
	}

	if err := os.Remove(f.Path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}
