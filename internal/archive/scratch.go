package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/dorc/internal/errors"
)

// Scratch is a private temporary directory for one restore. Cleanup
// removes it and everything in it.
type Scratch struct {
	Dir     string
	cleaned bool
}

// NewScratch creates a scratch directory under root (os.TempDir when empty).
func NewScratch(root string) (*Scratch, error) {
	if root != "" {
		if err := os.MkdirAll(root, 0o700); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrArchive,
				fmt.Sprintf("Couldn't create scratch root %s", root),
				"Check SCRATCH_DIR in Settings.")
		}
	}
	dir, err := os.MkdirTemp(root, "dorc-restore-")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrArchive,
			"Couldn't create a scratch directory",
			"Check SCRATCH_DIR in Settings and free disk space.")
	}
	return &Scratch{Dir: dir}, nil
}

// Path returns name inside the scratch directory.
func (s *Scratch) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Cleanup removes the scratch directory. Safe to call more than once.
func (s *Scratch) Cleanup() error {
	if s == nil || s.cleaned {
		return nil
	}
	s.cleaned = true
	return os.RemoveAll(s.Dir)
}
