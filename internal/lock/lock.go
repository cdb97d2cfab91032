// Package lock provides a cross-process lock backed by a directory.
// os.Mkdir is the atomic primitive: it fails when the directory exists.
package lock

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rileyhilliard/dorc/internal/errors"
)

// ErrLocked is returned by TryAcquire when another process holds the lock.
var ErrLocked = stderrors.New("lock is held by another process")

const infoFileName = "info.json"

// Lock is an acquired lock.
type Lock struct {
	Dir  string
	Info Info
}

// Options tune TryAcquire.
type Options struct {
	// Stale is the age after which a lock is taken over. Zero disables it.
	Stale time.Duration
	// Purpose is recorded in the lock for whoever finds it held.
	Purpose string
}

// TryAcquire takes the lock at dir without waiting. A lock whose holder
// is a dead process on this host, or that is older than opts.Stale, is
// removed and taken over. When the lock is held the returned error wraps
// ErrLocked and names the holder.
func TryAcquire(dir string, opts Options) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrRestore,
			"Couldn't create the lock directory",
			"Check permissions on "+filepath.Dir(dir))
	}

	info := NewInfo(opts.Purpose)
	for attempt := 0; attempt < 2; attempt++ {
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			data, merr := json.Marshal(info)
			if merr == nil {
				merr = os.WriteFile(filepath.Join(dir, infoFileName), data, 0o644)
			}
			if merr != nil {
				_ = os.RemoveAll(dir)
				return nil, errors.WrapWithCode(merr, errors.ErrRestore,
					"Failed to write lock info", "Check disk space and permissions on "+dir)
			}
			return &Lock{Dir: dir, Info: info}, nil
		}
		if !os.IsExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrRestore,
				"Failed to create lock "+dir, "Check permissions on "+filepath.Dir(dir))
		}

		holder, ok := Holder(dir)
		if attempt == 0 && isStale(holder, ok, opts.Stale) {
			if err := os.RemoveAll(dir); err != nil {
				break
			}
			continue
		}
		break
	}

	holder, _ := Holder(dir)
	return nil, fmt.Errorf("%w: %s", ErrLocked, holder)
}

// Release removes the lock. Releasing a nil lock is a no-op.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := os.RemoveAll(l.Dir); err != nil {
		return errors.WrapWithCode(err, errors.ErrRestore,
			"Failed to remove lock "+l.Dir, "Delete it by hand once no restore is running.")
	}
	return nil
}

// Holder reads who holds the lock at dir. ok is false when the info file
// is missing or unreadable.
func Holder(dir string) (Info, bool) {
	data, err := os.ReadFile(filepath.Join(dir, infoFileName))
	if err != nil {
		return Info{}, false
	}
	info, err := ParseInfo(data)
	if err != nil {
		return Info{}, false
	}
	return info, true
}

func isStale(holder Info, ok bool, stale time.Duration) bool {
	if !ok {
		// a lock without info is either being written or abandoned
		return false
	}
	if stale > 0 && holder.Age() > stale {
		return true
	}
	host, _ := os.Hostname()
	return holder.Hostname == host && holder.PID > 0 && !processAlive(holder.PID)
}
