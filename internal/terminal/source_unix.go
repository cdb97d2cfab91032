//go:build unix

package terminal

import (
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// fdSource polls a terminal file descriptor so follow-up bytes of an escape
// sequence can be awaited with a deadline.
type fdSource struct {
	fd int
}

func newFileSource(f *os.File) ByteSource {
	return &fdSource{fd: int(f.Fd())}
}

// ReadByte implements ByteSource.
func (s *fdSource) ReadByte(timeout time.Duration) (byte, bool, error) {
	ms := -1
	if timeout > 0 {
		ms = int(timeout / time.Millisecond)
	}

	for {
		fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, ms)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, false, err
		}
		if n == 0 {
			return 0, false, nil
		}
		break
	}

	var buf [1]byte
	n, err := unix.Read(s.fd, buf[:])
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, io.EOF
	}
	return buf[0], true, nil
}
