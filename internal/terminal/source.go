package terminal

import (
	"io"
	"time"
)

// StreamSource adapts a plain io.Reader. Each underlying Read may return a
// whole escape sequence at once; bytes left over from that Read are served
// before blocking again. With nothing buffered, a non-zero timeout reports
// a timeout immediately rather than blocking.
type StreamSource struct {
	r       io.Reader
	pending []byte
	buf     [32]byte
}

// NewStreamSource wraps r.
func NewStreamSource(r io.Reader) *StreamSource {
	return &StreamSource{r: r}
}

// ReadByte implements ByteSource.
func (s *StreamSource) ReadByte(timeout time.Duration) (byte, bool, error) {
	if len(s.pending) == 0 {
		if timeout > 0 {
			return 0, false, nil
		}
		n, err := s.r.Read(s.buf[:])
		if n == 0 {
			if err == nil {
				err = io.EOF
			}
			return 0, false, err
		}
		s.pending = append(s.pending[:0], s.buf[:n]...)
	}
	b := s.pending[0]
	s.pending = s.pending[1:]
	return b, true, nil
}
