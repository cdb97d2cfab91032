package terminal

import (
	"time"
	"unicode/utf8"
)

// EscapeTimeout is how long the scanner waits for the byte after ESC before
// treating the ESC as a standalone keypress.
const EscapeTimeout = 50 * time.Millisecond

const (
	byteCtrlC    = 0x03
	byteTab      = '\t'
	byteLF       = '\n'
	byteCR       = '\r'
	byteEsc      = 0x1b
	maxCSIParams = 16
	noTimeout    = time.Duration(0)
)

// ByteSource supplies raw input bytes. A zero timeout blocks until a byte
// arrives. When the timeout elapses first, ok is false and err is nil.
type ByteSource interface {
	ReadByte(timeout time.Duration) (b byte, ok bool, err error)
}

type scanState int

const (
	stateGround scanState = iota
	stateEscape
	stateCSI
)

// Scanner decodes key events from a ByteSource.
//
//	ground --ESC--> escape --'['/'O'--> csi --final byte--> ground
//	escape --ESC--> escape (Escape event, next read resumes in escape)
//	escape --timeout/other--> ground (Escape event)
//	csi    --timeout--> ground (Escape event)
type Scanner struct {
	src     ByteSource
	timeout time.Duration
	// escPending is set when an ESC byte ended the previous event and
	// starts the next one.
	escPending bool
}

// NewScanner creates a scanner using EscapeTimeout.
func NewScanner(src ByteSource) *Scanner {
	return &Scanner{src: src, timeout: EscapeTimeout}
}

// WithTimeout overrides the escape disambiguation window.
func (s *Scanner) WithTimeout(d time.Duration) *Scanner {
	s.timeout = d
	return s
}

// ReadKey implements KeyReader.
func (s *Scanner) ReadKey() (Event, error) {
	state := stateGround
	if s.escPending {
		s.escPending = false
		state = stateEscape
	}
	params := 0

	for {
		wait := noTimeout
		if state != stateGround {
			wait = s.timeout
		}

		b, ok, err := s.src.ReadByte(wait)
		if err != nil {
			return Event{}, err
		}
		if !ok {
			// Only reachable outside ground: the sequence was cut short.
			return Event{Kind: KeyEscape}, nil
		}

		switch state {
		case stateGround:
			switch b {
			case byteEsc:
				state = stateEscape
			case byteCR, byteLF:
				return Event{Kind: KeyEnter}, nil
			case byteTab:
				return Event{Kind: KeyTab}, nil
			case byteCtrlC:
				return Event{}, ErrInterrupted
			default:
				return s.decodeRune(b)
			}

		case stateEscape:
			if b == '[' || b == 'O' {
				state = stateCSI
				continue
			}
			if b == byteEsc {
				s.escPending = true
				return Event{Kind: KeyEscape}, nil
			}
			// Alt+key and stray bytes collapse to a plain Escape.
			return Event{Kind: KeyEscape}, nil

		case stateCSI:
			if ev, final := csiFinal(b); final {
				return ev, nil
			}
			params++
			if params > maxCSIParams {
				return Event{Kind: KeyEscape}, nil
			}
		}
	}
}

// csiFinal maps the final byte of a CSI/SS3 sequence. Parameter bytes
// (digits, ';') report final=false.
func csiFinal(b byte) (Event, bool) {
	switch b {
	case 'A':
		return Event{Kind: KeyUp}, true
	case 'B':
		return Event{Kind: KeyDown}, true
	case 'C':
		return Event{Kind: KeyRight}, true
	case 'D':
		return Event{Kind: KeyLeft}, true
	case 'Z':
		// Shift+Tab
		return Event{Kind: KeyUp}, true
	}
	if b >= 0x40 && b <= 0x7e {
		// Home/End/Delete and friends
		return Event{Kind: KeyOther}, true
	}
	return Event{}, false
}

// decodeRune assembles a UTF-8 sequence starting with lead.
func (s *Scanner) decodeRune(lead byte) (Event, error) {
	if lead < utf8.RuneSelf {
		return Char(rune(lead)), nil
	}

	need := utf8Len(lead)
	buf := []byte{lead}
	for len(buf) < need {
		b, ok, err := s.src.ReadByte(s.timeout)
		if err != nil {
			return Event{}, err
		}
		if !ok {
			break
		}
		buf = append(buf, b)
	}

	r, _ := utf8.DecodeRune(buf)
	return Char(r), nil
}

func utf8Len(lead byte) int {
	switch {
	case lead&0xe0 == 0xc0:
		return 2
	case lead&0xf0 == 0xe0:
		return 3
	case lead&0xf8 == 0xf0:
		return 4
	default:
		return 1
	}
}
