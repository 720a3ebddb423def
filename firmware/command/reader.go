package command

import "errors"

// MaxLine is the longest line the reader accepts, terminator excluded.
const MaxLine = 63

// ErrOverflow is returned when a line grows past MaxLine bytes.
var ErrOverflow = errors.New("command: line too long")

// Reader assembles newline or carriage-return terminated lines from single
// bytes. It never allocates while a line is being received.
type Reader struct {
	buf        [MaxLine]byte
	n          int
	discarding bool
}

// Push feeds one byte. It returns a complete, non-empty line when b
// terminates one.
//
// On overflow the buffer is cleared, ErrOverflow is returned once and the
// rest of the line is dropped up to its terminator.
func (r *Reader) Push(b byte) (line string, ok bool, err error) {
	if b == '\n' || b == '\r' {
		if r.discarding {
			r.discarding = false
			return "", false, nil
		}
		if r.n == 0 {
			return "", false, nil
		}
		line = string(r.buf[:r.n])
		r.n = 0
		return line, true, nil
	}

	if r.discarding {
		return "", false, nil
	}
	if r.n >= MaxLine {
		r.n = 0
		r.discarding = true
		return "", false, ErrOverflow
	}
	r.buf[r.n] = b
	r.n++
	return "", false, nil
}

// Len reports how many bytes of the current line are buffered.
func (r *Reader) Len() int { return r.n }

// Reset drops any partial line.
func (r *Reader) Reset() {
	r.n = 0
	r.discarding = false
}
