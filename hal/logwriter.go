package hal

import "bytes"

// LogWriter adapts a Logger to io.Writer so line-oriented handlers
// (log/slog, log) can write through the HAL.
func LogWriter(l Logger) *LineWriter {
	return &LineWriter{l: l}
}

// LineWriter forwards each complete line written to it to a Logger.
type LineWriter struct {
	l       Logger
	partial []byte
}

func (w *LineWriter) Write(p []byte) (int, error) {
	n := len(p)
	if w.l == nil {
		return n, nil
	}
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			w.partial = append(w.partial, p...)
			break
		}
		line := p[:i]
		if len(w.partial) > 0 {
			line = append(w.partial, line...)
			w.partial = w.partial[:0]
		}
		w.l.WriteLineBytes(bytes.TrimRight(line, "\r"))
		p = p[i+1:]
	}
	return n, nil
}
