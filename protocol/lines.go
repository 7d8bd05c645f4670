package protocol

// LineBuffer assembles bounded command lines from a byte stream.
// Terminators are LF or CR (either alone, or a CRLF pair, which emits
// one line). Once a line exceeds MaxLineLen the rest is discarded up to
// the next terminator; the truncated prefix is still delivered so the
// handler can reject it.
type LineBuffer struct {
	buf [MaxLineLen]byte
	pos int
}

// Feed consumes data, invoking emit once per completed line. Empty
// lines are swallowed.
func (l *LineBuffer) Feed(data []byte, emit func(string)) {
	for _, b := range data {
		if b == '\n' || b == '\r' {
			if l.pos > 0 {
				emit(string(l.buf[:l.pos]))
				l.pos = 0
			}
			continue
		}
		if l.pos < MaxLineLen {
			l.buf[l.pos] = b
			l.pos++
		}
	}
}

// Drain moves every byte waiting in the FIFO through the assembler.
func (l *LineBuffer) Drain(f *FifoBuffer, emit func(string)) {
	for {
		b, ok := f.ReadByte()
		if !ok {
			return
		}
		l.Feed([]byte{b}, emit)
	}
}

// Reset discards any partial line.
func (l *LineBuffer) Reset() {
	l.pos = 0
}
