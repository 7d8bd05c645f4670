package command

import (
	"io"

	"github.com/charliebeadle/galvonium/protocol"
)

// Poller turns a byte stream into command lines on a channel, so the
// foreground loop can interleave command handling with renderer
// processing without ever blocking on the transport.
type Poller struct {
	// C delivers completed command lines. Closed when the reader ends.
	C <-chan string
}

// NewPoller starts reading r on its own goroutine. Read errors and EOF
// both end the stream.
func NewPoller(r io.Reader) *Poller {
	ch := make(chan string, 8)

	go func() {
		defer close(ch)

		fifo := protocol.NewFifoBuffer(4 * protocol.MaxLineLen)
		var lines protocol.LineBuffer
		chunk := make([]byte, 64)

		for {
			n, err := r.Read(chunk)
			if n > 0 {
				fifo.Write(chunk[:n])
				lines.Drain(fifo, func(s string) { ch <- s })
			}
			if err != nil {
				return
			}
		}
	}()

	return &Poller{C: ch}
}
