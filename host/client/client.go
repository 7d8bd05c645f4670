// Package client implements the host side of the text protocol: typed
// wrappers over the command set plus frame streaming.
package client

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/charliebeadle/galvonium/host/serial"
	"github.com/charliebeadle/galvonium/protocol"
	"github.com/charliebeadle/galvonium/render"
)

// ErrReply is returned when the controller answers a command with an
// ERR line.
type ErrReply struct {
	Cmd   string
	Reply string
}

func (e *ErrReply) Error() string {
	return "controller rejected " + e.Cmd + ": " + e.Reply
}

// Client speaks the text protocol over a serial port. Not safe for
// concurrent use; the protocol is strictly request/reply.
type Client struct {
	port serial.Port
	rd   *bufio.Reader
}

// Dial opens the device with an exponential backoff: serial adapters
// re-enumerate slowly after a replug, and the bootloader holds the port
// for a moment after reset.
func Dial(device string, baud int) (*Client, error) {
	cfg := serial.DefaultConfig(device)
	if baud > 0 {
		cfg.Baud = baud
	}

	var port serial.Port
	op := func() error {
		var err error
		port, err = serial.Open(cfg)
		return err
	}

	err := backoff.Retry(op, &backoff.ExponentialBackOff{
		InitialInterval:     25 * time.Millisecond,
		RandomizationFactor: 0.,
		Multiplier:          2.,
		MaxInterval:         1 * time.Second,
		MaxElapsedTime:      3 * time.Second,
		Clock:               backoff.SystemClock,
	})
	if err != nil {
		return nil, err
	}
	return New(port), nil
}

// New wraps an already-open port.
func New(port serial.Port) *Client {
	return &Client{port: port, rd: bufio.NewReader(port)}
}

// Close closes the underlying port.
func (c *Client) Close() error {
	return c.port.Close()
}

// Send writes one command line without waiting for a reply.
func (c *Client) Send(line string) error {
	_, err := c.port.Write([]byte(line + "\n"))
	if err != nil {
		return err
	}
	return c.port.Flush()
}

// readLine reads one reply line, skipping blanks.
func (c *Client) readLine() (string, error) {
	for {
		line, err := c.rd.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
	}
}

// Command sends a line and returns its single-line reply. An ERR reply
// becomes an *ErrReply error.
func (c *Client) Command(line string) (string, error) {
	if err := c.Send(line); err != nil {
		return "", err
	}
	reply, err := c.readLine()
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(reply, protocol.ReplyErr) {
		return reply, &ErrReply{Cmd: line, Reply: reply}
	}
	return reply, nil
}

// Raw sends a line verbatim and collects every reply line until the
// port goes quiet (read timeout) or closes. For multi-line replies like
// HELP and CONFIG LIST.
func (c *Client) Raw(line string) ([]string, error) {
	if err := c.Send(line); err != nil {
		return nil, err
	}

	var out []string
	for {
		reply, err := c.readLine()
		if err != nil {
			return out, nil
		}
		out = append(out, reply)
	}
}

// WritePoint writes one waypoint into the controller's inactive buffer.
func (c *Client) WritePoint(idx int, w render.Waypoint) error {
	_, err := c.Command(fmt.Sprintf("%s %d %d %d %d",
		protocol.CmdWrite, idx, w.X, w.Y, w.Flags))
	return err
}

// SetSize publishes the point count of the inactive buffer.
func (c *Client) SetSize(n int) error {
	_, err := c.Command(fmt.Sprintf("%s %d", protocol.CmdSize, n))
	return err
}

// Clear empties the inactive buffer.
func (c *Client) Clear() error {
	_, err := c.Command(protocol.CmdClear)
	return err
}

// Swap requests a frame swap at the next boundary.
func (c *Client) Swap() error {
	_, err := c.Command(protocol.CmdSwap)
	return err
}

// SetConfig sets one named parameter.
func (c *Client) SetConfig(name string, value uint16) error {
	_, err := c.Command(fmt.Sprintf("%s SET %s %d", protocol.CmdConfig, name, value))
	return err
}

// Dump reads back a buffer's waypoints. The reply's first line carries
// the count.
func (c *Client) Dump(active bool) ([]render.Waypoint, error) {
	sel := protocol.BufInactive
	if active {
		sel = protocol.BufActive
	}
	if err := c.Send(protocol.CmdDump + " " + sel); err != nil {
		return nil, err
	}

	head, err := c.readLine()
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(head, protocol.ReplyErr) {
		return nil, &ErrReply{Cmd: protocol.CmdDump, Reply: head}
	}
	countStr, ok := strings.CutSuffix(head, " points")
	if !ok {
		return nil, errors.New("malformed dump header: " + head)
	}
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return nil, errors.New("malformed dump header: " + head)
	}

	points := make([]render.Waypoint, 0, count)
	for i := 0; i < count; i++ {
		line, err := c.readLine()
		if err != nil {
			return nil, err
		}
		w, err := parseDumpLine(line)
		if err != nil {
			return nil, err
		}
		points = append(points, w)
	}
	return points, nil
}

// parseDumpLine parses "idx: x, y, flags".
func parseDumpLine(line string) (render.Waypoint, error) {
	var w render.Waypoint

	_, rest, ok := strings.Cut(line, ":")
	if !ok {
		return w, errors.New("malformed dump line: " + line)
	}
	parts := strings.Split(rest, ",")
	if len(parts) != 3 {
		return w, errors.New("malformed dump line: " + line)
	}

	var vals [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return w, errors.New("malformed dump line: " + line)
		}
		vals[i] = uint8(v)
	}
	w.X, w.Y, w.Flags = vals[0], vals[1], vals[2]
	return w, nil
}

// Frame is one complete image: the waypoints of a single buffer fill.
type Frame []render.Waypoint

// WriteFrame loads a frame into the inactive buffer and publishes it.
func (c *Client) WriteFrame(f Frame) error {
	if len(f) > render.MaxPoints {
		return errors.New("frame exceeds buffer capacity")
	}
	for i, w := range f {
		if err := c.WritePoint(i, w); err != nil {
			return err
		}
	}
	if err := c.SetSize(len(f)); err != nil {
		return err
	}
	return c.Swap()
}
