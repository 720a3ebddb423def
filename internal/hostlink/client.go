// Package hostlink talks to the controller's command link from a PC.
package hostlink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.bug.st/serial"
)

// DefaultTimeout bounds the wait for one reply line.
const DefaultTimeout = time.Second

var (
	// ErrNoReply is returned when no reply line arrives in time.
	ErrNoReply = errors.New("hostlink: no reply")
	// ErrLineTooLong is returned for lines the controller would reject.
	ErrLineTooLong = errors.New("hostlink: line too long")
)

// maxLine mirrors the controller's receive buffer.
const maxLine = 63

// Port is the byte stream to the controller. serial.Port satisfies it.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Client sends command lines and reads the replies.
type Client struct {
	port    Port
	timeout time.Duration
	log     *slog.Logger
	pending []byte
}

// Open opens a serial device at baud, 8N1.
func Open(name string, baud int, log *slog.Logger) (*Client, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("hostlink: open %s: %w", name, err)
	}
	return New(port, log), nil
}

// New wraps an open port.
func New(port Port, log *slog.Logger) *Client {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Client{port: port, log: log}
	c.SetTimeout(DefaultTimeout)
	return c
}

// SetTimeout changes the reply wait.
func (c *Client) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}
	c.timeout = d
	// Short port reads let the reply wait honour ctx and the deadline.
	step := d / 10
	if step < 10*time.Millisecond {
		step = 10 * time.Millisecond
	}
	_ = c.port.SetReadTimeout(step)
}

func (c *Client) Close() error { return c.port.Close() }

// Send writes line and returns the reply with the terminator stripped.
func (c *Client) Send(ctx context.Context, line string) (string, error) {
	if err := c.Write(line); err != nil {
		return "", err
	}
	reply, err := c.readLine(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", line, err)
	}
	c.log.LogAttrs(ctx, slog.LevelDebug, "reply", slog.String("line", line), slog.String("reply", reply))
	return reply, nil
}

// Write sends line without waiting for a reply.
func (c *Client) Write(line string) error {
	line = strings.TrimRight(line, "\r\n")
	if len(line) > maxLine {
		return ErrLineTooLong
	}
	if _, err := c.port.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("hostlink: write: %w", err)
	}
	return nil
}

func (c *Client) readLine(ctx context.Context) (string, error) {
	deadline := time.Now().Add(c.timeout)
	buf := make([]byte, 32)
	for {
		if i := indexNewline(c.pending); i >= 0 {
			line := strings.TrimRight(string(c.pending[:i]), "\r")
			c.pending = c.pending[i+1:]
			return line, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if time.Now().After(deadline) {
			return "", ErrNoReply
		}
		n, err := c.port.Read(buf)
		c.pending = append(c.pending, buf[:n]...)
		if err != nil {
			return "", fmt.Errorf("hostlink: read: %w", err)
		}
	}
}

func indexNewline(b []byte) int {
	for i, v := range b {
		if v == '\n' {
			return i
		}
	}
	return -1
}

// Ports lists the serial devices present on this machine.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
