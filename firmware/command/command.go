// Package command parses the line protocol spoken over the Bluetooth link.
//
//	PING          ACK, marks the link connected
//	CONNECT       ACK, marks the link connected
//	DISCONNECT    ACK, marks the link disconnected and clears the strip
//	WRITE <0-255> ACK and persists the value, ERR when malformed
//	LOAD <n>      ACK and colors the strip by load band
//
// Anything else is ignored without a reply.
package command

import (
	"fmt"
	"strconv"
	"strings"
)

// Replies sent back over the link.
const (
	ReplyACK = "ACK"
	ReplyERR = "ERR"
)

// Terminator ends every reply.
const Terminator = "\r\n"

// Handler receives parsed commands. Every command kind has a method, so a
// new kind cannot be added without every handler dealing with it.
type Handler interface {
	Write(cmd Write)
	Load(cmd Load)
	Ping()
	Connect()
	Disconnect()
	Unknown(cmd Unknown)
}

// Command is one parsed line.
type Command interface {
	Apply(h Handler)
	fmt.Stringer
}

// Write persists Value. Err is set when the argument is not a decimal in
// [0,255].
type Write struct {
	Value int
	Err   error
}

// Load reports a host load percentage. Unparsable arguments yield 0.
type Load struct {
	Value int
}

type (
	Ping       struct{}
	Connect    struct{}
	Disconnect struct{}
)

// Unknown is any line that matched no command.
type Unknown struct {
	Line string
}

func (c Write) Apply(h Handler)    { h.Write(c) }
func (c Load) Apply(h Handler)     { h.Load(c) }
func (Ping) Apply(h Handler)       { h.Ping() }
func (Connect) Apply(h Handler)    { h.Connect() }
func (Disconnect) Apply(h Handler) { h.Disconnect() }
func (c Unknown) Apply(h Handler)  { h.Unknown(c) }
func (c Write) String() string     { return "WRITE " + strconv.Itoa(c.Value) }
func (c Load) String() string      { return "LOAD " + strconv.Itoa(c.Value) }
func (Ping) String() string        { return "PING" }
func (Connect) String() string     { return "CONNECT" }
func (Disconnect) String() string  { return "DISCONNECT" }
func (c Unknown) String() string   { return strconv.Quote(c.Line) }

// Parse matches a received line. Leading and trailing whitespace is ignored.
func Parse(line string) Command {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "WRITE "):
		return parseWrite(strings.TrimSpace(line[len("WRITE "):]))
	case strings.HasPrefix(line, "LOAD"):
		return Load{Value: Atoi(strings.TrimSpace(line[len("LOAD"):]))}
	case line == "PING":
		return Ping{}
	case line == "CONNECT":
		return Connect{}
	case line == "DISCONNECT":
		return Disconnect{}
	default:
		return Unknown{Line: line}
	}
}

func parseWrite(arg string) Write {
	v, err := strconv.Atoi(arg)
	if err != nil {
		return Write{Err: fmt.Errorf("command: WRITE %q: %w", arg, err)}
	}
	if v < 0 || v > 255 {
		return Write{Value: v, Err: fmt.Errorf("command: WRITE %d: out of range", v)}
	}
	return Write{Value: v}
}

// Atoi parses a leading decimal integer the lenient way: optional leading
// spaces, an optional sign, then digits up to the first non-digit. Anything
// unparsable is 0.
func Atoi(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if n < 1<<30 {
			n = n*10 + int(s[i]-'0')
		}
	}
	if neg {
		return -n
	}
	return n
}
