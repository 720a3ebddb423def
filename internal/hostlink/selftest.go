package hostlink

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Step is one command line and the reply it must produce.
type Step struct {
	Line string
	Want string
}

// SelfTest exercises every command once.
var SelfTest = []Step{
	{"CONNECT", "ACK"},
	{"PING", "ACK"},
	{"LOAD 30", "ACK"},
	{"LOAD 65", "ACK"},
	{"LOAD 90", "ACK"},
	{"WRITE 200", "ACK"},
	{"WRITE 300", "ERR"},
	{"DISCONNECT", "ACK"},
}

// Result is the outcome of one step.
type Result struct {
	Step
	Got string
	Err error
}

func (r Result) Passed() bool { return r.Err == nil && r.Got == r.Want }

// Run sends each step in order. It stops early only when ctx ends.
func (c *Client) Run(ctx context.Context, steps []Step) []Result {
	results := make([]Result, 0, len(steps))
	for _, s := range steps {
		got, err := c.Send(ctx, s.Line)
		results = append(results, Result{Step: s, Got: got, Err: err})
		if ctx.Err() != nil {
			break
		}
	}
	return results
}

var (
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	lineStyle  = lipgloss.NewStyle().Width(12)
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Report renders results as a pass/fail table.
func Report(results []Result) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("c201 selftest"))
	b.WriteByte('\n')
	failed := 0
	for _, r := range results {
		mark := passStyle.Render("PASS")
		detail := r.Got
		if !r.Passed() {
			failed++
			mark = failStyle.Render("FAIL")
			if r.Err != nil {
				detail = r.Err.Error()
			} else {
				detail = fmt.Sprintf("got %q, want %q", r.Got, r.Want)
			}
		}
		fmt.Fprintf(&b, "%s %s %s\n", mark, lineStyle.Render(r.Line), detail)
	}
	summary := passStyle.Render(fmt.Sprintf("%d/%d passed", len(results)-failed, len(results)))
	if failed > 0 {
		summary = failStyle.Render(fmt.Sprintf("%d/%d failed", failed, len(results)))
	}
	b.WriteString(summary)
	b.WriteByte('\n')
	return b.String()
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed() {
			n++
		}
	}
	return n
}
