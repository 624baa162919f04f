// Package splitter turns SQL source text into an ordered list of statements
// that can be executed one at a time.
//
// The splitter is lexical only. It tracks single and double quoted literals,
// skips whole-line "--" comments and recognises one class of procedural block
// (a line starting with BEGIN or DECLARE up to a line that is exactly END;).
// Semicolons inside a literal or a block never terminate a statement.
package splitter

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Warning is an advisory produced while splitting. It never aborts the split.
type Warning struct {
	Line    int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// Result holds the statements found in the input, in source order, and any
// warnings raised while scanning.
type Result struct {
	Statements []string
	Warnings   []Warning
}

// Split scans lines and returns the statements they contain.
// Lines must not carry their line terminator.
func Split(lines []string) *Result {
	var s splitter
	for _, line := range lines {
		s.feed(line)
	}
	return s.finish()
}

// SplitString splits text, treating "\n" and "\r\n" as line breaks.
func SplitString(text string) *Result {
	return Split(splitLines(text))
}

// SplitReader reads r line by line and splits its content.
// A read error is returned as-is together with a nil result.
func SplitReader(r io.Reader) (*Result, error) {
	var s splitter
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		s.feed(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s.finish(), nil
}

// splitLines breaks text the way bufio.ScanLines does: a final line break does
// not start another line and a trailing "\r" is dropped.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	out := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range out {
		out[i] = strings.TrimSuffix(l, "\r")
	}
	return out
}

type splitter struct {
	buf   strings.Builder
	st    state
	line  int
	stmts []string
	warns []Warning
}

func (s *splitter) feed(line string) {
	s.line++

	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "--") {
		return
	}

	kind := classify(trimmed)
	prev := rune(0)
	for _, r := range line {
		var terminate bool
		s.st, terminate = s.st.next(r, prev, kind)
		s.buf.WriteRune(r)
		if terminate {
			s.flush()
		}
		prev = r
	}
	s.buf.WriteByte('\n')
}

func (s *splitter) flush() {
	if stmt := strings.TrimSpace(s.buf.String()); stmt != "" {
		s.stmts = append(s.stmts, stmt)
	}
	s.buf.Reset()
}

func (s *splitter) finish() *Result {
	if rest := strings.TrimSpace(s.buf.String()); rest != "" {
		s.warns = append(s.warns, Warning{
			Line:    s.line,
			Message: "statement not terminated at end of file, semicolon appended",
		})
		s.stmts = append(s.stmts, rest+";")
	}
	s.buf.Reset()
	return &Result{Statements: s.stmts, Warnings: s.warns}
}
