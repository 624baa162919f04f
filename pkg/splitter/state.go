package splitter

import "strings"

const (
	squote    = '\''
	dquote    = '"'
	backslash = '\\'
	semicolon = ';'
)

type quoteState uint8

const (
	quoteNone quoteState = iota
	quoteSingle
	quoteDouble
)

func (q quoteState) String() string {
	switch q {
	case quoteSingle:
		return "single"
	case quoteDouble:
		return "double"
	default:
		return "none"
	}
}

// lineKind is the block classification of a trimmed source line.
type lineKind uint8

const (
	linePlain lineKind = iota
	lineBlockStart
	lineBlockEnd
)

func classify(trimmed string) lineKind {
	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(lower, "begin"), strings.HasPrefix(lower, "declare"):
		return lineBlockStart
	case lower == "end;":
		return lineBlockEnd
	default:
		return linePlain
	}
}

// state is the scanner position: which literal, if any, is open and whether
// the scan is inside a procedural block. The zero value is the initial state.
type state struct {
	quote quoteState
	block bool
}

func (s state) normal() bool {
	return s.quote == quoteNone && !s.block
}

// next computes the state after reading r, where prev is the character read
// just before r on the same line (0 at the start of a line). It reports
// whether r terminates the current statement.
func (s state) next(r, prev rune, kind lineKind) (state, bool) {
	if (r == squote || r == dquote) && prev != backslash {
		open := quoteSingle
		if r == dquote {
			open = quoteDouble
		}
		switch s.quote {
		case quoteNone:
			s.quote = open
		case open:
			s.quote = quoteNone
		}
	}

	if s.quote == quoteNone {
		switch kind {
		case lineBlockStart:
			s.block = true
		case lineBlockEnd:
			s.block = false
		}
	}

	return s, r == semicolon && s.normal()
}
