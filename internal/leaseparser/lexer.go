package leaseparser

import "strings"

type tokenKind int

const (
	tokWord tokenKind = iota
	tokOpen
	tokClose
	tokSemi
)

type token struct {
	kind   tokenKind
	text   string
	quoted bool
}

// keyword reports whether t is the bare (unquoted) word kw, ignoring case.
func (t token) keyword(kw string) bool {
	return t.kind == tokWord && !t.quoted && strings.EqualFold(t.text, kw)
}

// lexer splits dhcpd configuration text into words, braces and semicolons.
// Comments run from '#' to the end of the line.
type lexer struct {
	src string
	pos int
}

func (l *lexer) next() (token, bool) {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isSpace(c):
			l.pos++
		case c == '#':
			if i := strings.IndexByte(l.src[l.pos:], '\n'); i >= 0 {
				l.pos += i + 1
			} else {
				l.pos = len(l.src)
			}
		case c == '{':
			l.pos++
			return token{kind: tokOpen, text: "{"}, true
		case c == '}':
			l.pos++
			return token{kind: tokClose, text: "}"}, true
		case c == ';':
			l.pos++
			return token{kind: tokSemi, text: ";"}, true
		case c == '"':
			return l.quoted(), true
		default:
			start := l.pos
			for l.pos < len(l.src) && !isSpace(l.src[l.pos]) && !isDelim(l.src[l.pos]) {
				l.pos++
			}
			return token{kind: tokWord, text: l.src[start:l.pos]}, true
		}
	}
	return token{}, false
}

// quoted reads a double quoted string; an unterminated one runs to the end of input.
func (l *lexer) quoted() token {
	l.pos++
	start := l.pos
	end := strings.IndexByte(l.src[start:], '"')
	if end < 0 {
		l.pos = len(l.src)
		return token{kind: tokWord, text: l.src[start:], quoted: true}
	}
	l.pos = start + end + 1
	return token{kind: tokWord, text: l.src[start : start+end], quoted: true}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDelim(c byte) bool {
	return c == '{' || c == '}' || c == ';' || c == '#' || c == '"'
}
