// Package leaseparser extracts static host reservations from ISC dhcpd
// configuration text:
//
//	host <hostname> {
//	    hardware ethernet <mac>;
//	    fixed-address <ipv4>;
//	}
//
// The fixed-address statement is optional and may come before or after the
// hardware line. Keywords are matched case-insensitively and whitespace,
// newlines and '#' comments may appear anywhere between tokens. Host blocks
// nested in subnet, group or shared-network scopes are found as well.
//
// Anything that does not form a complete block (no hardware ethernet line,
// missing braces or semicolons, nested scopes) yields nothing and the scan
// carries on with the next host declaration. The MAC value is passed through
// untouched; it is validated when the reservation is normalized.
package leaseparser

import (
	"io"
	"iter"
	"os"
	"strings"
)

// RawReservation is a host declaration as written in the configuration.
// FixedAddress is empty when the block carries no fixed-address statement.
type RawReservation struct {
	Hostname        string
	HardwareAddress string
	FixedAddress    string
}

// HasFixedAddress reports whether the reservation binds an IPv4 address.
func (r RawReservation) HasFixedAddress() bool {
	return r.FixedAddress != ""
}

// Extract returns the reservations found in text in document order. The
// sequence is evaluated lazily, one block at a time; ranging over it again
// scans text again from the start.
func Extract(text string) iter.Seq[RawReservation] {
	return func(yield func(RawReservation) bool) {
		p := &parser{lex: lexer{src: text}}
		for {
			res, ok := p.nextReservation()
			if !ok {
				return
			}
			if !yield(res) {
				return
			}
		}
	}
}

// ExtractReader reads all of r and returns the reservations it declares.
func ExtractReader(r io.Reader) (iter.Seq[RawReservation], error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Extract(string(b)), nil
}

// ExtractFile reads the configuration file at path.
func ExtractFile(path string) (iter.Seq[RawReservation], error) {
	b, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, err
	}
	return Extract(string(b)), nil
}

type parser struct {
	lex    lexer
	peeked *token
}

func (p *parser) take() (token, bool) {
	if p.peeked != nil {
		t := *p.peeked
		p.peeked = nil
		return t, true
	}
	return p.lex.next()
}

func (p *parser) unread(t token) {
	p.peeked = &t
}

func (p *parser) nextReservation() (RawReservation, bool) {
	for {
		tok, ok := p.take()
		if !ok {
			return RawReservation{}, false
		}
		if !tok.keyword("host") {
			continue
		}
		if res, ok := p.hostBlock(); ok {
			return res, true
		}
	}
}

// hostBlock parses what follows a "host" keyword. It returns false when the
// block is malformed; the parser is then positioned so that scanning can
// resume, with any following "host" keyword left unconsumed.
func (p *parser) hostBlock() (RawReservation, bool) {
	name, ok := p.take()
	if !ok {
		return RawReservation{}, false
	}
	if name.kind != tokWord || name.text == "" || name.keyword("host") {
		p.unread(name)
		return RawReservation{}, false
	}
	open, ok := p.take()
	if !ok {
		return RawReservation{}, false
	}
	if open.kind != tokOpen {
		p.unread(open)
		return RawReservation{}, false
	}

	res := RawReservation{Hostname: name.text}
	hardwareLines := 0
	malformed := false

	for {
		tok, ok := p.take()
		if !ok {
			return RawReservation{}, false
		}
		switch tok.kind {
		case tokClose:
			if malformed || hardwareLines != 1 {
				return RawReservation{}, false
			}
			return res, true
		case tokSemi:
			continue
		case tokOpen:
			malformed = true
			if !p.skipScope() {
				return RawReservation{}, false
			}
			continue
		}

		if tok.keyword("host") {
			// the previous block was never closed
			p.unread(tok)
			return RawReservation{}, false
		}

		words, complete := p.statement(tok)
		if !complete {
			malformed = true
			continue
		}
		switch {
		case len(words) >= 2 && words[0].keyword("hardware") && words[1].keyword("ethernet"):
			if len(words) != 3 {
				malformed = true
				continue
			}
			res.HardwareAddress = words[2].text
			hardwareLines++
		case words[0].keyword("fixed-address"):
			if len(words) < 2 {
				malformed = true
				continue
			}
			if res.FixedAddress == "" {
				// "a, b" lexes as two words, "a,b" as one
				res.FixedAddress, _, _ = strings.Cut(words[1].text, ",")
			}
		}
	}
}

// statement collects the words of a statement starting with first up to its
// terminating semicolon. Braces, a "host" keyword or the end of input cut the
// statement short; the cutting token is pushed back and complete is false.
func (p *parser) statement(first token) (words []token, complete bool) {
	words = append(words, first)
	for {
		tok, ok := p.take()
		if !ok {
			return words, false
		}
		switch {
		case tok.kind == tokSemi:
			return words, true
		case tok.kind != tokWord, tok.keyword("host"):
			p.unread(tok)
			return words, false
		}
		words = append(words, tok)
	}
}

// skipScope consumes tokens up to the brace closing an already opened scope.
func (p *parser) skipScope() bool {
	depth := 1
	for depth > 0 {
		tok, ok := p.take()
		if !ok {
			return false
		}
		switch tok.kind {
		case tokOpen:
			depth++
		case tokClose:
			depth--
		}
	}
	return true
}
