// # internal/parser/scan.go
package parser

import (
	"strings"

	"github.com/Laar/opengl-api/internal/gerrors"
)

// scanner is the shared low-level cursor over a registry buffer. All three
// line grammars sit on top of it. Alternatives save a mark before trying and
// restore it on failure, so a failed alternative never consumes input.
type scanner struct {
	src       string
	off       int
	line      int
	lineStart int
}

// mark captures the full cursor state for backtracking.
type mark struct {
	off       int
	line      int
	lineStart int
}

func newScanner(src string) *scanner {
	return &scanner{src: src, line: 1}
}

func (s *scanner) save() mark {
	return mark{off: s.off, line: s.line, lineStart: s.lineStart}
}

func (s *scanner) restore(m mark) {
	s.off, s.line, s.lineStart = m.off, m.line, m.lineStart
}

func (s *scanner) pos() gerrors.Position {
	return gerrors.Position{Line: s.line, Column: s.off - s.lineStart + 1}
}

func (s *scanner) eof() bool {
	return s.off >= len(s.src)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.off]
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func isIdentChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// blanks consumes zero or more horizontal whitespace bytes.
func (s *scanner) blanks() int {
	n := 0
	for !s.eof() && isBlank(s.src[s.off]) {
		s.off++
		n++
	}
	return n
}

// blanks1 consumes one or more horizontal whitespace bytes.
func (s *scanner) blanks1() bool {
	return s.blanks() > 0
}

// lit consumes the exact literal if it is next, without any blank skipping.
func (s *scanner) lit(tok string) bool {
	if strings.HasPrefix(s.src[s.off:], tok) {
		s.off += len(tok)
		return true
	}
	return false
}

// ident scans a maximal [A-Za-z0-9_]+ run.
func (s *scanner) ident() (string, bool) {
	start := s.off
	for !s.eof() && isIdentChar(s.src[s.off]) {
		s.off++
	}
	if s.off == start {
		return "", false
	}
	return s.src[start:s.off], true
}

// hexLiteral scans 0x followed by hex digits, recording the digit count and
// whether lowercase letters were used so rendering can reproduce the literal
// byte for byte.
func (s *scanner) hexLiteral() (Value, bool) {
	m := s.save()
	if !s.lit("0x") && !s.lit("0X") {
		return Value{}, false
	}
	start := s.off
	lower := false
	var num uint64
	for !s.eof() && isHexDigit(s.src[s.off]) {
		c := s.src[s.off]
		switch {
		case isDigit(c):
			num = num<<4 | uint64(c-'0')
		case c >= 'a' && c <= 'f':
			num = num<<4 | uint64(c-'a'+10)
			lower = true
		default:
			num = num<<4 | uint64(c-'A'+10)
		}
		s.off++
	}
	if s.off == start {
		s.restore(m)
		return Value{}, false
	}
	return Value{Kind: ValueHex, Num: num, Digits: s.off - start, Lower: lower}, true
}

// decLiteral scans a decimal digit run.
func (s *scanner) decLiteral() (uint64, int, bool) {
	start := s.off
	var num uint64
	for !s.eof() && isDigit(s.src[s.off]) {
		num = num*10 + uint64(s.src[s.off]-'0')
		s.off++
	}
	if s.off == start {
		return 0, 0, false
	}
	return num, s.off - start, true
}

// token scans a run of non-blank, non-newline bytes followed by trailing
// blanks; the generic "bare token then blanks" helper.
func (s *scanner) token() (string, bool) {
	start := s.off
	for !s.eof() {
		c := s.src[s.off]
		if isBlank(c) || c == '\n' {
			break
		}
		s.off++
	}
	if s.off == start {
		return "", false
	}
	tok := s.src[start:s.off]
	s.blanks()
	return tok, true
}

// restOfLine consumes up to the line terminator and returns the consumed
// text; the terminator itself is consumed too.
func (s *scanner) restOfLine() string {
	start := s.off
	for !s.eof() && s.src[s.off] != '\n' {
		s.off++
	}
	text := s.src[start:s.off]
	s.newline()
	return text
}

// newline consumes the line terminator. End of input counts as a terminator
// so a final line without a trailing newline still parses.
func (s *scanner) newline() bool {
	if s.eof() {
		return true
	}
	if s.src[s.off] == '\n' {
		s.off++
		s.line++
		s.lineStart = s.off
		return true
	}
	return false
}

// blanksThenNewline consumes trailing blanks plus the terminator, the
// required tail of every line-level parser.
func (s *scanner) blanksThenNewline() bool {
	m := s.save()
	s.blanks()
	if s.newline() {
		return true
	}
	s.restore(m)
	return false
}

// version scans a major.minor pair.
func (s *scanner) version() (VersionNumber, bool) {
	m := s.save()
	major, _, ok := s.decLiteral()
	if !ok || !s.lit(".") {
		s.restore(m)
		return VersionNumber{}, false
	}
	minor, _, ok := s.decLiteral()
	if !ok {
		s.restore(m)
		return VersionNumber{}, false
	}
	return VersionNumber{Major: int(major), Minor: int(minor)}, true
}

// question scans the numeric-or-mark value of the GLX opcode properties.
func (s *scanner) question() (Question, bool) {
	if s.lit("?") {
		return Question{}, true
	}
	m := s.save()
	num, _, ok := s.decLiteral()
	if !ok {
		return Question{}, false
	}
	q := Question{Known: true, Value: int(num)}
	if s.lit("re") {
		q.RE = true
	}
	if !s.eof() && isIdentChar(s.src[s.off]) {
		s.restore(m)
		return Question{}, false
	}
	return q, true
}

// categoryToken interprets an already-scanned identifier as a category.
func categoryToken(tok string) Category {
	name, deprecated := strings.CutSuffix(tok, "_DEPRECATED")
	if name == "" {
		return NameCategory(tok)
	}
	if rest, found := strings.CutPrefix(name, "VERSION_"); found {
		if v, ok := splitVersionName(rest); ok {
			v.Deprecated = deprecated
			return v
		}
	}
	for _, vendor := range vendorsByLength {
		if rest, found := strings.CutPrefix(name, string(vendor)+"_"); found && rest != "" {
			return ExtensionCategory(vendor, rest, deprecated)
		}
	}
	// A deprecation marker on an unrecognized name stays part of the name.
	return NameCategory(tok)
}

func splitVersionName(rest string) (Category, bool) {
	under := strings.IndexByte(rest, '_')
	if under <= 0 || under == len(rest)-1 {
		return Category{}, false
	}
	major, ok := parseAllDigits(rest[:under])
	if !ok {
		return Category{}, false
	}
	minor, ok := parseAllDigits(rest[under+1:])
	if !ok {
		return Category{}, false
	}
	return VersionCategory(major, minor, false), true
}

func parseAllDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, true
}

// category scans an identifier and interprets it as a category.
func (s *scanner) category() (Category, bool) {
	// Bare-name categories like display-list or pixel-rw carry hyphens, so
	// a plain identifier scan is not enough here.
	start := s.off
	if s.eof() || !isIdentChar(s.src[s.off]) {
		return Category{}, false
	}
	for !s.eof() && (isIdentChar(s.src[s.off]) || s.src[s.off] == '-') {
		s.off++
	}
	return categoryToken(s.src[start:s.off]), true
}
