// # internal/parser/enumspec.go
package parser

import (
	"strings"

	"github.com/Laar/opengl-api/internal/gerrors"
)

// ParseEnumLines parses the enum registry into its flat line records. Line
// alternatives are tried in a fixed priority order and every alternative
// either consumes through the line terminator or leaves the cursor where it
// started, so the parser never desynchronizes mid-line.
func ParseEnumLines(src string) ([]EnumLine, error) {
	s := newScanner(src)
	var lines []EnumLine
	for !s.eof() {
		pos := s.pos()
		line, ok := parseEnumLine(s)
		if !ok {
			err := gerrors.At(gerrors.CodeParse, pos, "unrecognized enum registry line")
			return nil, gerrors.AddContext(err, gerrors.CtxRegistry, "enum")
		}
		line.Pos = pos
		lines = append(lines, line)
	}
	return lines, nil
}

func parseEnumLine(s *scanner) (EnumLine, bool) {
	if text, ok := parseCommentLine(s); ok {
		return EnumLine{Kind: EnumComment, Comment: text}, true
	}
	if parseBlankLine(s) {
		return EnumLine{Kind: EnumBlank}, true
	}
	if line, ok := parseEnumStart(s); ok {
		return line, true
	}
	if text, ok := parsePassthruLine(s); ok {
		return EnumLine{Kind: EnumPassthru, Text: text}, true
	}
	if line, ok := parseEnumDef(s); ok {
		return line, true
	}
	if line, ok := parseEnumUse(s); ok {
		return line, true
	}
	return EnumLine{}, false
}

// parseCommentLine accepts '#' through end of line, keeping the text after
// the marker verbatim.
func parseCommentLine(s *scanner) (string, bool) {
	m := s.save()
	s.blanks()
	if !s.lit("#") {
		s.restore(m)
		return "", false
	}
	return s.restOfLine(), true
}

func parseBlankLine(s *scanner) bool {
	m := s.save()
	s.blanks()
	if s.newline() {
		return true
	}
	s.restore(m)
	return false
}

// parsePassthruLine accepts `passthru: /* ... */`; the interior is stored
// verbatim with no interpretation.
func parsePassthruLine(s *scanner) (string, bool) {
	m := s.save()
	if !s.lit("passthru:") {
		return "", false
	}
	s.blanks()
	if !s.lit("/*") {
		s.restore(m)
		return "", false
	}
	rest := s.src[s.off:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	// The closing `*/` must sit on the same line; searching past the
	// newline would swallow the following lines on a malformed fragment.
	end := strings.Index(rest, "*/")
	if end < 0 {
		s.restore(m)
		return "", false
	}
	text := s.src[s.off : s.off+end]
	s.off += end + len("*/")
	if !s.blanksThenNewline() {
		s.restore(m)
		return "", false
	}
	return text, true
}

// parseEnumStart accepts `CATEGORY enum:` with an optional trailing
// annotation token. The category name starts at column zero, which is what
// distinguishes it from the indented member lines.
func parseEnumStart(s *scanner) (EnumLine, bool) {
	m := s.save()
	cat, ok := s.category()
	if !ok {
		return EnumLine{}, false
	}
	if !s.blanks1() || !s.lit("enum:") {
		s.restore(m)
		return EnumLine{}, false
	}
	line := EnumLine{Kind: EnumStart, Category: cat}
	before := s.save()
	if s.blanks1() {
		if annot, ok := s.token(); ok {
			line.Annotation = annot
		} else {
			s.restore(before)
		}
	}
	if !s.blanksThenNewline() {
		s.restore(m)
		return EnumLine{}, false
	}
	return line, true
}

// parseEnumDef accepts an indented `NAME = value` binding with an optional
// trailing comment.
func parseEnumDef(s *scanner) (EnumLine, bool) {
	m := s.save()
	if !s.blanks1() {
		return EnumLine{}, false
	}
	name, ok := s.ident()
	if !ok {
		s.restore(m)
		return EnumLine{}, false
	}
	s.blanks()
	if !s.lit("=") {
		s.restore(m)
		return EnumLine{}, false
	}
	s.blanks()
	val, ok := parseValue(s)
	if !ok {
		s.restore(m)
		return EnumLine{}, false
	}
	line := EnumLine{Kind: EnumDef, Name: name, Value: val}
	s.blanks()
	if s.lit("#") {
		line.Trailing = s.restOfLine()
		return line, true
	}
	if !s.blanksThenNewline() {
		s.restore(m)
		return EnumLine{}, false
	}
	return line, true
}

// parseEnumUse accepts an indented `use CATEGORY NAME` cross-reference.
func parseEnumUse(s *scanner) (EnumLine, bool) {
	m := s.save()
	if !s.blanks1() {
		return EnumLine{}, false
	}
	if !s.lit("use") || !s.blanks1() {
		s.restore(m)
		return EnumLine{}, false
	}
	cat, ok := s.category()
	if !ok {
		s.restore(m)
		return EnumLine{}, false
	}
	if !s.blanks1() {
		s.restore(m)
		return EnumLine{}, false
	}
	name, ok := s.ident()
	if !ok {
		s.restore(m)
		return EnumLine{}, false
	}
	if !s.blanksThenNewline() {
		s.restore(m)
		return EnumLine{}, false
	}
	return EnumLine{Kind: EnumUse, Category: cat, Name: name}, true
}

// parseValue accepts a hex literal, a decimal literal, or a bare identifier
// reference, in that order.
func parseValue(s *scanner) (Value, bool) {
	if v, ok := s.hexLiteral(); ok {
		return v, true
	}
	m := s.save()
	if num, _, ok := s.decLiteral(); ok {
		if s.eof() || !isIdentChar(s.src[s.off]) {
			return DecValue(num), true
		}
		s.restore(m)
	}
	if id, ok := s.ident(); ok {
		return IdentValue(id), true
	}
	return Value{}, false
}

// enumNameColumn is the tab stop the value column is padded to; it matches
// the hand-maintained registry so rendered output reparses identically.
const enumNameColumn = 48

// RenderEnumLines prints the line records in canonical form. Reparsing the
// result yields structurally identical records; this is the round-trip
// contract the whole pipeline is checked against.
func RenderEnumLines(lines []EnumLine) string {
	var b strings.Builder
	for _, line := range lines {
		renderEnumLine(&b, line)
	}
	return b.String()
}

func renderEnumLine(b *strings.Builder, line EnumLine) {
	switch line.Kind {
	case EnumComment:
		b.WriteByte('#')
		b.WriteString(line.Comment)
		b.WriteByte('\n')
	case EnumBlank:
		b.WriteByte('\n')
	case EnumStart:
		b.WriteString(line.Category.String())
		b.WriteString(" enum:")
		if line.Annotation != "" {
			b.WriteByte(' ')
			b.WriteString(line.Annotation)
		}
		b.WriteByte('\n')
	case EnumPassthru:
		b.WriteString("passthru: /*")
		b.WriteString(line.Text)
		b.WriteString("*/\n")
	case EnumDef:
		b.WriteByte('\t')
		b.WriteString(line.Name)
		padTabs(b, 8+len(line.Name), enumNameColumn)
		b.WriteString("= ")
		b.WriteString(line.Value.String())
		if line.Trailing != "" {
			b.WriteString("\t#")
			b.WriteString(line.Trailing)
		}
		b.WriteByte('\n')
	case EnumUse:
		b.WriteString("\tuse ")
		b.WriteString(line.Category.String())
		b.WriteByte(' ')
		b.WriteString(line.Name)
		b.WriteByte('\n')
	}
}

// padTabs writes tabs from column col (8-wide stops) until target, always at
// least one.
func padTabs(b *strings.Builder, col, target int) {
	b.WriteByte('\t')
	col = col/8*8 + 8
	for col < target {
		b.WriteByte('\t')
		col += 8
	}
}
