// # internal/parser/funspec.go
package parser

import (
	"strings"

	"github.com/Laar/opengl-api/internal/gerrors"
)

// Flag vocabularies of the three transport backends. Tokens outside these
// sets fail the parse; silent pass-through of unknown vocabulary would
// corrupt the generated header.
var (
	glxFlagVocab = tokenSet(
		"client-handcode", "client-intercept", "server-handcode",
		"ignore", "ARB", "EXT", "SGI", "NV", "MESA", "OML",
	)
	wglFlagVocab = tokenSet(
		"client-handcode", "server-handcode", "small-data", "batchable",
	)
	dlFlagVocab = tokenSet(
		"notlistable", "handcode", "prepad", "nop",
	)
	extensionVocab = tokenSet(
		"soft", "WINSOFT", "NV10", "NV20", "NV50",
	)
)

func tokenSet(toks ...string) map[string]bool {
	m := make(map[string]bool, len(toks))
	for _, t := range toks {
		m[t] = true
	}
	return m
}

var propertyKinds = func() map[string]PropertyKind {
	m := make(map[string]PropertyKind, len(propertyNames))
	for k, name := range propertyNames {
		m[name] = k
	}
	return m
}()

// ParseFunLines parses the function registry into its flat line records.
// Association of property lines with the signature they follow is left to
// the assembler; this stage only guarantees well-formed lines.
func ParseFunLines(src string) ([]FunLine, error) {
	s := newScanner(src)
	var lines []FunLine
	for !s.eof() {
		pos := s.pos()
		line, err := parseFunLine(s)
		if err != nil {
			return nil, gerrors.AddContext(err, gerrors.CtxRegistry, "function")
		}
		line.Pos = pos
		lines = append(lines, line)
	}
	return lines, nil
}

func parseFunLine(s *scanner) (FunLine, error) {
	if text, ok := parseCommentLine(s); ok {
		return FunLine{Kind: FunComment, Comment: text}, nil
	}
	if parseBlankLine(s) {
		return FunLine{Kind: FunBlank}, nil
	}
	if text, ok := parsePassthruLine(s); ok {
		return FunLine{Kind: FunPassthru, Text: text}, nil
	}
	if line, ok, err := parseNewCategory(s); ok || err != nil {
		return line, err
	}
	if line, ok, err := parseMenu(s); ok || err != nil {
		return line, err
	}
	if line, ok, err := parseSignature(s); ok || err != nil {
		return line, err
	}
	return parsePropertyLine(s)
}

// parseNewCategory accepts the explicit section marker `newcategory: NAME`,
// distinct from the per-function category property (which is indented).
func parseNewCategory(s *scanner) (FunLine, bool, error) {
	m := s.save()
	if !s.lit("newcategory:") {
		return FunLine{}, false, nil
	}
	pos := s.pos()
	s.blanks()
	cat, ok := s.category()
	if !ok {
		return FunLine{}, true, gerrors.At(gerrors.CodeParse, pos, "newcategory marker without a category name")
	}
	if !s.blanksThenNewline() {
		s.restore(m)
		return FunLine{}, true, gerrors.At(gerrors.CodeParse, pos, "trailing text after newcategory marker")
	}
	return FunLine{Kind: FunNewCategory, NewCategory: cat}, true, nil
}

// parseMenu accepts the file-level `category:` / `version:` declarations
// that enumerate the values function properties may use. They sit at column
// zero, which separates them from the identically named properties.
func parseMenu(s *scanner) (FunLine, bool, error) {
	m := s.save()
	if s.lit("category:") {
		menu := Menu{Kind: MenuCategory}
		s.blanks()
		for !s.eof() && s.peek() != '\n' {
			cat, ok := s.category()
			if !ok {
				s.restore(m)
				return FunLine{}, false, nil
			}
			menu.Categories = append(menu.Categories, cat)
			s.blanks()
		}
		s.newline()
		return FunLine{Kind: FunMenu, Menu: menu}, true, nil
	}
	if s.lit("version:") {
		menu := Menu{Kind: MenuVersion}
		s.blanks()
		for !s.eof() && s.peek() != '\n' {
			v, ok := s.version()
			if !ok {
				s.restore(m)
				return FunLine{}, false, nil
			}
			menu.Versions = append(menu.Versions, v)
			s.blanks()
		}
		s.newline()
		return FunLine{Kind: FunMenu, Menu: menu}, true, nil
	}
	return FunLine{}, false, nil
}

// parseSignature accepts `Name(p1, p2, ...)` at column zero. The declared
// names are kept in order; the assembler checks them positionally against
// the param properties.
func parseSignature(s *scanner) (FunLine, bool, error) {
	m := s.save()
	name, ok := s.ident()
	if !ok {
		return FunLine{}, false, nil
	}
	if !s.lit("(") {
		s.restore(m)
		return FunLine{}, false, nil
	}
	pos := s.pos()
	var params []string
	s.blanks()
	if !s.lit(")") {
		for {
			p, ok := s.ident()
			if !ok {
				s.restore(m)
				return FunLine{}, true, gerrors.At(gerrors.CodeParse, pos, "malformed parameter list for %q", name)
			}
			params = append(params, p)
			s.blanks()
			if s.lit(",") {
				s.blanks()
				continue
			}
			break
		}
		if !s.lit(")") {
			s.restore(m)
			return FunLine{}, true, gerrors.At(gerrors.CodeParse, pos, "unterminated parameter list for %q", name)
		}
	}
	if !s.blanksThenNewline() {
		s.restore(m)
		return FunLine{}, true, gerrors.At(gerrors.CodeParse, pos, "trailing text after signature of %q", name)
	}
	return FunLine{Kind: FunSignature, Name: name, Params: params}, true, nil
}

// parsePropertyLine accepts one indented `name: args` property line. It is
// the last alternative, so failures here are reported rather than retried.
func parsePropertyLine(s *scanner) (FunLine, error) {
	pos := s.pos()
	if !s.blanks1() {
		return FunLine{}, gerrors.At(gerrors.CodeParse, pos, "unrecognized function registry line")
	}
	name, ok := s.ident()
	if !ok || !s.lit(":") {
		return FunLine{}, gerrors.At(gerrors.CodeParse, pos, "unrecognized function registry line")
	}
	kind, known := propertyKinds[name]
	if !known {
		return FunLine{}, gerrors.At(gerrors.CodeVocabulary, pos, "unknown property %q", name)
	}
	s.blanks()
	prop, err := parsePropertyBody(s, kind, pos)
	if err != nil {
		return FunLine{}, err
	}
	prop.Pos = pos
	return FunLine{Kind: FunProperty, Prop: prop}, nil
}

func parsePropertyBody(s *scanner, kind PropertyKind, pos gerrors.Position) (Property, error) {
	prop := Property{Kind: kind}
	switch kind {
	case PropReturn:
		typ, ok := s.ident()
		if !ok {
			return prop, gerrors.At(gerrors.CodeParse, pos, "return property without a type")
		}
		prop.Type = typ

	case PropParam:
		param, err := parseParamBody(s, pos)
		if err != nil {
			return prop, err
		}
		prop.Param = param

	case PropCategory:
		cat, ok := s.category()
		if !ok {
			return prop, gerrors.At(gerrors.CodeParse, pos, "category property without a category")
		}
		prop.Category = cat
		s.blanks()
		if s.lit("#") {
			s.blanks()
			if !s.lit("old:") {
				return prop, gerrors.At(gerrors.CodeParse, pos, "category comment is not an old-category remnant")
			}
			s.blanks()
			old, ok := s.category()
			if !ok {
				return prop, gerrors.At(gerrors.CodeParse, pos, "old-category remnant without a category")
			}
			prop.OldCategory = &old
		}

	case PropSubcategory, PropAlias, PropVectorEquiv, PropGLXVectorEquiv:
		name, ok := s.ident()
		if !ok {
			return prop, gerrors.At(gerrors.CodeParse, pos, "%s property without a name", kind)
		}
		prop.Name = name

	case PropVersion, PropDeprecated:
		v, ok := s.version()
		if !ok {
			return prop, gerrors.At(gerrors.CodeParse, pos, "%s property without a major.minor value", kind)
		}
		prop.Version = v

	case PropGLXSingle, PropGLXRopcode, PropGLXVendorPriv:
		q, ok := s.question()
		if !ok {
			return prop, gerrors.At(gerrors.CodeParse, pos, "%s property without an opcode value", kind)
		}
		prop.Question = q

	case PropGLXFlags:
		return parseFlagList(s, prop, glxFlagVocab, true, pos)
	case PropWGLFlags:
		return parseFlagList(s, prop, wglFlagVocab, true, pos)
	case PropDLFlags:
		return parseFlagList(s, prop, dlFlagVocab, false, pos)

	case PropExtension:
		for !s.eof() && s.peek() != '\n' {
			tok, ok := s.token()
			if !ok {
				break
			}
			if !extensionVocab[tok] {
				return prop, gerrors.At(gerrors.CodeVocabulary, pos, "unknown extension token %q", tok)
			}
			prop.Flags = append(prop.Flags, tok)
		}

	case PropBeginEnd:
		if !s.lit("allow-inside") {
			return prop, gerrors.At(gerrors.CodeParse, pos, "beginend property only accepts allow-inside")
		}

	case PropGLextMask:
		tok, ok := s.token()
		if !ok {
			return prop, gerrors.At(gerrors.CodeParse, pos, "glextmask property without mask names")
		}
		for _, n := range strings.Split(tok, "|") {
			if n == "" {
				return prop, gerrors.At(gerrors.CodeParse, pos, "empty mask name in glextmask list")
			}
			prop.Names = append(prop.Names, n)
		}
	}
	if !s.blanksThenNewline() {
		return prop, gerrors.At(gerrors.CodeParse, pos, "trailing text on %s property", kind)
	}
	return prop, nil
}

// parseParamBody accepts `<name> <Type> {in|out} {value|array[b] [retained]|reference}`.
func parseParamBody(s *scanner, pos gerrors.Position) (Param, error) {
	var p Param
	name, ok := s.ident()
	if !ok {
		return p, gerrors.At(gerrors.CodeParse, pos, "param property without a name")
	}
	p.Name = name
	if !s.blanks1() {
		return p, gerrors.At(gerrors.CodeParse, pos, "param %q without a type", name)
	}
	typ, ok := s.ident()
	if !ok {
		return p, gerrors.At(gerrors.CodeParse, pos, "param %q without a type", name)
	}
	p.Type = typ
	if !s.blanks1() {
		return p, gerrors.At(gerrors.CodeParse, pos, "param %q without a direction", name)
	}
	switch {
	case s.lit("in"):
		p.Dir = DirIn
	case s.lit("out"):
		p.Dir = DirOut
	default:
		return p, gerrors.At(gerrors.CodeParse, pos, "param %q direction must be in or out", name)
	}
	if !s.blanks1() {
		return p, gerrors.At(gerrors.CodeParse, pos, "param %q without a passing mode", name)
	}
	switch {
	case s.lit("value"):
		p.Mode = ModeValue
	case s.lit("reference"):
		p.Mode = ModeReference
	case s.lit("array["):
		end := strings.IndexByte(s.src[s.off:], ']')
		if end < 0 {
			return p, gerrors.At(gerrors.CodeParse, pos, "param %q array bound is unterminated", name)
		}
		p.Mode = ModeArray
		p.Bound = s.src[s.off : s.off+end]
		s.off += end + 1
		m := s.save()
		s.blanks()
		if s.lit("retained") {
			p.Retained = true
		} else {
			s.restore(m)
		}
	default:
		return p, gerrors.At(gerrors.CodeParse, pos, "param %q passing mode must be value, array or reference", name)
	}
	return p, nil
}

// parseFlagList reads vocabulary-checked flag tokens, optionally split by a
// "###" separator whose right-hand side is the commented-out historical
// list two of the backends carry.
func parseFlagList(s *scanner, prop Property, vocab map[string]bool, allowCommented bool, pos gerrors.Position) (Property, error) {
	commented := false
	for !s.eof() && s.peek() != '\n' {
		tok, ok := s.token()
		if !ok {
			break
		}
		if tok == "###" {
			if !allowCommented || commented {
				return prop, gerrors.At(gerrors.CodeParse, pos, "unexpected ### separator in %s list", prop.Kind)
			}
			commented = true
			continue
		}
		if !vocab[tok] {
			return prop, gerrors.At(gerrors.CodeVocabulary, pos, "unknown %s token %q", prop.Kind, tok)
		}
		if commented {
			prop.CommentedFlags = append(prop.CommentedFlags, tok)
		} else {
			prop.Flags = append(prop.Flags, tok)
		}
	}
	if !s.blanksThenNewline() {
		return prop, gerrors.At(gerrors.CodeParse, pos, "trailing text on %s property", prop.Kind)
	}
	return prop, nil
}

// RenderFunLines prints the line records in canonical form.
func RenderFunLines(lines []FunLine) string {
	var b strings.Builder
	for _, line := range lines {
		renderFunLine(&b, line)
	}
	return b.String()
}

func renderFunLine(b *strings.Builder, line FunLine) {
	switch line.Kind {
	case FunComment:
		b.WriteByte('#')
		b.WriteString(line.Comment)
		b.WriteByte('\n')
	case FunBlank:
		b.WriteByte('\n')
	case FunPassthru:
		b.WriteString("passthru: /*")
		b.WriteString(line.Text)
		b.WriteString("*/\n")
	case FunMenu:
		renderMenu(b, line.Menu)
	case FunNewCategory:
		b.WriteString("newcategory: ")
		b.WriteString(line.NewCategory.String())
		b.WriteByte('\n')
	case FunSignature:
		b.WriteString(line.Name)
		b.WriteByte('(')
		b.WriteString(strings.Join(line.Params, ", "))
		b.WriteString(")\n")
	case FunProperty:
		renderProperty(b, line.Prop)
	}
}

func renderMenu(b *strings.Builder, menu Menu) {
	if menu.Kind == MenuCategory {
		b.WriteString("category:")
		for _, c := range menu.Categories {
			b.WriteByte(' ')
			b.WriteString(c.String())
		}
	} else {
		b.WriteString("version:")
		for _, v := range menu.Versions {
			b.WriteByte(' ')
			b.WriteString(v.String())
		}
	}
	b.WriteByte('\n')
}

func renderProperty(b *strings.Builder, p Property) {
	b.WriteByte('\t')
	b.WriteString(p.Kind.String())
	b.WriteString(":\t")
	switch p.Kind {
	case PropReturn:
		b.WriteString(p.Type)
	case PropParam:
		renderParam(b, p.Param)
	case PropCategory:
		b.WriteString(p.Category.String())
		if p.OldCategory != nil {
			b.WriteString("\t# old: ")
			b.WriteString(p.OldCategory.String())
		}
	case PropSubcategory, PropAlias, PropVectorEquiv, PropGLXVectorEquiv:
		b.WriteString(p.Name)
	case PropVersion, PropDeprecated:
		b.WriteString(p.Version.String())
	case PropGLXSingle, PropGLXRopcode, PropGLXVendorPriv:
		b.WriteString(p.Question.String())
	case PropGLXFlags, PropWGLFlags, PropDLFlags, PropExtension:
		b.WriteString(strings.Join(p.Flags, " "))
		if len(p.CommentedFlags) > 0 {
			if len(p.Flags) > 0 {
				b.WriteByte(' ')
			}
			b.WriteString("### ")
			b.WriteString(strings.Join(p.CommentedFlags, " "))
		}
	case PropBeginEnd:
		b.WriteString("allow-inside")
	case PropGLextMask:
		b.WriteString(strings.Join(p.Names, "|"))
	}
	b.WriteByte('\n')
}

func renderParam(b *strings.Builder, p Param) {
	b.WriteString(p.Name)
	b.WriteByte(' ')
	b.WriteString(p.Type)
	b.WriteByte(' ')
	b.WriteString(p.Dir.String())
	b.WriteByte(' ')
	switch p.Mode {
	case ModeValue:
		b.WriteString("value")
	case ModeReference:
		b.WriteString("reference")
	case ModeArray:
		b.WriteString("array[")
		b.WriteString(p.Bound)
		b.WriteByte(']')
		if p.Retained {
			b.WriteString(" retained")
		}
	}
}
