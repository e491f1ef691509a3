// # internal/parser/typemap.go
package parser

import (
	"strings"

	"github.com/Laar/opengl-api/internal/gerrors"
)

// CTypeTag is the closed set of canonical types the renderer knows how to
// emit. Pointer arity is carried separately on CType.
type CTypeTag int

const (
	CTVoid CTypeTag = iota
	CTEnum
	CTBoolean
	CTBitfield
	CTGLvoid
	CTByte
	CTShort
	CTInt
	CTUByte
	CTUShort
	CTUInt
	CTSizei
	CTFloat
	CTClampf
	CTDouble
	CTClampd
	CTChar
	CTCharARB
	CTHandleARB
	CTHalfNV
	CTIntPtr
	CTSizeiPtr
	CTIntPtrARB
	CTSizeiPtrARB
	CTInt64
	CTUInt64
	CTInt64EXT
	CTUInt64EXT
	CTFixed
	CTSync
	CTEGLImageOES
	CTVdpauSurfaceNV
	CTDebugProc
	CTDebugProcARB
	CTDebugProcAMD
	CTFuncPtr
	CTUByteConstString
	CTCLContext
	CTCLEvent
)

// CType is a resolved type: canonical tag plus pointer-arity flag.
type CType struct {
	Tag     CTypeTag
	Pointer bool
}

// typeSpellings is the closed set of C type spellings the type map may use.
// An entry outside this table fails the parse: a new spelling means the
// renderer does not yet know how to emit it, which must surface loudly.
var typeSpellings = map[string]CType{
	"*":                    {Tag: CTVoid},
	"GLenum":               {Tag: CTEnum},
	"GLboolean":            {Tag: CTBoolean},
	"GLbitfield":           {Tag: CTBitfield},
	"GLvoid":               {Tag: CTGLvoid},
	"GLvoid*":              {Tag: CTGLvoid, Pointer: true},
	"GLbyte":               {Tag: CTByte},
	"GLshort":              {Tag: CTShort},
	"GLint":                {Tag: CTInt},
	"GLubyte":              {Tag: CTUByte},
	"GLushort":             {Tag: CTUShort},
	"GLuint":               {Tag: CTUInt},
	"GLsizei":              {Tag: CTSizei},
	"GLfloat":              {Tag: CTFloat},
	"GLclampf":             {Tag: CTClampf},
	"GLdouble":             {Tag: CTDouble},
	"GLclampd":             {Tag: CTClampd},
	"GLchar":               {Tag: CTChar},
	"GLchar*":              {Tag: CTChar, Pointer: true},
	"GLcharARB":            {Tag: CTCharARB},
	"GLcharARB*":           {Tag: CTCharARB, Pointer: true},
	"GLhandleARB":          {Tag: CTHandleARB},
	"GLhalfNV":             {Tag: CTHalfNV},
	"GLintptr":             {Tag: CTIntPtr},
	"GLsizeiptr":           {Tag: CTSizeiPtr},
	"GLintptrARB":          {Tag: CTIntPtrARB},
	"GLsizeiptrARB":        {Tag: CTSizeiPtrARB},
	"GLint64":              {Tag: CTInt64},
	"GLuint64":             {Tag: CTUInt64},
	"GLint64EXT":           {Tag: CTInt64EXT},
	"GLuint64EXT":          {Tag: CTUInt64EXT},
	"GLfixed":              {Tag: CTFixed},
	"GLsync":               {Tag: CTSync},
	"GLeglImageOES":        {Tag: CTEGLImageOES},
	"GLvdpauSurfaceNV":     {Tag: CTVdpauSurfaceNV},
	"GLDEBUGPROC":          {Tag: CTDebugProc},
	"GLDEBUGPROCARB":       {Tag: CTDebugProcARB},
	"GLDEBUGPROCAMD":       {Tag: CTDebugProcAMD},
	"_GLfuncptr":           {Tag: CTFuncPtr},
	"const GLubyte *":      {Tag: CTUByteConstString, Pointer: true},
	"struct _cl_context *": {Tag: CTCLContext, Pointer: true},
	"struct _cl_event *":   {Tag: CTCLEvent, Pointer: true},
}

var spellingsByType = func() map[CType]string {
	m := make(map[CType]string, len(typeSpellings))
	for spelling, ct := range typeSpellings {
		m[ct] = spelling
	}
	return m
}()

// Spelling returns the registry spelling of the type, the inverse of the
// spelling table.
func (c CType) Spelling() string {
	return spellingsByType[c]
}

// CDecl returns the C declaration spelling used in the generated header.
// The bare "*" spelling of the void entry renders as plain void there.
func (c CType) CDecl() string {
	if c.Tag == CTVoid {
		return "void"
	}
	return c.Spelling()
}

// TypeMapEntry is one mapping row of the type-map registry.
type TypeMapEntry struct {
	Name string
	Type CType
}

// TMLineKind discriminates the line records of the type-map registry.
type TMLineKind int

const (
	TMComment TMLineKind = iota
	TMBlank
	TMEntry
)

type TMLine struct {
	Kind    TMLineKind
	Pos     gerrors.Position
	Comment string
	Entry   TypeMapEntry
}

// TypeMap is the finished name lookup, built once per registry read and
// read-only afterwards.
type TypeMap struct {
	entries map[string]CType
}

// Resolve looks a source type token up. A missing name is a hard error, not
// a default: a function referring to an unmapped type cannot be rendered.
func (t TypeMap) Resolve(name string) (CType, error) {
	ct, ok := t.entries[name]
	if !ok {
		return CType{}, gerrors.Newf(gerrors.CodeTypeLookup, "type %q not present in type map", name)
	}
	return ct, nil
}

func (t TypeMap) Len() int {
	return len(t.entries)
}

// ParseTypeMapLines parses the type-map registry into its line records.
func ParseTypeMapLines(src string) ([]TMLine, error) {
	s := newScanner(src)
	var lines []TMLine
	for !s.eof() {
		pos := s.pos()
		if text, ok := parseCommentLine(s); ok {
			lines = append(lines, TMLine{Kind: TMComment, Pos: pos, Comment: text})
			continue
		}
		if parseBlankLine(s) {
			lines = append(lines, TMLine{Kind: TMBlank, Pos: pos})
			continue
		}
		entry, err := parseTypeMapEntry(s)
		if err != nil {
			return nil, err
		}
		lines = append(lines, TMLine{Kind: TMEntry, Pos: pos, Entry: entry})
	}
	return lines, nil
}

// parseTypeMapEntry accepts `name,*,*,<type-text>,*,*[,]`.
func parseTypeMapEntry(s *scanner) (TypeMapEntry, error) {
	pos := s.pos()
	name, ok := s.ident()
	if !ok {
		return TypeMapEntry{}, gerrors.At(gerrors.CodeParse, pos, "unrecognized type-map line")
	}
	if !s.lit(",*,*,") {
		return TypeMapEntry{}, gerrors.At(gerrors.CodeParse, pos, "malformed type-map entry for %q", name)
	}
	rest := s.src[s.off:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return TypeMapEntry{}, gerrors.At(gerrors.CodeParse, pos, "malformed type-map entry for %q", name)
	}
	spelling := rest[:comma]
	s.off += comma
	ct, known := typeSpellings[spelling]
	if !known {
		return TypeMapEntry{}, gerrors.At(gerrors.CodeVocabulary, pos, "unknown type spelling %q for %q", spelling, name)
	}
	if !s.lit(",*,*") {
		return TypeMapEntry{}, gerrors.At(gerrors.CodeParse, pos, "malformed type-map entry for %q", name)
	}
	s.lit(",")
	if !s.blanksThenNewline() {
		return TypeMapEntry{}, gerrors.At(gerrors.CodeParse, pos, "trailing text on type-map entry for %q", name)
	}
	return TypeMapEntry{Name: name, Type: ct}, nil
}

// BuildTypeMap folds the entry lines into the lookup; a duplicated name is
// tolerated with the last occurrence winning.
func BuildTypeMap(lines []TMLine) TypeMap {
	entries := make(map[string]CType)
	for _, line := range lines {
		if line.Kind == TMEntry {
			entries[line.Entry.Name] = line.Entry.Type
		}
	}
	return TypeMap{entries: entries}
}

// RenderTypeMapLines prints the line records in canonical form.
func RenderTypeMapLines(lines []TMLine) string {
	var b strings.Builder
	for _, line := range lines {
		switch line.Kind {
		case TMComment:
			b.WriteByte('#')
			b.WriteString(line.Comment)
			b.WriteByte('\n')
		case TMBlank:
			b.WriteByte('\n')
		case TMEntry:
			b.WriteString(line.Entry.Name)
			b.WriteString(",*,*,")
			b.WriteString(line.Entry.Type.Spelling())
			b.WriteString(",*,*,\n")
		}
	}
	return b.String()
}
