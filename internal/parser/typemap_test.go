// # internal/parser/typemap_test.go
package parser

import (
	"testing"

	"github.com/Laar/opengl-api/internal/gerrors"
)

func TestParseTypeMapEntry(t *testing.T) {
	lines, err := ParseTypeMapLines("GLsync,*,*,GLsync,*,*\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(lines) != 1 || lines[0].Kind != TMEntry {
		t.Fatalf("Expected one TMEntry line, got %+v", lines)
	}
	e := lines[0].Entry
	if e.Name != "GLsync" || e.Type.Tag != CTSync || e.Type.Pointer {
		t.Errorf("Unexpected entry: %+v", e)
	}
}

func TestParseTypeMapSpellings(t *testing.T) {
	cases := []struct {
		src  string
		want CType
	}{
		{"void,*,*,*,*,*,\n", CType{Tag: CTVoid}},
		{"String,*,*,const GLubyte *,*,*,\n", CType{Tag: CTUByteConstString, Pointer: true}},
		{"cl_context,*,*,struct _cl_context *,*,*,\n", CType{Tag: CTCLContext, Pointer: true}},
		{"VoidPointer,*,*,GLvoid*,*,*,\n", CType{Tag: CTGLvoid, Pointer: true}},
		{"handleARB,*,*,GLhandleARB,*,*,\n", CType{Tag: CTHandleARB}},
	}
	for _, c := range cases {
		lines, err := ParseTypeMapLines(c.src)
		if err != nil {
			t.Fatalf("%s: parse failed: %v", c.src, err)
		}
		if lines[0].Entry.Type != c.want {
			t.Errorf("%s: got %+v, want %+v", c.src, lines[0].Entry.Type, c.want)
		}
	}
}

func TestParseTypeMapUnknownSpelling(t *testing.T) {
	_, err := ParseTypeMapLines("Mystery,*,*,GLmystery,*,*,\n")
	if err == nil {
		t.Fatal("Expected failure for unknown type spelling")
	}
	if !gerrors.IsCode(err, gerrors.CodeVocabulary) {
		t.Errorf("Expected vocabulary error, got %v", err)
	}
}

func TestBuildTypeMapLastWins(t *testing.T) {
	lines, err := ParseTypeMapLines("T,*,*,GLint,*,*,\nT,*,*,GLuint,*,*,\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	tm := BuildTypeMap(lines)
	ct, err := tm.Resolve("T")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if ct.Tag != CTUInt {
		t.Errorf("Expected the later entry to win, got %+v", ct)
	}
}

func TestTypeMapResolveMissing(t *testing.T) {
	tm := BuildTypeMap(nil)
	_, err := tm.Resolve("Nope")
	if err == nil {
		t.Fatal("Expected error for missing type")
	}
	if !gerrors.IsCode(err, gerrors.CodeTypeLookup) {
		t.Errorf("Expected type lookup error, got %v", err)
	}
}

func TestTypeMapRenderReparse(t *testing.T) {
	src := "# gl.tm\n\nAccumOp,*,*,GLenum,*,*,\nvoid,*,*,*,*,*,\nString,*,*,const GLubyte *,*,*,\n"
	first, err := ParseTypeMapLines(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	rendered := RenderTypeMapLines(first)
	second, err := ParseTypeMapLines(rendered)
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("line count changed across render: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Kind != second[i].Kind || first[i].Entry != second[i].Entry {
			t.Errorf("line %d changed across render: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestCTypeCDecl(t *testing.T) {
	if got := (CType{Tag: CTVoid}).CDecl(); got != "void" {
		t.Errorf("void CDecl = %q", got)
	}
	if got := (CType{Tag: CTEnum}).CDecl(); got != "GLenum" {
		t.Errorf("GLenum CDecl = %q", got)
	}
	if got := (CType{Tag: CTUByteConstString, Pointer: true}).CDecl(); got != "const GLubyte *" {
		t.Errorf("string CDecl = %q", got)
	}
}
