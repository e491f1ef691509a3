// # internal/parser/funspec_test.go
package parser

import (
	"strings"
	"testing"

	"github.com/Laar/opengl-api/internal/gerrors"
)

func TestParseSignature(t *testing.T) {
	lines, err := ParseFunLines("BlendFunc(sfactor, dfactor)\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(lines) != 1 || lines[0].Kind != FunSignature {
		t.Fatalf("Expected one FunSignature line, got %+v", lines)
	}
	if lines[0].Name != "BlendFunc" {
		t.Errorf("Expected name BlendFunc, got %q", lines[0].Name)
	}
	if len(lines[0].Params) != 2 || lines[0].Params[0] != "sfactor" || lines[0].Params[1] != "dfactor" {
		t.Errorf("Unexpected declared params: %v", lines[0].Params)
	}
}

func TestParseSignatureEmpty(t *testing.T) {
	lines, err := ParseFunLines("Flush()\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if lines[0].Kind != FunSignature || len(lines[0].Params) != 0 {
		t.Errorf("Expected empty parameter list, got %+v", lines[0])
	}
}

func TestParseReturnProperty(t *testing.T) {
	lines, err := ParseFunLines("\treturn:\tvoid\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if lines[0].Kind != FunProperty || lines[0].Prop.Kind != PropReturn {
		t.Fatalf("Expected return property, got %+v", lines[0])
	}
	if lines[0].Prop.Type != "void" {
		t.Errorf("Expected type token void, got %q", lines[0].Prop.Type)
	}
}

func TestParseParamProperty(t *testing.T) {
	cases := []struct {
		src  string
		want Param
	}{
		{"\tparam:\t\tsfactor\t\tBlendingFactorSrc in value\n",
			Param{Name: "sfactor", Type: "BlendingFactorSrc", Dir: DirIn, Mode: ModeValue}},
		{"\tparam:\t\tparams\t\tFloat32 out array[4]\n",
			Param{Name: "params", Type: "Float32", Dir: DirOut, Mode: ModeArray, Bound: "4"}},
		{"\tparam:\t\tpointer\t\tVoid in array[COMPSIZE(size/type/stride)] retained\n",
			Param{Name: "pointer", Type: "Void", Dir: DirIn, Mode: ModeArray,
				Bound: "COMPSIZE(size/type/stride)", Retained: true}},
		{"\tparam:\t\tspriteParameter\tSpriteParameterSGIX in reference\n",
			Param{Name: "spriteParameter", Type: "SpriteParameterSGIX", Dir: DirIn, Mode: ModeReference}},
	}
	for _, c := range cases {
		lines, err := ParseFunLines(c.src)
		if err != nil {
			t.Fatalf("%q: parse failed: %v", c.src, err)
		}
		if lines[0].Prop.Kind != PropParam {
			t.Fatalf("%q: expected param property, got %+v", c.src, lines[0])
		}
		if lines[0].Prop.Param != c.want {
			t.Errorf("%q: got %+v, want %+v", c.src, lines[0].Prop.Param, c.want)
		}
	}
}

func TestParseCategoryProperty(t *testing.T) {
	lines, err := ParseFunLines("\tcategory:\tVERSION_1_0\t\t   # old: drawing\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	prop := lines[0].Prop
	if prop.Kind != PropCategory {
		t.Fatalf("Expected category property, got %+v", lines[0])
	}
	if prop.Category != VersionCategory(1, 0, false) {
		t.Errorf("Unexpected category: %+v", prop.Category)
	}
	if prop.OldCategory == nil || *prop.OldCategory != NameCategory("drawing") {
		t.Errorf("Unexpected old category: %+v", prop.OldCategory)
	}
}

func TestParseVersionAndOpcodeProperties(t *testing.T) {
	src := "\tversion:\t\t1.0\n" +
		"\tdeprecated:\t3.1\n" +
		"\tglxropcode:\t160\n" +
		"\tglxsingle:\t129re\n" +
		"\tglxvendorpriv:\t?\n"
	lines, err := ParseFunLines(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if v := lines[0].Prop.Version; v != (VersionNumber{1, 0}) {
		t.Errorf("Unexpected version: %+v", v)
	}
	if v := lines[1].Prop.Version; v != (VersionNumber{3, 1}) {
		t.Errorf("Unexpected deprecated version: %+v", v)
	}
	if q := lines[2].Prop.Question; !q.Known || q.Value != 160 || q.RE {
		t.Errorf("Unexpected ropcode: %+v", q)
	}
	if q := lines[3].Prop.Question; !q.Known || q.Value != 129 || !q.RE {
		t.Errorf("Unexpected re-suffixed opcode: %+v", q)
	}
	if q := lines[4].Prop.Question; q.Known {
		t.Errorf("Expected unknown opcode, got %+v", q)
	}
}

func TestParseFlagProperties(t *testing.T) {
	lines, err := ParseFunLines("\tglxflags:\tclient-handcode server-handcode\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := lines[0].Prop.Flags; len(got) != 2 || got[0] != "client-handcode" {
		t.Errorf("Unexpected glx flags: %v", got)
	}

	lines, err = ParseFunLines("\tdlflags:\t\tnotlistable handcode\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := lines[0].Prop.Flags; len(got) != 2 || got[1] != "handcode" {
		t.Errorf("Unexpected dl flags: %v", got)
	}
}

func TestParseCommentedFlagList(t *testing.T) {
	lines, err := ParseFunLines("\twglflags:\tsmall-data ### batchable\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	prop := lines[0].Prop
	if len(prop.Flags) != 1 || prop.Flags[0] != "small-data" {
		t.Errorf("Unexpected active flags: %v", prop.Flags)
	}
	if len(prop.CommentedFlags) != 1 || prop.CommentedFlags[0] != "batchable" {
		t.Errorf("Unexpected commented flags: %v", prop.CommentedFlags)
	}

	// dlflags never grew the commented form.
	_, err = ParseFunLines("\tdlflags:\t\tnotlistable ### handcode\n")
	if err == nil {
		t.Error("Expected failure for ### in dlflags list")
	}
}

func TestParseUnknownFlagToken(t *testing.T) {
	_, err := ParseFunLines("\tglxflags:\tturbo\n")
	if err == nil {
		t.Fatal("Expected failure for unknown glx flag")
	}
	if !gerrors.IsCode(err, gerrors.CodeVocabulary) {
		t.Errorf("Expected vocabulary error, got %v", err)
	}
}

func TestParseUnknownProperty(t *testing.T) {
	_, err := ParseFunLines("\tfrobnicate:\tyes\n")
	if err == nil {
		t.Fatal("Expected failure for unknown property")
	}
	if !gerrors.IsCode(err, gerrors.CodeVocabulary) {
		t.Errorf("Expected vocabulary error, got %v", err)
	}
}

func TestParseExtensionProperty(t *testing.T) {
	lines, err := ParseFunLines("\textension:\tsoft WINSOFT NV10\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := lines[0].Prop.Flags; len(got) != 3 || got[2] != "NV10" {
		t.Errorf("Unexpected extension tokens: %v", got)
	}

	_, err = ParseFunLines("\textension:\tNV99\n")
	if err == nil {
		t.Error("Expected failure for unknown extension token")
	}
}

func TestParseGLextMask(t *testing.T) {
	lines, err := ParseFunLines("\tglextmask:\tGL_MASK_VERSION_1_1|GL_MASK_EXT_abgr\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	names := lines[0].Prop.Names
	if len(names) != 2 || names[0] != "GL_MASK_VERSION_1_1" || names[1] != "GL_MASK_EXT_abgr" {
		t.Errorf("Unexpected mask names: %v", names)
	}
}

func TestParseBeginEnd(t *testing.T) {
	lines, err := ParseFunLines("\tbeginend:\tallow-inside\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if lines[0].Prop.Kind != PropBeginEnd {
		t.Errorf("Expected beginend property, got %+v", lines[0])
	}
}

func TestParseMenus(t *testing.T) {
	src := "category: VERSION_1_0 VERSION_1_1 EXT_abgr display-list\n" +
		"version: 1.0 1.1\n"
	lines, err := ParseFunLines(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if lines[0].Kind != FunMenu || lines[0].Menu.Kind != MenuCategory {
		t.Fatalf("Expected category menu, got %+v", lines[0])
	}
	if len(lines[0].Menu.Categories) != 4 {
		t.Errorf("Expected 4 menu categories, got %v", lines[0].Menu.Categories)
	}
	if lines[1].Menu.Kind != MenuVersion || len(lines[1].Menu.Versions) != 2 {
		t.Errorf("Unexpected version menu: %+v", lines[1].Menu)
	}
}

func TestParseNewCategory(t *testing.T) {
	lines, err := ParseFunLines("newcategory: SGIX_polynomial_ffd\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if lines[0].Kind != FunNewCategory {
		t.Fatalf("Expected FunNewCategory, got %+v", lines[0])
	}
	if lines[0].NewCategory != ExtensionCategory(VendorSGIX, "polynomial_ffd", false) {
		t.Errorf("Unexpected category: %+v", lines[0].NewCategory)
	}
}

func TestFunRenderReparse(t *testing.T) {
	src := strings.Join([]string{
		"# gl.spec",
		"",
		"category: VERSION_1_0 EXT_blend_color",
		"version: 1.0",
		"",
		"BlendColor(red, green, blue, alpha)",
		"\treturn:\tvoid",
		"\tparam:\tred\tClampedColorF in value",
		"\tparam:\tgreen\tClampedColorF in value",
		"\tparam:\tblue\tClampedColorF in value",
		"\tparam:\talpha\tClampedColorF in value",
		"\tcategory:\tEXT_blend_color",
		"\tversion:\t1.0",
		"\tglxropcode:\t4096",
		"",
	}, "\n")

	first, err := ParseFunLines(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	rendered := RenderFunLines(first)
	second, err := ParseFunLines(rendered)
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("line count changed across render: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Kind != second[i].Kind {
			t.Errorf("line %d kind changed: %v vs %v", i, first[i].Kind, second[i].Kind)
		}
	}
}
