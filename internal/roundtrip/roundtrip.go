// # internal/roundtrip/roundtrip.go
package roundtrip

import (
	"reflect"

	"github.com/Laar/opengl-api/internal/gerrors"
	"github.com/Laar/opengl-api/internal/parser"
)

// Kind selects which registry grammar a buffer is checked against.
type Kind int

const (
	KindEnum Kind = iota
	KindTypeMap
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindTypeMap:
		return "typemap"
	default:
		return "function"
	}
}

// Stage names where a round-trip check failed.
type Stage int

const (
	StageOK Stage = iota
	StageOriginalParse
	StageReparse
	StageCompare
)

func (s Stage) String() string {
	switch s {
	case StageOK:
		return "ok"
	case StageOriginalParse:
		return "error on original parse"
	case StageReparse:
		return "error on printed-result parse"
	default:
		return "structural mismatch"
	}
}

// Result reports one registry's parse → render → reparse → compare check.
type Result struct {
	Kind  Kind
	Stage Stage
	Err   error
}

func (r Result) OK() bool {
	return r.Stage == StageOK
}

// Check runs the self-verification contract on one registry buffer: the
// original text is parsed, rendered canonically, reparsed, and the two
// record trees compared structurally.
func Check(kind Kind, src string) Result {
	switch kind {
	case KindEnum:
		return checkEnum(src)
	case KindTypeMap:
		return checkTypeMap(src)
	default:
		return checkFunction(src)
	}
}

func checkEnum(src string) Result {
	first, err := parser.ParseEnumLines(src)
	if err != nil {
		return failed(KindEnum, StageOriginalParse, err)
	}
	second, err := parser.ParseEnumLines(parser.RenderEnumLines(first))
	if err != nil {
		return failed(KindEnum, StageReparse, err)
	}
	return compare(KindEnum, stripEnumPositions(first), stripEnumPositions(second))
}

func checkTypeMap(src string) Result {
	first, err := parser.ParseTypeMapLines(src)
	if err != nil {
		return failed(KindTypeMap, StageOriginalParse, err)
	}
	second, err := parser.ParseTypeMapLines(parser.RenderTypeMapLines(first))
	if err != nil {
		return failed(KindTypeMap, StageReparse, err)
	}
	return compare(KindTypeMap, stripTMPositions(first), stripTMPositions(second))
}

func checkFunction(src string) Result {
	first, err := parser.ParseFunLines(src)
	if err != nil {
		return failed(KindFunction, StageOriginalParse, err)
	}
	second, err := parser.ParseFunLines(parser.RenderFunLines(first))
	if err != nil {
		return failed(KindFunction, StageReparse, err)
	}
	return compare(KindFunction, stripFunPositions(first), stripFunPositions(second))
}

func failed(kind Kind, stage Stage, err error) Result {
	wrapped := gerrors.Wrap(err, gerrors.CodeRoundTrip, stage.String())
	return Result{Kind: kind, Stage: stage, Err: gerrors.AddContext(wrapped, gerrors.CtxRegistry, kind.String())}
}

// compare checks structural equality of the record trees. Canonical
// rendering moves records to different source positions, so positions are
// stripped before comparing.
func compare(kind Kind, first, second interface{}) Result {
	if !reflect.DeepEqual(first, second) {
		err := gerrors.Newf(gerrors.CodeRoundTrip, "structural mismatch after reparse")
		return Result{Kind: kind, Stage: StageCompare, Err: gerrors.AddContext(err, gerrors.CtxRegistry, kind.String())}
	}
	return Result{Kind: kind, Stage: StageOK}
}

func stripEnumPositions(lines []parser.EnumLine) []parser.EnumLine {
	out := make([]parser.EnumLine, len(lines))
	for i, l := range lines {
		l.Pos = gerrors.Position{}
		out[i] = l
	}
	return out
}

func stripTMPositions(lines []parser.TMLine) []parser.TMLine {
	out := make([]parser.TMLine, len(lines))
	for i, l := range lines {
		l.Pos = gerrors.Position{}
		out[i] = l
	}
	return out
}

func stripFunPositions(lines []parser.FunLine) []parser.FunLine {
	out := make([]parser.FunLine, len(lines))
	for i, l := range lines {
		l.Pos = gerrors.Position{}
		l.Prop.Pos = gerrors.Position{}
		out[i] = l
	}
	return out
}
