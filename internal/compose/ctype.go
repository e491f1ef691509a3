// # internal/compose/ctype.go
package compose

import (
	"github.com/Laar/opengl-api/internal/assemble"
	"github.com/Laar/opengl-api/internal/gerrors"
	"github.com/Laar/opengl-api/internal/parser"
)

// placeholderDecl is the visible stand-in emitted instead of failing when a
// caller explicitly asks for a diagnostic rendering of a broken record.
const placeholderDecl = "/* unresolved */ void *"

// returnDecl renders a function's return type through the type map.
func returnDecl(tm parser.TypeMap, fn *assemble.Function, placeholder bool) (string, error) {
	ct, err := tm.Resolve(fn.Return)
	if err != nil {
		if placeholder {
			return placeholderDecl, nil
		}
		return "", gerrors.AddContext(err, gerrors.CtxFunction, fn.Name)
	}
	return ct.CDecl(), nil
}

// paramDecl renders one parameter declaration. Arrays and references become
// pointers; in-direction pointers are const-qualified.
func paramDecl(tm parser.TypeMap, fnName string, p parser.Param, placeholder bool) (string, error) {
	ct, err := tm.Resolve(p.Type)
	if err != nil {
		if placeholder {
			return placeholderDecl + p.Name, nil
		}
		err = gerrors.AddContext(err, gerrors.CtxFunction, fnName)
		return "", gerrors.AddContext(err, gerrors.CtxName, p.Name)
	}
	elem := ct.CDecl()
	if p.Mode == parser.ModeValue {
		return elem + " " + p.Name, nil
	}
	if p.Dir == parser.DirIn {
		return "const " + elem + " *" + p.Name, nil
	}
	return elem + " *" + p.Name, nil
}

// paramList renders the comma separated parameter list, (void) when empty.
func paramList(tm parser.TypeMap, fnName string, params []parser.Param, placeholder bool) (string, error) {
	if len(params) == 0 {
		return "(void)", nil
	}
	out := "("
	for i, p := range params {
		decl, err := paramDecl(tm, fnName, p, placeholder)
		if err != nil {
			return "", err
		}
		if i > 0 {
			out += ", "
		}
		out += decl
	}
	return out + ")", nil
}
