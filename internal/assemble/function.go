// # internal/assemble/function.go
package assemble

import (
	"github.com/Laar/opengl-api/internal/gerrors"
	"github.com/Laar/opengl-api/internal/parser"
)

// Function is the validated unit assembled from a signature line and the
// property block that follows it. All fields beyond Name, Return, Params
// and Category are optional.
type Function struct {
	Name   string
	Return string
	Params []parser.Param
	Pos    gerrors.Position

	Category    parser.Category
	OldCategory *parser.Category
	Subcategory string

	Version    *parser.VersionNumber
	Deprecated *parser.VersionNumber

	GLXSingle     *parser.Question
	GLXRopcode    *parser.Question
	GLXVendorPriv *parser.Question

	GLXFlags          []string
	GLXFlagsCommented []string
	WGLFlags          []string
	WGLFlagsCommented []string
	DLFlags           []string

	Extensions     []string
	Alias          string
	VectorEquiv    string
	GLXVectorEquiv string
	AllowInside    bool
	GLextMasks     []string
}

// Occurrence is the tagged result of an occurrence-invariant check.
type Occurrence int

const (
	OccOne Occurrence = iota
	OccMissing
	OccDuplicate
)

// pickUnique finds the property of the given kind, reporting absence and
// duplication as tagged results rather than panicking.
func pickUnique(props []parser.Property, kind parser.PropertyKind) (parser.Property, Occurrence) {
	var found parser.Property
	n := 0
	for _, p := range props {
		if p.Kind == kind {
			found = p
			n++
		}
	}
	switch n {
	case 0:
		return parser.Property{}, OccMissing
	case 1:
		return found, OccOne
	default:
		return found, OccDuplicate
	}
}

// Two registry entries historically carry a duplicated property; the later
// value wins for exactly these functions and no others. Generalizing this
// into a last-wins rule would mask genuine registry errors.
var (
	duplicateVersionTolerated  = map[string]bool{"SampleMaskSGIS": true}
	duplicateGLXFlagsTolerated = map[string]bool{"SamplePatternSGIS": true}
)

// pickTolerated is pickUnique with the two-occurrence compatibility path:
// for the named legacy functions a second occurrence is allowed and wins.
func pickTolerated(props []parser.Property, kind parser.PropertyKind, tolerated bool) (parser.Property, Occurrence) {
	var found parser.Property
	n := 0
	for _, p := range props {
		if p.Kind == kind {
			found = p
			n++
		}
	}
	switch {
	case n == 0:
		return parser.Property{}, OccMissing
	case n == 1, n == 2 && tolerated:
		return found, OccOne
	default:
		return found, OccDuplicate
	}
}

// assembleFunction validates one function block: the signature's declared
// parameter names zipped positionally against the param properties, the
// singleton return and category properties, and the optional remainder.
func assembleFunction(sig parser.FunLine, props []parser.Property) (Function, error) {
	fn := Function{Name: sig.Name, Pos: sig.Pos}

	var params []parser.Param
	var rest []parser.Property
	for _, p := range props {
		if p.Kind == parser.PropParam {
			params = append(params, p.Param)
		} else {
			rest = append(rest, p)
		}
	}

	if len(params) != len(sig.Params) {
		return fn, assemblyErr(sig, "signature declares %d parameters but %d param properties follow",
			len(sig.Params), len(params))
	}
	for i, declared := range sig.Params {
		if params[i].Name != declared {
			return fn, assemblyErr(sig, "parameter %d is declared %q but the param property names it %q",
				i+1, declared, params[i].Name)
		}
	}
	fn.Params = params

	ret, occ := pickUnique(rest, parser.PropReturn)
	if err := requireOne(sig, parser.PropReturn, occ); err != nil {
		return fn, err
	}
	fn.Return = ret.Type

	cat, occ := pickUnique(rest, parser.PropCategory)
	if err := requireOne(sig, parser.PropCategory, occ); err != nil {
		return fn, err
	}
	fn.Category = cat.Category
	fn.OldCategory = cat.OldCategory

	if p, occ, err := optional(sig, rest, parser.PropSubcategory); err != nil {
		return fn, err
	} else if occ == OccOne {
		fn.Subcategory = p.Name
	}

	ver, occ := pickTolerated(rest, parser.PropVersion, duplicateVersionTolerated[fn.Name])
	if occ == OccDuplicate {
		return fn, duplicateErr(sig, parser.PropVersion)
	}
	if occ == OccOne {
		v := ver.Version
		fn.Version = &v
	}

	if p, occ, err := optional(sig, rest, parser.PropDeprecated); err != nil {
		return fn, err
	} else if occ == OccOne {
		v := p.Version
		fn.Deprecated = &v
	}

	for kind, dst := range map[parser.PropertyKind]**parser.Question{
		parser.PropGLXSingle:     &fn.GLXSingle,
		parser.PropGLXRopcode:    &fn.GLXRopcode,
		parser.PropGLXVendorPriv: &fn.GLXVendorPriv,
	} {
		if p, occ, err := optional(sig, rest, kind); err != nil {
			return fn, err
		} else if occ == OccOne {
			q := p.Question
			*dst = &q
		}
	}

	glx, occ := pickTolerated(rest, parser.PropGLXFlags, duplicateGLXFlagsTolerated[fn.Name])
	if occ == OccDuplicate {
		return fn, duplicateErr(sig, parser.PropGLXFlags)
	}
	if occ == OccOne {
		fn.GLXFlags = glx.Flags
		fn.GLXFlagsCommented = glx.CommentedFlags
	}

	if p, occ, err := optional(sig, rest, parser.PropWGLFlags); err != nil {
		return fn, err
	} else if occ == OccOne {
		fn.WGLFlags = p.Flags
		fn.WGLFlagsCommented = p.CommentedFlags
	}
	if p, occ, err := optional(sig, rest, parser.PropDLFlags); err != nil {
		return fn, err
	} else if occ == OccOne {
		fn.DLFlags = p.Flags
	}
	if p, occ, err := optional(sig, rest, parser.PropExtension); err != nil {
		return fn, err
	} else if occ == OccOne {
		fn.Extensions = p.Flags
	}
	if p, occ, err := optional(sig, rest, parser.PropAlias); err != nil {
		return fn, err
	} else if occ == OccOne {
		fn.Alias = p.Name
	}
	if p, occ, err := optional(sig, rest, parser.PropVectorEquiv); err != nil {
		return fn, err
	} else if occ == OccOne {
		fn.VectorEquiv = p.Name
	}
	if p, occ, err := optional(sig, rest, parser.PropGLXVectorEquiv); err != nil {
		return fn, err
	} else if occ == OccOne {
		fn.GLXVectorEquiv = p.Name
	}
	if _, occ, err := optional(sig, rest, parser.PropBeginEnd); err != nil {
		return fn, err
	} else if occ == OccOne {
		fn.AllowInside = true
	}
	if p, occ, err := optional(sig, rest, parser.PropGLextMask); err != nil {
		return fn, err
	} else if occ == OccOne {
		fn.GLextMasks = p.Names
	}

	return fn, nil
}

func optional(sig parser.FunLine, props []parser.Property, kind parser.PropertyKind) (parser.Property, Occurrence, error) {
	p, occ := pickUnique(props, kind)
	if occ == OccDuplicate {
		return p, occ, duplicateErr(sig, kind)
	}
	return p, occ, nil
}

func requireOne(sig parser.FunLine, kind parser.PropertyKind, occ Occurrence) error {
	switch occ {
	case OccMissing:
		return assemblyErr(sig, "required %s property is missing", kind)
	case OccDuplicate:
		return duplicateErr(sig, kind)
	}
	return nil
}

func duplicateErr(sig parser.FunLine, kind parser.PropertyKind) error {
	return assemblyErr(sig, "%s property occurs more than once", kind)
}

func assemblyErr(sig parser.FunLine, format string, args ...interface{}) error {
	err := gerrors.At(gerrors.CodeAssembly, sig.Pos, format, args...)
	return gerrors.AddContext(err, gerrors.CtxFunction, sig.Name)
}
