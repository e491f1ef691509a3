// # internal/parser/types.go
package parser

import (
	"fmt"
	"strings"

	"github.com/Laar/opengl-api/internal/gerrors"
)

// ValueKind discriminates the literal forms an enumerant value can take.
type ValueKind int

const (
	ValueHex ValueKind = iota
	ValueDec
	ValueIdent
)

// Value is a numeric or symbolic enumerant value. Hex values keep their
// original digit count and letter case so rendering reproduces the source
// padding exactly.
type Value struct {
	Kind   ValueKind
	Num    uint64
	Digits int
	Lower  bool
	Ident  string
}

func HexValue(num uint64, digits int) Value {
	return Value{Kind: ValueHex, Num: num, Digits: digits}
}

func DecValue(num uint64) Value {
	return Value{Kind: ValueDec, Num: num}
}

func IdentValue(name string) Value {
	return Value{Kind: ValueIdent, Ident: name}
}

func (v Value) String() string {
	switch v.Kind {
	case ValueHex:
		if v.Lower {
			return fmt.Sprintf("0x%0*x", v.Digits, v.Num)
		}
		return fmt.Sprintf("0x%0*X", v.Digits, v.Num)
	case ValueDec:
		return fmt.Sprintf("%d", v.Num)
	default:
		return v.Ident
	}
}

// Vendor is one of the fixed extension vendor prefixes that appear in
// category names. The set is closed; anything else is a bare-name category.
type Vendor string

const (
	Vendor3DFX    Vendor = "3DFX"
	VendorAMD     Vendor = "AMD"
	VendorAPPLE   Vendor = "APPLE"
	VendorARB     Vendor = "ARB"
	VendorATI     Vendor = "ATI"
	VendorEXT     Vendor = "EXT"
	VendorGREMEDY Vendor = "GREMEDY"
	VendorHP      Vendor = "HP"
	VendorIBM     Vendor = "IBM"
	VendorINGR    Vendor = "INGR"
	VendorINTEL   Vendor = "INTEL"
	VendorKHR     Vendor = "KHR"
	VendorMESA    Vendor = "MESA"
	VendorMESAX   Vendor = "MESAX"
	VendorNV      Vendor = "NV"
	VendorOES     Vendor = "OES"
	VendorOML     Vendor = "OML"
	VendorPGI     Vendor = "PGI"
	VendorREND    Vendor = "REND"
	VendorS3      Vendor = "S3"
	VendorSGI     Vendor = "SGI"
	VendorSGIS    Vendor = "SGIS"
	VendorSGIX    Vendor = "SGIX"
	VendorSUN     Vendor = "SUN"
	VendorSUNX    Vendor = "SUNX"
	VendorWIN     Vendor = "WIN"
)

// vendorsByLength is ordered longest prefix first so SGIX/SGIS win over SGI
// and SUNX over SUN during category parsing.
var vendorsByLength = []Vendor{
	VendorGREMEDY,
	VendorAPPLE, VendorINTEL, VendorMESAX,
	Vendor3DFX, VendorMESA, VendorREND, VendorSGIS, VendorSGIX, VendorSUNX,
	VendorAMD, VendorARB, VendorATI, VendorEXT, VendorIBM, VendorKHR,
	VendorINGR, VendorOES, VendorOML, VendorPGI, VendorSGI, VendorSUN,
	VendorWIN,
	VendorHP, VendorNV, VendorS3,
}

// CategoryKind discriminates the grouping key of an enum block or function.
type CategoryKind int

const (
	CategoryVersion CategoryKind = iota
	CategoryExtension
	CategoryName
)

// Category identifies what an enum block or function belongs to: a numbered
// core version, a vendor extension, or a bare name fallback.
type Category struct {
	Kind       CategoryKind
	Major      int
	Minor      int
	Vendor     Vendor
	Name       string
	Deprecated bool
}

func VersionCategory(major, minor int, deprecated bool) Category {
	return Category{Kind: CategoryVersion, Major: major, Minor: minor, Deprecated: deprecated}
}

func ExtensionCategory(vendor Vendor, name string, deprecated bool) Category {
	return Category{Kind: CategoryExtension, Vendor: vendor, Name: name, Deprecated: deprecated}
}

func NameCategory(name string) Category {
	return Category{Kind: CategoryName, Name: name}
}

func (c Category) String() string {
	var b strings.Builder
	switch c.Kind {
	case CategoryVersion:
		fmt.Fprintf(&b, "VERSION_%d_%d", c.Major, c.Minor)
	case CategoryExtension:
		b.WriteString(string(c.Vendor))
		b.WriteByte('_')
		b.WriteString(c.Name)
	default:
		b.WriteString(c.Name)
	}
	if c.Deprecated {
		b.WriteString("_DEPRECATED")
	}
	return b.String()
}

// Compare defines the total order over categories used for deduplication:
// versions first (by number, non-deprecated before deprecated), then
// extensions (by vendor, name, deprecation), then bare names.
func (c Category) Compare(o Category) int {
	if c.Kind != o.Kind {
		return int(c.Kind) - int(o.Kind)
	}
	switch c.Kind {
	case CategoryVersion:
		if c.Major != o.Major {
			return c.Major - o.Major
		}
		if c.Minor != o.Minor {
			return c.Minor - o.Minor
		}
	case CategoryExtension:
		if c.Vendor != o.Vendor {
			return strings.Compare(string(c.Vendor), string(o.Vendor))
		}
		if c.Name != o.Name {
			return strings.Compare(c.Name, o.Name)
		}
	default:
		if c.Name != o.Name {
			return strings.Compare(c.Name, o.Name)
		}
	}
	if c.Deprecated != o.Deprecated {
		if c.Deprecated {
			return 1
		}
		return -1
	}
	return 0
}

// EnumLineKind discriminates the line records of the enum registry.
type EnumLineKind int

const (
	EnumComment EnumLineKind = iota
	EnumBlank
	EnumStart
	EnumPassthru
	EnumDef
	EnumUse
)

// EnumLine is one parsed line of the enum registry.
type EnumLine struct {
	Kind EnumLineKind
	Pos  gerrors.Position

	Comment    string   // EnumComment: text after '#', verbatim
	Category   Category // EnumStart, EnumUse (referenced category)
	Annotation string   // EnumStart: optional trailing token
	Text       string   // EnumPassthru: interior text, verbatim
	Name       string   // EnumDef: enumerant name; EnumUse: member name
	Value      Value    // EnumDef
	Trailing   string   // EnumDef: optional trailing comment, verbatim
}

// VersionNumber is a major.minor pair used by the version and deprecated
// properties and by the version menu.
type VersionNumber struct {
	Major int
	Minor int
}

func (v VersionNumber) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Question is the numeric-or-unknown value accepted by the GLX opcode
// properties: a decimal integer, optionally suffixed "re", or a '?' mark.
type Question struct {
	Known bool
	Value int
	RE    bool
}

func (q Question) String() string {
	if !q.Known {
		return "?"
	}
	if q.RE {
		return fmt.Sprintf("%dre", q.Value)
	}
	return fmt.Sprintf("%d", q.Value)
}

// ParamDir is a parameter's data direction.
type ParamDir int

const (
	DirIn ParamDir = iota
	DirOut
)

func (d ParamDir) String() string {
	if d == DirOut {
		return "out"
	}
	return "in"
}

// PassingMode is how a parameter is passed.
type PassingMode int

const (
	ModeValue PassingMode = iota
	ModeArray
	ModeReference
)

// Param is one parameter property: the declared name, the type-map token
// naming its type, direction, and passing mode. Bound is the verbatim array
// bound expression; Retained marks an array whose pointer the implementation
// may keep after the call returns.
type Param struct {
	Name     string
	Type     string
	Dir      ParamDir
	Mode     PassingMode
	Bound    string
	Retained bool
}

// PropertyKind is the closed set of function property lines.
type PropertyKind int

const (
	PropReturn PropertyKind = iota
	PropParam
	PropCategory
	PropSubcategory
	PropVersion
	PropDeprecated
	PropGLXSingle
	PropGLXRopcode
	PropGLXVendorPriv
	PropGLXFlags
	PropWGLFlags
	PropDLFlags
	PropExtension
	PropAlias
	PropVectorEquiv
	PropGLXVectorEquiv
	PropBeginEnd
	PropGLextMask
)

var propertyNames = map[PropertyKind]string{
	PropReturn:         "return",
	PropParam:          "param",
	PropCategory:       "category",
	PropSubcategory:    "subcategory",
	PropVersion:        "version",
	PropDeprecated:     "deprecated",
	PropGLXSingle:      "glxsingle",
	PropGLXRopcode:     "glxropcode",
	PropGLXVendorPriv:  "glxvendorpriv",
	PropGLXFlags:       "glxflags",
	PropWGLFlags:       "wglflags",
	PropDLFlags:        "dlflags",
	PropExtension:      "extension",
	PropAlias:          "alias",
	PropVectorEquiv:    "vectorequiv",
	PropGLXVectorEquiv: "glxvectorequiv",
	PropBeginEnd:       "beginend",
	PropGLextMask:      "glextmask",
}

func (k PropertyKind) String() string {
	if s, ok := propertyNames[k]; ok {
		return s
	}
	return fmt.Sprintf("property(%d)", int(k))
}

// Property is one property line of a function block.
type Property struct {
	Kind PropertyKind
	Pos  gerrors.Position

	Type           string    // PropReturn: type-map token
	Param          Param     // PropParam
	Category       Category  // PropCategory
	OldCategory    *Category // PropCategory: optional commented-out former category
	Name           string    // subcategory, alias, vectorequiv, glxvectorequiv
	Version        VersionNumber
	Question       Question // GLX opcode properties
	Flags          []string // flag and extension token lists
	CommentedFlags []string // tokens after the "###" separator
	Names          []string // PropGLextMask: '|'-separated mask names
}

// MenuKind discriminates the file-level menu declarations of the function
// registry, used only for cross-checking function properties.
type MenuKind int

const (
	MenuCategory MenuKind = iota
	MenuVersion
)

type Menu struct {
	Kind       MenuKind
	Categories []Category
	Versions   []VersionNumber
}

// FunLineKind discriminates the line records of the function registry.
type FunLineKind int

const (
	FunComment FunLineKind = iota
	FunBlank
	FunPassthru
	FunMenu
	FunNewCategory
	FunSignature
	FunProperty
)

// FunLine is one parsed line of the function registry.
type FunLine struct {
	Kind FunLineKind
	Pos  gerrors.Position

	Comment     string   // FunComment
	Text        string   // FunPassthru
	Menu        Menu     // FunMenu
	NewCategory Category // FunNewCategory
	Name        string   // FunSignature: function name
	Params      []string // FunSignature: declared parameter names, in order
	Prop        Property // FunProperty
}
