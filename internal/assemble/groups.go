// # internal/assemble/groups.go
package assemble

import (
	"github.com/Laar/opengl-api/internal/gerrors"
	"github.com/Laar/opengl-api/internal/parser"
)

// EnumMemberKind discriminates what an enumeration block may contain.
type EnumMemberKind int

const (
	MemberDef EnumMemberKind = iota
	MemberPassthru
	MemberUse
)

// EnumMember is one ordered member of an enumeration block.
type EnumMember struct {
	Kind     EnumMemberKind
	Name     string          // MemberDef, MemberUse
	Value    parser.Value    // MemberDef
	Trailing string          // MemberDef
	Text     string          // MemberPassthru
	Ref      parser.Category // MemberUse
}

// Enumeration is a category plus its ordered members, or a bare pass-through
// block with no owning category.
type Enumeration struct {
	Category    parser.Category
	HasCategory bool
	Annotation  string
	Members     []EnumMember
}

// GroupEnums folds the flat enum line stream into per-category blocks. Each
// category-start line opens a new block; bindings, pass-throughs and uses
// attach to the open block; comments and blank lines are dropped here.
// A member line is only valid relative to the category line it follows,
// except that leading pass-through fragments form a bare block.
func GroupEnums(lines []parser.EnumLine) ([]Enumeration, error) {
	var groups []Enumeration
	current := -1
	bare := -1

	appendBare := func(m EnumMember) {
		if bare < 0 || bare != len(groups)-1 {
			groups = append(groups, Enumeration{})
			bare = len(groups) - 1
		}
		groups[bare].Members = append(groups[bare].Members, m)
	}

	for _, line := range lines {
		switch line.Kind {
		case parser.EnumComment, parser.EnumBlank:
			// dropped at this stage

		case parser.EnumStart:
			groups = append(groups, Enumeration{
				Category:    line.Category,
				HasCategory: true,
				Annotation:  line.Annotation,
			})
			current = len(groups) - 1
			bare = -1

		case parser.EnumPassthru:
			m := EnumMember{Kind: MemberPassthru, Text: line.Text}
			if current >= 0 {
				groups[current].Members = append(groups[current].Members, m)
			} else {
				appendBare(m)
			}

		case parser.EnumDef:
			if current < 0 {
				return nil, enumContextErr(line, "enumerant %q defined before any category", line.Name)
			}
			groups[current].Members = append(groups[current].Members, EnumMember{
				Kind:     MemberDef,
				Name:     line.Name,
				Value:    line.Value,
				Trailing: line.Trailing,
			})

		case parser.EnumUse:
			if current < 0 {
				return nil, enumContextErr(line, "use of %q before any category", line.Name)
			}
			groups[current].Members = append(groups[current].Members, EnumMember{
				Kind: MemberUse,
				Name: line.Name,
				Ref:  line.Category,
			})
		}
	}
	return groups, nil
}

func enumContextErr(line parser.EnumLine, format string, args ...interface{}) error {
	err := gerrors.At(gerrors.CodeAssembly, line.Pos, format, args...)
	return gerrors.AddContext(err, gerrors.CtxRegistry, "enum")
}

// SectionItemKind discriminates the contents of a function section.
type SectionItemKind int

const (
	ItemFunction SectionItemKind = iota
	ItemPassthru
)

// SectionItem preserves the original relative order of functions and
// interleaved pass-through fragments; the fragments must re-emerge in the
// exact same position during rendering.
type SectionItem struct {
	Kind SectionItemKind
	Fun  *Function
	Text string
}

// FunSection is a maximal run of functions sharing one category, or a bare
// pass-through block, or an explicitly opened (possibly empty) category
// section.
type FunSection struct {
	Category    parser.Category
	HasCategory bool
	Explicit    bool
	Items       []SectionItem
}

// FunctionRegistry is the assembled function registry: the file-level menus,
// every function in file order, and the rendering sections.
type FunctionRegistry struct {
	Menus     []parser.Menu
	Functions []*Function
	Sections  []*FunSection
}

// AssembleFunctionRegistry walks the flat line stream, associates each
// property block with the signature that opened it (a block ends at the next
// signature, menu, section marker, or blank separator), assembles every
// function, and groups the results into sections. Consecutive functions with
// an identical category fold into one section; an explicit newcategory
// marker always opens a fresh one.
func AssembleFunctionRegistry(lines []parser.FunLine) (*FunctionRegistry, error) {
	reg := &FunctionRegistry{}

	var open *parser.FunLine
	var props []parser.Property

	startSection := func(s FunSection) *FunSection {
		sec := &s
		reg.Sections = append(reg.Sections, sec)
		return sec
	}
	var current *FunSection

	closeBlock := func() error {
		if open == nil {
			return nil
		}
		fn, err := assembleFunction(*open, props)
		if err != nil {
			return err
		}
		stored := &fn
		reg.Functions = append(reg.Functions, stored)
		if current == nil || !current.HasCategory || current.Category.Compare(fn.Category) != 0 {
			current = startSection(FunSection{Category: fn.Category, HasCategory: true})
		}
		current.Items = append(current.Items, SectionItem{Kind: ItemFunction, Fun: stored})
		open, props = nil, nil
		return nil
	}

	for i := range lines {
		line := lines[i]
		switch line.Kind {
		case parser.FunComment:
			// comments never close a block

		case parser.FunBlank:
			if err := closeBlock(); err != nil {
				return nil, err
			}

		case parser.FunMenu:
			if err := closeBlock(); err != nil {
				return nil, err
			}
			reg.Menus = append(reg.Menus, line.Menu)

		case parser.FunNewCategory:
			if err := closeBlock(); err != nil {
				return nil, err
			}
			current = startSection(FunSection{
				Category:    line.NewCategory,
				HasCategory: true,
				Explicit:    true,
			})

		case parser.FunPassthru:
			if err := closeBlock(); err != nil {
				return nil, err
			}
			if current == nil {
				current = startSection(FunSection{})
			}
			current.Items = append(current.Items, SectionItem{Kind: ItemPassthru, Text: line.Text})

		case parser.FunSignature:
			if err := closeBlock(); err != nil {
				return nil, err
			}
			open = &lines[i]

		case parser.FunProperty:
			if open == nil {
				err := gerrors.At(gerrors.CodeAssembly, line.Pos,
					"%s property outside any function block", line.Prop.Kind)
				return nil, gerrors.AddContext(err, gerrors.CtxProperty, line.Prop.Kind.String())
			}
			props = append(props, line.Prop)
		}
	}
	if err := closeBlock(); err != nil {
		return nil, err
	}

	if err := validateAgainstMenus(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// validateAgainstMenus cross-checks every function's category and version
// against the file-level menu declarations, when the registry carries them.
func validateAgainstMenus(reg *FunctionRegistry) error {
	var cats []parser.Category
	var vers []parser.VersionNumber
	for _, m := range reg.Menus {
		if m.Kind == parser.MenuCategory {
			cats = append(cats, m.Categories...)
		} else {
			vers = append(vers, m.Versions...)
		}
	}

	for _, fn := range reg.Functions {
		if len(cats) > 0 && !containsCategory(cats, fn.Category) {
			err := gerrors.At(gerrors.CodeAssembly, fn.Pos,
				"category %s of %s is not declared in the category menu", fn.Category, fn.Name)
			return gerrors.AddContext(err, gerrors.CtxFunction, fn.Name)
		}
		if len(vers) > 0 && fn.Version != nil && !containsVersion(vers, *fn.Version) {
			err := gerrors.At(gerrors.CodeAssembly, fn.Pos,
				"version %s of %s is not declared in the version menu", fn.Version, fn.Name)
			return gerrors.AddContext(err, gerrors.CtxFunction, fn.Name)
		}
	}
	return nil
}

func containsCategory(cats []parser.Category, c parser.Category) bool {
	for _, x := range cats {
		if x.Compare(c) == 0 {
			return true
		}
	}
	return false
}

func containsVersion(vers []parser.VersionNumber, v parser.VersionNumber) bool {
	for _, x := range vers {
		if x == v {
			return true
		}
	}
	return false
}
