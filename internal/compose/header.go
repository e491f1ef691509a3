// # internal/compose/header.go
package compose

import (
	"strings"

	"github.com/Laar/opengl-api/internal/assemble"
	"github.com/Laar/opengl-api/internal/parser"
)

// Options steer header composition. The zero value renders the complete
// artifact with the conventional GL prefixes.
type Options struct {
	// GuardPrefix is prepended to category names in guards and enumerant
	// names in defines. Defaults to "GL_".
	GuardPrefix string
	// FunctionPrefix is prepended to function names. Defaults to "gl".
	FunctionPrefix string
	// Filter, when set, selects which categories are emitted.
	Filter func(parser.Category) bool
	// Placeholder renders unresolved types as a visible stand-in instead of
	// failing; intended for diagnosing broken records, never for shipping.
	Placeholder bool
}

func (o Options) withDefaults() Options {
	if o.GuardPrefix == "" {
		o.GuardPrefix = "GL_"
	}
	if o.FunctionPrefix == "" {
		o.FunctionPrefix = "gl"
	}
	return o
}

func (o Options) keep(c parser.Category) bool {
	return o.Filter == nil || o.Filter(c)
}

// defineColumn is the space-padded column enumerant values start at.
const defineColumn = 48

// ComposeHeader renders the assembled registries into the generated header:
// enum guard blocks in file order, then the function sections, each a
// prototype list under GL_GLEXT_PROTOTYPES followed by the function-pointer
// typedefs. The named historical fixups are applied here and nowhere else.
func ComposeHeader(enums []assemble.Enumeration, reg *assemble.FunctionRegistry, tm parser.TypeMap, opts Options) (string, error) {
	opts = opts.withDefaults()
	var b strings.Builder

	b.WriteString("#ifndef __glext_h_\n")
	b.WriteString("#define __glext_h_ 1\n\n")
	b.WriteString("#ifdef __cplusplus\nextern \"C\" {\n#endif\n\n")

	dedup := &enumDedup{}
	for _, e := range enums {
		if e.HasCategory && !opts.keep(e.Category) {
			continue
		}
		renderEnumBlock(&b, e, opts, dedup)
	}

	sections := mergeDuplicateSections(reg.Sections)
	for _, sec := range sections {
		if sec.HasCategory && !opts.keep(sec.Category) {
			continue
		}
		if err := renderFunSection(&b, sec, tm, opts); err != nil {
			return "", err
		}
	}

	b.WriteString("#ifdef __cplusplus\n}\n#endif\n\n")
	b.WriteString("#endif\n")
	return b.String(), nil
}

func renderEnumBlock(b *strings.Builder, e assemble.Enumeration, opts Options, dedup *enumDedup) {
	if !e.HasCategory {
		for _, m := range e.Members {
			if m.Kind == assemble.MemberPassthru {
				b.WriteString(m.Text)
				b.WriteByte('\n')
			}
		}
		b.WriteByte('\n')
		return
	}

	guard := opts.GuardPrefix + e.Category.String()
	b.WriteString("#ifndef ")
	b.WriteString(guard)
	b.WriteByte('\n')
	b.WriteString("#define ")
	b.WriteString(guard)
	b.WriteString(" 1\n")
	if !dropMembers(e) {
		for _, m := range e.Members {
			renderEnumMember(b, m, opts, dedup)
		}
	}
	b.WriteString("#endif\n\n")
}

func renderEnumMember(b *strings.Builder, m assemble.EnumMember, opts Options, dedup *enumDedup) {
	switch m.Kind {
	case assemble.MemberDef:
		if dedup.suppress(m.Name) {
			return
		}
		def := "#define " + opts.GuardPrefix + m.Name
		b.WriteString(def)
		if pad := defineColumn - len(def); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		} else {
			b.WriteByte(' ')
		}
		b.WriteString(m.Value.String())
		b.WriteByte('\n')
	case assemble.MemberUse:
		b.WriteString("/* reuse ")
		b.WriteString(opts.GuardPrefix)
		b.WriteString(m.Name)
		b.WriteString(" (")
		b.WriteString(m.Ref.String())
		b.WriteString(") */\n")
	case assemble.MemberPassthru:
		b.WriteString(m.Text)
		b.WriteByte('\n')
	}
}

func renderFunSection(b *strings.Builder, sec *assemble.FunSection, tm parser.TypeMap, opts Options) error {
	if sec.HasCategory {
		b.WriteString("/* ")
		b.WriteString(opts.GuardPrefix)
		b.WriteString(sec.Category.String())
		b.WriteString(" */\n")
	}

	var funs []*assemble.Function
	hasProto := false
	for _, item := range sec.Items {
		if item.Kind == assemble.ItemFunction {
			hasProto = true
		}
	}

	if hasProto {
		b.WriteString("#ifdef GL_GLEXT_PROTOTYPES\n")
	}
	for _, item := range sec.Items {
		switch item.Kind {
		case assemble.ItemPassthru:
			b.WriteString(item.Text)
			b.WriteByte('\n')
		case assemble.ItemFunction:
			if err := renderPrototype(b, item.Fun, tm, opts); err != nil {
				return err
			}
			funs = append(funs, item.Fun)
		}
	}
	if hasProto {
		b.WriteString("#endif /* GL_GLEXT_PROTOTYPES */\n")
	}
	for _, fn := range funs {
		if err := renderTypedef(b, fn, tm, opts); err != nil {
			return err
		}
	}
	b.WriteByte('\n')
	return nil
}

func renderPrototype(b *strings.Builder, fn *assemble.Function, tm parser.TypeMap, opts Options) error {
	ret, err := returnDecl(tm, fn, opts.Placeholder)
	if err != nil {
		return err
	}
	params, err := paramList(tm, fn.Name, fn.Params, opts.Placeholder)
	if err != nil {
		return err
	}
	b.WriteString("GLAPI ")
	b.WriteString(ret)
	b.WriteString(" APIENTRY ")
	b.WriteString(opts.FunctionPrefix)
	b.WriteString(fn.Name)
	b.WriteByte(' ')
	b.WriteString(params)
	b.WriteString(";\n")
	return nil
}

func renderTypedef(b *strings.Builder, fn *assemble.Function, tm parser.TypeMap, opts Options) error {
	ret, err := returnDecl(tm, fn, opts.Placeholder)
	if err != nil {
		return err
	}
	params, err := paramList(tm, fn.Name, fn.Params, opts.Placeholder)
	if err != nil {
		return err
	}
	b.WriteString("typedef ")
	b.WriteString(ret)
	b.WriteString(" (APIENTRYP PFN")
	b.WriteString(strings.ToUpper(opts.FunctionPrefix))
	b.WriteString(strings.ToUpper(fn.Name))
	b.WriteString("PROC) ")
	b.WriteString(params)
	b.WriteString(";\n")
	return nil
}
