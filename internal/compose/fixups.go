// # internal/compose/fixups.go
package compose

import (
	"github.com/Laar/opengl-api/internal/assemble"
	"github.com/Laar/opengl-api/internal/parser"
)

// The registries carry a handful of historical irregularities that the
// known-correct legacy artifact resolves in one specific way each. They are
// written out here as named, individually matched cases on purpose: when a
// registry fix removes one, the corresponding case can be deleted without
// guessing at intent. None of them may be generalized.
var (
	// Emitted twice by the function registry; the two sections merge.
	duplicateNewCategory = parser.ExtensionCategory(parser.VendorSGIX, "polynomial_ffd", false)

	// The legacy artifact defines this category guard with no members.
	memberlessEnumBlock = parser.ExtensionCategory(parser.VendorSGIX, "ycrcb_subsample", false)

	// Defined twice verbatim in the enum registry; emitted once.
	doublyDefinedEnumerant = "FRAGMENT_DEPTH_EXT"
)

// mergeDuplicateSections folds repeated explicit sections for the one known
// doubled newcategory marker into the first occurrence. Order of all other
// sections is untouched. The merged section is a fresh copy: the input
// sections belong to the assembled registry and must not change, so that
// composing the same registry again yields the same header.
func mergeDuplicateSections(sections []*assemble.FunSection) []*assemble.FunSection {
	first := -1
	out := sections[:0:0]
	for _, sec := range sections {
		if sec.Explicit && sec.HasCategory && sec.Category.Compare(duplicateNewCategory) == 0 {
			if first >= 0 {
				out[first].Items = append(out[first].Items, sec.Items...)
				continue
			}
			merged := *sec
			merged.Items = append([]assemble.SectionItem(nil), sec.Items...)
			first = len(out)
			out = append(out, &merged)
			continue
		}
		out = append(out, sec)
	}
	return out
}

// dropMembers reports whether an enum block's members are suppressed,
// leaving only the category guard.
func dropMembers(e assemble.Enumeration) bool {
	return e.HasCategory && e.Category.Compare(memberlessEnumBlock) == 0
}

// enumDedup tracks emission of the one doubly-defined enumerant.
type enumDedup struct {
	seen bool
}

// suppress reports whether this definition is the known duplicate's second
// occurrence.
func (d *enumDedup) suppress(name string) bool {
	if name != doublyDefinedEnumerant {
		return false
	}
	if d.seen {
		return true
	}
	d.seen = true
	return false
}
