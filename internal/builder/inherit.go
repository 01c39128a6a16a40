package builder

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/julianshen/dotnetdocs/internal/symbols"
	"github.com/julianshen/dotnetdocs/internal/xmldoc"
)

// maxInheritDepth bounds chains of <inheritdoc/> comments.
const maxInheritDepth = 8

// references loads the XML documentation of the referenced assemblies named
// by the project's ReferencePaths. An entry is an XML file, an assembly with
// the XML file next to it, or a directory of XML files.
func (b *Builder) references() xmldoc.CommentSource {
	b.refsOnce.Do(func() {
		var chain xmldoc.Chain
		for _, p := range b.project.ReferencePaths {
			for _, xmlPath := range referenceXMLFiles(p) {
				f, err := xmldoc.Load(xmlPath)
				if err != nil {
					b.warnf("skipping reference documentation: %v", err)
					continue
				}
				chain = append(chain, f)
			}
		}
		if len(chain) > 0 {
			b.refs = chain
		}
	})
	return b.refs
}

func referenceXMLFiles(p string) []string {
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		matches, _ := filepath.Glob(filepath.Join(p, "*.xml"))
		return matches
	}
	if strings.EqualFold(filepath.Ext(p), ".xml") {
		return []string{p}
	}
	return []string{strings.TrimSuffix(p, filepath.Ext(p)) + ".xml"}
}

// inherited looks id up in the assembly's own comments, then in the
// referenced assemblies.
func (b *Builder) inherited(comments xmldoc.CommentSource, id string) *xmldoc.Comment {
	if c := b.comment(comments, id); c != nil {
		return c
	}
	return b.comment(b.references(), id)
}

// typeComment returns the comment for t with <inheritdoc/> resolved against
// the cref target, or else the first base type or interface that has a
// comment. Types outside the assembly are looked up in the references.
func (b *Builder) typeComment(comments xmldoc.CommentSource, index map[string]*symbols.Type, t *symbols.Type) *xmldoc.Comment {
	return b.resolveTypeComment(comments, index, t, 0)
}

func (b *Builder) resolveTypeComment(comments xmldoc.CommentSource, index map[string]*symbols.Type, t *symbols.Type, depth int) *xmldoc.Comment {
	c := b.comment(comments, symbols.TypeID(t))
	if c == nil || !c.InheritDoc || depth >= maxInheritDepth {
		return c
	}
	if c.InheritFrom != "" {
		return xmldoc.Inherit(c, b.inherited(comments, c.InheritFrom))
	}
	for _, parent := range ancestors(index, t) {
		if pc := b.resolveTypeComment(comments, index, parent, depth+1); pc != nil {
			return xmldoc.Inherit(c, pc)
		}
	}
	for _, name := range externalBases(index, t) {
		if pc := b.inherited(comments, "T:"+externalID(name)); pc != nil {
			return xmldoc.Inherit(c, pc)
		}
	}
	return c
}

// memberComment is typeComment for a member. The inherited comment comes
// from the member with the same kind, name and parameter types on the
// nearest ancestor that documents it.
func (b *Builder) memberComment(comments xmldoc.CommentSource, index map[string]*symbols.Type, t *symbols.Type, m *symbols.Member) *xmldoc.Comment {
	return b.resolveMemberComment(comments, index, t, m, 0)
}

func (b *Builder) resolveMemberComment(comments xmldoc.CommentSource, index map[string]*symbols.Type, t *symbols.Type, m *symbols.Member, depth int) *xmldoc.Comment {
	id := symbols.MemberID(t, m)
	c := b.comment(comments, id)
	if c == nil || !c.InheritDoc || depth >= maxInheritDepth {
		return c
	}
	if c.InheritFrom != "" {
		return xmldoc.Inherit(c, b.inherited(comments, c.InheritFrom))
	}
	for _, parent := range ancestors(index, t) {
		pm := matchingMember(parent, m)
		if pm == nil {
			continue
		}
		if pc := b.resolveMemberComment(comments, index, parent, pm, depth+1); pc != nil {
			return xmldoc.Inherit(c, pc)
		}
	}
	// "M:Sample.Widget.Spin(System.Int32)" becomes
	// "M:System.IRotor.Spin(System.Int32)" for an external IRotor.
	if len(id) < 3 || id[1] != ':' {
		return c
	}
	prefix, owner := id[:2], strings.TrimPrefix(symbols.TypeID(t), "T:")
	if rest, ok := strings.CutPrefix(id[2:], owner); ok {
		for _, name := range externalBases(index, t) {
			if pc := b.inherited(comments, prefix+externalID(name)+rest); pc != nil {
				return xmldoc.Inherit(c, pc)
			}
		}
	}
	return c
}

// externalBases returns the base type and interfaces of t that are not
// declared in this assembly.
func externalBases(index map[string]*symbols.Type, t *symbols.Type) []string {
	var out []string
	for _, name := range append([]string{t.BaseType}, t.Interfaces...) {
		if strings.TrimSpace(name) != "" && lookupType(index, t, name) == nil {
			out = append(out, name)
		}
	}
	return out
}

// externalID turns a base list entry into the identity used in XML
// documentation files: "IComparer<T>" becomes "IComparer`1".
func externalID(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "global::")
	i := strings.IndexByte(name, '<')
	if i < 0 {
		return name
	}
	args, depth := 1, 0
	for _, r := range name[i+1:] {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				args++
			}
		}
	}
	return name[:i] + "`" + strconv.Itoa(args)
}

// ancestors lists the base types of t, nearest first, followed by every
// interface they implement. Types declared outside the assembly are skipped.
func ancestors(index map[string]*symbols.Type, t *symbols.Type) []*symbols.Type {
	seen := map[*symbols.Type]bool{t: true}
	var bases, ifaces []*symbols.Type
	for cur := t; cur != nil; {
		for _, name := range cur.Interfaces {
			if it := lookupType(index, cur, name); it != nil && !seen[it] {
				seen[it] = true
				ifaces = append(ifaces, it)
			}
		}
		next := lookupType(index, cur, cur.BaseType)
		if next == nil || seen[next] {
			break
		}
		seen[next] = true
		bases = append(bases, next)
		cur = next
	}
	// Interfaces inherit from interfaces.
	for i := 0; i < len(ifaces); i++ {
		for _, name := range ifaces[i].Interfaces {
			if it := lookupType(index, ifaces[i], name); it != nil && !seen[it] {
				seen[it] = true
				ifaces = append(ifaces, it)
			}
		}
	}
	return append(bases, ifaces...)
}

// lookupType finds the type a base list entry such as "Shape", "IRepo<T>"
// or "Sample.Core.Shape" names, relative to from.
func lookupType(index map[string]*symbols.Type, from *symbols.Type, name string) *symbols.Type {
	name = strings.TrimPrefix(strings.TrimSpace(name), "global::")
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return nil
	}
	if from.Namespace != "" {
		if t, ok := index[from.Namespace+"."+name]; ok {
			return t
		}
	}
	return index[name]
}

func matchingMember(t *symbols.Type, m *symbols.Member) *symbols.Member {
	for _, cand := range t.Members {
		if cand == nil || cand.Kind != m.Kind || cand.Name != m.Name || len(cand.Parameters) != len(m.Parameters) {
			continue
		}
		same := true
		for i, p := range cand.Parameters {
			if p == nil || m.Parameters[i] == nil || p.Type != m.Parameters[i].Type {
				same = false
				break
			}
		}
		if same {
			return cand
		}
	}
	return nil
}
