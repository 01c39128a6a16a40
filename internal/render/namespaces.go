package render

import (
	"sort"
	"sync"

	"github.com/julianshen/dotnetdocs/internal/model"
)

// namespaceSet remembers what every assembly rendered by one renderer
// contributed to each namespace, so namespace files shared by several
// assemblies list all of their types.
type namespaceSet struct {
	mu sync.Mutex
	// byName maps a namespace name to its contributions in first-seen
	// assembly order.
	byName map[string][]contribution
}

type contribution struct {
	assembly string
	ns       *model.DocNamespace
}

// mergedNamespace is the union of every contribution to one namespace.
type mergedNamespace struct {
	*model.DocNamespace
	Assemblies []string
}

func newNamespaceSet() *namespaceSet {
	return &namespaceSet{byName: map[string][]contribution{}}
}

// merge records ns as asm's contribution, replacing an earlier one from the
// same assembly, and returns the union. The model is not modified. Narrative
// comes from the first contribution that has a summary. A type declared by
// several assemblies keeps the declaration of the later contribution.
func (s *namespaceSet) merge(asm *model.DocAssembly, ns *model.DocNamespace) mergedNamespace {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := model.NamespaceName(ns.Name)
	list := s.byName[name]
	replaced := false
	for i, c := range list {
		if c.assembly == asm.Name {
			list[i].ns = ns
			replaced = true
		}
	}
	if !replaced {
		list = append(list, contribution{assembly: asm.Name, ns: ns})
	}
	s.byName[name] = list

	if len(list) == 1 {
		return mergedNamespace{DocNamespace: ns, Assemblies: []string{asm.Name}}
	}

	out := &model.DocNamespace{Name: ns.Name}
	byFullName := map[string]*model.DocType{}
	var assemblies []string
	for _, c := range list {
		assemblies = append(assemblies, c.assembly)
		if out.Summary == "" && c.ns.Summary != "" {
			out.Narrative = c.ns.Narrative
		}
		for _, t := range c.ns.Types {
			byFullName[t.FullName] = t
		}
	}
	if c := list[0]; out.Summary == "" {
		out.Narrative = c.ns.Narrative
	}
	for _, t := range byFullName {
		out.Types = append(out.Types, t)
	}
	sort.Slice(out.Types, func(i, j int) bool {
		return out.Types[i].FullName < out.Types[j].FullName
	})
	return mergedNamespace{DocNamespace: out, Assemblies: assemblies}
}
