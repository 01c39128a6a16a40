package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/julianshen/dotnetdocs/internal/model"
	"github.com/julianshen/dotnetdocs/internal/project"
)

// NavigationFile is the Mintlify manifest written at the documentation root.
const NavigationFile = "docs.json"

// Icons used in front matter and navigation groups.
var (
	typeIcons = map[model.TypeKind]string{
		model.KindClass:     "file-brackets",
		model.KindInterface: "plug",
		model.KindStruct:    "cube",
		model.KindEnum:      "list-ol",
		model.KindDelegate:  "arrow-right-arrow-left",
	}
	memberIcons = map[model.MemberKind]string{
		model.MemberConstructor: "hammer",
		model.MemberMethod:      "function",
		model.MemberProperty:    "sliders",
		model.MemberField:       "database",
		model.MemberEvent:       "bolt",
	}
	assemblyIcon  = "book"
	namespaceIcon = "folder-tree"
)

// TypeIcon returns the icon for a type kind.
func TypeIcon(k model.TypeKind) string {
	if icon, ok := typeIcons[k]; ok {
		return icon
	}
	return "file"
}

// MemberIcon returns the icon for a member kind.
func MemberIcon(k model.MemberKind) string {
	if icon, ok := memberIcons[k]; ok {
		return icon
	}
	return "file"
}

// memberGroupHeading prefixes a member section heading with its icon.
func (r *Mintlify) memberGroupHeading(k model.MemberKind) string {
	if !r.Context.Mintlify.IncludeIcons {
		return k.Plural()
	}
	return fmt.Sprintf(`<Icon icon="%s" /> %s`, MemberIcon(k), k.Plural())
}

// Mintlify renders MDX pages with YAML front matter and maintains docs.json.
// Navigation accumulates across every assembly rendered by the same
// instance, so a batch sharing one output tree ends up with one manifest.
type Mintlify struct {
	Markdown

	mu         sync.Mutex
	assemblies []navAssembly
	references []map[string]any
}

type navAssembly struct {
	name       string
	index      string
	loose      []string
	namespaces []navNamespace
}

type navNamespace struct {
	name  string
	pages []string
}

// compile-time check: Mintlify implements Renderer.
var _ Renderer = (*Mintlify)(nil)

// NewMintlify returns a Mintlify renderer.
func NewMintlify(ctx *project.Context, opts ...Option) *Mintlify {
	r := &Mintlify{Markdown: *NewMarkdown(ctx, opts...)}
	r.name = FormatMintlify
	r.ext = ".mdx"
	r.frontMatter = r.buildFrontMatter
	r.escape = EscapeMDX
	r.escapeName = EscapeMDX
	r.memberGroup = r.memberGroupHeading
	r.link = func(_, to string) string { return "/" + r.pageRef(to) }
	return r
}

// Render writes every page and then docs.json.
func (r *Mintlify) Render(ctx context.Context, asm *model.DocAssembly) error {
	docs, err := r.Documents(asm)
	if err != nil {
		return err
	}
	if err := r.Write(ctx, docs...); err != nil {
		return err
	}
	r.track(asm)
	return r.WriteNavigation(ctx)
}

func (r *Mintlify) track(asm *model.DocAssembly) {
	entry := navAssembly{name: asm.Name, index: r.pageRef(r.IndexFilePath(r.ext))}
	for _, ns := range asm.Namespaces {
		if ns.IsGlobal() {
			for _, t := range ns.Types {
				entry.loose = append(entry.loose, r.pageRef(r.TypeFilePath(t, r.ext)))
			}
			continue
		}
		nn := navNamespace{name: ns.Name, pages: []string{r.pageRef(r.NamespaceFilePath(ns.Name, r.ext))}}
		for _, t := range ns.Types {
			nn.pages = append(nn.pages, r.pageRef(r.TypeFilePath(t, r.ext)))
		}
		entry.namespaces = append(entry.namespaces, nn)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.assemblies {
		if a.name == asm.Name {
			r.assemblies[i] = entry
			return
		}
	}
	r.assemblies = append(r.assemblies, entry)
}

// pageRef converts a document path to a Mintlify page reference: relative to
// the documentation root, slash separated and without extension.
func (r *Mintlify) pageRef(docPath string) string {
	ref := strings.TrimSuffix(docPath, path.Ext(docPath))
	if p := filepath.ToSlash(r.Context.APIReferencePath); p != "" {
		ref = path.Join(p, ref)
	}
	return ref
}

func (r *Mintlify) buildFrontMatter(meta pageMeta) string {
	fm := struct {
		Title       string   `yaml:"title"`
		Description string   `yaml:"description,omitempty"`
		Icon        string   `yaml:"icon,omitempty"`
		Tag         string   `yaml:"tag,omitempty"`
		Keywords    []string `yaml:"keywords,omitempty"`
	}{
		Title:       meta.title,
		Description: meta.description,
		Keywords:    meta.keywords,
	}
	switch meta.kind {
	case pageAssembly:
		fm.Icon = assemblyIcon
	case pageNamespace:
		fm.Icon = namespaceIcon
	case pageType:
		fm.Icon = TypeIcon(meta.typeKind)
		fm.Tag = strings.ToUpper(kindTitle(meta.typeKind))
	}
	if !r.Context.Mintlify.IncludeIcons {
		fm.Icon = ""
	}

	data, err := yaml.Marshal(fm)
	if err != nil {
		r.Warnf("encoding front matter for %s: %v", meta.title, err)
		return ""
	}
	return "---\n" + string(data) + "---\n\n"
}

// EscapeMDX makes Markdown text safe for MDX: '<', '{' and '}' outside code
// are escaped and the placeholder marker becomes an MDX comment.
func EscapeMDX(s string) string {
	lines := strings.Split(s, "\n")
	inFence := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		parts := strings.Split(line, model.PlaceholderMarker)
		for j, part := range parts {
			parts[j] = escapeMDXLine(part)
		}
		lines[i] = strings.Join(parts, mdxPlaceholder)
	}
	return strings.Join(lines, "\n")
}

var mdxPlaceholder = "{/* " + strings.TrimSuffix(strings.TrimPrefix(model.PlaceholderMarker, "<!-- "), " -->") + " */}"

func escapeMDXLine(line string) string {
	if !strings.ContainsAny(line, "<{}") {
		return line
	}
	var b strings.Builder
	inCode := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '`' {
			inCode = !inCode
			b.WriteByte(c)
			continue
		}
		if inCode {
			b.WriteByte(c)
			continue
		}
		switch c {
		case '<':
			b.WriteString("&lt;")
		case '{':
			b.WriteString(`\{`)
		case '}':
			b.WriteString(`\}`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// NavigationPath returns the file system path of docs.json.
func (r *Mintlify) NavigationPath() string {
	return filepath.Join(r.Context.DocumentationRootPath, NavigationFile)
}

// WriteNavigation writes docs.json from every assembly and reference seen so
// far. The existing manifest, or the configured template when there is none,
// supplies every setting other than our navigation entries, and navigation
// entries owned by others are kept.
func (r *Mintlify) WriteNavigation(ctx context.Context) error {
	r.mu.Lock()
	entries := r.navigationEntries()
	label := r.navigationLabel()
	r.mu.Unlock()

	manifest := r.baseManifest(label)
	existing, _ := manifest["navigation"].(map[string]any)
	manifest["navigation"] = mergeNavigation(existing, entries, r.Context.Mintlify.EffectiveNavigationType(), label)

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", NavigationFile, err)
	}
	return r.WriteFile(ctx, r.NavigationPath(), string(data)+"\n")
}

// Navigation returns our navigation entries in the configured shape.
func (r *Mintlify) Navigation() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return mergeNavigation(nil, r.navigationEntries(), r.Context.Mintlify.EffectiveNavigationType(), r.navigationLabel())
}

// navigationLabel names the tab or product wrapping our groups: the
// configured name, else the first assembly rendered. Callers hold r.mu.
func (r *Mintlify) navigationLabel() string {
	if name := r.Context.Mintlify.NavigationName; name != "" {
		return name
	}
	if len(r.assemblies) > 0 {
		return r.assemblies[0].name
	}
	return r.Context.Mintlify.GroupName()
}

func defaultManifest(name string) map[string]any {
	return map[string]any{
		"$schema": "https://mintlify.com/docs.json",
		"theme":   "mint",
		"name":    name,
		"colors":  map[string]any{"primary": "#0D9373"},
	}
}

func (r *Mintlify) baseManifest(name string) map[string]any {
	if m, err := readManifest(r.NavigationPath()); err == nil {
		return m
	} else if !errors.Is(err, fs.ErrNotExist) {
		r.Warnf("ignoring unreadable %s: %v", r.NavigationPath(), err)
	}

	base := defaultManifest(name)
	if tp := r.Context.Mintlify.TemplatePath; tp != "" {
		tmpl, err := readManifest(tp)
		if err != nil {
			r.Warnf("invalid docs.json template %s, using defaults: %v", tp, err)
			return base
		}
		for k, v := range tmpl {
			base[k] = v
		}
	}
	return base
}

func readManifest(p string) (map[string]any, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p, err)
	}
	if m == nil {
		return nil, fmt.Errorf("parsing %s: not a JSON object", p)
	}
	return m, nil
}

// navigationEntries builds our groups in Unified or ByAssembly layout
// followed by reference groups. Callers hold r.mu.
func (r *Mintlify) navigationEntries() []any {
	opts := r.Context.Mintlify
	var entries []any

	if mode, _ := project.ParseNavigationMode(string(opts.NavigationMode)); mode == project.NavigationByAssembly {
		for _, a := range r.assemblies {
			entries = append(entries, r.group(a.name, assemblyIcon, []navAssembly{a}))
		}
	} else if len(r.assemblies) > 0 {
		entries = append(entries, r.group(opts.GroupName(), "", r.assemblies))
	}

	for _, ref := range r.references {
		entries = append(entries, ref)
	}
	return entries
}

// group merges the namespaces of assemblies into one navigation group.
// Namespaces shared by several assemblies appear once.
func (r *Mintlify) group(name, icon string, assemblies []navAssembly) map[string]any {
	var pages []any
	seen := map[string]bool{}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			pages = append(pages, p)
		}
	}

	byName := map[string]*navNamespace{}
	var order []string
	for _, a := range assemblies {
		add(a.index)
		for _, p := range a.loose {
			add(p)
		}
		for _, ns := range a.namespaces {
			existing, ok := byName[ns.name]
			if !ok {
				cp := navNamespace{name: ns.name}
				byName[ns.name] = &cp
				order = append(order, ns.name)
				existing = &cp
			}
			existing.pages = append(existing.pages, ns.pages...)
		}
	}
	sort.Strings(order)

	for _, name := range order {
		ns := byName[name]
		var nsPages []any
		nsSeen := map[string]bool{}
		for _, p := range ns.pages {
			if !nsSeen[p] {
				nsSeen[p] = true
				nsPages = append(nsPages, p)
			}
		}
		g := map[string]any{"group": name, "pages": nsPages}
		if r.Context.Mintlify.IncludeIcons {
			g["icon"] = namespaceIcon
		}
		pages = append(pages, g)
	}

	g := map[string]any{"group": name, "pages": pages}
	if icon != "" && r.Context.Mintlify.IncludeIcons {
		g["icon"] = icon
	}
	return g
}

// mergeNavigation folds our entries into an existing navigation object.
// Pages navigation lists the groups directly; Tabs and Products wrap them in
// one entry named label. Entries with the same label are replaced and
// everything else is kept in place.
func mergeNavigation(existing map[string]any, groups []any, navType project.NavigationType, label string) map[string]any {
	nav := map[string]any{}
	for k, v := range existing {
		nav[k] = v
	}

	switch navType {
	case project.NavigationTabs, project.NavigationProducts:
		key, field := "tabs", "tab"
		if navType == project.NavigationProducts {
			key, field = "products", "product"
		}
		wrapper := map[string]any{field: label, "groups": groups}
		list, _ := nav[key].([]any)
		nav[key] = replaceByLabel(list, field, []any{wrapper})
	default:
		list, _ := nav["pages"].([]any)
		nav["pages"] = replaceByLabel(list, "group", groups)
	}
	return nav
}

// replaceByLabel replaces items of list whose field matches an incoming
// item's field and appends the rest.
func replaceByLabel(list []any, field string, incoming []any) []any {
	labels := map[string]any{}
	for _, in := range incoming {
		if m, ok := in.(map[string]any); ok {
			if l, ok := m[field].(string); ok {
				labels[l] = in
			}
		}
	}
	out := make([]any, 0, len(list)+len(incoming))
	used := map[string]bool{}
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			if l, ok := m[field].(string); ok {
				if repl, mine := labels[l]; mine {
					if !used[l] {
						out = append(out, repl)
						used[l] = true
					}
					continue
				}
			}
		}
		out = append(out, item)
	}
	for _, in := range incoming {
		m, _ := in.(map[string]any)
		l, _ := m[field].(string)
		if !used[l] {
			out = append(out, in)
			used[l] = true
		}
	}
	return out
}
