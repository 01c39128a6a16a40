package parser

import (
	"context"
	"encoding/xml"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/julianshen/dotnetdocs/internal/symbols"
	"github.com/julianshen/dotnetdocs/internal/xmldoc"
)

// DefaultConcurrency bounds how many files are parsed at once.
const DefaultConcurrency = 4

// Source is one C# file to parse.
type Source struct {
	Name    string
	Content []byte
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for warnings.
func WithLogger(l *log.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithConcurrency bounds parallel parsing. Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// Provider builds a symbol graph from C# sources. It accepts a directory,
// a .csproj file or a single .cs file.
type Provider struct {
	logger      *log.Logger
	concurrency int
}

// compile-time check: Provider implements symbols.Provider.
var _ symbols.Provider = (*Provider)(nil)

// NewProvider returns a Provider with default settings.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{logger: log.Default(), concurrency: DefaultConcurrency}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Provider) warnf(format string, args ...any) {
	p.logger.Printf("WARNING: "+format, args...)
}

// skipDirs are build output and tooling directories never scanned for sources.
var skipDirs = map[string]bool{"bin": true, "obj": true, "node_modules": true}

// Load parses the sources at path. The assembly name and version come from
// the project file when one is found, otherwise from the directory name.
func (p *Provider) Load(ctx context.Context, path string) (*symbols.Assembly, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var dir, projectFile string
	var files []string
	switch {
	case info.IsDir():
		dir = path
		projectFile = findProject(dir)
	case strings.EqualFold(filepath.Ext(path), ".csproj"):
		dir, projectFile = filepath.Dir(path), path
	case strings.EqualFold(filepath.Ext(path), ".cs"):
		files = []string{path}
	default:
		return nil, fmt.Errorf("%w: %s", symbols.ErrUnsupportedInput, path)
	}

	if dir != "" {
		if files, err = sourceFiles(dir); err != nil {
			return nil, err
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no C# sources under %s", symbols.ErrUnsupportedInput, path)
	}

	sources := make([]Source, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading source: %w", err)
		}
		sources = append(sources, Source{Name: f, Content: data})
	}

	meta := projectMetadata{}
	if projectFile != "" {
		if meta, err = readProject(projectFile); err != nil {
			p.warnf("%v", err)
		}
	}
	name := meta.Name
	switch {
	case name != "":
	case projectFile != "":
		name = strings.TrimSuffix(filepath.Base(projectFile), filepath.Ext(projectFile))
	case dir != "":
		abs, _ := filepath.Abs(dir)
		name = filepath.Base(abs)
	default:
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p.Extract(ctx, name, meta.Version, sources)
}

// Extract parses sources and merges their declarations into one assembly.
// Partial types declared across files are combined. Doc comments are
// exposed through Assembly.Comments.
func (p *Provider) Extract(ctx context.Context, name, version string, sources []Source) (*symbols.Assembly, error) {
	units := make([]*unit, len(sources))
	pl := pool.New().WithContext(ctx).WithMaxGoroutines(p.concurrency)
	for i, src := range sources {
		pl.Go(func(ctx context.Context) error {
			tree, err := NewParser().Parse(ctx, src.Name, src.Content)
			if err != nil {
				return err
			}
			defer tree.Close()
			if lines := tree.ErrorLines(); len(lines) > 0 {
				p.warnf("syntax errors in %s at lines %v; declarations may be incomplete", src.Name, lines)
			}
			units[i] = tree.declarations(p.warnf)
			return nil
		})
	}
	if err := pl.Wait(); err != nil {
		return nil, err
	}

	asm := &symbols.Assembly{Name: name, Version: version}
	docs := map[string]string{}
	byID := map[string]*symbols.Type{}
	for _, u := range units {
		for _, t := range u.types {
			id := symbols.TypeID(t)
			if existing, ok := byID[id]; ok {
				mergePartial(existing, t)
			} else {
				byID[id] = t
				asm.Types = append(asm.Types, t)
			}
			if doc := u.typeDocs[t]; doc != "" && docs[id] == "" {
				docs[id] = doc
			}
		}
		for m, doc := range u.memberDocs {
			owner := ownerOf(u.types, m)
			if owner == nil {
				continue
			}
			mid := symbols.MemberID(byID[symbols.TypeID(owner)], m)
			if docs[mid] == "" {
				docs[mid] = doc
			}
		}
	}
	asm.Comments = xmldoc.FromMembers(name, docs)
	return asm, nil
}

func ownerOf(types []*symbols.Type, m *symbols.Member) *symbols.Type {
	for _, t := range types {
		for _, candidate := range t.Members {
			if candidate == m {
				return t
			}
		}
	}
	return nil
}

// mergePartial folds the members and modifiers of another part of a partial
// type into dst.
func mergePartial(dst, src *symbols.Type) {
	dst.Members = append(dst.Members, src.Members...)
	dst.Attributes = appendUnique(dst.Attributes, src.Attributes...)
	dst.Interfaces = appendUnique(dst.Interfaces, src.Interfaces...)
	if dst.BaseType == "" {
		dst.BaseType = src.BaseType
	}
	if src.Accessibility != "internal" && src.Accessibility != "private" {
		dst.Accessibility = src.Accessibility
	}
	dst.IsStatic = dst.IsStatic || src.IsStatic
	dst.IsAbstract = dst.IsAbstract || src.IsAbstract
	dst.IsSealed = dst.IsSealed || src.IsSealed
}

func appendUnique(list []string, items ...string) []string {
	for _, it := range items {
		found := false
		for _, l := range list {
			if l == it {
				found = true
				break
			}
		}
		if !found {
			list = append(list, it)
		}
	}
	return list
}

// sourceFiles lists the .cs files under dir in lexical order.
func sourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && (skipDirs[strings.ToLower(d.Name())] || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".cs") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning sources in %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func findProject(dir string) string {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csproj"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[0]
}

type projectMetadata struct {
	Name    string
	Version string
}

type projectXML struct {
	PropertyGroups []struct {
		AssemblyName    string `xml:"AssemblyName"`
		AssemblyVersion string `xml:"AssemblyVersion"`
		Version         string `xml:"Version"`
		VersionPrefix   string `xml:"VersionPrefix"`
	} `xml:"PropertyGroup"`
}

// readProject reads the assembly name and version from an SDK-style
// project file.
func readProject(path string) (projectMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return projectMetadata{}, fmt.Errorf("reading project file: %w", err)
	}
	var px projectXML
	if err := xml.Unmarshal(data, &px); err != nil {
		return projectMetadata{}, fmt.Errorf("parsing project file %s: %w", path, err)
	}
	var meta projectMetadata
	for _, g := range px.PropertyGroups {
		if meta.Name == "" {
			meta.Name = strings.TrimSpace(g.AssemblyName)
		}
		for _, v := range []string{g.AssemblyVersion, g.Version, g.VersionPrefix} {
			if v = strings.TrimSpace(v); v != "" && meta.Version == "" {
				meta.Version = v
			}
		}
	}
	if strings.Contains(meta.Name, "$(") {
		meta.Name = ""
	}
	if strings.Contains(meta.Version, "$(") {
		meta.Version = ""
	}
	return meta, nil
}
