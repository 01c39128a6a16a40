// Package manager sequences a documentation run: symbols and XML comments
// are built into a model, optional transforms rewrite its prose, and every
// configured renderer writes it into one shared output tree.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"github.com/julianshen/dotnetdocs/internal/builder"
	"github.com/julianshen/dotnetdocs/internal/model"
	"github.com/julianshen/dotnetdocs/internal/parser"
	"github.com/julianshen/dotnetdocs/internal/project"
	"github.com/julianshen/dotnetdocs/internal/render"
	"github.com/julianshen/dotnetdocs/internal/store"
	"github.com/julianshen/dotnetdocs/internal/symbols"
	"github.com/julianshen/dotnetdocs/internal/transform"
	"github.com/julianshen/dotnetdocs/internal/xmldoc"
)

// ErrAssemblyNotFound is returned when an input assembly path does not exist.
var ErrAssemblyNotFound = errors.New("assembly not found")

// Input pairs an assembly with its XML documentation file. An empty XMLPath
// means the sidecar next to the assembly (<name>.xml).
type Input struct {
	AssemblyPath string
	XMLPath      string
}

// ParseInput splits "assembly[:xml]". A colon at index 1 belongs to a
// Windows drive letter and is not treated as the separator.
func ParseInput(s string) Input {
	if len(s) < 3 {
		return Input{AssemblyPath: s}
	}
	i := strings.Index(s[2:], ":")
	if i < 0 {
		return Input{AssemblyPath: s}
	}
	i += 2
	return Input{AssemblyPath: s[:i], XMLPath: s[i+1:]}
}

// Failure reports one assembly, or the reference merge, that did not finish.
type Failure struct {
	Input Input
	Err   error
}

func (f Failure) Error() string {
	if f.Input.AssemblyPath == "" {
		return f.Err.Error()
	}
	return fmt.Sprintf("%s: %v", f.Input.AssemblyPath, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Result summarizes a run.
type Result struct {
	RunID      string
	Assemblies []*model.DocAssembly
	// Files lists every file written, sorted.
	Files []string
	// Pruned lists stale files removed after the run.
	Pruned   []string
	Failures []Failure
}

// Err combines every failure, or returns nil.
func (r *Result) Err() error {
	var errs error
	for _, f := range r.Failures {
		errs = multierr.Append(errs, f)
	}
	return errs
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for warnings.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithProgress writes one progress line per stage to w.
func WithProgress(w io.Writer) Option {
	return func(m *Manager) { m.progress = w }
}

// WithFormats selects the built-in renderers, in order.
func WithFormats(formats ...string) Option {
	return func(m *Manager) { m.formats = append(m.formats, formats...) }
}

// WithRenderers adds renderers constructed by the caller. They run after the
// built-in formats; their files are not recorded in the ledger.
func WithRenderers(rs ...render.Renderer) Option {
	return func(m *Manager) { m.extra = append(m.extra, rs...) }
}

// WithTransformers adds passes that run between build and render.
func WithTransformers(ts ...transform.Transformer) Option {
	return func(m *Manager) { m.transforms = append(m.transforms, ts...) }
}

// WithResolver overrides how input paths are turned into symbol graphs.
func WithResolver(r symbols.Resolver) Option {
	return func(m *Manager) { m.resolver = r }
}

// WithLedger records every written file in l. With prune set, files the
// ledger attributes to a processed assembly but that the run did not
// rewrite are deleted.
func WithLedger(l *store.Ledger, prune bool) Option {
	return func(m *Manager) {
		m.ledger = l
		m.prune = prune
	}
}

// WithConcurrency bounds concurrent file writes per renderer.
func WithConcurrency(n int) Option {
	return func(m *Manager) { m.concurrency = n }
}

// Manager runs documentation passes over one or more assemblies.
type Manager struct {
	project     *project.Context
	logger      *log.Logger
	progress    io.Writer
	formats     []string
	extra       []render.Renderer
	renderers   []render.Renderer
	transforms  []transform.Transformer
	resolver    symbols.Resolver
	ledger      *store.Ledger
	prune       bool
	concurrency int
	builder     *builder.Builder
	files       *fileTracker
}

// New returns a Manager. Without formats or renderers it renders Markdown.
func New(pc *project.Context, opts ...Option) (*Manager, error) {
	if pc == nil {
		pc = project.NewContext()
	}
	m := &Manager{
		project:     pc,
		logger:      log.Default(),
		concurrency: render.DefaultConcurrency,
	}
	for _, o := range opts {
		o(m)
	}
	if m.resolver.Source == nil {
		m.resolver.Source = parser.NewProvider(parser.WithLogger(m.logger))
	}
	if len(m.formats) == 0 && len(m.extra) == 0 {
		m.formats = []string{render.FormatMarkdown}
	}

	m.files = &fileTracker{ledger: m.ledger, seen: map[string]struct{}{}}
	for _, f := range m.formats {
		r, err := render.New(f, pc,
			render.WithLogger(m.logger),
			render.WithRecorder(m.files),
			render.WithConcurrency(m.concurrency),
		)
		if err != nil {
			return nil, err
		}
		m.renderers = append(m.renderers, r)
	}
	m.renderers = append(m.renderers, m.extra...)
	m.builder = builder.New(pc, builder.WithLogger(m.logger))
	return m, nil
}

// Renderers returns the renderers in run order.
func (m *Manager) Renderers() []render.Renderer { return m.renderers }

func (m *Manager) warnf(format string, args ...any) {
	m.logger.Printf("WARNING: "+format, args...)
}

func (m *Manager) progressf(format string, args ...any) {
	if m.progress != nil {
		fmt.Fprintf(m.progress, "dotnetdocs: "+format+"\n", args...)
	}
}

// Process documents a single assembly.
func (m *Manager) Process(ctx context.Context, assemblyPath, xmlPath string) (*Result, error) {
	return m.ProcessAll(ctx, []Input{{AssemblyPath: assemblyPath, XMLPath: xmlPath}})
}

// ProcessAll documents every input into the shared output tree. A failing
// assembly is reported in Result.Failures and the batch continues; files
// already written are kept. Documentation references are merged into the
// Mintlify navigation once all assemblies are done.
func (m *Manager) ProcessAll(ctx context.Context, inputs []Input) (*Result, error) {
	res := &Result{RunID: store.NewRunID()}
	var done []string

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			res.Failures = append(res.Failures, Failure{Input: in, Err: err})
			break
		}
		doc, err := m.processOne(ctx, res.RunID, in)
		if doc != nil {
			res.Assemblies = append(res.Assemblies, doc)
		}
		if err != nil {
			res.Failures = append(res.Failures, Failure{Input: in, Err: err})
			continue
		}
		done = append(done, doc.Name)
	}

	if err := m.mergeReferences(ctx, res.RunID); err != nil {
		res.Failures = append(res.Failures, Failure{Err: err})
	}
	if m.ledger != nil && m.prune && len(done) > 0 {
		pruned, err := m.pruneStale(res.RunID, done)
		res.Pruned = pruned
		if err != nil {
			res.Failures = append(res.Failures, Failure{Err: err})
		}
	}

	res.Files = m.files.drain()
	m.progressf("done: %d assemblies, %d files, %d failures", len(res.Assemblies), len(res.Files), len(res.Failures))
	return res, res.Err()
}

// Build loads and builds one input without rendering it.
func (m *Manager) Build(ctx context.Context, in Input) (*model.DocAssembly, error) {
	if _, err := os.Stat(in.AssemblyPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAssemblyNotFound, in.AssemblyPath)
		}
		return nil, fmt.Errorf("stat %s: %w", in.AssemblyPath, err)
	}

	provider, loadPath, err := m.resolver.Resolve(in.AssemblyPath)
	if err != nil {
		return nil, fmt.Errorf("resolve symbols: %w", err)
	}
	m.progressf("loading symbols from %s...", loadPath)
	asm, err := provider.Load(ctx, loadPath)
	if err != nil {
		return nil, fmt.Errorf("load symbols: %w", err)
	}

	comments := m.comments(in, asm)
	m.progressf("building %s...", asm.Name)
	doc, err := m.builder.Build(ctx, asm, comments)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	if len(m.transforms) > 0 {
		m.progressf("transforming %s...", doc.Name)
		if err := transform.Apply(ctx, doc, m.transforms...); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// comments returns the XML documentation for in. A missing or unreadable
// file degrades to comments the provider found itself, or none.
func (m *Manager) comments(in Input, asm *symbols.Assembly) xmldoc.CommentSource {
	path := in.XMLPath
	if path == "" {
		path = sidecarXML(in.AssemblyPath)
		if path == "" {
			return asm.Comments
		}
		if _, err := os.Stat(path); err != nil && asm.Comments != nil {
			return asm.Comments
		}
	}

	file, err := xmldoc.Load(path)
	switch {
	case err == nil:
		return file
	case errors.Is(err, fs.ErrNotExist):
		m.warnf("no XML documentation for %s at %s; generating metadata-only output", asm.Name, path)
	default:
		m.warnf("ignoring XML documentation for %s: %v", asm.Name, err)
	}
	if asm.Comments != nil {
		return asm.Comments
	}
	return nil
}

// sidecarXML returns <name>.xml next to a compiled assembly or manifest, or
// "" for source inputs.
func sidecarXML(assemblyPath string) string {
	ext := strings.ToLower(filepath.Ext(assemblyPath))
	switch ext {
	case ".dll", ".exe", ".json", ".yaml", ".yml":
		base := strings.TrimSuffix(assemblyPath, filepath.Ext(assemblyPath))
		return strings.TrimSuffix(base, ".symbols") + ".xml"
	}
	return ""
}

func (m *Manager) processOne(ctx context.Context, runID string, in Input) (*model.DocAssembly, error) {
	doc, err := m.Build(ctx, in)
	if err != nil {
		return nil, err
	}

	m.files.begin(runID, doc.Name)
	var errs error
	for _, r := range m.renderers {
		if err := ctx.Err(); err != nil {
			return doc, multierr.Append(errs, err)
		}
		m.progressf("rendering %s as %s...", doc.Name, r.Name())
		if err := r.Render(ctx, doc); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("render %s: %w", r.Name(), err))
		}
	}
	return doc, errs
}

func (m *Manager) mintlify() *render.Mintlify {
	for _, r := range m.renderers {
		if mr, ok := r.(*render.Mintlify); ok {
			return mr
		}
	}
	return nil
}

func (m *Manager) mergeReferences(ctx context.Context, runID string) error {
	if len(m.project.References) == 0 {
		return nil
	}
	mr := m.mintlify()
	if mr == nil {
		m.warnf("documentation references are only merged by the mintlify renderer; ignoring %d references", len(m.project.References))
		return nil
	}
	m.progressf("merging %d documentation references...", len(m.project.References))
	m.files.begin(runID, "")
	errs := mr.AddReferences(ctx, m.project.References)
	if err := mr.WriteNavigation(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

func (m *Manager) pruneStale(runID string, assemblies []string) ([]string, error) {
	stale, err := m.ledger.Stale(runID, assemblies...)
	if err != nil {
		return nil, err
	}
	var pruned []string
	var errs error
	for _, e := range stale {
		if err := os.Remove(e.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = multierr.Append(errs, fmt.Errorf("prune %s: %w", e.Path, err))
			continue
		}
		if err := m.ledger.Forget(e.Path); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		pruned = append(pruned, e.Path)
	}
	if len(pruned) > 0 {
		m.progressf("pruned %d stale files", len(pruned))
	}
	return pruned, errs
}

// Scaffold builds every input and writes missing conceptual placeholder
// files for it.
func (m *Manager) Scaffold(ctx context.Context, inputs []Input) ([]string, error) {
	var written []string
	var errs error
	for _, in := range inputs {
		doc, err := m.Build(ctx, in)
		if err != nil {
			errs = multierr.Append(errs, Failure{Input: in, Err: err})
			continue
		}
		files, err := m.builder.Scaffold(ctx, doc)
		written = append(written, files...)
		if err != nil {
			errs = multierr.Append(errs, Failure{Input: in, Err: err})
		}
	}
	return written, errs
}

// fileTracker is the render.Recorder shared by every built-in renderer. It
// collects written paths and forwards them to the ledger under the assembly
// currently being rendered.
type fileTracker struct {
	mu       sync.Mutex
	ledger   *store.Ledger
	runID    string
	assembly string
	seen     map[string]struct{}
}

// compile-time check: fileTracker implements render.Recorder.
var _ render.Recorder = (*fileTracker)(nil)

func (f *fileTracker) begin(runID, assembly string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runID = runID
	f.assembly = assembly
}

func (f *fileTracker) Record(renderer, path string, content []byte) error {
	f.mu.Lock()
	f.seen[path] = struct{}{}
	runID, assembly := f.runID, f.assembly
	f.mu.Unlock()

	if f.ledger == nil {
		return nil
	}
	return f.ledger.Record(runID, assembly, renderer, path, content)
}

func (f *fileTracker) drain() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	files := make([]string, 0, len(f.seen))
	for p := range f.seen {
		files = append(files, p)
	}
	sort.Strings(files)
	f.seen = map[string]struct{}{}
	return files
}
