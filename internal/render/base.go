// Package render projects a documentation model onto disk. Every format
// shares the helpers in this file: safe file names, File and Folder layout,
// relative links and a bounded concurrent file writer.
package render

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/julianshen/dotnetdocs/internal/model"
	"github.com/julianshen/dotnetdocs/internal/project"
)

// ErrNilModel is returned when a renderer is handed a nil model or entity.
var ErrNilModel = errors.New("invalid argument: documentation model is nil")

// Renderer writes one output format.
type Renderer interface {
	Name() string
	// Render writes every file for asm: the assembly index, one file per
	// namespace and one per type, plus any format manifest.
	Render(ctx context.Context, asm *model.DocAssembly) error
	RenderAssembly(ctx context.Context, asm *model.DocAssembly) error
	RenderNamespace(ctx context.Context, asm *model.DocAssembly, ns *model.DocNamespace) error
	RenderType(ctx context.Context, asm *model.DocAssembly, ns *model.DocNamespace, t *model.DocType) error
	// RenderMember appends one member section to b.
	RenderMember(b *strings.Builder, m *model.DocMember)
}

// Recorder is told about every file a renderer writes.
type Recorder interface {
	Record(renderer, path string, content []byte) error
}

// Option configures a renderer.
type Option func(*Base)

// WithLogger sets the logger used for warnings.
func WithLogger(l *log.Logger) Option {
	return func(b *Base) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithRecorder registers a Recorder notified after each successful write.
func WithRecorder(r Recorder) Option {
	return func(b *Base) { b.recorder = r }
}

// WithConcurrency bounds the number of concurrent file writes.
func WithConcurrency(n int) Option {
	return func(b *Base) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// DefaultConcurrency is the default number of concurrent file writes.
const DefaultConcurrency = 8

// Base carries the project context and the shared services every renderer
// embeds.
type Base struct {
	Context     *project.Context
	name        string
	logger      *log.Logger
	recorder    Recorder
	concurrency int
	namespaces  *namespaceSet
}

func newBase(name string, ctx *project.Context, opts ...Option) Base {
	if ctx == nil {
		ctx = project.NewContext()
	}
	b := Base{
		Context:     ctx,
		name:        name,
		logger:      log.Default(),
		concurrency: DefaultConcurrency,
		namespaces:  newNamespaceSet(),
	}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// Name returns the renderer's format name.
func (b *Base) Name() string { return b.name }

// Document is one output file. Path is relative to the API reference root
// and always uses forward slashes.
type Document struct {
	Path    string
	Content string
}

// SafeTypeName replaces characters that are illegal in file names, and the
// spaces and commas of generic argument lists, with '_'.
func SafeTypeName(name string) string {
	return unsafeChars.Replace(name)
}

// SafeNamespaceName is SafeTypeName for namespace names.
func SafeNamespaceName(name string) string {
	return unsafeChars.Replace(model.NamespaceName(name))
}

var unsafeChars = strings.NewReplacer(
	"<", "_", ">", "_", "`", "_", "/", "_", "\\", "_",
	":", "_", "*", "_", "?", "_", "\"", "_", "|", "_",
	",", "_", " ", "_",
)

func namespaceSegments(ns string) []string {
	segs := strings.Split(model.NamespaceName(ns), ".")
	for i, s := range segs {
		segs[i] = SafeNamespaceName(s)
	}
	return segs
}

// NamespaceFilePath returns the slash-separated path of the namespace page
// relative to the API reference root. File mode joins the segments with the
// configured separator ("A-B-C.md"); Folder mode nests them ("A/B/C/index.md").
func (b *Base) NamespaceFilePath(ns, ext string) string {
	segs := namespaceSegments(ns)
	if b.Context.FileNaming.Mode == project.FolderMode {
		return path.Join(append(segs, "index"+ext)...)
	}
	return strings.Join(segs, string(b.Context.Separator())) + ext
}

// TypeFilePath returns the slash-separated path of the type page relative to
// the API reference root.
func (b *Base) TypeFilePath(t *model.DocType, ext string) string {
	segs := namespaceSegments(t.Namespace)
	name := SafeTypeName(t.Name)
	if b.Context.FileNaming.Mode == project.FolderMode {
		return path.Join(append(segs, name+ext)...)
	}
	return strings.Join(segs, string(b.Context.Separator())) + "." + name + ext
}

// IndexFilePath returns the assembly index path.
func (b *Base) IndexFilePath(ext string) string {
	return "index" + ext
}

// OutputPath converts a document path into a file system path below the
// API reference root. Folder layouts use the OS separator.
func (b *Base) OutputPath(rel string) string {
	return filepath.Join(b.Context.APIReferenceRoot(), filepath.FromSlash(rel))
}

// RelativeLink returns the link from the page at from to the page at to.
// Both are document paths.
func RelativeLink(from, to string) string {
	dir := path.Dir(from)
	if dir == "." {
		return to
	}
	rel, err := filepath.Rel(filepath.FromSlash(dir), filepath.FromSlash(to))
	if err != nil {
		return to
	}
	return filepath.ToSlash(rel)
}

// Warnf logs a warning through the renderer's logger.
func (b *Base) Warnf(format string, args ...any) {
	b.logger.Printf("WARNING: "+format, args...)
}

// Write writes docs concurrently. Directory creation is idempotent and
// existing files are overwritten. The first error is returned after all
// started writes finish; writes not yet started are skipped once ctx is
// cancelled.
func (b *Base) Write(ctx context.Context, docs ...Document) error {
	if len(docs) == 0 {
		return ctx.Err()
	}
	p := pool.New().WithContext(ctx).WithMaxGoroutines(b.concurrency)
	for _, doc := range docs {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return b.writeFile(b.OutputPath(doc.Path), doc.Content)
		})
	}
	return p.Wait()
}

// WriteFile writes one file at an explicit file system path.
func (b *Base) WriteFile(ctx context.Context, fsPath, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.writeFile(fsPath, content)
}

func (b *Base) writeFile(fsPath, content string) error {
	dir := filepath.Dir(fsPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(fsPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", fsPath, err)
	}
	if b.recorder != nil {
		if err := b.recorder.Record(b.name, fsPath, []byte(content)); err != nil {
			b.Warnf("recording %s: %v", fsPath, err)
		}
	}
	return nil
}

func checkAssembly(asm *model.DocAssembly) error {
	if asm == nil {
		return ErrNilModel
	}
	return nil
}

func checkNamespace(asm *model.DocAssembly, ns *model.DocNamespace) error {
	if asm == nil || ns == nil {
		return ErrNilModel
	}
	return nil
}

func checkType(asm *model.DocAssembly, ns *model.DocNamespace, t *model.DocType) error {
	if asm == nil || ns == nil || t == nil {
		return ErrNilModel
	}
	return nil
}

// Format names accepted by New.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMintlify = "mintlify"
)

// Formats lists every supported format name.
var Formats = []string{FormatMarkdown, FormatJSON, FormatYAML, FormatMintlify}

// New returns the renderer for format.
func New(format string, ctx *project.Context, opts ...Option) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatMarkdown, "md":
		return NewMarkdown(ctx, opts...), nil
	case FormatJSON:
		return NewJSON(ctx, opts...), nil
	case FormatYAML, "yml":
		return NewYAML(ctx, opts...), nil
	case FormatMintlify, "mdx":
		return NewMintlify(ctx, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported render format: %s", format)
	}
}
