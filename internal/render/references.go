package render

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/julianshen/dotnetdocs/internal/project"
)

// AddReferences folds the navigation of externally produced documentation
// sets into ours and copies their pages below DestinationPath without
// re-rendering them. Call WriteNavigation afterwards to persist docs.json.
// Every failing reference is reported; the others are still added.
func (r *Mintlify) AddReferences(ctx context.Context, refs []project.DocumentationReference) error {
	var errs error
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		if err := r.addReference(ctx, ref); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("documentation reference %q: %w", ref.Name, err))
		}
	}
	return errs
}

func (r *Mintlify) addReference(ctx context.Context, ref project.DocumentationReference) error {
	if ref.DocumentationRoot == "" || ref.DestinationPath == "" {
		return fmt.Errorf("invalid argument: documentation root and destination path are required")
	}
	navPath := ref.NavigationFilePath
	if navPath == "" {
		navPath = filepath.Join(ref.DocumentationRoot, NavigationFile)
	}
	manifest, err := readManifest(navPath)
	if err != nil {
		return err
	}

	dest := strings.Trim(filepath.ToSlash(ref.DestinationPath), "/")
	name := ref.Name
	if name == "" {
		name = path.Base(dest)
	}
	group := map[string]any{
		"group": name,
		"pages": prefixPages(navigationItems(manifest["navigation"]), dest),
	}

	if err := r.copyReference(ctx, ref.DocumentationRoot, filepath.Join(r.Context.DocumentationRootPath, filepath.FromSlash(dest))); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, g := range r.references {
		if g["group"] == name {
			r.references[i] = group
			return nil
		}
	}
	r.references = append(r.references, group)
	return nil
}

// navigationItems flattens any supported navigation shape into a list of
// pages and groups.
func navigationItems(nav any) []any {
	switch v := nav.(type) {
	case []any:
		return v
	case map[string]any:
		var items []any
		for _, key := range []string{"pages", "groups"} {
			if list, ok := v[key].([]any); ok {
				items = append(items, list...)
			}
		}
		for _, key := range []string{"tabs", "products", "anchors", "versions", "languages"} {
			list, _ := v[key].([]any)
			for _, wrapper := range list {
				items = append(items, navigationItems(wrapper)...)
			}
		}
		return items
	}
	return nil
}

// prefixPages returns a copy of items with every page reference moved below
// prefix.
func prefixPages(items []any, prefix string) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, path.Join(prefix, strings.TrimPrefix(v, "/")))
		case map[string]any:
			cp := make(map[string]any, len(v))
			for k, val := range v {
				cp[k] = val
			}
			if pages, ok := v["pages"].([]any); ok {
				cp["pages"] = prefixPages(pages, prefix)
			}
			out = append(out, cp)
		default:
			out = append(out, item)
		}
	}
	return out
}

// copyReference copies the referenced documentation tree into dst. The
// referenced docs.json is not copied.
func (r *Mintlify) copyReference(ctx context.Context, src, dst string) error {
	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	dstAbs, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if srcAbs == dstAbs {
		return nil
	}

	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if abs, _ := filepath.Abs(p); abs == dstAbs {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if rel == NavigationFile {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return r.WriteFile(ctx, filepath.Join(dst, rel), string(data))
	})
}
