// Package verify compares a generated documentation tree with a baseline.
// Rendering is deterministic, so any difference is a regression or an
// intended change that needs a new baseline.
package verify

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/julianshen/dotnetdocs/internal/render"
)

// Status classifies a differing file.
type Status string

const (
	Changed Status = "changed"
	// Missing files exist in the baseline only.
	Missing Status = "missing"
	// Extra files exist in the generated tree only.
	Extra Status = "extra"
)

// FileDiff is one differing file. Path is slash-separated and relative to
// both roots.
type FileDiff struct {
	Path   string
	Status Status
	Diff   string
}

// Compare walks expectedDir and actualDir and returns every file that
// differs, sorted by path. Line endings are normalized before comparing.
func Compare(expectedDir, actualDir string) ([]FileDiff, error) {
	expected, err := listFiles(expectedDir)
	if err != nil {
		return nil, fmt.Errorf("reading baseline: %w", err)
	}
	actual, err := listFiles(actualDir)
	if err != nil {
		return nil, fmt.Errorf("reading output: %w", err)
	}

	paths := make(map[string]struct{}, len(expected)+len(actual))
	for p := range expected {
		paths[p] = struct{}{}
	}
	for p := range actual {
		paths[p] = struct{}{}
	}
	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	var diffs []FileDiff
	for _, p := range sorted {
		_, inExpected := expected[p]
		_, inActual := actual[p]
		var want, got string
		if inExpected {
			if want, err = readNormalized(expectedDir, p); err != nil {
				return nil, err
			}
		}
		if inActual {
			if got, err = readNormalized(actualDir, p); err != nil {
				return nil, err
			}
		}

		status := Changed
		switch {
		case !inActual:
			status = Missing
		case !inExpected:
			status = Extra
		case want == got:
			continue
		}

		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(want),
			B:        difflib.SplitLines(got),
			FromFile: "expected/" + p,
			ToFile:   "actual/" + p,
			Context:  3,
		})
		if err != nil {
			return nil, fmt.Errorf("diffing %s: %w", p, err)
		}
		diffs = append(diffs, FileDiff{Path: p, Status: status, Diff: text})
	}
	return diffs, nil
}

// Report formats diffs as one block per file.
func Report(diffs []FileDiff) string {
	var b strings.Builder
	for _, d := range diffs {
		fmt.Fprintf(&b, "%s: %s\n", d.Status, d.Path)
		b.WriteString(d.Diff)
		if d.Diff != "" && !strings.HasSuffix(d.Diff, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func listFiles(root string) (map[string]struct{}, error) {
	files := map[string]struct{}{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = struct{}{}
		return nil
	})
	return files, err
}

func readNormalized(root, rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return "", err
	}
	return render.NormalizeLineEndings(string(data)), nil
}
