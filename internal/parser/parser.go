// Package parser provides tree-sitter based C# source parsing. It extracts
// the declared types and members of a source tree together with their ///
// doc comments, giving directory and project inputs a symbol graph when no
// compiled manifest is available.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
)

// Parser wraps tree-sitter configured for C#. A Parser is not safe for
// concurrent use; create one per goroutine.
type Parser struct {
	inner *sitter.Parser
}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	inner := sitter.NewParser()
	inner.SetLanguage(csharp.GetLanguage())
	return &Parser{inner: inner}
}

// Parse parses C# source. Returns an error for files that are not .cs.
func (p *Parser) Parse(ctx context.Context, filename string, source []byte) (*Tree, error) {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != ".cs" {
		return nil, fmt.Errorf("unsupported file extension %q: only C# sources are parsed", ext)
	}
	sitterTree, err := p.inner.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return &Tree{tree: sitterTree, source: source, name: filename}, nil
}

// Tree wraps a parsed syntax tree.
type Tree struct {
	tree   *sitter.Tree
	source []byte
	name   string
}

// RootNode returns the root node of the parsed syntax tree.
func (t *Tree) RootNode() *sitter.Node {
	return t.tree.RootNode()
}

// HasErrors reports whether tree-sitter had to recover from syntax errors.
func (t *Tree) HasErrors() bool {
	return t.RootNode().HasError()
}

// Close releases the tree.
func (t *Tree) Close() {
	t.tree.Close()
}

// walk performs a depth-first traversal of the syntax tree, calling fn for each node.
func walk(node *sitter.Node, fn func(*sitter.Node)) {
	if node == nil {
		return
	}
	fn(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil {
			walk(child, fn)
		}
	}
}
