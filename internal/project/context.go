// Package project holds the per-pass configuration shared by the builder and
// every renderer. A Context is constructed once before a build pass and is
// passed explicitly; nothing here is global.
package project

import (
	"path/filepath"
	"strings"

	"github.com/julianshen/dotnetdocs/internal/model"
)

// NamespaceMode selects how namespace and type files are laid out on disk.
type NamespaceMode string

const (
	// FileMode writes flat files whose names join namespace segments with
	// the configured separator.
	FileMode NamespaceMode = "file"
	// FolderMode writes nested directories mirroring namespace segments with
	// an index file per namespace.
	FolderMode NamespaceMode = "folder"
)

// ParseNamespaceMode is case-insensitive. Unrecognized input returns
// (FileMode, false).
func ParseNamespaceMode(s string) (NamespaceMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "file":
		return FileMode, true
	case "folder":
		return FolderMode, true
	}
	return FileMode, false
}

// DefaultSeparator joins namespace segments in FileMode.
const DefaultSeparator = '-'

// FileNamingOptions controls output file names.
type FileNamingOptions struct {
	Mode NamespaceMode
	// Separator is only used in FileMode. FolderMode always uses the OS
	// path separator.
	Separator rune
}

// DefaultFileNamingOptions returns FileMode with a hyphen separator.
func DefaultFileNamingOptions() FileNamingOptions {
	return FileNamingOptions{Mode: FileMode, Separator: DefaultSeparator}
}

// DocumentationReference points at an externally produced documentation set
// whose navigation is folded into ours without re-rendering its content.
type DocumentationReference struct {
	// Name labels the navigation group created for the reference.
	Name string
	// DocumentationRoot is the directory holding the referenced docs.
	DocumentationRoot string
	// DestinationPath is where the referenced pages live relative to our
	// documentation root.
	DestinationPath string
	// NavigationFilePath is the referenced set's docs.json.
	NavigationFilePath string
}

// Context is the cross-cutting configuration for one build pass.
// ReferencePaths names the XML documentation of referenced assemblies: XML
// files, assemblies with the XML file alongside, or directories of XML
// files. The builder reads them to resolve <inheritdoc/> against types
// declared outside the assembly.
type Context struct {
	IncludedAccessibilities []model.Accessibility
	ReferencePaths          []string
	DocumentationRootPath   string
	APIReferencePath        string
	ConceptualPath          string
	ConceptualDocsEnabled   bool
	ShowPlaceholders        bool
	FileNaming              FileNamingOptions
	References              []DocumentationReference
	Mintlify                MintlifyOptions
}

// NewContext returns a Context with documented defaults: public members only,
// "docs" as the documentation root, "api-reference" below it and FileMode
// naming with a hyphen.
func NewContext() *Context {
	return &Context{
		IncludedAccessibilities: []model.Accessibility{model.Public},
		DocumentationRootPath:   "docs",
		APIReferencePath:        "api-reference",
		ConceptualPath:          "conceptual",
		ConceptualDocsEnabled:   true,
		FileNaming:              DefaultFileNamingOptions(),
		Mintlify:                DefaultMintlifyOptions(),
	}
}

// IsIncluded reports whether entities with accessibility a are documented.
func (c *Context) IsIncluded(a model.Accessibility) bool {
	for _, inc := range c.IncludedAccessibilities {
		if inc == a {
			return true
		}
	}
	return false
}

// APIReferenceRoot is the directory that receives generated API pages.
func (c *Context) APIReferenceRoot() string {
	if c.APIReferencePath == "" {
		return c.DocumentationRootPath
	}
	return filepath.Join(c.DocumentationRootPath, c.APIReferencePath)
}

// Separator returns the configured FileMode separator, falling back to the
// default when none is set.
func (c *Context) Separator() rune {
	if c.FileNaming.Separator == 0 {
		return DefaultSeparator
	}
	return c.FileNaming.Separator
}

// Clone returns a copy that can be mutated without affecting c.
func (c *Context) Clone() *Context {
	cp := *c
	cp.IncludedAccessibilities = append([]model.Accessibility(nil), c.IncludedAccessibilities...)
	cp.ReferencePaths = append([]string(nil), c.ReferencePaths...)
	cp.References = append([]DocumentationReference(nil), c.References...)
	return &cp
}
