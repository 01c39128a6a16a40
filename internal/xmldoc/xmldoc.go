// Package xmldoc reads compiler-generated XML documentation files and parses
// individual member comments. Element bodies are kept as inner XML so a
// later transform pass can turn tags such as <see cref="..."/> into Markdown.
package xmldoc

import (
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/julianshen/dotnetdocs/internal/render"
)

// CommentSource returns the documentation comment for a symbol identity
// such as "T:Sample.Widget" or "M:Sample.Widget.Run(System.Int32)".
// A nil Comment with a nil error means the symbol has no comment.
type CommentSource interface {
	Comment(id string) (*Comment, error)
}

// Chain asks each source in turn and returns the first comment found.
type Chain []CommentSource

// compile-time check: Chain implements CommentSource.
var _ CommentSource = Chain(nil)

// Comment implements CommentSource.
func (c Chain) Comment(id string) (*Comment, error) {
	for _, src := range c {
		if src == nil {
			continue
		}
		cm, err := src.Comment(id)
		if err != nil {
			return nil, err
		}
		if cm != nil {
			return cm, nil
		}
	}
	return nil, nil
}

// Comment is one parsed member comment.
type Comment struct {
	Summary    string
	Remarks    string
	Returns    string
	Value      string
	Examples   []string
	Params     map[string]string
	TypeParams map[string]string
	Exceptions []Exception
	SeeAlso    []string
	// InheritDoc marks an <inheritdoc/> element. InheritFrom is its cref,
	// empty when the comment inherits from the base type or interface.
	InheritDoc  bool
	InheritFrom string
}

// Exception is an <exception cref="..."> entry.
type Exception struct {
	Cref        string
	Description string
}

// File holds every member comment of one assembly keyed by symbol identity.
type File struct {
	AssemblyName string
	members      map[string]string
}

// compile-time check: File implements CommentSource.
var _ CommentSource = (*File)(nil)

type docXML struct {
	XMLName  xml.Name `xml:"doc"`
	Assembly struct {
		Name string `xml:"name"`
	} `xml:"assembly"`
	Members []memberXML `xml:"members>member"`
}

type memberXML struct {
	Name  string `xml:"name,attr"`
	Inner string `xml:",innerxml"`
}

// Load reads an XML documentation file. A missing file returns an error
// wrapping fs.ErrNotExist so callers can degrade to metadata-only output.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening xml documentation %s: %w", path, err)
	}
	defer f.Close()

	var doc docXML
	if err := xml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing xml documentation %s: %w", path, err)
	}

	file := &File{AssemblyName: strings.TrimSpace(doc.Assembly.Name), members: make(map[string]string, len(doc.Members))}
	for _, m := range doc.Members {
		if m.Name == "" {
			continue
		}
		file.members[m.Name] = m.Inner
	}
	return file, nil
}

// FromMembers builds a File from in-memory member XML bodies keyed by
// symbol identity.
func FromMembers(assemblyName string, members map[string]string) *File {
	cp := make(map[string]string, len(members))
	for k, v := range members {
		cp[k] = v
	}
	return &File{AssemblyName: assemblyName, members: cp}
}

// Len returns the number of member comments.
func (f *File) Len() int {
	if f == nil {
		return 0
	}
	return len(f.members)
}

// IDs returns the symbol identities with comments in sorted order.
func (f *File) IDs() []string {
	if f == nil {
		return nil
	}
	ids := make([]string, 0, len(f.members))
	for id := range f.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Raw returns the unparsed inner XML for id.
func (f *File) Raw(id string) (string, bool) {
	if f == nil {
		return "", false
	}
	raw, ok := f.members[id]
	return raw, ok
}

// Comment parses the comment for id. It returns (nil, nil) when id has no
// comment and an error when the comment body is not well-formed XML.
func (f *File) Comment(id string) (*Comment, error) {
	raw, ok := f.Raw(id)
	if !ok {
		return nil, nil
	}
	return Parse(raw)
}

type commentXML struct {
	Summary    innerXML   `xml:"summary"`
	Remarks    innerXML   `xml:"remarks"`
	Returns    innerXML   `xml:"returns"`
	Value      innerXML   `xml:"value"`
	Examples   []innerXML `xml:"example"`
	Params     []namedXML `xml:"param"`
	TypeParams []namedXML `xml:"typeparam"`
	Exceptions []crefXML  `xml:"exception"`
	SeeAlso    []crefXML  `xml:"seealso"`
	InheritDoc *crefXML   `xml:"inheritdoc"`
}

type innerXML struct {
	Inner string `xml:",innerxml"`
}

type namedXML struct {
	Name  string `xml:"name,attr"`
	Inner string `xml:",innerxml"`
}

type crefXML struct {
	Cref  string `xml:"cref,attr"`
	Inner string `xml:",innerxml"`
}

// Parse parses the inner XML of a <member> element.
func Parse(raw string) (*Comment, error) {
	var cx commentXML
	if err := xml.Unmarshal([]byte("<member>"+raw+"</member>"), &cx); err != nil {
		return nil, fmt.Errorf("parsing doc comment: %w", err)
	}

	c := &Comment{
		Summary:    Clean(cx.Summary.Inner),
		Remarks:    Clean(cx.Remarks.Inner),
		Returns:    Clean(cx.Returns.Inner),
		Value:      Clean(cx.Value.Inner),
		Params:     make(map[string]string, len(cx.Params)),
		TypeParams: make(map[string]string, len(cx.TypeParams)),
		InheritDoc: cx.InheritDoc != nil,
	}
	if cx.InheritDoc != nil {
		c.InheritFrom = strings.TrimSpace(cx.InheritDoc.Cref)
	}
	for _, ex := range cx.Examples {
		if text := Clean(ex.Inner); text != "" {
			c.Examples = append(c.Examples, text)
		}
	}
	for _, p := range cx.Params {
		c.Params[p.Name] = Clean(p.Inner)
	}
	for _, p := range cx.TypeParams {
		c.TypeParams[p.Name] = Clean(p.Inner)
	}
	for _, e := range cx.Exceptions {
		c.Exceptions = append(c.Exceptions, Exception{Cref: e.Cref, Description: Clean(e.Inner)})
	}
	for _, s := range cx.SeeAlso {
		if s.Cref != "" {
			c.SeeAlso = append(c.SeeAlso, s.Cref)
		}
	}
	return c, nil
}

// Inherit returns c with every part it leaves empty taken from parent. The
// result no longer asks for inheritance. A nil parent returns c unchanged.
func Inherit(c, parent *Comment) *Comment {
	if c == nil || parent == nil {
		return c
	}
	out := *c
	out.InheritDoc, out.InheritFrom = false, ""
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&out.Summary, parent.Summary)
	fill(&out.Remarks, parent.Remarks)
	fill(&out.Returns, parent.Returns)
	fill(&out.Value, parent.Value)
	if len(out.Examples) == 0 {
		out.Examples = parent.Examples
	}
	if len(out.Exceptions) == 0 {
		out.Exceptions = parent.Exceptions
	}
	if len(out.SeeAlso) == 0 {
		out.SeeAlso = parent.SeeAlso
	}
	out.Params = inheritMap(c.Params, parent.Params)
	out.TypeParams = inheritMap(c.TypeParams, parent.TypeParams)
	return &out
}

func inheritMap(own, parent map[string]string) map[string]string {
	out := make(map[string]string, len(own)+len(parent))
	for k, v := range parent {
		out[k] = v
	}
	for k, v := range own {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Clean normalizes an element body: line endings become LF, the common
// indentation the compiler copies from source is removed and surrounding
// blank space is trimmed.
func Clean(inner string) string {
	s := render.NormalizeLineEndings(inner)
	s = strings.Trim(s, "\n")
	s = render.Dedent(s)
	return strings.TrimSpace(s)
}

// StripIDPrefix removes the "T:", "M:" style prefix from a symbol identity.
func StripIDPrefix(id string) string {
	if len(id) > 2 && id[1] == ':' {
		return id[2:]
	}
	return id
}
