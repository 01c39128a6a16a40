package transform

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"github.com/julianshen/dotnetdocs/internal/model"
	"github.com/julianshen/dotnetdocs/internal/render"
	"github.com/julianshen/dotnetdocs/internal/xmldoc"
)

// MarkdownXMLName is the pass name used in configuration.
const MarkdownXMLName = "markdown-xml"

// MarkdownXML converts doc-comment XML tags in prose to Markdown.
type MarkdownXML struct {
	logger *log.Logger
}

// compile-time check: MarkdownXML implements Transformer.
var _ Transformer = (*MarkdownXML)(nil)

// NewMarkdownXML returns the pass. A nil logger uses log.Default.
func NewMarkdownXML(logger *log.Logger) *MarkdownXML {
	if logger == nil {
		logger = log.Default()
	}
	return &MarkdownXML{logger: logger}
}

// Name returns the pass name.
func (m *MarkdownXML) Name() string { return MarkdownXMLName }

// Transform rewrites every prose field that contains doc-comment tags.
// Fields that are not well-formed XML are left untouched.
func (m *MarkdownXML) Transform(ctx context.Context, asm *model.DocAssembly) error {
	return Walk(ctx, asm, func(kind, name, field string, text *string) error {
		if !hasDocTags(*text) {
			return nil
		}
		out, err := XMLToMarkdown(*text)
		if err != nil {
			m.logger.Printf("WARNING: leaving %s %s %s unconverted: %v", kind, name, field, err)
			return nil
		}
		*text = out
		return nil
	})
}

var docTag = regexp.MustCompile(`<(see|seealso|paramref|typeparamref|c|code|para|list|br|b|i|em|strong|a)[\s/>]`)

func hasDocTags(s string) bool {
	return docTag.MatchString(s)
}

type xmlNode struct {
	name     string
	attrs    map[string]string
	text     string
	children []*xmlNode
}

func parseFragment(s string) (*xmlNode, error) {
	dec := xml.NewDecoder(strings.NewReader("<root>" + s + "</root>"))
	dec.Entity = xml.HTMLEntity

	root := &xmlNode{}
	stack := []*xmlNode{}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{name: strings.ToLower(tok.Name.Local), attrs: map[string]string{}}
			for _, a := range tok.Attr {
				n.attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				root = n
			} else {
				top := stack[len(stack)-1]
				top.children = append(top.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced </%s>", tok.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.children = append(top.children, &xmlNode{text: string(tok)})
			}
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unclosed <%s>", stack[len(stack)-1].name)
	}
	return root, nil
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// XMLToMarkdown converts a doc-comment fragment such as
// `Returns <see langword="null"/> when <paramref name="x"/> is empty.` into
// Markdown.
func XMLToMarkdown(s string) (string, error) {
	root, err := parseFragment(s)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	writeChildren(&b, root)
	out := blankRuns.ReplaceAllString(b.String(), "\n\n")
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func writeChildren(b *strings.Builder, n *xmlNode) {
	for _, c := range n.children {
		writeNode(b, c)
	}
}

func innerText(n *xmlNode) string {
	var b strings.Builder
	writeChildren(&b, n)
	return strings.TrimSpace(b.String())
}

func writeNode(b *strings.Builder, n *xmlNode) {
	if n.name == "" {
		b.WriteString(n.text)
		return
	}
	switch n.name {
	case "see", "seealso":
		label := innerText(n)
		switch {
		case n.attrs["href"] != "":
			if label == "" {
				fmt.Fprintf(b, "<%s>", n.attrs["href"])
			} else {
				fmt.Fprintf(b, "[%s](%s)", label, n.attrs["href"])
			}
		case n.attrs["langword"] != "":
			fmt.Fprintf(b, "`%s`", n.attrs["langword"])
		case label != "":
			fmt.Fprintf(b, "`%s`", label)
		default:
			fmt.Fprintf(b, "`%s`", xmldoc.StripIDPrefix(n.attrs["cref"]))
		}
	case "paramref", "typeparamref":
		fmt.Fprintf(b, "`%s`", n.attrs["name"])
	case "c":
		fmt.Fprintf(b, "`%s`", innerText(n))
	case "code":
		var raw strings.Builder
		writeRaw(&raw, n)
		code := render.Dedent(strings.Trim(render.NormalizeLineEndings(raw.String()), "\n"))
		lang := n.attrs["language"]
		if lang == "" {
			lang = n.attrs["lang"]
		}
		if lang == "" {
			lang = "csharp"
		}
		fmt.Fprintf(b, "\n\n```%s\n%s\n```\n\n", lang, strings.TrimRight(code, " \t\n"))
	case "para", "p":
		b.WriteString("\n\n")
		b.WriteString(innerText(n))
		b.WriteString("\n\n")
	case "br":
		b.WriteString("\n")
	case "b", "strong":
		fmt.Fprintf(b, "**%s**", innerText(n))
	case "i", "em":
		fmt.Fprintf(b, "*%s*", innerText(n))
	case "a":
		fmt.Fprintf(b, "[%s](%s)", innerText(n), n.attrs["href"])
	case "list":
		writeList(b, n)
	default:
		writeChildren(b, n)
	}
}

// writeRaw writes the text of n without any conversion, for code blocks.
func writeRaw(b *strings.Builder, n *xmlNode) {
	for _, c := range n.children {
		if c.name == "" {
			b.WriteString(c.text)
		} else {
			writeRaw(b, c)
		}
	}
}

func writeList(b *strings.Builder, n *xmlNode) {
	b.WriteString("\n\n")
	kind := strings.ToLower(n.attrs["type"])
	var header *xmlNode
	var items []*xmlNode
	for _, c := range n.children {
		switch c.name {
		case "listheader":
			header = c
		case "item":
			items = append(items, c)
		}
	}

	if kind == "table" {
		term, desc := "Term", "Description"
		if header != nil {
			term, desc = itemParts(header)
		}
		fmt.Fprintf(b, "| %s | %s |\n| --- | --- |\n", render.EscapeTableCell(term), render.EscapeTableCell(desc))
		for _, it := range items {
			t, d := itemParts(it)
			fmt.Fprintf(b, "| %s | %s |\n", render.EscapeTableCell(t), render.EscapeTableCell(d))
		}
		b.WriteString("\n")
		return
	}

	for i, it := range items {
		marker := "-"
		if kind == "number" {
			marker = fmt.Sprintf("%d.", i+1)
		}
		term, desc := itemParts(it)
		switch {
		case term != "" && desc != "":
			fmt.Fprintf(b, "%s **%s**: %s\n", marker, term, desc)
		case desc != "":
			fmt.Fprintf(b, "%s %s\n", marker, desc)
		default:
			fmt.Fprintf(b, "%s %s\n", marker, term)
		}
	}
	b.WriteString("\n")
}

// itemParts returns the term and description of a list item. Items without
// a <description> use their whole text as the description.
func itemParts(n *xmlNode) (term, desc string) {
	found := false
	for _, c := range n.children {
		switch c.name {
		case "term":
			term = innerText(c)
			found = true
		case "description":
			desc = innerText(c)
			found = true
		}
	}
	if !found {
		desc = innerText(n)
	}
	return term, desc
}
