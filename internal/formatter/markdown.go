package formatter

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/cardtree/pkg/filter"
	"github.com/oakwood-commons/cardtree/pkg/tree"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", "&lt;",
	"#", `\#`,
)

// FormatMarkdown renders the visible rows of t as a nested Markdown list
// under a level-one heading. Keys are bold; multi-line values continue on
// hard-broken lines.
func FormatMarkdown(t *tree.Tree, vis filter.Set, title string) string {
	var b strings.Builder
	if title != "" {
		b.WriteString("# ")
		b.WriteString(markdownEscaper.Replace(title))
		b.WriteString("\n\n")
	}
	root := t.Root()
	if root.IsLeaf() {
		b.WriteString(markdownEscaper.Replace(root.Value()))
		b.WriteString("\n")
		return b.String()
	}
	writeMarkdownRows(&b, root, vis, 0)
	return b.String()
}

func writeMarkdownRows(b *strings.Builder, n *tree.Node, vis filter.Set, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, c := range n.Children() {
		if !vis.Visible(c.ID()) {
			continue
		}
		b.WriteString(indent)
		b.WriteString("- **")
		b.WriteString(markdownEscaper.Replace(c.Key()))
		b.WriteString("**")
		if !c.IsLeaf() {
			b.WriteString("\n")
			writeMarkdownRows(b, c, vis, depth+1)
			continue
		}
		b.WriteString(": ")
		lines := strings.Split(c.Value(), "\n")
		for i, l := range lines {
			if i > 0 {
				b.WriteString("  \n")
				b.WriteString(indent)
				b.WriteString("  ")
			}
			b.WriteString(markdownEscaper.Replace(l))
		}
		b.WriteString("\n")
	}
}

// FormatHTML renders FormatMarkdown output as a complete HTML page.
func FormatHTML(t *tree.Tree, vis filter.Set, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(FormatMarkdown(t, vis, title)))
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: title,
	})
	return markdown.Render(doc, renderer)
}
