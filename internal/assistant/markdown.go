package assistant

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/uideck/internal/theme"
)

// RenderMarkdown renders assistant Markdown as styled terminal text
// wrapped to width. Headings, emphasis, inline code, code blocks, links
// and lists are supported; anything else renders as plain text.
func RenderMarkdown(src string, styles theme.Styles, width int) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(src))

	r := &mdRenderer{styles: styles}
	ast.WalkFunc(doc, r.walk)
	r.flush()

	out := strings.Join(r.blocks, "\n\n")
	if width > 0 {
		out = lipgloss.NewStyle().Width(width).Render(out)
	}
	return strings.TrimRight(out, "\n ")
}

type mdRenderer struct {
	styles theme.Styles
	blocks []string
	line   strings.Builder
	lines  []string
	inline []lipgloss.Style
	lists  []*listState
}

type listState struct {
	ordered bool
	n       int
}

func (r *mdRenderer) style() lipgloss.Style {
	if len(r.inline) == 0 {
		return r.styles.Text
	}
	return r.inline[len(r.inline)-1]
}

func (r *mdRenderer) push(s lipgloss.Style) {
	r.inline = append(r.inline, s)
}

func (r *mdRenderer) pop() {
	if len(r.inline) > 0 {
		r.inline = r.inline[:len(r.inline)-1]
	}
}

func (r *mdRenderer) write(text string) {
	if text == "" {
		return
	}
	r.line.WriteString(r.style().Render(text))
}

func (r *mdRenderer) breakLine() {
	r.lines = append(r.lines, r.line.String())
	r.line.Reset()
}

// flush closes the current block.
func (r *mdRenderer) flush() {
	if r.line.Len() > 0 {
		r.breakLine()
	}
	if len(r.lines) > 0 {
		r.blocks = append(r.blocks, strings.Join(r.lines, "\n"))
		r.lines = nil
	}
}

func (r *mdRenderer) walk(node ast.Node, entering bool) ast.WalkStatus {
	if !entering && node.AsLeaf() != nil {
		return ast.GoToNext
	}
	switch n := node.(type) {
	case *ast.Heading:
		if entering {
			r.flush()
			r.push(r.styles.Title)
		} else {
			r.pop()
			r.flush()
		}
	case *ast.Paragraph:
		// Paragraphs inside list items stay on the item line.
		if len(r.lists) > 0 {
			return ast.GoToNext
		}
		if !entering {
			r.flush()
		}
	case *ast.Emph:
		if entering {
			r.push(r.style().Italic(true))
		} else {
			r.pop()
		}
	case *ast.Strong:
		if entering {
			r.push(r.style().Bold(true))
		} else {
			r.pop()
		}
	case *ast.Link:
		if entering {
			r.push(r.styles.Accent.Underline(true))
		} else {
			r.pop()
			r.write(" (" + string(n.Destination) + ")")
		}
	case *ast.Text:
		r.write(string(n.Literal))
	case *ast.Code:
		r.line.WriteString(r.styles.Key.Render(string(n.Literal)))
	case *ast.CodeBlock:
		r.flush()
		code := strings.TrimRight(string(n.Literal), "\n")
		for _, l := range strings.Split(code, "\n") {
			r.lines = append(r.lines, "  "+r.styles.Key.Render(l))
		}
		r.flush()
	case *ast.Softbreak:
		r.write(" ")
	case *ast.Hardbreak:
		r.breakLine()
	case *ast.List:
		if entering {
			if len(r.lists) == 0 {
				r.flush()
			}
			r.lists = append(r.lists, &listState{ordered: n.ListFlags&ast.ListTypeOrdered != 0, n: n.Start})
		} else {
			r.lists = r.lists[:len(r.lists)-1]
			if len(r.lists) == 0 {
				r.flush()
			}
		}
	case *ast.ListItem:
		if !entering {
			if r.line.Len() > 0 {
				r.breakLine()
			}
			return ast.GoToNext
		}
		if r.line.Len() > 0 {
			r.breakLine()
		}
		ls := r.lists[len(r.lists)-1]
		indent := strings.Repeat("  ", len(r.lists)-1)
		marker := "• "
		if ls.ordered {
			if ls.n == 0 {
				ls.n = 1
			}
			marker = strconv.Itoa(ls.n) + ". "
			ls.n++
		}
		r.line.WriteString(indent + r.styles.Accent.Render(marker))
	case *ast.HorizontalRule:
		r.flush()
		r.lines = append(r.lines, r.styles.Muted.Render("────────"))
		r.flush()
	}
	return ast.GoToNext
}
