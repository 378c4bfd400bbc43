package exporter

import (
	"bytes"
	"fmt"
	"io"

	"github.com/use-agent/sheetscrape/cleaner"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WritePreviewMarkdown writes a GitHub-flavoured markdown preview of the
// table: a level-one title followed by at most PreviewLimit rows.
func WritePreviewMarkdown(w io.Writer, title string, headers []string, rows [][]string) error {
	var buf bytes.Buffer
	if err := html.Render(&buf, previewDocument(title, headers, PreviewRows(rows))); err != nil {
		return fmt.Errorf("exporter: render preview html: %w", err)
	}

	md, err := cleaner.ToMarkdown(cleaner.NewMarkdownConverter(), buf.String())
	if err != nil {
		return fmt.Errorf("exporter: convert preview: %w", err)
	}
	if _, err := io.WriteString(w, md+"\n"); err != nil {
		return fmt.Errorf("exporter: write markdown: %w", err)
	}
	return nil
}

// SavePreviewMarkdown writes the markdown preview to path.
func SavePreviewMarkdown(path, title string, headers []string, rows [][]string) error {
	return saveFile(path, func(w io.Writer) error {
		return WritePreviewMarkdown(w, title, headers, rows)
	})
}

func previewDocument(title string, headers []string, rows [][]string) *html.Node {
	root := element(atom.Div)
	root.AppendChild(withText(element(atom.H1), title))

	table := element(atom.Table)
	thead := element(atom.Thead)
	headRow := element(atom.Tr)
	for _, h := range headers {
		headRow.AppendChild(withText(element(atom.Th), h))
	}
	thead.AppendChild(headRow)
	table.AppendChild(thead)

	tbody := element(atom.Tbody)
	for _, row := range rows {
		tr := element(atom.Tr)
		for _, col := range row {
			tr.AppendChild(withText(element(atom.Td), col))
		}
		tbody.AppendChild(tr)
	}
	table.AppendChild(tbody)
	root.AppendChild(table)

	return root
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func withText(n *html.Node, text string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
