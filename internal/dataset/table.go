package dataset

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoTable is returned when an HTML document contains no table rows
var ErrNoTable = errors.New("no table found in HTML document")

// FromHTMLTable converts the first <table> of an HTML document into
// delimited text that Parse accepts. The first row (usually <th> cells)
// becomes the header. Delimiters inside cells are replaced with spaces.
func FromHTMLTable(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	table := findElement(doc, "table")
	if table == nil {
		return "", ErrNoTable
	}

	var rows []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "table":
				// Nested tables are not part of the outer grid
				if n != table {
					return
				}
			case "tr":
				if cells := rowCells(n); len(cells) > 0 {
					rows = append(rows, strings.Join(cells, Delimiter))
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)

	if len(rows) == 0 {
		return "", ErrNoTable
	}

	return strings.Join(rows, "\n"), nil
}

// rowCells returns the cleaned text of each th/td cell in a row
func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "th" || c.Data == "td") {
			cells = append(cells, cellText(c))
		}
	}
	return cells
}

// cellText extracts visible text, skipping footnote markers and scripts
func cellText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "sup":
				return
			case "br":
				buf.WriteString(" ")
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	text := strings.ReplaceAll(buf.String(), Delimiter, " ")
	return strings.Join(strings.Fields(text), " ")
}

// findElement returns the first element with the given tag in document order
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
