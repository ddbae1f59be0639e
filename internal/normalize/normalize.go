// Package normalize strips a parsed wiki page down to content-bearing
// structure: headers, lists, text and hyperlinks.
package normalize

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// dropSelectors matches structural and non-content nodes that are removed
// together with all their descendants.
var dropSelectors = []string{
	"script",
	"style",
	"audio",
	"video",
	"hr",
	"img",
	".interlanguage-link-target",
	"label",
	"footer",
	"nav",
	"#mw-toc-heading",
	"[class*=toclevel-]",
	".mw-editsection",
}

// unwrapTags are purely structural wrappers replaced by their own children.
var unwrapTags = []string{"head", "html", "div", "span", "b"}

// Clean mutates doc in place, removing noise nodes, unwrapping structural
// wrappers, stripping comments and dropping elements with no visible text.
// Cleaning an already-clean document leaves it unchanged.
func Clean(doc *goquery.Document) *goquery.Document {
	return CleanExempt(doc, nil)
}

// CleanExempt is Clean with a set of tag names whose elements are kept even
// when their visible text is empty.
func CleanExempt(doc *goquery.Document, exempt map[string]bool) *goquery.Document {
	for _, sel := range dropSelectors {
		removeMatches(doc, sel)
	}
	for _, tag := range unwrapTags {
		unwrapMatches(doc, tag)
	}
	for _, root := range doc.Nodes {
		stripComments(root)
	}
	dropEmpty(doc, exempt)
	return doc
}

// removeMatches detaches every node matching sel, deepest nodes first so
// that a removal never invalidates the position of a shallower match.
func removeMatches(doc *goquery.Document, sel string) {
	nodes := doc.Find(sel).Nodes
	sortByDepthDesc(nodes)
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// unwrapMatches replaces every node matching sel with its children,
// innermost first so nested wrappers resolve without double-processing.
func unwrapMatches(doc *goquery.Document, sel string) {
	nodes := doc.Find(sel).Nodes
	sortByDepthDesc(nodes)
	for _, n := range nodes {
		unwrap(n)
	}
}

func unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
}

func stripComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			stripComments(c)
		}
		c = next
	}
}

// dropEmpty removes elements whose concatenated visible text is empty.
// Emptiness is judged over the full subtree, so a single document-order
// pass suffices: a parent of empty-only children is itself empty.
func dropEmpty(doc *goquery.Document, exempt map[string]bool) {
	var nodes []*html.Node
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, s.Nodes...)
	})
	for _, n := range nodes {
		if n.Parent == nil || exempt[n.Data] {
			continue
		}
		if strings.TrimSpace(subtreeText(n)) == "" {
			n.Parent.RemoveChild(n)
		}
	}
}

func subtreeText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

func sortByDepthDesc(nodes []*html.Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return depth(nodes[i]) > depth(nodes[j])
	})
}

func depth(n *html.Node) int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}
