package core

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upperCaser = cases.Upper(language.Und)
var lowerCaser = cases.Lower(language.Und)

// getNodeName returns the uppercase tag name of a selection's first node.
func getNodeName(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	return nodeName(s.Get(0))
}

// nodeName returns n's uppercase tag name. Known HTML elements are named by
// their atom.Atom (set by the parser); foreign/custom tags and renamed nodes
// use n.Data. Either name is upper-cased with upperCaser on every call.
func nodeName(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.DataAtom != atom.Atom(0) {
		return upperCaser.String(n.DataAtom.String())
	}
	return upperCaser.String(n.Data)
}

// isSameNode does a pointer comparison.
func isSameNode(a, b *html.Node) bool {
	return a == b
}

func hasAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if !strings.EqualFold(a.Key, key) {
			out = append(out, a)
		}
	}
	n.Attr = out
}

// isNodeVisible implements spec §4.3.1 Visibility.
func isNodeVisible(n *html.Node) bool {
	if n == nil {
		return false
	}
	if style, ok := hasAttr(n, "style"); ok {
		normalized := strings.ReplaceAll(style, " ", "")
		if strings.Contains(normalized, "display:none") || strings.Contains(normalized, "visibility:hidden") {
			return false
		}
	}
	if _, ok := hasAttr(n, "hidden"); ok {
		return false
	}
	if v, ok := hasAttr(n, "aria-hidden"); ok && v == "true" {
		if class, ok := hasAttr(n, "class"); !ok || !strings.Contains(class, "fallback-image") {
			return false
		}
	}
	return true
}

func isAriaModalDialog(n *html.Node) bool {
	modal, ok := hasAttr(n, "aria-modal")
	if !ok || modal != "true" {
		return false
	}
	role, ok := hasAttr(n, "role")
	return ok && role == "dialog"
}

// classAndID concatenates an element's class and id for regex matching.
func classAndID(n *html.Node) string {
	class, _ := hasAttr(n, "class")
	id, _ := hasAttr(n, "id")
	return class + " " + id
}

// getClassWeight computes the class-weight heuristic (glossary).
func getClassWeight(s *goquery.Selection, weightClasses bool) int {
	if !weightClasses || s == nil || s.Length() == 0 {
		return 0
	}
	weight := 0
	if class, ok := s.Attr("class"); ok && class != "" {
		if RegexpNegative.MatchString(class) {
			weight -= 25
		}
		if RegexpPositive.MatchString(class) {
			weight += 25
		}
	}
	if id, ok := s.Attr("id"); ok && id != "" {
		if RegexpNegative.MatchString(id) {
			weight -= 25
		}
		if RegexpPositive.MatchString(id) {
			weight += 25
		}
	}
	return weight
}

// hasAncestorTag walks up from s looking for an ancestor with the given
// uppercase tag name, stopping after maxDepth hops if maxDepth > 0.
func hasAncestorTag(s *goquery.Selection, tag string, maxDepth int, filter func(*goquery.Selection) bool) bool {
	if s == nil || s.Length() == 0 {
		return false
	}
	tag = upperCaser.String(tag)
	depth := 0
	for parent := s.Parent(); parent.Length() > 0; parent = parent.Parent() {
		if maxDepth > 0 && depth > maxDepth {
			return false
		}
		if getNodeName(parent) == tag && (filter == nil || filter(parent)) {
			return true
		}
		depth++
	}
	return false
}

// isElementWithoutContent reports whether s has no text and no children
// other than <br>/<hr>.
func isElementWithoutContent(s *goquery.Selection) bool {
	if s == nil || s.Length() == 0 {
		return true
	}
	if strings.TrimSpace(s.Text()) != "" {
		return false
	}
	children := s.Children()
	if children.Length() == 0 {
		return true
	}
	brHr := s.Find("br").Length() + s.Find("hr").Length()
	return children.Length() == brHr
}

// hasSingleTagInsideElement reports whether s has exactly one element child
// with the given tag and no non-whitespace text node siblings.
func hasSingleTagInsideElement(s *goquery.Selection, tag string) bool {
	if s == nil || s.Length() == 0 {
		return false
	}
	children := s.Children()
	if children.Length() != 1 || getNodeName(children.First()) != upperCaser.String(tag) {
		return false
	}
	hasText := false
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if c.Get(0) != nil && c.Get(0).Type == html.TextNode && strings.TrimSpace(c.Text()) != "" {
			hasText = true
		}
	})
	return !hasText
}

// hasChildBlockElement reports whether s has any DivToPElems descendant.
func hasChildBlockElement(s *goquery.Selection) bool {
	if s == nil || s.Length() == 0 {
		return false
	}
	found := false
	s.Children().Each(func(_ int, c *goquery.Selection) {
		if found {
			return
		}
		name := getNodeName(c)
		if DivToPElems[name] || hasChildBlockElement(c) {
			found = true
		}
	})
	return found
}

// isPhrasingContent implements the whitelist from spec §4.2, including the
// conditional a/del/ins rule.
func isPhrasingContent(n *html.Node) bool {
	if n == nil {
		return false
	}
	if n.Type == html.TextNode {
		return true
	}
	if n.Type != html.ElementNode {
		return false
	}
	tag := nodeName(n)
	if PhrasingElems[tag] {
		return true
	}
	if tag == "A" || tag == "DEL" || tag == "INS" {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !isPhrasingContent(c) {
				return false
			}
		}
		return true
	}
	return false
}

func isWhitespaceNode(n *html.Node) bool {
	if n == nil {
		return true
	}
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data) == ""
	}
	return nodeName(n) == "BR"
}

// getNodeAncestors returns up to maxDepth ancestors of s, nearest first.
func getNodeAncestors(s *goquery.Selection, maxDepth int) []*goquery.Selection {
	var ancestors []*goquery.Selection
	parent := s.Parent()
	for i := 0; parent.Length() > 0; i++ {
		ancestors = append(ancestors, parent)
		if maxDepth > 0 && i == maxDepth-1 {
			break
		}
		parent = parent.Parent()
	}
	return ancestors
}

// getNextNode walks the DOM in document order, descending into children
// unless ignoreSelfAndKids is set.
func getNextNode(s *goquery.Selection, ignoreSelfAndKids bool) *goquery.Selection {
	if s == nil || s.Length() == 0 {
		return nil
	}
	if !ignoreSelfAndKids {
		if kids := s.Children(); kids.Length() > 0 {
			return kids.First()
		}
	}
	if next := s.Next(); next.Length() > 0 {
		return next
	}
	for parent := s.Parent(); parent.Length() > 0; parent = parent.Parent() {
		if next := parent.Next(); next.Length() > 0 {
			return next
		}
	}
	return nil
}

func removeAndGetNext(s *goquery.Selection) *goquery.Selection {
	next := getNextNode(s, true)
	s.Remove()
	return next
}

func everyChild(s *goquery.Selection, fn func(*goquery.Selection) bool) bool {
	ok := true
	s.Contents().EachWithBreak(func(_ int, c *goquery.Selection) bool {
		if !fn(c) {
			ok = false
			return false
		}
		return true
	})
	return ok
}

// isSingleImage reports whether s is an <img>, or wraps exactly one element
// (recursively) down to a single <img>, with no text anywhere along the way.
func isSingleImage(s *goquery.Selection) bool {
	if s == nil || s.Length() == 0 {
		return false
	}
	if getNodeName(s) == "IMG" {
		return true
	}
	if s.Children().Length() != 1 || strings.TrimSpace(s.Text()) != "" {
		return false
	}
	return isSingleImage(s.Children().First())
}

// setNodeTag renames a node's tag in place, preserving attributes,
// children, and its position in the tree (it returns the same *html.Node,
// now under a new selection).
func setNodeTag(s *goquery.Selection, tag string) *goquery.Selection {
	if s == nil || s.Length() == 0 || s.Get(0) == nil {
		return s
	}
	n := s.Get(0)
	n.Data = lowerCaser.String(tag)
	n.DataAtom = 0
	return goquery.NewDocumentFromNode(n).Selection
}

func newElement(tag string) *goquery.Selection {
	n := &html.Node{Type: html.ElementNode, Data: lowerCaser.String(tag)}
	return goquery.NewDocumentFromNode(n).Selection
}
