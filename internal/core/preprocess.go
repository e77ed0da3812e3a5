package core

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// preprocess implements spec §4.2: strip scripts/styles/comments, unwrap
// noscript-hidden images, collapse <br> runs into paragraphs, and rename
// <font> to <span>.
func (p *Parser) preprocess() {
	removeComments(p.doc.Selection)
	p.doc.Find("script, style").Remove()
	p.unwrapNoscriptImages()
	p.doc.Find("noscript").Remove()

	if body := p.doc.Find("body"); body.Length() > 0 {
		p.collapseBrRuns(body)
	}

	p.doc.Find("font").Each(func(_ int, s *goquery.Selection) {
		setNodeTag(s, "span")
	})
}

// removeComments recursively strips every comment node under s.
func removeComments(s *goquery.Selection) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		child := n.FirstChild
		for child != nil {
			next := child.NextSibling
			if child.Type == html.CommentNode {
				n.RemoveChild(child)
			} else {
				walk(child)
			}
			child = next
		}
	}
	s.Each(func(_ int, sel *goquery.Selection) {
		if n := sel.Get(0); n != nil {
			walk(n)
		}
	})
}

// unwrapNoscriptImages implements the two-pass noscript image unwrap from
// spec §4.2: drop placeholder <img>s lacking any src-like attribute, then
// promote a noscript's single image over its preceding single-image sibling.
func (p *Parser) unwrapNoscriptImages() {
	p.doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		if imgLooksValid(img) {
			return
		}
		img.Remove()
	})

	p.doc.Find("noscript").Each(func(_ int, noscript *goquery.Selection) {
		inner, err := noscript.Html()
		// With scripting enabled the parser keeps <noscript> content as a
		// single raw text node; parse that text itself as markup.
		if n := noscript.Get(0); n.FirstChild != nil && n.FirstChild == n.LastChild && n.FirstChild.Type == html.TextNode {
			inner = n.FirstChild.Data
		}
		if err != nil || strings.TrimSpace(inner) == "" {
			return
		}
		tempDoc, err := goquery.NewDocumentFromReader(strings.NewReader(inner))
		if err != nil {
			return
		}
		newImg := firstSingleImage(tempDoc.Selection)
		if newImg == nil {
			return
		}

		prev := noscript.Prev()
		if prev.Length() == 0 || !isSingleImage(prev) {
			return
		}
		prevImg := prev
		if getNodeName(prev) != "IMG" {
			prevImg = prev.Find("img").First()
		}
		if prevImg.Length() == 0 {
			return
		}

		for _, attr := range newImg.Get(0).Attr {
			if attr.Val == "" {
				continue
			}
			if old, exists := prevImg.Attr(attr.Key); exists && old != attr.Val {
				setAttr(prevImg.Get(0), "data-old-"+attr.Key, old)
			}
			setAttr(prevImg.Get(0), attr.Key, attr.Val)
		}
		if prev.Get(0) != prevImg.Get(0) {
			prev.ReplaceWithSelection(prevImg)
		}
	})
}

func imgLooksValid(img *goquery.Selection) bool {
	for _, key := range []string{"src", "srcset", "data-src", "data-srcset"} {
		if v, ok := img.Attr(key); ok && v != "" {
			return true
		}
	}
	if n := img.Get(0); n != nil {
		for _, attr := range n.Attr {
			if RegexpImageExtension.MatchString(attr.Val) {
				return true
			}
		}
	}
	return false
}

func firstSingleImage(s *goquery.Selection) *goquery.Selection {
	if getNodeName(s) == "IMG" {
		return s
	}
	img := s.Find("img").First()
	if img.Length() == 0 {
		return nil
	}
	return img
}

// nextNonWhitespaceNode walks forward from n, skipping text nodes whose
// content is whitespace-only, and stops at the first element node or
// first non-whitespace text node (spec §4.2: "walk forward through
// whitespace-only text nodes").
func nextNonWhitespaceNode(n *html.Node) *html.Node {
	for n != nil && n.Type != html.ElementNode && strings.TrimSpace(n.Data) == "" {
		n = n.NextSibling
	}
	return n
}

// isTrailingWhitespace reports whether n is a whitespace-only text node or
// a <br>, the two node kinds trimmed off the end of a collapsed <p>.
func isTrailingWhitespace(n *html.Node) bool {
	if n == nil {
		return false
	}
	if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
		return true
	}
	return n.Type == html.ElementNode && nodeName(n) == "BR"
}

// collapseBrRuns implements spec §4.2's <br> collapse rule within elem.
// It operates on raw *html.Node siblings rather than goquery's Next/Prev
// (which skip over text nodes entirely) so that text siblings are
// absorbed into the replacement <p> along with element siblings.
func (p *Parser) collapseBrRuns(elem *goquery.Selection) {
	elem.Find("br").Each(func(_ int, br *goquery.Selection) {
		brNode := br.Get(0)
		if brNode == nil || brNode.Parent == nil {
			return
		}

		next := nextNonWhitespaceNode(brNode.NextSibling)
		replaced := false
		for next != nil && next.Type == html.ElementNode && nodeName(next) == "BR" {
			replaced = true
			sibling := next.NextSibling
			next.Parent.RemoveChild(next)
			next = nextNonWhitespaceNode(sibling)
		}
		if !replaced {
			return
		}

		parent := brNode.Parent
		paraNode := &html.Node{Type: html.ElementNode, Data: "p"}
		parent.InsertBefore(paraNode, brNode)
		parent.RemoveChild(brNode)

		next = paraNode.NextSibling
		for next != nil {
			if next.Type == html.ElementNode && nodeName(next) == "BR" {
				if after := nextNonWhitespaceNode(next.NextSibling); after != nil && after.Type == html.ElementNode && nodeName(after) == "BR" {
					break
				}
			}
			if !isPhrasingContent(next) {
				break
			}
			sibling := next.NextSibling
			parent.RemoveChild(next)
			paraNode.AppendChild(next)
			next = sibling
		}

		for isTrailingWhitespace(paraNode.LastChild) {
			paraNode.RemoveChild(paraNode.LastChild)
		}

		if nodeName(parent) == "P" {
			parent.Data = "div"
			parent.DataAtom = 0
		}
	})
}
