package core

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// postProcess implements spec §4.4: resolve relative URIs, simplify nested
// wrappers, and strip classes.
func (p *Parser) postProcess(article *goquery.Selection) {
	p.resolveRelativeURIs(article)
	simplifyNestedElements(article)
	if !p.opts.KeepClasses {
		p.stripClasses(article)
	}
}

// resolveRelativeURIs implements the URI half of spec §4.4.
func (p *Parser) resolveRelativeURIs(article *goquery.Selection) {
	baseURI := ""
	p.doc.Find("base").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			baseURI = href
		}
	})
	documentURI := p.opts.DocumentURI
	if baseURI == "" {
		baseURI = documentURI
	} else if doc, err := url.Parse(documentURI); err == nil && documentURI != "" {
		if ref, err := url.Parse(baseURI); err == nil {
			baseURI = doc.ResolveReference(ref).String()
		}
	}
	if baseURI == "" {
		return
	}
	base, err := url.Parse(baseURI)
	if err != nil {
		return
	}

	toAbsolute := func(raw string) string {
		if baseURI == documentURI && strings.HasPrefix(raw, "#") {
			return raw
		}
		ref, err := url.Parse(raw)
		if err != nil {
			return raw
		}
		return base.ResolveReference(ref).String()
	}

	article.Find("a").Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		if strings.HasPrefix(href, "javascript:") {
			if link.Children().Length() == 0 {
				link.ReplaceWithHtml(html.EscapeString(getInnerText(link, false)))
			} else {
				span := newElement("span")
				link.Contents().Each(func(_ int, child *goquery.Selection) {
					span.AppendSelection(child)
				})
				link.ReplaceWithSelection(span)
			}
			return
		}
		setAttr(link.Get(0), "href", toAbsolute(href))
	})

	article.Find("img, picture, figure, video, audio, source").Each(func(_ int, media *goquery.Selection) {
		if src, ok := media.Attr("src"); ok && src != "" {
			setAttr(media.Get(0), "src", toAbsolute(src))
		}
		if poster, ok := media.Attr("poster"); ok && poster != "" {
			setAttr(media.Get(0), "poster", toAbsolute(poster))
		}
		if srcset, ok := media.Attr("srcset"); ok && srcset != "" {
			rewritten := RegexpSrcsetURL.ReplaceAllStringFunc(srcset, func(match string) string {
				parts := RegexpSrcsetURL.FindStringSubmatch(match)
				if len(parts) < 4 {
					return match
				}
				return toAbsolute(parts[1]) + parts[2] + parts[3]
			})
			setAttr(media.Get(0), "srcset", rewritten)
		}
	})
}

// simplifyNestedElements implements the wrapper-collapse half of spec
// §4.4: drop empty <div>/<section> wrappers, and replace a wrapper whose
// sole child is another <div>/<section> with that child.
func simplifyNestedElements(article *goquery.Selection) {
	node := article
	for node != nil && node.Length() > 0 {
		tag := getNodeName(node)
		if tag == "DIV" || tag == "SECTION" {
			if id, ok := node.Attr("id"); ok && strings.HasPrefix(id, "readability") {
				node = getNextNode(node, false)
				continue
			}
			if isElementWithoutContent(node) {
				node = removeAndGetNext(node)
				continue
			}
			if hasSingleTagInsideElement(node, "div") || hasSingleTagInsideElement(node, "section") {
				child := node.Children().First()
				if n := node.Get(0); n != nil {
					for _, attr := range n.Attr {
						if _, exists := child.Attr(attr.Key); !exists {
							setAttr(child.Get(0), attr.Key, attr.Val)
						}
					}
				}
				node.ReplaceWithSelection(child)
				node = child
				continue
			}
		}
		next := getNextNode(node, false)
		if next == nil || next.Length() == 0 {
			break
		}
		node = next
	}
}

// stripClasses implements the class-stripping half of spec §4.4.
func (p *Parser) stripClasses(article *goquery.Selection) {
	preserve := make(map[string]bool)
	for _, c := range DefaultClassesToPreserve {
		preserve[c] = true
	}
	for _, c := range p.opts.ClassesToPreserve {
		preserve[c] = true
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if class, ok := hasAttr(n, "class"); ok {
				var kept []string
				for _, c := range strings.Fields(class) {
					if preserve[c] {
						kept = append(kept, c)
					}
				}
				if len(kept) > 0 {
					setAttr(n, "class", strings.Join(kept, " "))
				} else {
					removeAttr(n, "class")
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	article.Each(func(_ int, s *goquery.Selection) {
		if n := s.Get(0); n != nil {
			walk(n)
		}
	})
}
