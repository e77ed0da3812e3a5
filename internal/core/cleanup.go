package core

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// prepArticle runs the spec §4.3.5 cleaning pipeline over the assembled
// article content, in the fixed order the spec prescribes.
func (p *Parser) prepArticle(article *goquery.Selection) {
	p.cleanPresentationalAttributes(article)
	p.markDataTables(article)
	p.fixLazyImages(article)

	p.cleanConditionally(article, "form")
	p.cleanConditionally(article, "fieldset")
	p.clean(article, "object")
	p.clean(article, "embed")
	p.clean(article, "footer")
	p.clean(article, "link")
	p.clean(article, "aside")
	p.cache.bump()

	article.Children().Each(func(_ int, child *goquery.Selection) {
		p.cleanMatchedNodes(child, func(node *goquery.Selection, matchString string) bool {
			return RegexpShareElements.MatchString(matchString) &&
				len(getInnerText(node, true)) < p.opts.CharThreshold
		})
	})

	p.clean(article, "iframe")
	p.clean(article, "input")
	p.clean(article, "textarea")
	p.clean(article, "select")
	p.clean(article, "button")
	p.cache.bump()

	article.Find("h1, h2").Each(func(_ int, h *goquery.Selection) {
		if getClassWeight(h, p.flags&FlagWeightClasses != 0) < 0 {
			h.Remove()
		}
	})

	p.cleanConditionally(article, "table")
	p.cleanConditionally(article, "ul")
	p.cleanConditionally(article, "div")
	p.cache.bump()

	article.Find("h1").Each(func(_ int, h *goquery.Selection) {
		setNodeTag(h, "h2")
	})

	article.Find("p").Each(func(_ int, para *goquery.Selection) {
		count := para.Find("img, embed, object, iframe").Length()
		if count == 0 && strings.TrimSpace(getInnerText(para, false)) == "" {
			para.Remove()
		}
	})

	article.Find("br").Each(func(_ int, br *goquery.Selection) {
		next := br.Next()
		for next.Length() > 0 && isWhitespaceTextOnly(next) {
			next = next.Next()
		}
		if next.Length() > 0 && getNodeName(next) == "P" {
			br.Remove()
		}
	})

	p.collapseSingleCellTables(article)
}

func isWhitespaceTextOnly(s *goquery.Selection) bool {
	n := s.Get(0)
	return n != nil && n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}

// cleanPresentationalAttributes implements §4.3.5 step 1.
func (p *Parser) cleanPresentationalAttributes(article *goquery.Selection) {
	article.Find("*").Each(func(_ int, s *goquery.Selection) {
		if hasAncestorTag(s, "svg", -1, nil) || getNodeName(s) == "SVG" {
			return
		}
		n := s.Get(0)
		if n == nil {
			return
		}
		for _, attr := range PresentationalAttributes {
			removeAttr(n, attr)
		}
		if DeprecatedSizeAttributeElems[getNodeName(s)] {
			removeAttr(n, "width")
			removeAttr(n, "height")
		}
	})
}

// markDataTables implements §4.3.5 step 2.
func (p *Parser) markDataTables(root *goquery.Selection) {
	root.Find("table").Each(func(_ int, table *goquery.Selection) {
		if role, ok := table.Attr("role"); ok && role == "presentation" {
			setAttr(table.Get(0), "data-readability-table-type", "presentation")
			return
		}
		if dt, ok := table.Attr("datatable"); ok && dt == "0" {
			setAttr(table.Get(0), "data-readability-table-type", "presentation")
			return
		}
		if summary, ok := table.Attr("summary"); ok && strings.TrimSpace(summary) != "" {
			p.markTableAsData(table)
			return
		}
		if caption := table.Find("caption").First(); caption.Length() > 0 && caption.Children().Length() > 0 {
			p.markTableAsData(table)
			return
		}
		if table.Find("col, colgroup, tfoot, thead, th").Length() > 0 {
			p.markTableAsData(table)
			return
		}
		if table.Find("table").Length() > 0 {
			setAttr(table.Get(0), "data-readability-table-type", "presentation")
			return
		}

		rows := 0
		maxCols := 0
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			rows += parseIntAttr(tr, "rowspan", 1)
			cols := 0
			tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				cols += parseIntAttr(cell, "colspan", 1)
			})
			if cols > maxCols {
				maxCols = cols
			}
		})

		if (rows == 1 && maxCols >= 1) || (maxCols == 1 && rows >= 1) {
			setAttr(table.Get(0), "data-readability-table-type", "presentation")
			return
		}
		if rows >= 10 || maxCols > 4 {
			p.markTableAsData(table)
			return
		}
		if rows*maxCols > 10 {
			p.markTableAsData(table)
			return
		}
		setAttr(table.Get(0), "data-readability-table-type", "presentation")
	})
}

func (p *Parser) markTableAsData(table *goquery.Selection) {
	setAttr(table.Get(0), "data-readability-table-type", "data")
}

// fixLazyImages implements §4.3.5 step 3.
func (p *Parser) fixLazyImages(root *goquery.Selection) {
	root.Find("img, picture, figure").Each(func(_ int, elem *goquery.Selection) {
		n := elem.Get(0)
		if n == nil {
			return
		}
		src, hasSrc := elem.Attr("src")
		_, hasSrcset := elem.Attr("srcset")
		class, _ := elem.Attr("class")
		lazy := strings.Contains(strings.ToLower(class), "lazy")

		if hasSrc && RegexpB64DataURL.MatchString(src) {
			m := RegexpB64DataURL.FindStringSubmatch(src)
			if len(m) > 1 && !strings.EqualFold(m[1], "image/svg+xml") {
				hasImageAttr := false
				for _, attr := range n.Attr {
					if attr.Key == "src" {
						continue
					}
					if RegexpImageExtension.MatchString(attr.Val) {
						hasImageAttr = true
						break
					}
				}
				if hasImageAttr {
					idx := strings.Index(src, "base64,")
					if idx >= 0 && len(src)-(idx+len("base64,")) < 133 {
						removeAttr(n, "src")
					}
				}
			}
		}

		if (hasSrc || hasSrcset) && !lazy {
			return
		}

		var candidateSrc, candidateSrcset string
		for _, attr := range n.Attr {
			if attr.Key == "src" || attr.Key == "srcset" || attr.Key == "alt" {
				continue
			}
			if RegexpImageExtensionSize.MatchString(attr.Val) {
				candidateSrcset = attr.Val
			} else if RegexpImageURLOnly.MatchString(attr.Val) {
				candidateSrc = attr.Val
			}
		}
		if candidateSrcset != "" {
			setAttr(n, "srcset", candidateSrcset)
		}
		if candidateSrc != "" {
			setAttr(n, "src", candidateSrc)
		}
		if getNodeName(elem) == "FIGURE" && elem.Find("img, picture").Length() == 0 && (candidateSrc != "" || candidateSrcset != "") {
			img := newElement("img")
			if candidateSrc != "" {
				setAttr(img.Get(0), "src", candidateSrc)
			}
			if candidateSrcset != "" {
				setAttr(img.Get(0), "srcset", candidateSrcset)
			}
			elem.AppendSelection(img)
		}
	})
}

// clean removes every descendant of e with the given tag, unless it passes
// the allowed-video check for embeddable tags.
func (p *Parser) clean(e *goquery.Selection, tag string) {
	isEmbed := tag == "object" || tag == "embed" || tag == "iframe"
	e.Find(tag).Each(func(_ int, node *goquery.Selection) {
		if isEmbed && p.isAllowedVideo(node, tag) {
			return
		}
		node.Remove()
	})
}

func (p *Parser) isAllowedVideo(node *goquery.Selection, tag string) bool {
	if n := node.Get(0); n != nil {
		for _, attr := range n.Attr {
			if p.opts.AllowedVideoRegex.MatchString(attr.Val) {
				return true
			}
		}
	}
	if tag == "object" {
		if inner, err := node.Html(); err == nil && p.opts.AllowedVideoRegex.MatchString(inner) {
			return true
		}
	}
	return false
}

// cleanMatchedNodes walks the subtree rooted at e in document order,
// removing nodes for which filter returns true.
func (p *Parser) cleanMatchedNodes(e *goquery.Selection, filter func(*goquery.Selection, string) bool) {
	endMarker := getNextNode(e, true)
	node := getNextNode(e, false)
	for node != nil && node.Length() > 0 {
		if endMarker != nil && endMarker.Length() > 0 && isSameNode(node.Get(0), endMarker.Get(0)) {
			break
		}
		matchString := classAndID(node.Get(0))
		if filter(node, matchString) {
			node = removeAndGetNext(node)
		} else {
			node = getNextNode(node, false)
		}
	}
}

// cleanConditionally implements the cleanConditionally(tag) rules from
// spec §4.3.5, gated by the cleanConditionally flag.
func (p *Parser) cleanConditionally(e *goquery.Selection, tag string) {
	if p.flags&FlagCleanConditionally == 0 {
		return
	}
	e.Find(tag).Each(func(_ int, node *goquery.Selection) {
		if p.isInDataTable(node) || hasAncestorTag(node, "code", -1, nil) {
			return
		}
		if tag == "table" && node.AttrOr("data-readability-table-type", "") == "data" {
			return
		}
		if node.Find("table").FilterFunction(func(_ int, t *goquery.Selection) bool {
			return t.AttrOr("data-readability-table-type", "") == "data"
		}).Length() > 0 {
			return
		}

		weight := getClassWeight(node, p.flags&FlagWeightClasses != 0)
		if weight < 0 {
			node.Remove()
			return
		}

		text := getInnerText(node, true)
		if RegexpAdWords.MatchString(strings.TrimSpace(text)) || RegexpLoadingWords.MatchString(strings.TrimSpace(text)) {
			node.Remove()
			return
		}

		if commaCount(node) >= 10 {
			return
		}

		if p.shouldRemoveConditionally(node, tag, weight) {
			node.Remove()
		}
	})
}

func (p *Parser) isInDataTable(node *goquery.Selection) bool {
	found := false
	node.ParentsFiltered("table").Each(func(_ int, t *goquery.Selection) {
		if t.AttrOr("data-readability-table-type", "") == "data" {
			found = true
		}
	})
	return found
}

func (p *Parser) shouldRemoveConditionally(node *goquery.Selection, tag string, weight int) bool {
	imgCount := node.Find("img").Length()
	pCount := node.Find("p").Length()
	liCount := node.Find("li").Length() - 100
	inputCount := node.Find("input").Length()

	headingDensity := float64(len(getInnerText(node.Find("h1, h2, h3, h4, h5, h6"), true))) /
		math.Max(1, float64(len(getInnerText(node, true))))

	embedCount := 0
	node.Find("object, embed, iframe").Each(func(_ int, embed *goquery.Selection) {
		if p.isAllowedVideo(embed, getNodeName(embed)) {
			return
		}
		embedCount++
	})

	linkDensity := p.cache.linkDensityOf(node)
	contentLen := len(getInnerText(node, true))

	isList := tag == "ul" || tag == "ol"
	isFigureChild := hasAncestorTag(node, "figure", -1, nil)

	haveToRemove := false
	if !isFigureChild && imgCount > 1 && float64(pCount)/float64(imgCount) < 0.5 {
		haveToRemove = true
	}
	if !isList && liCount > pCount {
		haveToRemove = true
	}
	if inputCount > pCount/3 {
		haveToRemove = true
	}
	if !isList && !isFigureChild && headingDensity < 0.9 && contentLen < 25 && (imgCount == 0 || imgCount > 2) && linkDensity > 0 {
		haveToRemove = true
	}
	if !isList && float64(weight) < 25 && linkDensity > 0.2+p.opts.LinkDensityModifier {
		haveToRemove = true
	}
	if float64(weight) >= 25 && linkDensity > 0.5+p.opts.LinkDensityModifier {
		haveToRemove = true
	}
	if (embedCount == 1 && contentLen < 75) || embedCount > 1 {
		haveToRemove = true
	}
	if imgCount == 0 && textDensityOf(node) == 0 {
		haveToRemove = true
	}

	// Allow simple image galleries (lists whose <li>s each wrap a single
	// child) to survive even when the bullets above would otherwise drop
	// them, as long as every <li> contains an image.
	if isList && haveToRemove {
		hasMultiChildLi := false
		node.Children().Each(func(_ int, child *goquery.Selection) {
			if child.Children().Length() > 1 {
				hasMultiChildLi = true
			}
		})
		if hasMultiChildLi {
			return haveToRemove
		}
		if imgCount == node.Find("li").Length() {
			return false
		}
	}

	return haveToRemove
}

func textDensityOf(node *goquery.Selection) float64 {
	total := len(getInnerText(node, true))
	if total == 0 {
		return 0
	}
	phrasingLen := 0
	node.Find("p, li, td, th").Each(func(_ int, s *goquery.Selection) {
		phrasingLen += len(getInnerText(s, true))
	})
	if phrasingLen == 0 {
		return 0
	}
	return float64(phrasingLen) / float64(total)
}

// collapseSingleCellTables implements §4.3.5 step 12.
func (p *Parser) collapseSingleCellTables(article *goquery.Selection) {
	article.Find("table").Each(func(_ int, table *goquery.Selection) {
		tbody := table.Find("tbody").First()
		if tbody.Length() == 0 {
			tbody = table
		}
		rows := tbody.Children().FilterFunction(func(_ int, s *goquery.Selection) bool {
			return getNodeName(s) == "TR"
		})
		if rows.Length() != 1 {
			return
		}
		cells := rows.First().Children().FilterFunction(func(_ int, s *goquery.Selection) bool {
			return getNodeName(s) == "TD"
		})
		if cells.Length() != 1 {
			return
		}
		cell := cells.First()
		allPhrasing := everyChild(cell, func(c *goquery.Selection) bool {
			return c.Get(0) != nil && isPhrasingContent(c.Get(0))
		})
		if allPhrasing {
			cell = setNodeTag(cell, "p")
		} else {
			cell = setNodeTag(cell, "div")
		}
		table.ReplaceWithSelection(cell)
	})
}
