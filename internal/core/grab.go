package core

import (
	"math"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	maxGrabAttempts = 4

	ancestorDepth = 5

	divScore        = 5.0
	blockquoteScore = 3.0
	listFormScore   = -3.0
	headingScore    = -5.0

	siblingScoreMultiplier = 0.2
	minSiblingScore        = 10.0
)

// grabArticle runs spec §4.3's up-to-four-attempt loop: each attempt
// snapshots the body, runs the sub-passes, and retries with one flag
// relaxed if the result is too short. It returns the best attempt seen, or
// nil if every attempt produced nothing.
func (p *Parser) grabArticle() *goquery.Selection {
	body := p.doc.Find("body")
	if body.Length() == 0 {
		return nil
	}
	pageHTML, _ := body.Html()

	var best *goquery.Selection
	var bestLen int
	var bestDir string

	for attempt := 0; attempt < maxGrabAttempts; attempt++ {
		if attempt > 0 {
			body.SetHtml(pageHTML)
			p.resetAttempt()
			p.relaxNextFlag()
		}

		article, dir := p.grabArticleNode(body)
		if article == nil {
			continue
		}
		p.prepArticle(article)
		textLen := len(getInnerText(article, true))
		if textLen > bestLen {
			best = article
			bestLen = textLen
			bestDir = dir
		}
		if textLen >= p.opts.CharThreshold {
			p.dir = dir
			return article
		}
	}
	p.dir = bestDir
	return best
}

// relaxNextFlag flips the next flag off, in stripUnlikelys -> weightClasses
// -> cleanConditionally order (spec §4.3).
func (p *Parser) relaxNextFlag() {
	switch {
	case p.flags&FlagStripUnlikelys != 0:
		p.flags &^= FlagStripUnlikelys
	case p.flags&FlagWeightClasses != 0:
		p.flags &^= FlagWeightClasses
	case p.flags&FlagCleanConditionally != 0:
		p.flags &^= FlagCleanConditionally
	}
}

// grabArticleNode runs one full attempt: node preparation, scoring,
// candidate selection, and sibling assembly. The dir return value is
// resolved from the top candidate's position in the original tree before
// assembleArticle detaches it into a fresh wrapper div.
func (p *Parser) grabArticleNode(body *goquery.Selection) (*goquery.Selection, string) {
	elements := p.prepareNodes(body)
	p.scoreElements(elements)
	top, synthesized := p.selectTopCandidate(body)
	if top == nil {
		return nil, ""
	}
	dir := resolveDirFromTopCandidate(top.node)
	return p.assembleArticle(top, synthesized), dir
}

// resolveDirFromTopCandidate implements spec §4.6's dir resolution: the
// first non-empty dir attribute walking from the top candidate (inclusive)
// up through body/html.
func resolveDirFromTopCandidate(s *goquery.Selection) string {
	for n := s; n != nil && n.Length() > 0; n = n.Parent() {
		if dir, ok := n.Attr("dir"); ok && dir != "" {
			return dir
		}
		if getNodeName(n) == "HTML" {
			break
		}
	}
	return ""
}

// prepareNodes implements spec §4.3.1: walks the body in document order,
// dropping non-content nodes and queuing scoring candidates.
func (p *Parser) prepareNodes(body *goquery.Selection) []*goquery.Selection {
	var elementsToScore []*goquery.Selection
	shouldRemoveTitleHeader := true

	root := p.doc.Find("html").First()
	node := root
	if node.Length() == 0 {
		node = body
	}

	for node != nil && node.Length() > 0 {
		tag := getNodeName(node)
		n := node.Get(0)

		if !isNodeVisible(n) {
			node = removeAndGetNext(node)
			continue
		}
		if isAriaModalDialog(n) {
			node = removeAndGetNext(node)
			continue
		}

		matchString := classAndID(n)

		if p.checkByline(node, matchString) {
			node = removeAndGetNext(node)
			continue
		}

		if shouldRemoveTitleHeader && (tag == "H1" || tag == "H2") && p.headerDuplicatesTitle(node) {
			shouldRemoveTitleHeader = false
			node = removeAndGetNext(node)
			continue
		}

		if p.flags&FlagStripUnlikelys != 0 {
			if RegexpUnlikelyCandidates.MatchString(matchString) &&
				!RegexpMaybeCandidate.MatchString(matchString) &&
				tag != "BODY" && tag != "A" &&
				!hasAncestorTag(node, "table", -1, nil) &&
				!hasAncestorTag(node, "code", -1, nil) {
				node = removeAndGetNext(node)
				continue
			}
			if role, ok := hasAttr(n, "role"); ok && UnlikelyRoles[role] {
				node = removeAndGetNext(node)
				continue
			}
		}

		if (tag == "DIV" || tag == "SECTION" || tag == "HEADER" ||
			tag == "H1" || tag == "H2" || tag == "H3" ||
			tag == "H4" || tag == "H5" || tag == "H6") && isElementWithoutContent(node) {
			node = removeAndGetNext(node)
			continue
		}

		if DefaultTagsToScore[tag] {
			elementsToScore = append(elementsToScore, node)
		}

		if tag == "DIV" {
			node, elementsToScore = p.handleDiv(node, elementsToScore)
		}

		node = getNextNode(node, false)
	}

	return elementsToScore
}

// headerDuplicatesTitle implements the once-only title-header drop rule.
func (p *Parser) headerDuplicatesTitle(s *goquery.Selection) bool {
	tag := getNodeName(s)
	if tag != "H1" && tag != "H2" {
		return false
	}
	return tokenSimilarity(p.title, getInnerText(s, true)) > 0.75
}

// handleDiv implements the §4.3.1 <div> handling: group runs of phrasing
// content into new <p> wrappers, then collapse the div into its sole
// paragraph child when appropriate, or rename it outright.
func (p *Parser) handleDiv(node *goquery.Selection, queue []*goquery.Selection) (*goquery.Selection, []*goquery.Selection) {
	groupPhrasingRuns(node)

	if hasSingleTagInsideElement(node, "p") && !hasSignificantTextSibling(node) {
		if p.cache.linkDensityOf(node) < 0.25 {
			child := node.Children().First()
			node.ReplaceWithSelection(child)
			queue = append(queue, child)
			return child, queue
		}
	} else if !hasChildBlockElement(node) {
		node = setNodeTag(node, "p")
		queue = append(queue, node)
	}

	return node, queue
}

func hasSignificantTextSibling(node *goquery.Selection) bool {
	significant := false
	node.Contents().Each(func(_ int, c *goquery.Selection) {
		n := c.Get(0)
		if n == nil || n.Type != html.TextNode {
			return
		}
		if strings.TrimSpace(n.Data) != "" {
			significant = true
		}
	})
	return significant
}

// groupPhrasingRuns wraps consecutive phrasing-content children of node
// into new <p> elements, trimming leading/trailing whitespace and <br>s.
func groupPhrasingRuns(node *goquery.Selection) {
	n := node.Get(0)
	if n == nil {
		return
	}
	child := n.FirstChild
	for child != nil {
		if !isPhrasingContent(child) {
			child = child.NextSibling
			continue
		}
		if isWhitespaceNode(child) {
			child = child.NextSibling
			continue
		}
		runStart := child
		runEnd := child
		for runEnd.NextSibling != nil && isPhrasingContent(runEnd.NextSibling) {
			runEnd = runEnd.NextSibling
		}
		for runEnd != runStart && isWhitespaceNode(runEnd) {
			runEnd = runEnd.PrevSibling
		}
		next := runEnd.NextSibling
		wrapRun(n, runStart, runEnd)
		child = next
	}
}

func wrapRun(parent *html.Node, start, end *html.Node) {
	p := &html.Node{Type: html.ElementNode, Data: "p"}
	parent.InsertBefore(p, start)
	cur := start
	for {
		next := cur.NextSibling
		parent.RemoveChild(cur)
		p.AppendChild(cur)
		if cur == end {
			break
		}
		cur = next
	}
}

// scoreElements implements spec §4.3.2.
func (p *Parser) scoreElements(elements []*goquery.Selection) {
	for _, elem := range elements {
		if elem.Parent().Length() == 0 {
			continue
		}
		innerText := getInnerText(elem, true)
		if len(innerText) < 25 {
			continue
		}

		ancestors := getNodeAncestors(elem, ancestorDepth)
		if len(ancestors) == 0 {
			continue
		}

		contentScore := 1.0
		contentScore += float64(commaCount(elem) + 1)
		contentScore += math.Min(math.Floor(float64(len(innerText))/100.0), 3.0)

		for level, ancestor := range ancestors {
			if ancestor.Length() == 0 || ancestor.Parent().Length() == 0 {
				continue
			}
			c := p.getOrInitCandidate(ancestor, p.baseScoreFor(ancestor))
			divider := 1.0
			switch level {
			case 0:
				divider = 1.0
			case 1:
				divider = 2.0
			default:
				divider = 3.0 * float64(level)
			}
			c.contentScore += contentScore / divider
		}
	}
}

func (p *Parser) baseScoreFor(s *goquery.Selection) float64 {
	score := 0.0
	switch getNodeName(s) {
	case "DIV":
		score = divScore
	case "PRE", "TD", "BLOCKQUOTE":
		score = blockquoteScore
	case "ADDRESS", "OL", "UL", "DL", "DD", "DT", "LI", "FORM":
		score = listFormScore
	case "H1", "H2", "H3", "H4", "H5", "H6", "TH":
		score = headingScore
	}
	score += float64(getClassWeight(s, p.flags&FlagWeightClasses != 0))
	return score
}

// selectTopCandidate implements spec §4.3.3. The second return value
// reports whether the top candidate was synthesized from the whole body
// (no scored candidates existed).
func (p *Parser) selectTopCandidate(body *goquery.Selection) (*candidate, bool) {
	type scored struct {
		node  *html.Node
		sel   *goquery.Selection
		cand  *candidate
		final float64
	}
	var all []scored
	for n, c := range p.candidates {
		sel := c.node
		final := c.contentScore * (1 - p.cache.linkDensityOf(sel))
		// Mozilla writes the link-density-adjusted score back onto the
		// candidate itself, so every later comparison (ancestor promotion,
		// sibling threshold) works off the adjusted value rather than the
		// raw accumulated one.
		c.contentScore = final
		all = append(all, scored{node: n, sel: sel, cand: c, final: final})
	}

	if len(all) == 0 {
		container := newElement("div")
		body.Children().Each(func(_ int, child *goquery.Selection) {
			container.AppendSelection(child)
		})
		body.AppendSelection(container)
		c := p.getOrInitCandidate(container, 0)
		return c, true
	}

	sort.Slice(all, func(i, j int) bool { return all[i].final > all[j].final })
	nTop := p.opts.NbTopCandidates
	if nTop <= 0 {
		nTop = DefaultNTopCandidates
	}
	if len(all) > nTop {
		all = all[:nTop]
	}

	best := all[0]
	bestSel := best.sel

	if len(all) >= 4 {
		sameAncestorCount := 0
		var sharedAncestor *goquery.Selection
		bestAncestors := getNodeAncestors(bestSel, 0)
		for _, anc := range bestAncestors {
			count := 0
			for _, other := range all[1:] {
				if other.final/best.final >= 0.75 && ancestorsContain(other.sel, anc) {
					count++
				}
			}
			if count >= 3 {
				sameAncestorCount = count
				sharedAncestor = anc
				break
			}
		}
		if sameAncestorCount >= 3 && sharedAncestor != nil {
			bestSel = sharedAncestor
			best.cand = p.getOrInitCandidate(bestSel, 0)
		}
	}

	lastScore := best.cand.contentScore
	for parent := bestSel.Parent(); parent.Length() > 0 && getNodeName(parent) != "BODY"; parent = parent.Parent() {
		parentCand, ok := p.lookupCandidate(parent.Get(0))
		if !ok {
			break
		}
		if parentCand.contentScore < lastScore/3 {
			break
		}
		if parentCand.contentScore > lastScore {
			bestSel = parent
			best.cand = parentCand
		}
		lastScore = parentCand.contentScore
	}

	for {
		parent := bestSel.Parent()
		if parent.Length() == 0 || getNodeName(parent) == "BODY" {
			break
		}
		if parent.Children().Length() != 1 {
			break
		}
		bestSel = parent
		c, ok := p.lookupCandidate(bestSel.Get(0))
		if ok {
			best.cand = c
		}
	}

	best.cand.node = bestSel
	return best.cand, false
}

func ancestorsContain(s *goquery.Selection, anc *goquery.Selection) bool {
	target := anc.Get(0)
	for parent := s.Parent(); parent.Length() > 0; parent = parent.Parent() {
		if parent.Get(0) == target {
			return true
		}
	}
	return false
}

// assembleArticle implements spec §4.3.4. When the top candidate was
// synthesized from the whole body, it already holds every former body
// child, so it is tagged as the page wrapper directly rather than being
// nested inside another one.
func (p *Parser) assembleArticle(top *candidate, synthesized bool) *goquery.Selection {
	if synthesized {
		setAttr(top.node.Get(0), "id", "readability-page-1")
		setAttr(top.node.Get(0), "class", "page")
		return top.node
	}

	article := newElement("div")

	siblingThreshold := math.Max(minSiblingScore, top.contentScore*0.2)
	topClass, _ := top.node.Attr("class")

	parent := top.node.Parent()
	var siblings *goquery.Selection
	if parent.Length() > 0 {
		siblings = parent.Children()
	} else {
		siblings = top.node
	}

	var toAppend []*goquery.Selection
	siblings.Each(func(_ int, sib *goquery.Selection) {
		isTop := sib.Get(0) == top.node.Get(0)
		if isTop {
			toAppend = append(toAppend, sib)
			return
		}
		score := 0.0
		if c, ok := p.lookupCandidate(sib.Get(0)); ok {
			// c.contentScore already has its link-density adjustment
			// folded in by selectTopCandidate.
			score = c.contentScore
			if sc, _ := sib.Attr("class"); sc != "" && sc == topClass && topClass != "" {
				score += top.contentScore * siblingScoreMultiplier
			}
		}
		if score >= siblingThreshold {
			toAppend = append(toAppend, sib)
			return
		}
		if getNodeName(sib) == "P" {
			length := len(getInnerText(sib, true))
			density := p.cache.linkDensityOf(sib)
			text := getInnerText(sib, true)
			if length > 80 && density < 0.25 {
				toAppend = append(toAppend, sib)
			} else if length > 0 && length < 80 && density == 0 && strings.HasSuffix(strings.TrimRight(text, " "), ".") {
				toAppend = append(toAppend, sib)
			}
		}
	})

	for _, sib := range toAppend {
		tag := getNodeName(sib)
		if !isTop(sib, top) && tag != "DIV" && tag != "ARTICLE" && tag != "SECTION" && tag != "P" && tag != "OL" && tag != "UL" {
			sib = setNodeTag(sib, "div")
		}
		article.AppendSelection(sib)
	}

	wrapper := newElement("div")
	setAttr(wrapper.Get(0), "id", "readability-page-1")
	setAttr(wrapper.Get(0), "class", "page")
	article.Children().Each(func(_ int, c *goquery.Selection) {
		wrapper.AppendSelection(c)
	})
	return wrapper
}

func isTop(sib *goquery.Selection, top *candidate) bool {
	return sib.Get(0) == top.node.Get(0)
}
