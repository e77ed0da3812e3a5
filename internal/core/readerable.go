package core

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ReaderableOptions configures the standalone probability probe (spec
// §4.7), independent of extraction.
type ReaderableOptions struct {
	MinContentLength int
	MinScore         float64
	IsVisible        func(*goquery.Selection) bool
}

// DefaultReaderableOptions returns the spec-documented defaults.
func DefaultReaderableOptions() ReaderableOptions {
	return ReaderableOptions{MinContentLength: 140, MinScore: 20}
}

// IsProbablyReaderable implements spec §4.7: a small, extraction-independent
// scoring predicate over candidate nodes. It reuses node preparation's
// visibility check (isNodeVisible) and its class/id unlikely-candidate
// regexes; class weights are not computed.
func IsProbablyReaderable(doc *goquery.Document, opts *ReaderableOptions) bool {
	o := DefaultReaderableOptions()
	if opts != nil {
		if opts.MinContentLength > 0 {
			o.MinContentLength = opts.MinContentLength
		}
		if opts.MinScore > 0 {
			o.MinScore = opts.MinScore
		}
		if opts.IsVisible != nil {
			o.IsVisible = opts.IsVisible
		}
	}
	visible := o.IsVisible
	if visible == nil {
		visible = func(s *goquery.Selection) bool { return isNodeVisible(s.Get(0)) }
	}

	nodes := candidateNodes(doc)
	score := 0.0
	found := false
	for _, n := range nodes {
		if !visible(n) {
			continue
		}
		matchString := classAndID(n.Get(0))
		if RegexpUnlikelyCandidates.MatchString(matchString) && !RegexpMaybeCandidate.MatchString(matchString) {
			continue
		}
		if getNodeName(n) == "P" && hasAncestorTag(n, "li", -1, nil) {
			continue
		}
		textLen := len(strings.TrimSpace(getInnerText(n, true)))
		if textLen < o.MinContentLength {
			continue
		}
		score += math.Sqrt(float64(textLen - o.MinContentLength))
		if score > o.MinScore {
			found = true
			break
		}
	}
	return found
}

// candidateNodes selects (p, pre, article) ∪ parents-of(div > br), per
// spec §4.7.
func candidateNodes(doc *goquery.Document) []*goquery.Selection {
	var nodes []*goquery.Selection
	add := func(s *goquery.Selection) {
		s.Each(func(_ int, el *goquery.Selection) {
			nodes = append(nodes, el)
		})
	}
	add(doc.Find("p, pre, article"))

	doc.Find("div").Each(func(_ int, div *goquery.Selection) {
		if div.Children().Filter("br").Length() > 0 {
			nodes = append(nodes, div)
		}
	})
	return nodes
}
