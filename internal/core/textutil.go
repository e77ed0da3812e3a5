package core

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// getInnerText returns s's text, trimmed and optionally with runs of
// whitespace collapsed to a single space (spec §9 "Regex fidelity").
func getInnerText(s *goquery.Selection, normalizeSpaces bool) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	text := strings.TrimSpace(s.Text())
	if normalizeSpaces {
		text = RegexpNormalize.ReplaceAllString(text, " ")
	}
	return text
}

// commaCount counts Unicode comma-class characters (glossary). Text is
// normalized to NFC first so a comma-class rune spelled as a combining
// sequence in the source still matches the single-rune regex class.
func commaCount(s *goquery.Selection) int {
	return len(RegexpCommaClass.FindAllStringIndex(norm.NFC.String(getInnerText(s, true)), -1))
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// tokenize lowercases and splits on non [a-z0-9_] runs, per the
// token-similarity glossary entry.
func tokenize(s string) []string {
	return strings.FieldsFunc(lowerCaser.String(norm.NFC.String(s)), func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_')
	})
}

// tokenSimilarity implements the GLOSSARY's token-similarity measure:
// 1 - |tokens(B) - tokens(A)| / |tokens(B)|, measured over the
// whitespace-joined lengths of the token sets.
func tokenSimilarity(textA, textB string) float64 {
	tokensA := tokenize(textA)
	tokensB := tokenize(textB)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		setA[t] = true
	}
	var uniqueB []string
	for _, t := range tokensB {
		if !setA[t] {
			uniqueB = append(uniqueB, t)
		}
	}
	lenB := len(strings.Join(tokensB, " "))
	if lenB == 0 {
		return 0
	}
	distance := float64(len(strings.Join(uniqueB, " "))) / float64(lenB)
	return 1 - distance
}

// nodeCache holds per-attempt caches keyed by *html.Node identity (stable
// across repeated goquery queries, unlike *goquery.Selection wrapper
// pointers) and invalidated by a mutation token, as described in spec §9.
// prepArticle calls bump() after each batch of removals, so an entry computed
// before a bump is recomputed on its next use. Mutations between bumps (for
// example during node preparation) do not invalidate entries.
type nodeCache struct {
	mutationToken int
	tokenAtCalc   map[*html.Node]int
	linkDensity   map[*html.Node]float64
	textLength    map[*html.Node]int
}

func newNodeCache() *nodeCache {
	return &nodeCache{
		tokenAtCalc: make(map[*html.Node]int),
		linkDensity: make(map[*html.Node]float64),
		textLength:  make(map[*html.Node]int),
	}
}

// bump invalidates every cached value computed before this call.
func (c *nodeCache) bump() {
	c.mutationToken++
}

func (c *nodeCache) fresh(n *html.Node) bool {
	tok, ok := c.tokenAtCalc[n]
	return ok && tok == c.mutationToken
}

func (c *nodeCache) textLen(s *goquery.Selection) int {
	n := s.Get(0)
	if n == nil {
		return 0
	}
	if c.fresh(n) {
		if v, ok := c.textLength[n]; ok {
			return v
		}
	}
	v := len(getInnerText(s, true))
	c.textLength[n] = v
	c.tokenAtCalc[n] = c.mutationToken
	return v
}

// linkDensityOf implements spec §4.3.3: Σ(linkTextLen * coef) / elementTextLen,
// coef 0.3 for hash-only hrefs, 1.0 otherwise.
func (c *nodeCache) linkDensityOf(s *goquery.Selection) float64 {
	n := s.Get(0)
	if n == nil {
		return 0
	}
	if c.fresh(n) {
		if v, ok := c.linkDensity[n]; ok {
			return v
		}
	}
	textLength := c.textLen(s)
	if textLength == 0 {
		c.linkDensity[n] = 0
		c.tokenAtCalc[n] = c.mutationToken
		return 0
	}
	var linkLength float64
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		coef := 1.0
		if href, ok := a.Attr("href"); ok && RegexpHashURL.MatchString(href) {
			coef = 0.3
		}
		linkLength += float64(len(getInnerText(a, true))) * coef
	})
	density := linkLength / float64(textLength)
	c.linkDensity[n] = density
	c.tokenAtCalc[n] = c.mutationToken
	return density
}

func parseIntAttr(s *goquery.Selection, key string, def int) int {
	v, ok := s.Attr(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}
