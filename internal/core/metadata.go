package core

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractMetadata implements spec §4.1: JSON-LD first, then the fixed
// meta-tag priority lists, then title refinement as the last resort for
// title.
func (p *Parser) extractMetadata() Metadata {
	values := p.collectMetaTags()
	rawTitle := strings.TrimSpace(p.doc.Find("title").First().Text())
	jsonld := map[string]string{}
	if !p.opts.DisableJSONLD {
		jsonld = p.collectJSONLD(rawTitle)
	}

	var md Metadata
	md.Title = firstNonEmpty(jsonld["title"], values["dc:title"], values["dcterm:title"],
		values["og:title"], values["weibo:article:title"], values["weibo:webpage:title"],
		values["title"], values["twitter:title"], values["parsely-title"])
	if md.Title == "" {
		md.Title = p.computeArticleTitle()
	}

	md.Byline = firstNonEmpty(jsonld["byline"], values["dc:creator"], values["dcterm:creator"],
		values["author"])

	md.Excerpt = firstNonEmpty(jsonld["excerpt"], values["dc:description"],
		values["dcterm:description"], values["og:description"], values["description"],
		values["twitter:description"])

	md.SiteName = firstNonEmpty(jsonld["siteName"], values["og:site_name"])

	md.PublishedTime = firstNonEmpty(jsonld["publishedTime"], values["article:published_time"])

	md.Title = unescapeHTMLEntities(strings.TrimSpace(md.Title))
	md.Byline = unescapeHTMLEntities(strings.TrimSpace(md.Byline))
	md.Excerpt = unescapeHTMLEntities(strings.TrimSpace(md.Excerpt))
	md.SiteName = unescapeHTMLEntities(strings.TrimSpace(md.SiteName))
	md.PublishedTime = unescapeHTMLEntities(strings.TrimSpace(md.PublishedTime))
	return md
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// collectMetaTags implements the `<meta>` half of spec §4.1: a property
// match wins over a name match on the same element.
func (p *Parser) collectMetaTags() map[string]string {
	values := make(map[string]string)
	p.doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok || strings.TrimSpace(content) == "" {
			return
		}
		if property, ok := s.Attr("property"); ok {
			if m := RegexpMetaProperty.FindStringSubmatch(property); m != nil {
				key := strings.ToLower(strings.Join(strings.Fields(m[0]), ""))
				values[key] = content
				return
			}
		}
		if name, ok := s.Attr("name"); ok {
			if RegexpMetaName.MatchString(name) {
				key := strings.ToLower(strings.Join(strings.Fields(name), ""))
				key = strings.ReplaceAll(key, ".", ":")
				values[key] = content
			}
		}
	})
	return values
}

// collectJSONLD implements the JSON-LD half of spec §4.1 using real object
// traversal (see SPEC_FULL.md for why this departs from the teacher's
// regex-based scraper: a regex cannot correctly walk @graph arrays or
// arrays of authors).
func (p *Parser) collectJSONLD(rawTitle string) map[string]string {
	result := map[string]string{}
	p.doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content := s.Text()
		content = strings.TrimSpace(content)
		content = strings.TrimPrefix(content, "<![CDATA[")
		content = strings.TrimSuffix(content, "]]>")

		var raw any
		if err := json.Unmarshal([]byte(content), &raw); err != nil {
			p.log.Debugf("readability: skipping malformed JSON-LD: %v", err)
			return true
		}

		obj := pickArticleObject(raw)
		if obj == nil {
			return true
		}
		extractJSONLDFields(obj, result, rawTitle)
		return len(result) == 0
	})
	return result
}

// pickArticleObject implements the root-shape rules: an array selects the
// first element whose @context is schema.org (directly or via @vocab) and
// whose @type matches the article-type regex. An object needs a schema.org
// @context; it is used if its own @type matches, otherwise the first entry
// of its @graph whose @type matches is used.
func pickArticleObject(raw any) map[string]any {
	switch v := raw.(type) {
	case []any:
		for _, el := range v {
			if obj, ok := el.(map[string]any); ok && jsonldContextOK(obj) && jsonldTypeMatches(obj["@type"]) {
				return obj
			}
		}
		return nil
	case map[string]any:
		if !jsonldContextOK(v) {
			return nil
		}
		if jsonldTypeMatches(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"].([]any); ok {
			for _, el := range graph {
				if obj, ok := el.(map[string]any); ok && jsonldTypeMatches(obj["@type"]) {
					return obj
				}
			}
		}
		return nil
	default:
		return nil
	}
}

func jsonldContextOK(obj map[string]any) bool {
	if ctx, ok := obj["@context"].(string); ok && RegexpSchemaOrg.MatchString(ctx) {
		return true
	}
	if vocab, ok := obj["@vocab"].(string); ok && RegexpSchemaOrg.MatchString(vocab) {
		return true
	}
	return false
}

func jsonldTypeMatches(t any) bool {
	switch v := t.(type) {
	case string:
		return RegexpJSONLDArticleTypes.MatchString(v)
	case []any:
		for _, el := range v {
			if s, ok := el.(string); ok && RegexpJSONLDArticleTypes.MatchString(s) {
				return true
			}
		}
	}
	return false
}

func extractJSONLDFields(obj map[string]any, out map[string]string, rawTitle string) {
	name, _ := obj["name"].(string)
	headline, _ := obj["headline"].(string)
	if title := resolveJSONLDTitle(name, headline, rawTitle); title != "" {
		out["title"] = title
	}

	out["byline"] = jsonldAuthorNames(obj["author"])

	if desc, ok := obj["description"].(string); ok {
		out["excerpt"] = desc
	}
	if pub, ok := obj["publisher"].(map[string]any); ok {
		if siteName, ok := pub["name"].(string); ok {
			out["siteName"] = siteName
		}
	}
	if date, ok := obj["datePublished"].(string); ok {
		out["publishedTime"] = date
	}
	for k, v := range out {
		if v == "" {
			delete(out, k)
		}
	}
}

func jsonldAuthorNames(author any) string {
	switch v := author.(type) {
	case map[string]any:
		if name, ok := v["name"].(string); ok {
			return name
		}
	case []any:
		var names []string
		for _, el := range v {
			if m, ok := el.(map[string]any); ok {
				if name, ok := m["name"].(string); ok && name != "" {
					names = append(names, name)
				}
			}
		}
		return strings.Join(names, ", ")
	case string:
		return v
	}
	return ""
}

// resolveJSONLDTitle applies the title-disambiguation rule: when JSON-LD
// supplies both name and headline and they differ, prefer whichever is
// closer to the raw <title> by token similarity.
func resolveJSONLDTitle(name, headline, rawTitle string) string {
	if name == "" {
		return headline
	}
	if headline == "" || name == headline {
		return name
	}
	if tokenSimilarity(rawTitle, headline) > 0.75 && tokenSimilarity(rawTitle, name) <= 0.75 {
		return headline
	}
	return name
}

// computeArticleTitle implements spec §4.1 Title refinement.
func (p *Parser) computeArticleTitle() string {
	origTitle := strings.TrimSpace(p.doc.Find("title").First().Text())
	docTitle := origTitle
	titleHadHierarchicalSeparators := false

	if RegexpHierarchicalSep.MatchString(docTitle) {
		titleHadHierarchicalSeparators = RegexpHierarchicalSepXY.MatchString(docTitle)
		docTitle = RegexpTitleSplitterLast.ReplaceAllString(docTitle, "$1")
		if wordCount(docTitle) < 3 {
			docTitle = RegexpTitleSplitterFirst.ReplaceAllString(origTitle, "$1")
		}
	} else if strings.Contains(docTitle, ": ") {
		matchFound := false
		p.doc.Find("h1, h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.TrimSpace(getInnerText(s, true)) == docTitle {
				matchFound = true
				return false
			}
			return true
		})
		if !matchFound {
			colonIndex := strings.LastIndex(origTitle, ":")
			if colonIndex != -1 {
				docTitle = strings.TrimSpace(origTitle[colonIndex+1:])
				if wordCount(docTitle) < 3 {
					colonIndex = strings.Index(origTitle, ":")
					docTitle = strings.TrimSpace(origTitle[:colonIndex])
				}
				if wordCount(docTitle) > 5 {
					docTitle = origTitle
				}
			}
		}
	} else if docTitle == "" || docTitle == "null" || len(docTitle) > 150 || (len(docTitle) < 15 && len(docTitle) > 0) {
		h1s := p.doc.Find("h1")
		if h1s.Length() == 1 {
			docTitle = strings.TrimSpace(getInnerText(h1s, true))
		}
	}

	docTitle = strings.TrimSpace(RegexpNormalize.ReplaceAllString(docTitle, " "))

	strippedWordCount := wordCount(RegexpTitleSepStrip.ReplaceAllString(origTitle, ""))
	if wordCount(docTitle) <= 4 && (!titleHadHierarchicalSeparators || wordCount(docTitle) != strippedWordCount-1) {
		docTitle = origTitle
	}
	return docTitle
}

// isValidByline reports whether text is a plausible byline candidate
// (spec §4.3.1: non-empty, shorter than 100 characters).
func isValidByline(text string) bool {
	text = strings.TrimSpace(text)
	return text != "" && len(text) < 100
}

// checkByline records the first byline match encountered during node
// preparation; subsequent calls are no-ops once one is known.
func (p *Parser) checkByline(s *goquery.Selection, matchString string) bool {
	if p.byline != "" {
		return false
	}
	rel, _ := s.Attr("rel")
	itemprop, _ := s.Attr("itemprop")
	if rel == "author" || (itemprop != "" && strings.Contains(itemprop, "author")) || RegexpByline.MatchString(matchString) {
		text := getInnerText(s, true)
		if isValidByline(text) {
			p.byline = text
			return true
		}
	}
	return false
}

// unescapeHTMLEntities unescapes the fixed named-entity set plus decimal
// and hex numeric character references (spec §4.1). Invalid code points
// (0, beyond U+10FFFF, or surrogates) become U+FFFD.
func unescapeHTMLEntities(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}
		rest := s[i+1:]
		if r, consumed, ok := decodeNumericEntity(rest); ok {
			b.WriteRune(r)
			i += 1 + consumed
			continue
		}
		matched := false
		for name, r := range HTMLEntityMap {
			if strings.HasPrefix(rest, name+";") {
				b.WriteRune(r)
				i += 1 + len(name) + 1
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func decodeNumericEntity(rest string) (rune, int, bool) {
	if !strings.HasPrefix(rest, "#") {
		return 0, 0, false
	}
	body := rest[1:]
	hex := false
	if strings.HasPrefix(body, "x") || strings.HasPrefix(body, "X") {
		hex = true
		body = body[1:]
	}
	end := strings.IndexByte(body, ';')
	if end <= 0 {
		return 0, 0, false
	}
	digits := body[:end]
	base := 10
	if hex {
		base = 16
	}
	val, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, 0, false
	}
	consumed := 1 + len(digits) + 1
	if hex {
		consumed++
	}
	if val <= 0 || val > 0x10FFFF || (val >= 0xD800 && val <= 0xDFFF) {
		return 0xFFFD, consumed, true
	}
	return rune(val), consumed, true
}
