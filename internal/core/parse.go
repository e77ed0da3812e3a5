package core

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NewParser builds a Parser over doc with the given options (spec §6). The
// caller owns doc; Parse mutates it in place.
func NewParser(doc *goquery.Document, opts Options) *Parser {
	return newParser(doc, opts)
}

// Parse drives the full pipeline described in spec §2: the element-count
// gate, metadata extraction, preprocessing, the article grabber, and
// post-processing. It returns ErrNoContent if every grabber attempt failed.
func (p *Parser) Parse() (*Result, error) {
	if p.doc == nil || p.doc.Selection.Length() == 0 {
		return nil, ErrNoDocument
	}

	if p.opts.MaxElemsToParse > 0 {
		n := p.doc.Find("*").Length()
		if n > p.opts.MaxElemsToParse {
			return nil, &tooManyElementsError{count: n}
		}
	}

	md := p.extractMetadata()
	p.title = md.Title

	p.preprocess()

	article := p.grabArticle()
	if article == nil {
		return nil, ErrNoContent
	}

	p.postProcess(article)

	if md.Excerpt == "" {
		firstP := article.Find("p").First()
		if firstP.Length() > 0 {
			md.Excerpt = strings.TrimSpace(getInnerText(firstP, true))
		}
	}

	dir := p.dir
	lang, _ := p.doc.Find("html").First().Attr("lang")

	if p.byline != "" && md.Byline == "" {
		md.Byline = p.byline
	}

	return &Result{
		Title:         md.Title,
		Byline:        md.Byline,
		Dir:           dir,
		Lang:          lang,
		Excerpt:       md.Excerpt,
		SiteName:      md.SiteName,
		PublishedTime: md.PublishedTime,
		Content:       article,
		TextContent:   getInnerText(article, true),
	}, nil
}

// Serialize renders article per the parser's configured dialect (spec §4.5).
func (p *Parser) Serialize(article *goquery.Selection) (string, error) {
	return p.serialize(article)
}
