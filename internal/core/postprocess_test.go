package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRelativeURIsAgainstDocumentURI(t *testing.T) {
	doc := parseDoc(t, `<div><a id="l" href="/story/42">story</a><img id="i" src="pic.jpg"></div>`)
	opts := DefaultOptions()
	opts.DocumentURI = "https://news.example.com/index.html"
	p := newParser(doc, opts)
	article := p.doc.Find("div")
	p.resolveRelativeURIs(article)

	href, _ := p.doc.Find("#l").Attr("href")
	assert.Equal(t, "https://news.example.com/story/42", href)
	src, _ := p.doc.Find("#i").Attr("src")
	assert.Equal(t, "https://news.example.com/pic.jpg", src)
}

func TestResolveRelativeURIsPrefersBaseTag(t *testing.T) {
	doc := parseDoc(t, `<html><head><base href="https://cdn.example.com/assets/"></head>
		<body><div><img id="i" src="pic.jpg"></div></body></html>`)
	opts := DefaultOptions()
	opts.DocumentURI = "https://news.example.com/index.html"
	p := newParser(doc, opts)
	article := p.doc.Find("div")
	p.resolveRelativeURIs(article)

	src, _ := p.doc.Find("#i").Attr("src")
	assert.Equal(t, "https://cdn.example.com/assets/pic.jpg", src)
}

func TestResolveRelativeURIsUnwrapsJavascriptLinks(t *testing.T) {
	doc := parseDoc(t, `<div><a id="l" href="javascript:void(0)">click me</a></div>`)
	opts := DefaultOptions()
	opts.DocumentURI = "https://news.example.com/index.html"
	p := newParser(doc, opts)
	article := p.doc.Find("div")
	p.resolveRelativeURIs(article)

	assert.Equal(t, 0, p.doc.Find("a").Length())
	assert.Contains(t, p.doc.Find("div").Text(), "click me")
}

func TestSimplifyNestedElementsCollapsesSingleChild(t *testing.T) {
	p := newTestParser(t, `<html><body><div id="outer"><div id="inner"><p>content</p></div></div></body></html>`)
	article := p.doc.Find("#outer")
	simplifyNestedElements(article)
	assert.Equal(t, 0, p.doc.Find("#outer").Length())
	assert.Equal(t, 1, p.doc.Find("#inner").Length())
}

func TestSimplifyNestedElementsDropsEmptyWrapper(t *testing.T) {
	p := newTestParser(t, `<html><body><div id="real"><p>kept</p></div><div id="empty"></div></body></html>`)
	article := p.doc.Find("body")
	simplifyNestedElements(article)
	assert.Equal(t, 0, p.doc.Find("#empty").Length())
	assert.Equal(t, 1, p.doc.Find("#real").Length())
}

func TestStripClassesPreservesConfiguredClasses(t *testing.T) {
	doc := parseDoc(t, `<div id="d" class="page highlight random-noise">x</div>`)
	opts := DefaultOptions()
	opts.ClassesToPreserve = []string{"highlight"}
	p := newParser(doc, opts)
	article := p.doc.Find("div")
	p.stripClasses(article)

	class, ok := p.doc.Find("#d").Attr("class")
	assert.True(t, ok)
	assert.Equal(t, "page highlight", class, "the default-preserved \"page\" class and the configured \"highlight\" class both survive")
}

func TestStripClassesRemovesAttrWhenNothingSurvives(t *testing.T) {
	doc := parseDoc(t, `<div id="d" class="random-noise">x</div>`)
	p := newParser(doc, DefaultOptions())
	article := p.doc.Find("div")
	p.stripClasses(article)

	_, ok := p.doc.Find("#d").Attr("class")
	assert.False(t, ok)
}
