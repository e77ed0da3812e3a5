package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocessStripsScriptsStylesAndComments(t *testing.T) {
	p := newTestParser(t, `
		<html><body>
			<!-- a stray comment -->
			<script>trackPageview();</script>
			<style>.x { color: red; }</style>
			<p>keep me</p>
		</body></html>
	`)
	p.preprocess()
	assert.Equal(t, 0, p.doc.Find("script").Length())
	assert.Equal(t, 0, p.doc.Find("style").Length())
	assert.Contains(t, p.doc.Find("body").Text(), "keep me")
}

func TestPreprocessRenamesFontToSpan(t *testing.T) {
	p := newTestParser(t, `<html><body><font color="red">hi</font></body></html>`)
	p.preprocess()
	assert.Equal(t, 0, p.doc.Find("font").Length())
	assert.Equal(t, 1, p.doc.Find("span").Length())
}

func TestUnwrapNoscriptImagesPromotesRealSrc(t *testing.T) {
	p := newTestParser(t, `
		<html><body>
			<img id="placeholder" src="spacer.gif">
			<noscript><img id="real" src="https://example.com/real.jpg"></noscript>
		</body></html>
	`)
	p.unwrapNoscriptImages()
	assert.Equal(t, 0, p.doc.Find("#placeholder").Length())
	img := p.doc.Find("body > img")
	src, ok := img.Attr("src")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/real.jpg", src)
}

func TestImgLooksValid(t *testing.T) {
	withSrc := parseDoc(t, `<img src="a.jpg">`)
	withoutAny := parseDoc(t, `<img>`)
	assert.True(t, imgLooksValid(withSrc.Find("img")))
	assert.False(t, imgLooksValid(withoutAny.Find("img")))
}

func TestCollapseBrRunsCreatesParagraph(t *testing.T) {
	p := newTestParser(t, `<html><body><div id="d">first<br><br>second</div></body></html>`)
	div := p.doc.Find("#d")
	p.collapseBrRuns(div)
	assert.Equal(t, 0, p.doc.Find("#d br").Length())
	assert.GreaterOrEqual(t, p.doc.Find("#d p").Length(), 1)
}

func TestCollapseBrRunsIgnoresSingleBr(t *testing.T) {
	p := newTestParser(t, `<html><body><div id="d">first<br>second</div></body></html>`)
	div := p.doc.Find("#d")
	p.collapseBrRuns(div)
	assert.Equal(t, 1, p.doc.Find("#d br").Length())
}
