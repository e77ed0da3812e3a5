package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetNodeName(t *testing.T) {
	doc := parseDoc(t, `<div><P>hi</P></div>`)
	assert.Equal(t, "DIV", getNodeName(doc.Find("div")))
	assert.Equal(t, "P", getNodeName(doc.Find("p")))
	assert.Equal(t, "", getNodeName(doc.Find("missing")))
}

func TestIsNodeVisible(t *testing.T) {
	doc := parseDoc(t, `
		<div id="a" style="display: none">x</div>
		<div id="b" style="visibility:hidden">x</div>
		<div id="c" hidden>x</div>
		<div id="d" aria-hidden="true">x</div>
		<div id="e" aria-hidden="true" class="fallback-image">x</div>
		<div id="f">x</div>
	`)
	assert.False(t, isNodeVisible(doc.Find("#a").Get(0)))
	assert.False(t, isNodeVisible(doc.Find("#b").Get(0)))
	assert.False(t, isNodeVisible(doc.Find("#c").Get(0)))
	assert.False(t, isNodeVisible(doc.Find("#d").Get(0)))
	assert.True(t, isNodeVisible(doc.Find("#e").Get(0)))
	assert.True(t, isNodeVisible(doc.Find("#f").Get(0)))
}

func TestGetClassWeight(t *testing.T) {
	doc := parseDoc(t, `<div id="comment" class="article-body">x</div>`)
	div := doc.Find("div")
	assert.Equal(t, 0, getClassWeight(div, false))
	assert.Equal(t, 0, getClassWeight(div, true), "positive class and negative id should cancel out")
}

func TestHasAncestorTag(t *testing.T) {
	doc := parseDoc(t, `<table><tr><td><span id="s">x</span></td></tr></table>`)
	span := doc.Find("#s")
	assert.True(t, hasAncestorTag(span, "table", -1, nil))
	assert.False(t, hasAncestorTag(span, "article", -1, nil))
	assert.False(t, hasAncestorTag(span, "table", 1, nil))
}

func TestIsElementWithoutContent(t *testing.T) {
	doc := parseDoc(t, `
		<div id="empty"></div>
		<div id="brOnly"><br/><hr/></div>
		<div id="text">hi</div>
	`)
	assert.True(t, isElementWithoutContent(doc.Find("#empty")))
	assert.True(t, isElementWithoutContent(doc.Find("#brOnly")))
	assert.False(t, isElementWithoutContent(doc.Find("#text")))
}

func TestIsPhrasingContent(t *testing.T) {
	doc := parseDoc(t, `<p><span>ok</span></p><div><a href="/"><div>nope</div></a></div><div><div id="block">block</div></div>`)
	span := doc.Find("span").Get(0)
	assert.True(t, isPhrasingContent(span))

	nestedDiv := doc.Find("#block").Get(0)
	assert.False(t, isPhrasingContent(nestedDiv))

	anchorWithDiv := doc.Find("a").Get(0)
	assert.False(t, isPhrasingContent(anchorWithDiv))
}

func TestSetNodeTag(t *testing.T) {
	doc := parseDoc(t, `<div id="d" class="keep">hello</div>`)
	renamed := setNodeTag(doc.Find("#d"), "p")
	assert.Equal(t, "P", getNodeName(renamed))
	class, ok := renamed.Attr("class")
	assert.True(t, ok)
	assert.Equal(t, "keep", class)
}

func TestHasSingleTagInsideElement(t *testing.T) {
	doc := parseDoc(t, `<div id="a"><p>x</p></div><div id="b">text<p>x</p></div>`)
	assert.True(t, hasSingleTagInsideElement(doc.Find("#a"), "p"))
	assert.False(t, hasSingleTagInsideElement(doc.Find("#b"), "p"))
}
