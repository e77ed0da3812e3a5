package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsProbablyReaderableTrueForLongArticle(t *testing.T) {
	longPara := strings.Repeat("This is a sentence with real prose content. ", 30)
	doc := parseDoc(t, `<html><body><article><p>`+longPara+`</p></article></body></html>`)
	assert.True(t, IsProbablyReaderable(doc, nil))
}

func TestIsProbablyReaderableFalseForSparsePage(t *testing.T) {
	doc := parseDoc(t, `<html><body><nav><ul><li><a href="/a">A</a></li></ul></nav><p>short</p></body></html>`)
	assert.False(t, IsProbablyReaderable(doc, nil))
}

func TestIsProbablyReaderableHonorsCustomOptions(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>twenty chars of text</p></body></html>`)
	opts := &ReaderableOptions{MinContentLength: 5, MinScore: 0.1}
	assert.True(t, IsProbablyReaderable(doc, opts))
}

func TestCandidateNodesIncludesDivWithBrChild(t *testing.T) {
	doc := parseDoc(t, `<html><body><div id="brdiv">line one<br>line two</div><span>not included</span></body></html>`)
	nodes := candidateNodes(doc)
	found := false
	for _, n := range nodes {
		if id, _ := n.Attr("id"); id == "brdiv" {
			found = true
		}
	}
	assert.True(t, found)
}
