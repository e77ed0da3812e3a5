package core

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeHTMLDefault(t *testing.T) {
	p := newTestParser(t, `<html><body><div id="a"><p>hello <b>world</b></p></div></body></html>`)
	out, err := p.Serialize(p.doc.Find("#a"))
	require.NoError(t, err)
	assert.Contains(t, out, "<p>hello <b>world</b></p>")
}

func TestSerializeXMLPromotesBooleanAttributes(t *testing.T) {
	doc := parseDoc(t, `<div id="a"><input type="checkbox" checked></div>`)
	opts := DefaultOptions()
	opts.UseXMLSerializer = true
	p := newParser(doc, opts)

	out, err := p.Serialize(p.doc.Find("#a"))
	require.NoError(t, err)
	assert.Contains(t, out, `checked="checked"`)
	assert.Contains(t, out, `<input`)
}

func TestSerializeXMLSelfClosesVoidElements(t *testing.T) {
	doc := parseDoc(t, `<div id="a">line one<br>line two<img src="x.jpg"></div>`)
	opts := DefaultOptions()
	opts.UseXMLSerializer = true
	p := newParser(doc, opts)

	out, err := p.Serialize(p.doc.Find("#a"))
	require.NoError(t, err)
	assert.Contains(t, out, "<br />")
	assert.Contains(t, out, `<img src="x.jpg" />`)
}

func TestSerializeCustomSerializerOverride(t *testing.T) {
	doc := parseDoc(t, `<div id="a"><p>hi</p></div>`)
	opts := DefaultOptions()
	opts.Serializer = func(s *goquery.Selection) (any, error) {
		return "custom-output", nil
	}
	p := newParser(doc, opts)
	out, err := p.Serialize(p.doc.Find("#a"))
	require.NoError(t, err)
	assert.Equal(t, "custom-output", out)
}
