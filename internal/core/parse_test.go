package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleArticleHTML = `
<!DOCTYPE html>
<html lang="en" dir="ltr">
<head>
	<title>The Great Migration of Urban Wildlife</title>
	<meta property="og:site_name" content="Nature Weekly">
	<meta name="author" content="Morgan Reyes">
</head>
<body>
	<nav class="sidebar">
		<ul><li><a href="/a">Home</a></li><li><a href="/b">About</a></li></ul>
	</nav>
	<header>
		<h1>The Great Migration of Urban Wildlife</h1>
		<span class="byline">By Morgan Reyes</span>
	</header>
	<article>
		<p>Across the world's largest cities, a quiet migration is underway as
		raccoons, foxes, and peregrine falcons adapt to concrete canyons in
		search of food, shelter, and safety from their natural predators.</p>
		<p>Researchers tracking these populations have found that urban animals
		often grow bolder and more resourceful than their rural counterparts,
		learning to navigate traffic patterns and human schedules with
		surprising precision over the course of just a few generations.</p>
		<p>"What we are witnessing is evolution happening in real time," said
		one biologist who has spent a decade cataloguing these behavioral
		shifts across a dozen major metropolitan areas worldwide.</p>
		<div class="share-buttons"><a href="/share">Share this on social media</a></div>
	</article>
	<footer>Copyright 2024 Nature Weekly. All rights reserved.</footer>
</body>
</html>
`

func TestParseExtractsArticle(t *testing.T) {
	p := newTestParser(t, sampleArticleHTML)
	result, err := p.Parse()
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "The Great Migration of Urban Wildlife", result.Title)
	assert.Equal(t, "ltr", result.Dir)
	assert.Equal(t, "Nature Weekly", result.SiteName)
	assert.Contains(t, result.TextContent, "quiet migration is underway")
	assert.Contains(t, result.TextContent, "evolution happening in real time")
	assert.NotContains(t, result.TextContent, "Share this on social media")
	assert.NotContains(t, strings.ToLower(result.TextContent), "copyright 2024")
}

func TestParseNoDocument(t *testing.T) {
	p := newParser(nil, DefaultOptions())
	_, err := p.Parse()
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestParseTooManyElements(t *testing.T) {
	doc := parseDoc(t, sampleArticleHTML)
	opts := DefaultOptions()
	opts.MaxElemsToParse = 3
	p := newParser(doc, opts)
	_, err := p.Parse()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooManyElements)
	assert.Contains(t, err.Error(), "Aborting parsing document;")
	assert.Contains(t, err.Error(), "elements found")
}

func TestParseEmptyBodyReturnsNoContent(t *testing.T) {
	p := newTestParser(t, `<html><head><title>Empty</title></head><body></body></html>`)
	opts := p.opts
	opts.CharThreshold = 50
	p.opts = opts
	_, err := p.Parse()
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestResolveDirWalksUpToHTML(t *testing.T) {
	p := newTestParser(t, `<html dir="rtl"><body><div id="x"><p id="inner">hi</p></div></body></html>`)
	top := p.doc.Find("#x")
	assert.Equal(t, "rtl", resolveDirFromTopCandidate(top))
}
