package core

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareNodesDropsUnlikelyCandidates(t *testing.T) {
	p := newTestParser(t, `
		<html><body>
			<div class="comment-sidebar">noise</div>
			<div class="article-body"><p>real content that should survive scoring and be kept around.</p><p>more content.</p></div>
		</body></html>
	`)
	body := p.doc.Find("body")
	p.prepareNodes(body)
	assert.Equal(t, 0, p.doc.Find(".comment-sidebar").Length())
	assert.Equal(t, 1, p.doc.Find(".article-body").Length())
}

func TestPrepareNodesRemovesHiddenNodes(t *testing.T) {
	p := newTestParser(t, `
		<html><body>
			<div style="display:none">hidden</div>
			<p>visible text that is long enough to matter for this test case here.</p>
		</body></html>
	`)
	body := p.doc.Find("body")
	p.prepareNodes(body)
	assert.Equal(t, 0, p.doc.Find("div").Length())
}

func TestHandleDivCollapsesSingleParagraphChild(t *testing.T) {
	p := newTestParser(t, `<html><body><div id="wrap"><p>only child</p></div></body></html>`)
	div := p.doc.Find("#wrap")
	result, _ := p.handleDiv(div, nil)
	assert.Equal(t, "P", getNodeName(result))
}

func TestHandleDivRenamesToPWhenNoBlockChildren(t *testing.T) {
	p := newTestParser(t, `<html><body><div id="wrap">just some <b>inline</b> text, no blocks here.</div></body></html>`)
	div := p.doc.Find("#wrap")
	result, _ := p.handleDiv(div, nil)
	assert.Equal(t, "P", getNodeName(result))
}

func TestScoreElementsSkipsShortText(t *testing.T) {
	p := newTestParser(t, `<html><body><div id="a"><p id="short">hi</p></div></body></html>`)
	short := p.doc.Find("#short")
	p.scoreElements([]*goquery.Selection{short})
	_, ok := p.lookupCandidate(p.doc.Find("#a").Get(0))
	assert.False(t, ok, "a candidate ancestor should not be created for text below the length gate")
}

func TestBaseScoreForTagAndClass(t *testing.T) {
	p := newTestParser(t, `<html><body><div class="article-body" id="main">x</div></body></html>`)
	div := p.doc.Find("div")
	score := p.baseScoreFor(div)
	assert.Greater(t, score, divScore, "positive class match should add to the base DIV score")
}

func TestSelectTopCandidateSynthesizesWhenNoneScored(t *testing.T) {
	p := newTestParser(t, `<html><body><span>x</span></body></html>`)
	body := p.doc.Find("body")
	cand, synthesized := p.selectTopCandidate(body)
	require.NotNil(t, cand)
	assert.True(t, synthesized)
}

func TestSelectTopCandidatePicksHighestScoring(t *testing.T) {
	p := newTestParser(t, `
		<html><body>
			<div id="low"><p>short filler text that barely passes the minimum length gate here now.</p></div>
			<div id="high">
				<p>A much longer passage of real article content, packed with several, distinct,
				clauses, and commas, that should accumulate a meaningfully higher content score
				than its shorter sibling once both have been scored by the grabber.</p>
			</div>
		</body></html>
	`)
	body := p.doc.Find("body")
	elements := p.prepareNodes(body)
	p.scoreElements(elements)
	cand, synthesized := p.selectTopCandidate(body)
	require.NotNil(t, cand)
	assert.False(t, synthesized)
}

func TestGrabArticleAssemblesQualifyingSiblings(t *testing.T) {
	p := newTestParser(t, sampleArticleHTML)
	body := p.doc.Find("body")
	article, _ := p.grabArticleNode(body)
	require.NotNil(t, article)
	text := getInnerText(article, true)
	assert.Contains(t, text, "quiet migration is underway")
}

func TestRelaxNextFlagOrder(t *testing.T) {
	p := newTestParser(t, `<html><body><p>x</p></body></html>`)
	assert.NotZero(t, p.flags&FlagStripUnlikelys)
	p.relaxNextFlag()
	assert.Zero(t, p.flags&FlagStripUnlikelys)
	assert.NotZero(t, p.flags&FlagWeightClasses)
	p.relaxNextFlag()
	assert.Zero(t, p.flags&FlagWeightClasses)
	assert.NotZero(t, p.flags&FlagCleanConditionally)
	p.relaxNextFlag()
	assert.Zero(t, p.flags&FlagCleanConditionally)
}
