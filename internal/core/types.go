package core

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Options configures a single extraction (spec §6).
type Options struct {
	Debug                bool
	MaxElemsToParse      int
	NbTopCandidates      int
	CharThreshold        int
	ClassesToPreserve    []string
	KeepClasses          bool
	UseXMLSerializer     bool
	DisableJSONLD        bool
	AllowedVideoRegex    *regexp.Regexp
	LinkDensityModifier  float64
	Serializer           func(*goquery.Selection) (any, error)
	Logger               Logger
	DocumentURI          string
}

// DefaultOptions returns spec §6's documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxElemsToParse:     DefaultMaxElemsToParse,
		NbTopCandidates:     DefaultNTopCandidates,
		CharThreshold:       DefaultCharThreshold,
		AllowedVideoRegex:   RegexpVideos,
		LinkDensityModifier: 0.0,
		Logger:              nopLogger{},
	}
}

// Metadata is the nullable-field metadata record from spec §3.
type Metadata struct {
	Title         string
	Byline        string
	Excerpt       string
	SiteName      string
	PublishedTime string
}

// Result is the engine's output before the facade wraps it.
type Result struct {
	Title         string
	Byline        string
	Dir           string
	Lang          string
	Excerpt       string
	SiteName      string
	PublishedTime string
	Content       *goquery.Selection
	TextContent   string
}

// candidate is the per-element readability annotation from spec §3,
// created lazily during scoring and discarded at attempt boundaries. It is
// keyed by *html.Node identity, not by *goquery.Selection (a new Selection
// wrapper is allocated on every query, so its pointer is not a stable key).
type candidate struct {
	node         *goquery.Selection
	contentScore float64
}

// Parser holds all per-extraction mutable state. A fresh Parser (and a
// fresh DOM) is required for every call to Parse; none of this is safe to
// share across goroutines (spec §5).
type Parser struct {
	doc     *goquery.Document
	opts    Options
	log     Logger
	flags   int
	cache   *nodeCache
	byline  string
	title   string

	// dir is resolved from the top candidate's original position in the
	// tree (spec §4.6), before assembleArticle detaches it into the fresh
	// wrapper div (see grabArticle/grabArticleNode).
	dir string

	// candidates is keyed by node identity for this attempt only; cleared
	// whenever the DOM is restored for a retry (spec §3 invariant).
	candidates map[*html.Node]*candidate
}

func newParser(doc *goquery.Document, opts Options) *Parser {
	if opts.NbTopCandidates == 0 {
		opts.NbTopCandidates = DefaultNTopCandidates
	}
	if opts.CharThreshold == 0 {
		opts.CharThreshold = DefaultCharThreshold
	}
	if opts.AllowedVideoRegex == nil {
		opts.AllowedVideoRegex = RegexpVideos
	}
	logger := opts.Logger
	if logger == nil || !opts.Debug {
		logger = nopLogger{}
	}
	return &Parser{
		doc:        doc,
		opts:       opts,
		log:        logger,
		flags:      FlagStripUnlikelys | FlagWeightClasses | FlagCleanConditionally,
		cache:      newNodeCache(),
		candidates: make(map[*html.Node]*candidate),
	}
}

// resetAttempt clears every per-attempt annotation and cache (spec §3/§9):
// called before each retry once the DOM snapshot has been restored.
func (p *Parser) resetAttempt() {
	p.candidates = make(map[*html.Node]*candidate)
	p.cache = newNodeCache()
}

func (p *Parser) getOrInitCandidate(s *goquery.Selection, initial float64) *candidate {
	n := s.Get(0)
	if n == nil {
		return &candidate{node: s, contentScore: initial}
	}
	if c, ok := p.candidates[n]; ok {
		return c
	}
	c := &candidate{node: s, contentScore: initial}
	p.candidates[n] = c
	return c
}

func (p *Parser) lookupCandidate(n *html.Node) (*candidate, bool) {
	c, ok := p.candidates[n]
	return c, ok
}
