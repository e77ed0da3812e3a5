package readability

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/marrow-labs/readability/internal/core"
)

// Option configures an Options value. This follows the functional options
// pattern used throughout this package's configuration surface.
type Option func(*Options)

// WithDebug enables verbose Logger output during extraction.
func WithDebug(enable bool) Option {
	return func(o *Options) { o.Debug = enable }
}

// WithMaxElemsToParse aborts extraction once the document contains more
// than n elements. Zero disables the check.
func WithMaxElemsToParse(n int) Option {
	return func(o *Options) { o.MaxElemsToParse = n }
}

// WithNbTopCandidates bounds how many scored candidates are considered
// when picking the article root.
func WithNbTopCandidates(n int) Option {
	return func(o *Options) { o.NbTopCandidates = n }
}

// WithCharThreshold sets the minimum textContent length a grabber attempt
// must reach before its result is accepted without further retries.
func WithCharThreshold(n int) Option {
	return func(o *Options) { o.CharThreshold = n }
}

// WithClassesToPreserve adds extra class names kept when classes are
// stripped from the output tree.
func WithClassesToPreserve(classes ...string) Option {
	return func(o *Options) { o.ClassesToPreserve = append(o.ClassesToPreserve, classes...) }
}

// WithKeepClasses disables class stripping entirely.
func WithKeepClasses(enable bool) Option {
	return func(o *Options) { o.KeepClasses = enable }
}

// WithXMLSerializer renders Content in the XML dialect instead of HTML.
func WithXMLSerializer(enable bool) Option {
	return func(o *Options) { o.UseXMLSerializer = enable }
}

// WithDisableJSONLD skips the JSON-LD metadata pass.
func WithDisableJSONLD(disable bool) Option {
	return func(o *Options) { o.DisableJSONLD = disable }
}

// WithLogger installs a Logger to receive debug output.
func WithLogger(l Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// Parse extracts the readable article from htmlString. documentURI resolves
// relative links; a <base href> in the document, resolved against
// documentURI, takes precedence over it.
//
// Example:
//
//	result, err := readability.Parse(htmlString, "https://example.com/article",
//	    readability.WithCharThreshold(400))
func Parse(htmlString string, documentURI string, opts ...Option) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlString))
	if err != nil {
		return nil, err
	}

	o := DefaultOptions()
	o.DocumentURI = documentURI
	for _, opt := range opts {
		opt(&o)
	}
	return runParse(doc, o)
}

// ParseDocument runs extraction against an already-parsed document. Set
// Options.DocumentURI before calling if relative links need resolving.
func ParseDocument(doc *goquery.Document, opts ...Option) (*Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return runParse(doc, o)
}

func runParse(doc *goquery.Document, o Options) (*Result, error) {
	// Parse mutates doc in place, so the readerable probe must run first
	// to see the original document shape.
	readerable := core.IsProbablyReaderable(doc, nil)

	p := core.NewParser(doc, o.toCore())
	res, err := p.Parse()
	if err != nil {
		return nil, err
	}

	content, err := p.Serialize(res.Content)
	if err != nil {
		return nil, err
	}

	textContent := strings.TrimSpace(res.TextContent)
	return &Result{
		Title:         strings.TrimSpace(res.Title),
		Byline:        strings.TrimSpace(res.Byline),
		Dir:           res.Dir,
		Lang:          res.Lang,
		Excerpt:       strings.TrimSpace(res.Excerpt),
		SiteName:      strings.TrimSpace(res.SiteName),
		PublishedTime: strings.TrimSpace(res.PublishedTime),
		Content:       content,
		TextContent:   textContent,
		Length:        len([]rune(textContent)),
		Readerable:    readerable,
	}, nil
}
