package readability

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/marrow-labs/readability/internal/core"
)

// ReaderableOptions configures IsProbablyReaderable (spec §4.7).
type ReaderableOptions struct {
	MinContentLength int
	MinScore         float64
	IsVisible        func(*goquery.Selection) bool
}

// IsProbablyReaderable reports whether htmlString is likely to contain an
// extractable article, without running the full extraction pipeline.
func IsProbablyReaderable(htmlString string, opts *ReaderableOptions) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlString))
	if err != nil {
		return false
	}

	var co *core.ReaderableOptions
	if opts != nil {
		co = &core.ReaderableOptions{
			MinContentLength: opts.MinContentLength,
			MinScore:         opts.MinScore,
			IsVisible:        opts.IsVisible,
		}
	}
	return core.IsProbablyReaderable(doc, co)
}
