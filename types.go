package readability

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/marrow-labs/readability/internal/core"
)

// Options configures a single extraction (spec §6). The zero value is
// usable; DefaultOptions documents the values Parse fills in when a field
// is left at its zero value.
type Options struct {
	// Debug enables verbose Logger output during extraction.
	Debug bool

	// MaxElemsToParse aborts extraction once the document contains more
	// than this many elements. Zero disables the check.
	MaxElemsToParse int

	// NbTopCandidates bounds how many scored candidates are considered
	// when picking the article root. Zero selects the default of 5.
	NbTopCandidates int

	// CharThreshold is the minimum textContent length a grabber attempt
	// must reach before its result is accepted without further retries.
	CharThreshold int

	// ClassesToPreserve lists extra class names kept when classes are
	// stripped from the output tree.
	ClassesToPreserve []string

	// KeepClasses disables class stripping entirely.
	KeepClasses bool

	// UseXMLSerializer renders Content in the XML dialect (self-closing
	// void elements, explicit boolean attributes) instead of HTML.
	UseXMLSerializer bool

	// DisableJSONLD skips the JSON-LD metadata pass, relying on meta tags
	// and heading heuristics only.
	DisableJSONLD bool

	// AllowedVideoRegex overrides which embed/iframe/object src values
	// survive cleanup as video content.
	AllowedVideoRegex *regexp.Regexp

	// LinkDensityModifier nudges the link-density thresholds used during
	// conditional cleaning, positive to keep more link-heavy content.
	LinkDensityModifier float64

	// Serializer, if set, replaces the default HTML/XML renderer.
	Serializer func(*goquery.Selection) (any, error)

	// Logger receives debug output when Debug is set.
	Logger Logger

	// DocumentURI resolves relative links and is used as the <base href>
	// fallback. Parse sets this from its documentURI argument; it only
	// needs to be set explicitly when calling ParseDocument.
	DocumentURI string
}

// Logger is the ambient logging seam accepted by Options.
type Logger = core.Logger

// DefaultOptions returns the documented defaults (spec §6).
func DefaultOptions() Options {
	d := core.DefaultOptions()
	return Options{
		MaxElemsToParse:     d.MaxElemsToParse,
		NbTopCandidates:     d.NbTopCandidates,
		CharThreshold:       d.CharThreshold,
		AllowedVideoRegex:   d.AllowedVideoRegex,
		LinkDensityModifier: d.LinkDensityModifier,
	}
}

func (o Options) toCore() core.Options {
	return core.Options{
		Debug:               o.Debug,
		MaxElemsToParse:     o.MaxElemsToParse,
		NbTopCandidates:     o.NbTopCandidates,
		CharThreshold:       o.CharThreshold,
		ClassesToPreserve:   o.ClassesToPreserve,
		KeepClasses:         o.KeepClasses,
		UseXMLSerializer:    o.UseXMLSerializer,
		DisableJSONLD:       o.DisableJSONLD,
		AllowedVideoRegex:   o.AllowedVideoRegex,
		LinkDensityModifier: o.LinkDensityModifier,
		Serializer:          o.Serializer,
		Logger:              o.Logger,
		DocumentURI:         o.DocumentURI,
	}
}

// Result is the extracted article (spec §4.6).
type Result struct {
	Title         string
	Byline        string
	Dir           string
	Lang          string
	Excerpt       string
	SiteName      string
	PublishedTime string
	Content       string
	TextContent   string
	Length        int
	Readerable    bool
}
