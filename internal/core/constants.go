// Package core implements Mozilla Readability's content-extraction
// algorithm: metadata harvesting, DOM preprocessing, candidate scoring and
// selection, sibling merging, conditional cleaning, and post-processing.
package core

import "regexp"

// Flags control which heuristics are active for a single grab attempt.
// Each retry clears one flag, in this order.
const (
	FlagStripUnlikelys = 1 << iota
	FlagWeightClasses
	FlagCleanConditionally
)

// Defaults mirror Readability.js's own defaults.
const (
	DefaultMaxElemsToParse = 0
	DefaultNTopCandidates  = 5
	DefaultCharThreshold   = 500
)

// DefaultTagsToScore are the element tags queued for scoring during node
// preparation (spec §4.3.1).
var DefaultTagsToScore = map[string]bool{
	"SECTION": true, "H2": true, "H3": true, "H4": true,
	"H5": true, "H6": true, "P": true, "TD": true, "PRE": true,
}

// DefaultClassesToPreserve are always kept by stripClasses in addition to any
// caller-supplied list.
var DefaultClassesToPreserve = []string{"page"}

// UnlikelyRoles are ARIA roles that mark a node as non-content.
var UnlikelyRoles = map[string]bool{
	"menu": true, "menubar": true, "complementary": true,
	"navigation": true, "alert": true, "alertdialog": true, "dialog": true,
}

// DivToPElems are child tags that disqualify a <div> from being collapsed
// into a <p> during node preparation.
var DivToPElems = map[string]bool{
	"BLOCKQUOTE": true, "DL": true, "DIV": true, "IMG": true,
	"OL": true, "P": true, "PRE": true, "TABLE": true, "UL": true,
}

// PresentationalAttributes are stripped from every element (except inside
// <svg>) during prepArticle.
var PresentationalAttributes = []string{
	"align", "background", "bgcolor", "border", "cellpadding",
	"cellspacing", "frame", "hspace", "rules", "style", "valign", "vspace",
}

// DeprecatedSizeAttributeElems additionally lose width/height.
var DeprecatedSizeAttributeElems = map[string]bool{
	"TABLE": true, "TH": true, "TD": true, "HR": true, "PRE": true,
}

// PhrasingElems is the fixed whitelist from spec §4.2. <a>, <del>, <ins> are
// phrasing content conditionally (all children must be phrasing) and are
// handled specially in isPhrasingContent.
var PhrasingElems = map[string]bool{
	"ABBR": true, "AUDIO": true, "B": true, "BDO": true, "BR": true,
	"BUTTON": true, "CITE": true, "CODE": true, "DATA": true,
	"DATALIST": true, "DFN": true, "EM": true, "EMBED": true, "I": true,
	"IMG": true, "INPUT": true, "KBD": true, "LABEL": true, "MARK": true,
	"MATH": true, "METER": true, "NOSCRIPT": true, "OBJECT": true,
	"OUTPUT": true, "PROGRESS": true, "Q": true, "RUBY": true, "SAMP": true,
	"SCRIPT": true, "SELECT": true, "SMALL": true, "SPAN": true,
	"STRONG": true, "SUB": true, "SUP": true, "TEXTAREA": true, "TIME": true,
	"VAR": true, "WBR": true,
}

// HTMLEntityMap is the fixed set of named entities unescaped by the
// metadata unescaper (spec §4.1).
var HTMLEntityMap = map[string]rune{
	"quot": '"', "amp": '&', "apos": '\'', "lt": '<', "gt": '>',
}

// BooleanAttributes is the fixed list of boolean-attribute names whose
// explicit `name="name"` spelling the serializer tries to preserve
// (spec §4.5).
var BooleanAttributes = map[string]bool{
	"allowfullscreen": true, "async": true, "autofocus": true,
	"autoplay": true, "checked": true, "controls": true, "default": true,
	"defer": true, "disabled": true, "formnovalidate": true, "hidden": true,
	"ismap": true, "itemscope": true, "loop": true, "multiple": true,
	"muted": true, "novalidate": true, "open": true, "playsinline": true,
	"readonly": true, "required": true, "reversed": true, "selected": true,
	"typemustmatch": true,
}

// Regular expressions used throughout the algorithm. Most are reproduced
// literally from Mozilla's Readability.js via the teacher port.
var (
	RegexpUnlikelyCandidates = regexp.MustCompile(`(?i)-ad-|ai2html|banner|breadcrumbs|combx|comment|community|cover-wrap|disqus|extra|footer|gdpr|header|legends|menu|related|remark|replies|rss|shoutbox|sidebar|skyscraper|social|sponsor|supplemental|ad-break|agegate|pagination|pager|popup|yom-remote`)
	RegexpMaybeCandidate     = regexp.MustCompile(`(?i)and|article|body|column|content|main|shadow`)
	RegexpPositive           = regexp.MustCompile(`(?i)article|body|content|entry|hentry|h-entry|main|page|pagination|post|text|blog|story`)
	RegexpNegative           = regexp.MustCompile(`(?i)-ad-|hidden|^hid$| hid$| hid |^hid |banner|combx|comment|com-|contact|foot|footer|footnote|gdpr|masthead|media|meta|outbrain|promo|related|scroll|share|shoutbox|sidebar|skyscraper|sponsor|shopping|tags|tool|widget`)
	RegexpByline             = regexp.MustCompile(`(?i)byline|author|dateline|writtenby|p-author`)
	RegexpNormalize          = regexp.MustCompile(`\s{2,}`)
	RegexpVideos             = regexp.MustCompile(`(?i)//(www\.)?((dailymotion|youtube|youtube-nocookie|player\.vimeo|v\.qq)\.com|(archive|upload\.wikimedia)\.org|player\.twitch\.tv|bilibili\.com)`)
	RegexpShareElements      = regexp.MustCompile(`(?i)(\b|_)(share|sharedaddy)(\b|_)`)
	RegexpHashURL            = regexp.MustCompile(`^#.+`)
	RegexpSrcsetURL          = regexp.MustCompile(`(\S+)(\s+[\d.]+[xw])?(\s*(?:,|$))`)
	RegexpB64DataURL         = regexp.MustCompile(`(?i)^data:\s*([^\s;,]+)\s*;\s*base64\s*,`)
	RegexpImageExtension     = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)`)
	RegexpImageExtensionSize = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)\s+\d`)
	RegexpImageURLOnly       = regexp.MustCompile(`(?i)^\s*\S+\.(jpg|jpeg|png|webp)\S*\s*$`)
	RegexpJSONLDArticleTypes = regexp.MustCompile(`^Article|AdvertiserContentArticle|NewsArticle|AnalysisNewsArticle|AskPublicNewsArticle|BackgroundNewsArticle|OpinionNewsArticle|ReportageNewsArticle|ReviewNewsArticle|Report|SatiricalArticle|ScholarlyArticle|MedicalScholarlyArticle|SocialMediaPosting|BlogPosting|LiveBlogPosting|DiscussionForumPosting|TechArticle|APIReference$`)
	RegexpSchemaOrg          = regexp.MustCompile(`(?i)^https?://schema\.org/?$`)
	RegexpHierarchicalSep    = regexp.MustCompile(` [\|\-–—\\/>»] `)
	RegexpHierarchicalSepXY  = regexp.MustCompile(` [\\/>»] `)
	RegexpTitleSplitterLast  = regexp.MustCompile(`(.*)[\|\-–—\\/>»] .*`)
	RegexpTitleSplitterFirst = regexp.MustCompile(`[^\|\-–—\\/>»]*[\|\-–—\\/>»](.*)`)
	RegexpTitleSepStrip      = regexp.MustCompile(`[\|\-–—\\/>»]+`)
	RegexpAdWords            = regexp.MustCompile(`(?i)^(ad(vertising|vertisement)?|pub(licité)?|werbung|广告|Реклама|Anuncio)$`)
	RegexpLoadingWords       = regexp.MustCompile(`(?i)^(loading|正在加载|Загрузка|cargando)$`)
	RegexpMetaProperty       = regexp.MustCompile(`(?i)^\s*(article|dc|dcterm|og|twitter)\s*:\s*(author|creator|description|published_time|title|site_name)\s*$`)
	RegexpMetaName           = regexp.MustCompile(`(?i)^\s*(?:(dc|dcterm|og|twitter|parsely|weibo:(?:article|webpage))[-.:]\s*)?(author|creator|pub-date|description|title|site_name)\s*$`)
	RegexpCommaClass         = regexp.MustCompile(`[,，،﹐︐︑⹁⸴⸲]`)
)
