package core

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// voidElements is the fixed set of HTML elements with no closing tag,
// reused by the XML serializer to decide when to self-close.
var voidElements = map[string]bool{
	"AREA": true, "BASE": true, "BR": true, "COL": true, "EMBED": true,
	"HR": true, "IMG": true, "INPUT": true, "LINK": true, "META": true,
	"PARAM": true, "SOURCE": true, "TRACK": true, "WBR": true,
}

// serialize renders article per spec §4.5: HTML by default, or XML when
// requested, so boolean attributes keep their explicit `name="name"`
// spelling. See SPEC_FULL.md / DESIGN.md for why explicit-boolean
// detection is not attempted against the original source text: this
// implementation always promotes the fixed boolean-attribute whitelist
// to `name="name"` under the XML dialect, per spec §9's documented
// open-question choice (b).
func (p *Parser) serialize(article *goquery.Selection) (string, error) {
	if p.opts.Serializer != nil {
		v, err := p.opts.Serializer(article)
		if err != nil {
			return "", err
		}
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprintf("%v", v), nil
	}
	if p.opts.UseXMLSerializer {
		n := article.Get(0)
		if n == nil {
			return "", nil
		}
		var b strings.Builder
		writeXML(&b, n)
		return b.String(), nil
	}
	out, err := goquery.OuterHtml(article)
	if err != nil {
		return "", err
	}
	return out, nil
}

func writeXML(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		tag := n.Data
		b.WriteByte('<')
		b.WriteString(tag)
		for _, attr := range n.Attr {
			writeXMLAttr(b, tag, attr)
		}
		if voidElements[strings.ToUpper(tag)] {
			b.WriteString(" />")
			return
		}
		b.WriteByte('>')
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeXML(b, c)
		}
		b.WriteString("</")
		b.WriteString(tag)
		b.WriteByte('>')
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeXML(b, c)
		}
	}
}

func writeXMLAttr(b *strings.Builder, tag string, attr html.Attribute) {
	b.WriteByte(' ')
	b.WriteString(attr.Key)
	b.WriteString(`="`)
	val := attr.Val
	if val == "" && BooleanAttributes[strings.ToLower(attr.Key)] {
		val = attr.Key
	}
	b.WriteString(html.EscapeString(val))
	b.WriteByte('"')
}
