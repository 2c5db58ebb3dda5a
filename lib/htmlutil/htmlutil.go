package htmlutil

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// Lines returns every text node under the selection as its own
// trimmed line, skipping whitespace-only nodes. Table cells on
// legacy sites carry several labelled values inside one <td>, so
// callers index into the result positionally.
func Lines(sel *goquery.Selection) []string {
	var lines []string
	for _, n := range sel.Nodes {
		collectLines(n, &lines)
	}
	return lines
}

func collectLines(node *html.Node, out *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		text := strings.TrimSpace(node.Data)
		if text != "" {
			*out = append(*out, text)
		}
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectLines(child, out)
	}
}

// Line is Lines with bounds checking, an out-of-range index
// yields an empty string.
func Line(sel *goquery.Selection, idx int) string {
	lines := Lines(sel)
	if idx < 0 || idx >= len(lines) {
		return ""
	}
	return lines[idx]
}

type Anchor struct {
	Name string
	Href string
}

var anyWhitespace = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText collapses whitespace runs (newlines included) into single
// spaces and drops non-printable runes.
func CleanText(s string) string {
	s = anyWhitespace.ReplaceAllString(s, " ")
	s = removeNonPrintable(s)
	return strings.Trim(s, " ")
}

// ResolveAnchors collects every <a> in the selection, resolving hrefs
// against the given base so callers always see absolute urls. Anchors
// with unparseable hrefs are dropped.
func ResolveAnchors(base *url.URL, sel *goquery.Selection) []Anchor {
	var anchors []Anchor
	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, err := Resolve(base, a.AttrOr("href", ""))
		if err != nil {
			return
		}
		anchors = append(anchors, Anchor{
			Name: CleanText(a.Text()),
			Href: href,
		})
	})
	return anchors
}

// Resolve resolves a possibly-relative href against base, returning
// an absolute url string.
func Resolve(base *url.URL, href string) (string, error) {
	if base == nil {
		return href, nil
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
