package htmlutil

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func docFromString(t *testing.T, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestLines(t *testing.T) {
	doc := docFromString(t, `<table><tr><td>
		<span>N.</span> <b>123/2024</b>
		<span>  </span>
		<span>Registro <i>ALBO</i></span>
	</td></tr></table>`)

	got := Lines(doc.Find("td"))
	expected := []string{"N.", "123/2024", "Registro", "ALBO"}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatal(diff)
	}

	require.Equal(t, "123/2024", Line(doc.Find("td"), 1))
	require.Equal(t, "", Line(doc.Find("td"), 10))
	require.Equal(t, "", Line(doc.Find("td"), -1))
}

func TestResolveAnchors(t *testing.T) {
	base, err := url.Parse("https://example.com/mc/")
	require.NoError(t, err)

	doc := docFromString(t, `<div id="allegati">
		<a href="mc_attachment.php?id=1">  Allegato   A </a>
		<a href="/absolute/doc.pdf">Allegato B</a>
	</div>`)

	got := ResolveAnchors(base, doc.Find("#allegati"))
	expected := []Anchor{
		{Name: "Allegato A", Href: "https://example.com/mc/mc_attachment.php?id=1"},
		{Name: "Allegato B", Href: "https://example.com/absolute/doc.pdf"},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestResolve(t *testing.T) {
	base, err := url.Parse("https://example.com/mc/mc_p_ricerca.php")
	require.NoError(t, err)

	abs, err := Resolve(base, "mc_p_dettaglio.php?id=77")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/mc/mc_p_dettaglio.php?id=77", abs)
}
