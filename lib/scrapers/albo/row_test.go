package albo

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const actRowMarkup = `<tr>
	<td class="hidden-xs">
		<span>N.</span> <span>455</span>
		<span>Registro</span> <span>ALBO</span>
		<span>Tipo atto:</span> <span>Delibera di Giunta</span>
	</td>
	<td><a href="mc_p_dettaglio.php?id=455">Approvazione  bilancio
		di previsione</a></td>
	<td>Area Amministrativa</td>
	<td>Ufficio Segreteria</td>
	<td><span>Dal</span> <span>01/08/2026</span> <span>Al</span> <span>16/08/2026</span></td>
	<td><a href="#" onclick="window.open('mc_attachment.php?id=77')"><i class="fa fa-file-pdf-o"></i></a></td>
	<td class="visible-xs" data-id="455"></td>
</tr>`

func rowsFromMarkup(t *testing.T, rows string) *goquery.Selection {
	markup := fmt.Sprintf(`<table id="table-albo"><tbody>%s</tbody></table>`, rows)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc.Find(rowSelector)
}

func testClient(t *testing.T, baseUrl string) *Client {
	client, err := NewClient(ClientOptions{BaseUrl: baseUrl})
	require.NoError(t, err)
	return client
}

func TestExtractRow(t *testing.T) {
	client := testClient(t, "https://www.example.com/c065001/mc/")

	rows := rowsFromMarkup(t, actRowMarkup)
	require.Equal(t, 1, rows.Length())

	act, ok := client.extractRow(rows.First())
	require.True(t, ok)

	expected := Act{
		Id:          "455",
		Number:      "455",
		Type:        "Delibera di Giunta",
		Subject:     "Approvazione bilancio di previsione",
		PublishedOn: "01/08/2026",
		DetailUrl:   "https://www.example.com/c065001/mc/mc_p_dettaglio.php?id=455",
		DocumentUrl: "https://www.example.com/c065001/mc/mc_attachment.php?id=77",
	}
	if diff := cmp.Diff(expected, act); diff != "" {
		t.Fatal(diff)
	}
}

func TestExtractRowSkips(t *testing.T) {
	client := testClient(t, "https://www.example.com/c065001/mc/")

	testCases := []struct {
		name string
		row  string
	}{
		{
			name: "single cell header row",
			row:  `<tr><td colspan="7">Pubblicazioni in corso</td></tr>`,
		},
		{
			name: "no id cell",
			row:  `<tr><td>N. 1</td><td><a href="a.php">Atto</a></td></tr>`,
		},
		{
			name: "id cell without data-id",
			row:  `<tr><td>N. 1</td><td><a href="a.php">Atto</a></td><td class="visible-xs"></td></tr>`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rows := rowsFromMarkup(t, tc.row)
			require.Equal(t, 1, rows.Length())
			_, ok := client.extractRow(rows.First())
			require.False(t, ok)
		})
	}
}

func TestExtractRowDegradedFields(t *testing.T) {
	client := testClient(t, "https://www.example.com/c065001/mc/")

	// two cells only: no subject anchor, no date cell, no document cell
	rows := rowsFromMarkup(t, `<tr>
		<td>solo</td>
		<td class="visible-xs" data-id="99"></td>
	</tr>`)
	act, ok := client.extractRow(rows.First())
	require.True(t, ok)

	expected := Act{
		Id:      "99",
		Subject: "N/D",
	}
	if diff := cmp.Diff(expected, act); diff != "" {
		t.Fatal(diff)
	}
}

func TestDocumentPath(t *testing.T) {
	testCases := []struct {
		onclick  string
		expected string
	}{
		{`window.open('mc_attachment.php?id=77')`, "mc_attachment.php?id=77"},
		{`javascript:void(0); window.open('mc_attachment.php?id=1&multiente=c065001')`, "mc_attachment.php?id=1&multiente=c065001"},
		{`window.open('')`, ""},
		{`openAttachment('mc_attachment.php?id=77')`, ""},
		{``, ""},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, documentPath(tc.onclick), "onclick=%q", tc.onclick)
	}
}
