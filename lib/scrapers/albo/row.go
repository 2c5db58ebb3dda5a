package albo

import (
	"regexp"
	"strings"

	"albowatch-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// the mobile-only cell carries the act id, rows without it are
// header/decoration rows
const idCellSelector = "td.visible-xs"

var documentCallRegex = regexp.MustCompile(`window\.open\('([^']*)'\)`)

// documentPath pulls the quoted argument out of an inline
// window.open handler. returns "" when the handler doesn't match.
func documentPath(onclick string) string {
	groups := documentCallRegex.FindStringSubmatch(onclick)
	if len(groups) < 2 {
		return ""
	}
	return groups[1]
}

// extractRow turns one listing table row into an Act. the second
// return is false for rows that don't represent an act: fewer than
// two cells, or no id cell. those are skipped, never an error.
//
// cell layout on Halley boards: cell 0 holds the numbered register
// labels (line 1 is the publication number, line 5 the act type),
// cell 1 the subject anchor, cell 4 the publication dates (line 1 is
// the start date), cell 5 the document anchor. missing cells and
// short cells degrade to empty fields.
func (c *Client) extractRow(row *goquery.Selection) (Act, bool) {
	cells := row.Find("td")
	if cells.Length() < 2 {
		return Act{}, false
	}
	id := row.Find(idCellSelector).First().AttrOr("data-id", "")
	if id == "" {
		return Act{}, false
	}

	act := Act{
		Id:          id,
		Number:      htmlutil.Line(cells.Eq(0), 1),
		Type:        htmlutil.Line(cells.Eq(0), 5),
		Subject:     "N/D",
		PublishedOn: htmlutil.Line(cells.Eq(4), 1),
	}

	subjectAnchor := cells.Eq(1).Find("a").First()
	if subjectAnchor.Length() > 0 {
		if subject := htmlutil.CleanText(subjectAnchor.Text()); subject != "" {
			act.Subject = subject
		}
		href, err := htmlutil.Resolve(c.BaseUrl, subjectAnchor.AttrOr("href", ""))
		if err == nil {
			act.DetailUrl = href
		}
	}

	cells.Eq(5).Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		onclick := a.AttrOr("onclick", "")
		if !strings.Contains(onclick, "mc_attachment.php") {
			return true
		}
		path := documentPath(onclick)
		if path == "" {
			return true
		}
		abs, err := htmlutil.Resolve(c.BaseUrl, path)
		if err != nil {
			return true
		}
		act.DocumentUrl = abs
		return false
	})

	return act, true
}
