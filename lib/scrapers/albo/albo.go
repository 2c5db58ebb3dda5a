// Package albo scrapes a Halley "Albo Pretorio" online notice board:
// a paginated HTML table of published administrative acts, plus a
// detail page per act listing its attachments.
package albo

// Act is one published record on the board. Fields are kept as the
// site displays them, publication dates included, since the board's
// formatting is not stable enough to parse.
type Act struct {
	// stable identifier assigned by the site, used for change detection
	Id string
	// the displayed publication number, not guaranteed numeric or unique
	Number      string
	Type        string
	Subject     string
	PublishedOn string
	// absolute url of the act's detail page, "" when the row had no link
	DetailUrl string
	// absolute url of the main downloadable document, "" when none
	DocumentUrl string
	// filled in by FetchAttachments, empty otherwise
	Attachments []Attachment
}

type Attachment struct {
	Name string
	Url  string
}
