package albo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"albowatch-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	rowSelector      = "#table-albo tbody tr"
	nextLinkSelector = `a[title="Pagina successiva"]`
)

type Listing struct {
	Acts []Act
	// rows that had enough cells to be an act candidate, whether or
	// not an id could be extracted. pagination stops when a page has
	// none of these.
	UsableRows int
	// absolute url of the next-page control, "" when absent
	NextUrl string
}

// FetchListing retrieves one listing page and extracts its rows plus
// the next-page link.
func (c *Client) FetchListing(ctx context.Context, pageUrl string) (Listing, error) {
	ctx, span := tracer.Start(ctx, "FetchListing")
	defer span.End()
	span.SetAttributes(attribute.String("url", pageUrl))

	doc, err := c.fetchDocument(ctx, pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch listing page")
		return Listing{}, err
	}

	var listing Listing
	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		if row.Find("td").Length() >= 2 {
			listing.UsableRows++
		}
		act, ok := c.extractRow(row)
		if !ok {
			return
		}
		listing.Acts = append(listing.Acts, act)
	})

	nextHref := doc.Find(nextLinkSelector).First().AttrOr("href", "")
	if nextHref != "" {
		page, err := url.Parse(pageUrl)
		if err != nil {
			page = c.BaseUrl
		}
		next, err := htmlutil.Resolve(page, nextHref)
		if err == nil {
			listing.NextUrl = next
		}
	}

	span.SetAttributes(
		attribute.Int("rows", listing.UsableRows),
		attribute.Int("acts", len(listing.Acts)),
		attribute.String("next", listing.NextUrl),
	)
	return listing, nil
}

type WalkOptions struct {
	// hard cap on visited pages, a guard against a broken site
	// serving an endless next-page chain. <=0 means DefaultMaxPages.
	MaxPages int
	// pause between page fetches, not applied before the first
	PageDelay time.Duration
}

const DefaultMaxPages = 50

// WalkResult is what one pagination traversal produced.
type WalkResult struct {
	Acts []Act
	// listing pages actually fetched, failed fetches excluded
	Pages int
}

// WalkListing follows the pagination chain from entryUrl and returns
// extractable rows concatenated in visitation order. traversal ends
// at the first page without usable rows, at a page without a
// next-page control, or on a fetch failure. on failure the acts
// collected from earlier pages are returned along with the error so
// the caller can still process partial results.
func (c *Client) WalkListing(ctx context.Context, entryUrl string, opts WalkOptions) (WalkResult, error) {
	ctx, span := tracer.Start(ctx, "WalkListing")
	defer span.End()

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var result WalkResult
	pageUrl := entryUrl
	for page := 1; page <= maxPages; page++ {
		if page > 1 {
			sleep(ctx, opts.PageDelay)
		}

		listing, err := c.FetchListing(ctx, pageUrl)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "traversal ended early")
			return result, fmt.Errorf("listing page %d: %w", page, err)
		}
		result.Pages = page

		slog.DebugContext(
			ctx, "walked listing page",
			"page", page,
			"rows", listing.UsableRows,
			"acts", len(listing.Acts),
		)

		if listing.UsableRows == 0 {
			break
		}
		result.Acts = append(result.Acts, listing.Acts...)
		if listing.NextUrl == "" {
			break
		}
		pageUrl = listing.NextUrl
	}

	span.SetAttributes(
		attribute.Int("total_acts", len(result.Acts)),
		attribute.Int("pages", result.Pages),
	)
	return result, nil
}
