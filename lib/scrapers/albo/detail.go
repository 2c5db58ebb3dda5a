package albo

import (
	"context"

	"albowatch-backend/lib/htmlutil"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const attachmentsSelector = "#allegati"

// FetchAttachments loads an act's detail page and collects the
// anchors inside its attachment panel, urls resolved absolute.
// an act without an attachment panel yields nil, not an error.
func (c *Client) FetchAttachments(ctx context.Context, detailUrl string) ([]Attachment, error) {
	ctx, span := tracer.Start(ctx, "FetchAttachments")
	defer span.End()
	span.SetAttributes(attribute.String("url", detailUrl))

	doc, err := c.fetchDocument(ctx, detailUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch detail page")
		return nil, err
	}

	var attachments []Attachment
	for _, anchor := range htmlutil.ResolveAnchors(c.BaseUrl, doc.Find(attachmentsSelector)) {
		name := anchor.Name
		if name == "" {
			name = "Allegato"
		}
		attachments = append(attachments, Attachment{
			Name: name,
			Url:  anchor.Href,
		})
	}

	span.SetAttributes(attribute.Int("attachments", len(attachments)))
	return attachments, nil
}
