// Package watcher runs the end-to-end check: walk the board, pick
// out acts the snapshot hasn't seen, notify them oldest-first and
// persist the grown snapshot.
package watcher

import (
	"context"
	"log/slog"
	"time"

	"albowatch-backend/lib/notify"
	"albowatch-backend/lib/scrapers/albo"
	"albowatch-backend/services/watcher/store"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/watcher")

type Service struct {
	scraper  *albo.Client
	store    store.Store
	notifier notify.Notifier
	opts     Options
}

type Options struct {
	EntryUrl string
	MaxPages int
	// fetch each new act's detail page for its attachment list
	EnrichDetails bool
	Delays        Delays
}

// Delays are the fixed pauses between successive network calls, the
// only rate control applied. tests inject zeroes.
type Delays struct {
	Page   time.Duration
	Detail time.Duration
	Notify time.Duration
}

func NewService(scraper *albo.Client, st store.Store, notifier notify.Notifier, opts Options) Service {
	return Service{
		scraper:  scraper,
		store:    st,
		notifier: notifier,
		opts:     opts,
	}
}

type Summary struct {
	Pages      int
	Candidates int
	New        int
	Notified   int
	Persisted  bool
}

// Run performs one full check. partial failures (a page fetch dying
// mid-traversal, a rejected notification, an unwritable snapshot) are
// logged and absorbed, the run itself always completes.
func (s Service) Run(ctx context.Context) Summary {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	runId, _ := random.String(8)
	slog.InfoContext(ctx, "checking board for new acts", "run_id", runId, "entry_url", s.opts.EntryUrl)

	snap, err := s.store.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to load snapshot, treating every act as new", "err", err)
		snap = store.Snapshot{}
	}
	slog.DebugContext(ctx, "loaded snapshot", "known_ids", len(snap))

	walk, err := s.scraper.WalkListing(ctx, s.opts.EntryUrl, albo.WalkOptions{
		MaxPages:  s.opts.MaxPages,
		PageDelay: s.opts.Delays.Page,
	})
	if err != nil {
		// acts collected before the failure are still processed
		slog.WarnContext(ctx, "listing traversal ended early", "err", err)
		span.RecordError(err)
	}

	fresh := selectNew(walk.Acts, snap)
	if s.opts.EnrichDetails {
		s.enrich(ctx, fresh)
	}

	notified := s.dispatch(ctx, fresh)

	persisted := false
	if len(fresh) > 0 {
		for _, act := range fresh {
			snap[act.Id] = store.Entry{Numero: act.Number, Oggetto: act.Subject}
		}
		err = s.store.Save(ctx, snap)
		if err != nil {
			slog.ErrorContext(ctx, "failed to persist snapshot, acts may be re-notified next run", "err", err)
		} else {
			persisted = true
		}
	}

	summary := Summary{
		Pages:      walk.Pages,
		Candidates: len(walk.Acts),
		New:        len(fresh),
		Notified:   notified,
		Persisted:  persisted,
	}
	span.SetAttributes(
		attribute.Int("pages", summary.Pages),
		attribute.Int("candidates", summary.Candidates),
		attribute.Int("new", summary.New),
		attribute.Int("notified", summary.Notified),
		attribute.Bool("persisted", summary.Persisted),
	)
	slog.InfoContext(
		ctx, "check complete",
		"run_id", runId,
		"pages", summary.Pages,
		"candidates", summary.Candidates,
		"new", summary.New,
		"notified", summary.Notified,
		"persisted", summary.Persisted,
	)
	return summary
}

// enrich fetches attachment lists for the new acts. a failing detail
// page leaves that act's attachments empty and never aborts the run.
func (s Service) enrich(ctx context.Context, fresh []albo.Act) {
	for i := range fresh {
		if fresh[i].DetailUrl == "" {
			continue
		}
		attachments, err := s.scraper.FetchAttachments(ctx, fresh[i].DetailUrl)
		if err != nil {
			slog.WarnContext(
				ctx, "failed to fetch attachments",
				"act", fresh[i].Id,
				"err", err,
			)
		} else {
			fresh[i].Attachments = attachments
		}
		sleep(ctx, s.opts.Delays.Detail)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
