package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"albowatch-backend/lib/scrapers/albo"
)

// how many attachments get their own link before collapsing into a
// single "see all" link
const attachmentLinkCap = 3

func formatMessage(act albo.Act) string {
	parts := []string{
		"🔔 *Nuova Pubblicazione all'Albo Pretorio*",
		fmt.Sprintf("\n*Oggetto:* %s", act.Subject),
		fmt.Sprintf("\n*Tipo Atto:* %s", act.Type),
		fmt.Sprintf("*Numero:* %s del %s", act.Number, act.PublishedOn),
	}

	if act.DocumentUrl != "" {
		parts = append(parts, fmt.Sprintf("\n[Scarica Documento Principale](%s)", act.DocumentUrl))
	}

	if len(act.Attachments) > 0 {
		shown := act.Attachments
		if len(shown) > attachmentLinkCap {
			shown = shown[:attachmentLinkCap]
		}
		parts = append(parts, "\n*Allegati:*")
		for _, a := range shown {
			parts = append(parts, fmt.Sprintf("[%s](%s)", a.Name, a.Url))
		}
		if rest := len(act.Attachments) - len(shown); rest > 0 {
			parts = append(parts, fmt.Sprintf("[+%d altri allegati, vedi tutti](%s)", rest, act.DetailUrl))
		}
	} else if act.DetailUrl != "" {
		parts = append(parts, fmt.Sprintf("\n[Vedi Dettagli e Allegati](%s)", act.DetailUrl))
	}

	return strings.Join(parts, "\n")
}

// dispatch sends one message per act, oldest first. discovery order
// is newest-first because that's how the board lists acts, so the
// batch is walked in reverse. a rejected send is logged and the rest
// of the batch still goes out.
func (s Service) dispatch(ctx context.Context, fresh []albo.Act) int {
	sent := 0
	for i := len(fresh) - 1; i >= 0; i-- {
		act := fresh[i]
		err := s.notifier.Send(ctx, formatMessage(act))
		if err != nil {
			slog.ErrorContext(
				ctx, "failed to send notification",
				"act", act.Id,
				"numero", act.Number,
				"err", err,
			)
		} else {
			sent++
			slog.InfoContext(ctx, "notified new act", "act", act.Id, "numero", act.Number)
		}
		sleep(ctx, s.opts.Delays.Notify)
	}
	return sent
}
