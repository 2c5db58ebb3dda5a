package watcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"albowatch-backend/lib/scrapers/albo"
	"albowatch-backend/lib/telemetry"
	"albowatch-backend/services/watcher/store"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	snap    store.Snapshot
	loadErr error
	saveErr error
	saves   int
	saved   store.Snapshot
}

func (f *fakeStore) Load(ctx context.Context) (store.Snapshot, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := store.Snapshot{}
	for id, entry := range f.snap {
		out[id] = entry
	}
	return out, nil
}

func (f *fakeStore) Save(ctx context.Context, snap store.Snapshot) error {
	f.saves++
	f.saved = snap
	return f.saveErr
}

func boardRow(id string) string {
	return fmt.Sprintf(`<tr>
		<td><span>N.</span> <span>%s</span> <span>Registro</span> <span>ALBO</span> <span>Tipo:</span> <span>Determina</span></td>
		<td><a href="/mc_p_dettaglio.php?id=%s">Atto %s</a></td>
		<td></td>
		<td></td>
		<td><span>Dal</span> <span>01/08/2026</span></td>
		<td></td>
		<td class="visible-xs" data-id="%s"></td>
	</tr>`, id, id, id, id)
}

func boardServer(t *testing.T, rowIds []string, attachmentsPerDetail int) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/albo", func(w http.ResponseWriter, r *http.Request) {
		rows := ""
		for _, id := range rowIds {
			rows += boardRow(id)
		}
		fmt.Fprintf(w, `<html><body><table id="table-albo"><tbody>%s</tbody></table></body></html>`, rows)
	})
	mux.HandleFunc("/mc_p_dettaglio.php", func(w http.ResponseWriter, r *http.Request) {
		anchors := ""
		for i := 1; i <= attachmentsPerDetail; i++ {
			anchors += fmt.Sprintf(`<a href="/mc_attachment.php?id=%s-%d">Allegato %d</a>`, r.URL.Query().Get("id"), i, i)
		}
		fmt.Fprintf(w, `<html><body><div id="allegati">%s</div></body></html>`, anchors)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func setup(t *testing.T, server *httptest.Server, st store.Store, notifier *fakeNotifier, enrich bool) Service {
	cleanup := telemetry.SetupForTesting(t, "test:services/watcher")
	t.Cleanup(cleanup)

	scraper, err := albo.NewClient(albo.ClientOptions{BaseUrl: server.URL + "/"})
	require.NoError(t, err)

	return NewService(scraper, st, notifier, Options{
		EntryUrl:      server.URL + "/albo",
		EnrichDetails: enrich,
	})
}

func TestRunNotifiesAndPersists(t *testing.T) {
	server := boardServer(t, []string{"3", "2", "1"}, 0)
	st := &fakeStore{snap: store.Snapshot{"1": {Numero: "1", Oggetto: "Atto 1"}}}
	notifier := &fakeNotifier{}
	s := setup(t, server, st, notifier, false)

	summary := s.Run(context.Background())

	require.Equal(t, 1, summary.Pages)
	require.Equal(t, 3, summary.Candidates)
	require.Equal(t, 2, summary.New)
	require.Equal(t, 2, summary.Notified)
	require.True(t, summary.Persisted)

	// oldest first
	require.Len(t, notifier.sent, 2)
	require.Contains(t, notifier.sent[0], "Atto 2")
	require.Contains(t, notifier.sent[1], "Atto 3")

	require.Equal(t, 1, st.saves)
	require.True(t, st.saved.Has("1"))
	require.True(t, st.saved.Has("2"))
	require.True(t, st.saved.Has("3"))
	require.Equal(t, store.Entry{Numero: "3", Oggetto: "Atto 3"}, st.saved["3"])
}

func TestRunSkipsWriteWhenNothingNew(t *testing.T) {
	server := boardServer(t, []string{"2", "1"}, 0)
	st := &fakeStore{snap: store.Snapshot{
		"1": {Numero: "1", Oggetto: "Atto 1"},
		"2": {Numero: "2", Oggetto: "Atto 2"},
	}}
	notifier := &fakeNotifier{}
	s := setup(t, server, st, notifier, false)

	summary := s.Run(context.Background())

	require.Equal(t, 0, summary.New)
	require.Equal(t, 0, summary.Notified)
	require.False(t, summary.Persisted)
	require.Empty(t, notifier.sent)
	require.Equal(t, 0, st.saves)
}

func TestRunUnreadableSnapshotTreatsAllAsNew(t *testing.T) {
	server := boardServer(t, []string{"2", "1"}, 0)
	st := &fakeStore{loadErr: fmt.Errorf("store unavailable")}
	notifier := &fakeNotifier{}
	s := setup(t, server, st, notifier, false)

	summary := s.Run(context.Background())

	require.Equal(t, 2, summary.New)
	require.Equal(t, 2, summary.Notified)
	require.True(t, summary.Persisted)
}

func TestRunSnapshotWriteFailure(t *testing.T) {
	server := boardServer(t, []string{"1"}, 0)
	st := &fakeStore{snap: store.Snapshot{}, saveErr: fmt.Errorf("rate limited")}
	notifier := &fakeNotifier{}
	s := setup(t, server, st, notifier, false)

	summary := s.Run(context.Background())

	// the notification already went out, only persistence failed
	require.Equal(t, 1, summary.Notified)
	require.False(t, summary.Persisted)
}

func TestRunEnrichFailureStillNotifies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/albo", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><table id="table-albo"><tbody>%s</tbody></table></body></html>`, boardRow("1"))
	})
	mux.HandleFunc("/mc_p_dettaglio.php", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	st := &fakeStore{snap: store.Snapshot{}}
	notifier := &fakeNotifier{}
	s := setup(t, server, st, notifier, true)

	summary := s.Run(context.Background())

	// a broken detail page only costs the attachment list
	require.Equal(t, 1, summary.Notified)
	require.True(t, summary.Persisted)
	require.Len(t, notifier.sent, 1)
	require.NotContains(t, notifier.sent[0], "*Allegati:*")
	require.Contains(t, notifier.sent[0], "[Vedi Dettagli e Allegati](")
}

func TestRunEnrichesDetails(t *testing.T) {
	server := boardServer(t, []string{"1"}, 2)
	st := &fakeStore{snap: store.Snapshot{}}
	notifier := &fakeNotifier{}
	s := setup(t, server, st, notifier, true)

	summary := s.Run(context.Background())

	require.Equal(t, 1, summary.Notified)
	require.Len(t, notifier.sent, 1)
	require.Contains(t, notifier.sent[0], "*Allegati:*")
	require.Contains(t, notifier.sent[0], "[Allegato 1](")
	require.Contains(t, notifier.sent[0], "[Allegato 2](")
}
