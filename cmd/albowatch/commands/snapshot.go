package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"albowatch-backend/lib/osutil"
	"albowatch-backend/services/watcher/store"

	"github.com/antzucaro/matchr"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotSearchCmd)
	rootCmd.AddCommand(snapshotCmd)
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspects the persisted snapshot of already-seen acts.",
}

func loadSnapshot(cmd *cobra.Command) store.Snapshot {
	config := mustConfig()
	st, cleanup, err := buildStore(config.Store)
	if err != nil {
		osutil.Fatal("failed to initialize snapshot store", err)
	}
	defer cleanup()

	snap, err := st.Load(cmd.Context())
	if err != nil {
		osutil.Fatal("failed to load snapshot", err)
	}
	return snap
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints every act recorded in the snapshot.",
	Run: func(cmd *cobra.Command, args []string) {
		snap := loadSnapshot(cmd)

		ids := make([]string, 0, len(snap))
		for id := range snap {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Numero", "Oggetto"})
		for _, id := range ids {
			t.AppendRow(table.Row{id, snap[id].Numero, snap[id].Oggetto})
		}
		t.Render()
	},
}

// below this similarity the entry is not considered a match
const searchThreshold = 0.75

var snapshotSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-searches recorded acts by subject.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		snap := loadSnapshot(cmd)
		query := strings.ToLower(args[0])

		type match struct {
			id    string
			score float64
		}
		var matches []match
		for id, entry := range snap {
			subject := strings.ToLower(entry.Oggetto)
			score := matchr.JaroWinkler(query, subject, false)
			if strings.Contains(subject, query) {
				score = 1
			}
			if score >= searchThreshold {
				matches = append(matches, match{id: id, score: score})
			}
		}
		sort.Slice(matches, func(i, j int) bool {
			if matches[i].score != matches[j].score {
				return matches[i].score > matches[j].score
			}
			return matches[i].id < matches[j].id
		})

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Score", "ID", "Numero", "Oggetto"})
		for _, m := range matches {
			t.AppendRow(table.Row{
				fmt.Sprintf("%.2f", m.score),
				m.id,
				snap[m.id].Numero,
				snap[m.id].Oggetto,
			})
		}
		t.Render()
	},
}
