package watcher

import (
	"testing"

	"albowatch-backend/lib/scrapers/albo"
	"albowatch-backend/services/watcher/store"

	"github.com/google/go-cmp/cmp"
)

func acts(ids ...string) []albo.Act {
	var out []albo.Act
	for _, id := range ids {
		out = append(out, albo.Act{Id: id})
	}
	return out
}

func ids(in []albo.Act) []string {
	var out []string
	for _, a := range in {
		out = append(out, a.Id)
	}
	return out
}

func TestSelectNew(t *testing.T) {
	testCases := []struct {
		name       string
		candidates []albo.Act
		known      store.Snapshot
		expected   []string
	}{
		{
			name:       "all new on empty snapshot",
			candidates: acts("3", "2", "1"),
			known:      store.Snapshot{},
			expected:   []string{"3", "2", "1"},
		},
		{
			name:       "known ids dropped, order preserved",
			candidates: acts("5", "4", "3", "2"),
			known:      store.Snapshot{"4": {}, "2": {}},
			expected:   []string{"5", "3"},
		},
		{
			name:       "duplicate in one run kept once",
			candidates: acts("3", "2", "3", "1"),
			known:      store.Snapshot{},
			expected:   []string{"3", "2", "1"},
		},
		{
			name:       "nothing new",
			candidates: acts("2", "1"),
			known:      store.Snapshot{"1": {}, "2": {}},
			expected:   nil,
		},
		{
			name:       "empty candidates",
			candidates: nil,
			known:      store.Snapshot{"1": {}},
			expected:   nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := selectNew(tc.candidates, tc.known)
			if diff := cmp.Diff(tc.expected, ids(got)); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}
