package watcher

import (
	"albowatch-backend/lib/scrapers/albo"
	"albowatch-backend/services/watcher/store"
)

// selectNew filters the candidate sequence down to acts not present
// in the snapshot, preserving input order. if the same id shows up
// twice in one traversal (the site can reorder rows between page
// fetches) the first occurrence wins.
func selectNew(candidates []albo.Act, known store.Snapshot) []albo.Act {
	var fresh []albo.Act
	seen := map[string]struct{}{}
	for _, act := range candidates {
		if known.Has(act.Id) {
			continue
		}
		if _, dup := seen[act.Id]; dup {
			continue
		}
		seen[act.Id] = struct{}{}
		fresh = append(fresh, act)
	}
	return fresh
}
