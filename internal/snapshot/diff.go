package snapshot

import "sort"

// ChangeSet is the outcome of comparing two snapshots. Changed holds
// paths that are new or carry a strictly greater modification time;
// Removed holds paths present only in the old snapshot. Both are
// sorted and free of duplicates.
type ChangeSet struct {
	Changed []string
	Removed []string
}

// Empty reports whether the change set carries no paths at all.
func (cs ChangeSet) Empty() bool {
	return len(cs.Changed) == 0 && len(cs.Removed) == 0
}

// Paths returns changed and removed paths as one sorted slice, for
// diagnostics.
func (cs ChangeSet) Paths() []string {
	all := make([]string, 0, len(cs.Changed)+len(cs.Removed))
	all = append(all, cs.Changed...)
	all = append(all, cs.Removed...)
	sort.Strings(all)

	return all
}

// Diff compares old against next. A path counts as changed when it is
// absent from old or its timestamp strictly increased; equal timestamps
// are unchanged, so content edits that preserve the modification time
// go undetected.
func Diff(old, next Snapshot) ChangeSet {
	var cs ChangeSet

	for path, mtime := range next {
		if prev, ok := old[path]; !ok || mtime > prev {
			cs.Changed = append(cs.Changed, path)
		}
	}

	for path := range old {
		if _, ok := next[path]; !ok {
			cs.Removed = append(cs.Removed, path)
		}
	}

	sort.Strings(cs.Changed)
	sort.Strings(cs.Removed)

	return cs
}
