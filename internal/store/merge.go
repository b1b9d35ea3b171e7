package store

import (
	"address-reconciler/internal/models"
	"address-reconciler/internal/normalize"
)

// Merge overlays incoming records onto existing ones that share the same
// canonical address and appends the rest. The result is a new slice; the
// inputs are not modified.
func Merge(incoming, existing []models.Record) []models.Record {
	merged, _ := reconcile(incoming, existing, nil)
	return merged
}

// Delta returns the incoming records that are new or would change their
// existing counterpart, in the form they take after the merge.
func Delta(incoming, existing []models.Record) []models.Record {
	_, delta := reconcile(incoming, existing, nil)
	return delta
}

// reconcile computes merge and delta in one pass. A record is identified by
// its id first and by its canonical address second; records without a
// usable address can only be matched by id or by full equality. When newID
// is set, changed records that still lack an id receive one.
func reconcile(incoming, existing []models.Record, newID func() string) (merged, delta []models.Record) {
	merged = make([]models.Record, 0, len(existing)+len(incoming))
	byKey := make(map[string]int, len(existing))
	byID := make(map[string]int, len(existing))

	index := func(pos int) {
		r := merged[pos]
		if id := r.ID(); id != "" {
			if _, seen := byID[id]; !seen {
				byID[id] = pos
			}
		}
		if key, ok := normalize.RecordKey(r); ok {
			if _, seen := byKey[key]; !seen {
				byKey[key] = pos
			}
		}
	}

	for _, r := range existing {
		merged = append(merged, r.Clone())
		index(len(merged) - 1)
	}

	var changed []int
	marked := make(map[int]bool)
	mark := func(pos int) {
		if !marked[pos] {
			marked[pos] = true
			changed = append(changed, pos)
		}
	}

	for _, in := range incoming {
		pos, found := -1, false
		if id := in.ID(); id != "" {
			pos, found = byID[id]
		}
		if !found {
			if key, ok := normalize.RecordKey(in); ok {
				pos, found = byKey[key]
			} else if in.ID() == "" {
				pos, found = findEqual(merged, in)
			}
		}

		if found {
			updated := overlay(merged[pos], in)
			if !updated.Equal(merged[pos]) {
				merged[pos] = updated
				index(pos)
				mark(pos)
			}
			continue
		}

		merged = append(merged, in.Clone())
		index(len(merged) - 1)
		mark(len(merged) - 1)
	}

	delta = make([]models.Record, 0, len(changed))
	for _, pos := range changed {
		if newID != nil && merged[pos].ID() == "" {
			merged[pos][models.FieldID] = newID()
		}
		delta = append(delta, merged[pos].Clone())
	}
	return merged, delta
}

// findEqual locates a record that already holds every non-empty field of r;
// the only way to recognise a row that has neither an id nor a usable
// address. Ids assigned on an earlier store and fields added since, such as
// geocode results, do not prevent the match.
func findEqual(records []models.Record, r models.Record) (int, bool) {
	for i, candidate := range records {
		if covers(candidate, r) {
			return i, true
		}
	}
	return -1, false
}

func covers(candidate, r models.Record) bool {
	n := 0
	for k, v := range r {
		if k == models.FieldID || v == "" {
			continue
		}
		if candidate[k] != v {
			return false
		}
		n++
	}
	return n > 0
}

// overlay copies the fields of in over base. Incoming values win, except
// that an empty value never blanks an existing one and an existing id is
// never replaced.
func overlay(base, in models.Record) models.Record {
	out := base.Clone()
	for k, v := range in {
		if v == "" && out[k] != "" {
			continue
		}
		if k == models.FieldID && out[k] != "" {
			continue
		}
		out[k] = v
	}
	return out
}
