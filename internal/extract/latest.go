// Package extract turns one patient's OMOP source records into the sections
// of a patient summary. Every function here is pure: inputs are never
// mutated and no extractor reads another's output.
package extract

import "time"

// Latest returns the item with the greatest date. Items whose date is unknown
// lose to any dated item; ties keep the earlier item in the slice. The bool
// is false only for an empty slice.
func Latest[T any](items []T, date func(T) *time.Time) (T, bool) {
	var best T
	if len(items) == 0 {
		return best, false
	}
	best = items[0]
	bestDate := date(best)
	for _, it := range items[1:] {
		d := date(it)
		if d == nil {
			continue
		}
		if bestDate == nil || d.After(*bestDate) {
			best, bestDate = it, d
		}
	}
	return best, true
}

// latestBy groups items by key and keeps the most recent item per key.
func latestBy[T any](items []T, key func(T) string, date func(T) *time.Time) map[string]T {
	groups := make(map[string][]T)
	for _, it := range items {
		k := key(it)
		if k == "" {
			continue
		}
		groups[k] = append(groups[k], it)
	}
	out := make(map[string]T, len(groups))
	for k, g := range groups {
		if v, ok := Latest(g, date); ok {
			out[k] = v
		}
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return ptr(*t)
}
