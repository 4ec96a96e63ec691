package stats

import (
	"strings"

	"shipping/estimator/internal/domain"
)

// Table is the immutable category statistics table. It is safe for
// concurrent readers once constructed.
type Table struct {
	entries map[string]domain.CategoryStatEntry
	// prefixes maps "root|" and "root|parent|" to the aggregate over all
	// entries whose key starts with that prefix.
	prefixes map[string]aggregate
}

type aggregate struct {
	matches     int
	weightSum   float64
	weightCount int
	volumeSum   float64
	volumeCount int
}

func (a *aggregate) add(e domain.CategoryStatEntry) {
	a.matches++
	if w, ok := e.WeightMean(); ok && w > 0 {
		a.weightSum += w
		a.weightCount++
	}
	if v, ok := e.VolumeMean(); ok && v > 0 {
		a.volumeSum += v
		a.volumeCount++
	}
}

func (a aggregate) estimate() domain.FallbackEstimate {
	est := domain.DefaultFallback()
	if a.weightCount > 0 {
		est.WeightGrams = a.weightSum / float64(a.weightCount)
	}
	if a.volumeCount > 0 {
		est.VolumeCubicCm = a.volumeSum / float64(a.volumeCount)
	}
	return est
}

// NewTable normalizes keys and precomputes the prefix aggregates used by the
// coarser resolution tiers. The input map is not retained.
func NewTable(entries map[string]domain.CategoryStatEntry) *Table {
	t := &Table{
		entries:  make(map[string]domain.CategoryStatEntry, len(entries)),
		prefixes: make(map[string]aggregate),
	}

	for key, entry := range entries {
		t.entries[NormalizeKey(key)] = entry
	}

	for key, entry := range t.entries {
		parts := strings.Split(key, domain.CategoryKeySeparator)
		if len(parts) >= 2 {
			t.addPrefix(parts[0]+domain.CategoryKeySeparator, entry)
		}
		if len(parts) >= 3 {
			t.addPrefix(parts[0]+domain.CategoryKeySeparator+parts[1]+domain.CategoryKeySeparator, entry)
		}
	}

	return t
}

func (t *Table) addPrefix(prefix string, entry domain.CategoryStatEntry) {
	agg := t.prefixes[prefix]
	agg.add(entry)
	t.prefixes[prefix] = agg
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Lookup returns the entry stored under an exact key.
func (t *Table) Lookup(key string) (domain.CategoryStatEntry, bool) {
	if t == nil {
		return domain.CategoryStatEntry{}, false
	}
	e, ok := t.entries[key]
	return e, ok
}

// PrefixAverage returns the averaged estimate over every entry whose key
// starts with prefix. ok is false when no key matches.
func (t *Table) PrefixAverage(prefix string) (domain.FallbackEstimate, bool) {
	if t == nil {
		return domain.FallbackEstimate{}, false
	}
	agg, ok := t.prefixes[prefix]
	if !ok || agg.matches == 0 {
		return domain.FallbackEstimate{}, false
	}
	return agg.estimate(), true
}
