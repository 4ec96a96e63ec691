package stats

import (
	"shipping/estimator/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Tier names which resolution level produced an estimate.
type Tier string

const (
	TierExact   Tier = "exact"
	TierParent  Tier = "parent"
	TierRoot    Tier = "root"
	TierDefault Tier = "default"
)

// Resolver finds the best available fallback estimate for a category path.
type Resolver struct {
	table  *Table
	parser *PathParser
}

func NewResolver(table *Table, parser *PathParser) *Resolver {
	if parser == nil {
		parser = NewPathParser(nil)
	}
	return &Resolver{table: table, parser: parser}
}

// Resolve never fails; paths that match nothing get the global default.
func (r *Resolver) Resolve(categoryPath string) domain.FallbackEstimate {
	est, _ := r.ResolveTier(categoryPath)
	return est
}

// ResolveTier is Resolve plus the tier that produced the answer. The first
// tier with any match wins; tiers are never blended.
func (r *Resolver) ResolveTier(categoryPath string) (domain.FallbackEstimate, Tier) {
	if categoryPath == "" || r.table.Len() == 0 {
		return domain.DefaultFallback(), TierDefault
	}

	segments := r.parser.Segments(categoryPath)

	if key, ok := ExactKey(segments); ok {
		if entry, found := r.table.Lookup(key); found {
			log.Debugf("Category %q resolved by exact key %s", categoryPath, key)
			return exactEstimate(entry), TierExact
		}
	}

	if prefix, ok := PrefixKey(segments, 2); ok {
		if est, found := r.table.PrefixAverage(prefix); found {
			log.Debugf("Category %q resolved by prefix %s", categoryPath, prefix)
			return est, TierParent
		}
	}

	if prefix, ok := PrefixKey(segments, 1); ok {
		if est, found := r.table.PrefixAverage(prefix); found {
			log.Debugf("Category %q resolved by prefix %s", categoryPath, prefix)
			return est, TierRoot
		}
	}

	return domain.DefaultFallback(), TierDefault
}

func exactEstimate(entry domain.CategoryStatEntry) domain.FallbackEstimate {
	est := domain.DefaultFallback()
	if w, ok := entry.WeightMean(); ok && w > 0 {
		est.WeightGrams = w
	}
	if v, ok := entry.DerivedVolume(); ok && v > 0 {
		est.VolumeCubicCm = v
	}
	return est
}
