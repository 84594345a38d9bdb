package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"imbexp/domain/core"
	domain "imbexp/domain/dataset"
)

// StratifiedSplit partitions t into train and held-out parts so every label keeps
// roughly its share in both. Labels seen once stay in train.
func StratifiedSplit(t domain.Table, heldOutFraction float64, rng *rand.Rand) (domain.Table, domain.Table, error) {
	if heldOutFraction <= 0 || heldOutFraction >= 1 {
		return domain.Table{}, domain.Table{}, core.NewValidationError("held_out_fraction", fmt.Sprintf("%v not in (0, 1)", heldOutFraction))
	}
	if t.Len() < 2 {
		return domain.Table{}, domain.Table{}, fmt.Errorf("%w: need at least 2 rows to split, got %d", core.ErrInsufficientData, t.Len())
	}

	strata := make(map[int][]int)
	for i, label := range t.Y {
		strata[label] = append(strata[label], i)
	}
	labels := make([]int, 0, len(strata))
	for label := range strata {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	var trainIdx, heldOutIdx []int
	for _, label := range labels {
		members := append([]int(nil), strata[label]...)
		rng.Shuffle(len(members), func(i, j int) {
			members[i], members[j] = members[j], members[i]
		})

		n := len(members)
		heldOut := int(math.Round(float64(n) * heldOutFraction))
		if n >= 2 {
			if heldOut < 1 {
				heldOut = 1
			}
			if heldOut > n-1 {
				heldOut = n - 1
			}
		} else {
			heldOut = 0
		}

		heldOutIdx = append(heldOutIdx, members[:heldOut]...)
		trainIdx = append(trainIdx, members[heldOut:]...)
	}

	rng.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })
	rng.Shuffle(len(heldOutIdx), func(i, j int) { heldOutIdx[i], heldOutIdx[j] = heldOutIdx[j], heldOutIdx[i] })

	return t.Subset(trainIdx), t.Subset(heldOutIdx), nil
}

// FixedSplit is StratifiedSplit with its own generator seeded by seed, so the
// same table and seed always produce the same partition
func FixedSplit(t domain.Table, testFraction float64, seed int64) (domain.Table, domain.Table, error) {
	return StratifiedSplit(t, testFraction, rand.New(rand.NewSource(seed)))
}
