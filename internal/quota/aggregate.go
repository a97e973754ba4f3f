package quota

// Aggregate reduces raw per-auth-entry readings into one average
// remaining fraction per tracked model. Unclassifiable readings are
// dropped; a tracked model with no readings is absent from the result
// rather than defaulted to zero. Sum/count makes the reduction
// order-independent.
func Aggregate(quotas []ModelQuota) map[TrackedModel]float64 {
	type sumCount struct {
		sum   float64
		count int
	}

	agg := make(map[TrackedModel]*sumCount)
	for _, q := range quotas {
		model, ok := q.Tracked()
		if !ok {
			continue
		}
		entry := agg[model]
		if entry == nil {
			entry = &sumCount{}
			agg[model] = entry
		}
		entry.sum += q.RemainingFraction
		entry.count++
	}

	averages := make(map[TrackedModel]float64, len(agg))
	for model, entry := range agg {
		averages[model] = entry.sum / float64(entry.count)
	}
	return averages
}
