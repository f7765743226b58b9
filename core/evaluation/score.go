package evaluation

// TotalScore computes the weighted-percentage aggregate of a scoring pass:
//
//	100 * Σ (score_i / maxScore_i) * weight_i
//
// A line with a non-positive max score contributes 0 instead of dividing by
// zero. The result is not clamped: rubrics whose active weights sum past 1 can
// legitimately yield totals above 100, and hiding that here would mask the
// rubric misconfiguration.
func TotalScore(scores []CriteriaScore) float64 {
	var total float64
	for _, cs := range scores {
		if cs.MaxScore <= 0 {
			continue
		}
		total += (cs.Score / cs.MaxScore) * cs.Weight
	}
	return total * 100
}
