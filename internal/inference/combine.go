package inference

import "slices"

// combineStep is the fold operator applied for three or more rules. prev is
// the running belief and curr the next single-rule CF.
func combineStep(prev, curr float64) float64 {
	return curr + prev*(1-curr)
}

// Combine folds the single-rule CFs of one major into its final CF.
//
//   - one value: final = s[0]
//   - two values: final = s[0] + s[1]*(1-s[0])
//   - more: left fold of combineStep over s, with no seed; every step is
//     recorded in steps
//
// The two-value branch and the fold are kept as separate formulas.
func Combine(major Major, singles []float64) (final float64, steps []float64, err error) {
	switch n := len(singles); {
	case n == 0:
		return 0, nil, &ErrInsufficientRules{Major: major.Code, Name: major.Name, Count: n}
	case n == 1:
		return singles[0], nil, nil
	case n == 2:
		return singles[0] + singles[1]*(1-singles[0]), nil, nil
	}

	steps = make([]float64, 0, len(singles)-1)
	acc := singles[0]
	for _, curr := range singles[1:] {
		acc = combineStep(acc, curr)
		steps = append(steps, acc)
	}
	return acc, steps, nil
}

// CombineRules computes the final CF of every major. The first major that
// cannot be combined aborts the whole computation.
func CombineRules(conclusions []MajorConclusion) ([]MajorConclusion, error) {
	out := make([]MajorConclusion, len(conclusions))
	for i, c := range conclusions {
		final, steps, err := Combine(c.Major, c.SingleRuleCF)
		if err != nil {
			return nil, err
		}
		c.SingleRuleCF = slices.Clone(c.SingleRuleCF)
		c.CombinationCF = steps
		c.FinalCF = final
		out[i] = c
	}
	return out, nil
}
