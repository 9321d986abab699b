package inference

// EvaluateSingleRules computes userCF * expertCF for every rule, keeping rule
// order. Values are not rounded.
func EvaluateSingleRules(majors []EvaluatedMajor) []MajorConclusion {
	out := make([]MajorConclusion, len(majors))
	for i, m := range majors {
		singles := make([]float64, len(m.Evaluated))
		for j, r := range m.Evaluated {
			singles[j] = r.UserCF * r.ExpertCF
		}
		out[i] = MajorConclusion{
			Major:        m.Major,
			Rules:        m.Evaluated,
			SingleRuleCF: singles,
		}
	}
	return out
}
