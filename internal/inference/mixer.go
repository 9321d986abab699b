package inference

import (
	"fmt"
	"math"
	"slices"
)

// MissingEvidencePolicy decides what happens when a rule's symptom has no
// user answer.
type MissingEvidencePolicy string

const (
	// MissingEvidenceFail aborts the run with *ErrMissingEvidence.
	MissingEvidenceFail MissingEvidencePolicy = "fail"

	// MissingEvidenceZero treats the absent answer as 0.0 confidence.
	MissingEvidenceZero MissingEvidencePolicy = "zero"
)

// ParseMissingEvidencePolicy maps a config string to a policy. The empty
// string selects MissingEvidenceFail.
func ParseMissingEvidencePolicy(s string) (MissingEvidencePolicy, error) {
	switch MissingEvidencePolicy(s) {
	case "", MissingEvidenceFail:
		return MissingEvidenceFail, nil
	case MissingEvidenceZero:
		return MissingEvidenceZero, nil
	}
	return "", fmt.Errorf("unknown missing evidence policy: %q", s)
}

// ValidateEvidence rejects any user confidence outside [0, 1]. Symptoms are
// checked in ascending code order so the reported error is deterministic.
func ValidateEvidence(ev Evidence) error {
	codes := make([]SymptomCode, 0, len(ev))
	for code := range ev {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	for _, code := range codes {
		v := ev[code]
		if math.IsNaN(v) || v < 0 || v > 1 {
			return &ErrInvalidEvidenceRange{Symptom: code, Value: v}
		}
	}
	return nil
}

func validExpertCF(v float64) bool {
	return !math.IsNaN(v) && v >= -1 && v <= 1
}

// Mix attaches the user's confidence to every rule of every major. The input
// knowledge base is not modified.
func Mix(kb KnowledgeBase, ev Evidence, policy MissingEvidencePolicy) ([]EvaluatedMajor, error) {
	out := make([]EvaluatedMajor, len(kb.Majors))
	for i, m := range kb.Majors {
		rules := make([]EvaluatedRule, len(m.Rules))
		for j, r := range m.Rules {
			if !validExpertCF(r.ExpertCF) {
				return nil, &ErrInvalidExpertWeight{Major: m.Code, Name: m.Name, Symptom: r.Symptom, Value: r.ExpertCF}
			}

			userCF, ok := ev[r.Symptom]
			if !ok && policy != MissingEvidenceZero {
				return nil, &ErrMissingEvidence{Major: m.Code, Name: m.Name, Symptom: r.Symptom}
			}
			rules[j] = EvaluatedRule{Rule: r, UserCF: userCF}
		}

		major := m
		major.Rules = slices.Clone(m.Rules)
		out[i] = EvaluatedMajor{Major: major, Evaluated: rules}
	}
	return out, nil
}
