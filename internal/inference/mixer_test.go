package inference

import (
	"errors"
	"math"
	"testing"
)

func testKB() KnowledgeBase {
	return KnowledgeBase{
		Symptoms: []Symptom{{Code: 1}, {Code: 2}, {Code: 3}},
		Majors: []Major{
			{Code: 10, Name: "IPA", Rules: []Rule{{Symptom: 1, ExpertCF: 0.8}, {Symptom: 2, ExpertCF: 0.6}}},
			{Code: 20, Name: "IPS", Rules: []Rule{{Symptom: 3, ExpertCF: 0.7}}},
		},
	}
}

func TestValidateEvidence(t *testing.T) {
	tests := []struct {
		name    string
		ev      Evidence
		wantErr bool
		symptom SymptomCode
	}{
		{"empty", Evidence{}, false, 0},
		{"bounds", Evidence{1: 0, 2: 1, 3: 0.5}, false, 0},
		{"negative", Evidence{1: 0.2, 2: -0.1}, true, 2},
		{"above one", Evidence{4: 1.01}, true, 4},
		{"nan", Evidence{3: math.NaN()}, true, 3},
		{"lowest code reported", Evidence{9: 2, 5: -1}, true, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEvidence(tt.ev)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var re *ErrInvalidEvidenceRange
			if !errors.As(err, &re) {
				t.Fatalf("expected *ErrInvalidEvidenceRange, got %v", err)
			}
			if re.Symptom != tt.symptom {
				t.Errorf("symptom = %d, want %d", re.Symptom, tt.symptom)
			}
		})
	}
}

func TestMix_AttachesUserCF(t *testing.T) {
	kb := testKB()
	mixed, err := Mix(kb, Evidence{1: 0.4, 2: 1, 3: 0.2}, MissingEvidenceFail)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mixed) != 2 {
		t.Fatalf("len = %d, want 2", len(mixed))
	}

	want := [][]float64{{0.4, 1}, {0.2}}
	for i, m := range mixed {
		if len(m.Evaluated) != len(want[i]) {
			t.Fatalf("major %d: %d rules, want %d", i, len(m.Evaluated), len(want[i]))
		}
		for j, r := range m.Evaluated {
			if r.UserCF != want[i][j] {
				t.Errorf("major %d rule %d: userCF = %v, want %v", i, j, r.UserCF, want[i][j])
			}
			if r.Rule != kb.Majors[i].Rules[j] {
				t.Errorf("major %d rule %d: rule changed", i, j)
			}
		}
	}
}

func TestMix_MissingEvidenceFails(t *testing.T) {
	_, err := Mix(testKB(), Evidence{1: 0.4, 3: 0.2}, MissingEvidenceFail)
	var me *ErrMissingEvidence
	if !errors.As(err, &me) {
		t.Fatalf("expected *ErrMissingEvidence, got %v", err)
	}
	if me.Symptom != 2 || me.Name != "IPA" {
		t.Errorf("unexpected error fields: %+v", me)
	}
}

func TestMix_MissingEvidenceZero(t *testing.T) {
	mixed, err := Mix(testKB(), Evidence{1: 0.4}, MissingEvidenceZero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mixed[0].Evaluated[1].UserCF; got != 0 {
		t.Errorf("missing symptom userCF = %v, want 0", got)
	}
	if got := mixed[1].Evaluated[0].UserCF; got != 0 {
		t.Errorf("missing symptom userCF = %v, want 0", got)
	}
}

func TestMix_RejectsExpertWeight(t *testing.T) {
	for _, w := range []float64{-1.5, 1.0001, math.NaN()} {
		kb := testKB()
		kb.Majors[1].Rules[0].ExpertCF = w

		_, err := Mix(kb, Evidence{1: 1, 2: 1, 3: 1}, MissingEvidenceFail)
		var we *ErrInvalidExpertWeight
		if !errors.As(err, &we) {
			t.Fatalf("weight %v: expected *ErrInvalidExpertWeight, got %v", w, err)
		}
		if we.Name != "IPS" || we.Symptom != 3 {
			t.Errorf("weight %v: unexpected error fields: %+v", w, we)
		}
	}
}

func TestMix_DoesNotMutateKnowledgeBase(t *testing.T) {
	kb := testKB()
	mixed, err := Mix(kb, Evidence{1: 0.4, 2: 1, 3: 0.2}, MissingEvidenceFail)
	if err != nil {
		t.Fatal(err)
	}
	mixed[0].Rules[0].ExpertCF = -1
	if kb.Majors[0].Rules[0].ExpertCF != 0.8 {
		t.Error("mixed major aliases the knowledge-base rule slice")
	}
}

func TestEvaluateSingleRules(t *testing.T) {
	mixed, err := Mix(testKB(), Evidence{1: 0.5, 2: 0.25, 3: 1}, MissingEvidenceFail)
	if err != nil {
		t.Fatal(err)
	}
	got := EvaluateSingleRules(mixed)

	want := [][]float64{{0.5 * 0.8, 0.25 * 0.6}, {1 * 0.7}}
	for i := range want {
		if len(got[i].SingleRuleCF) != len(want[i]) {
			t.Fatalf("major %d: %d values, want %d", i, len(got[i].SingleRuleCF), len(want[i]))
		}
		for j := range want[i] {
			if !approx(got[i].SingleRuleCF[j], want[i][j]) {
				t.Errorf("major %d rule %d: %v, want %v", i, j, got[i].SingleRuleCF[j], want[i][j])
			}
		}
	}
}
