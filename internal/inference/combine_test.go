package inference

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-12

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestCombine_SingleRule(t *testing.T) {
	for _, x := range []float64{0, 0.35, 1, -0.4} {
		final, steps, err := Combine(Major{Name: "IPA"}, []float64{x})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if final != x {
			t.Errorf("final = %v, want %v", final, x)
		}
		if len(steps) != 0 {
			t.Errorf("steps = %v, want none", steps)
		}
	}
}

func TestCombine_TwoRules(t *testing.T) {
	final, steps, err := Combine(Major{Name: "IPA"}, []float64{0.6, 0.3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, b := 0.6, 0.3
	if want := a + b*(1-a); !approx(final, want) {
		t.Errorf("final = %v, want %v", final, want)
	}
	if !approx(final, 0.72) {
		t.Errorf("final = %v, want ~0.72", final)
	}
	if len(steps) != 0 {
		t.Errorf("steps = %v, want none for two rules", steps)
	}
}

func TestCombine_ThreeRulesFold(t *testing.T) {
	final, steps, err := Combine(Major{Name: "IPA"}, []float64{0.6, 0.3, 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s0, s1, s2 := 0.6, 0.3, 0.5
	step1 := s1 + s0*(1-s1)
	step2 := s2 + step1*(1-s2)

	if len(steps) != 2 {
		t.Fatalf("len(steps) = %d, want 2", len(steps))
	}
	if !approx(steps[0], step1) {
		t.Errorf("steps[0] = %v, want %v", steps[0], step1)
	}
	if !approx(steps[1], step2) {
		t.Errorf("steps[1] = %v, want %v", steps[1], step2)
	}
	if !approx(final, step2) {
		t.Errorf("final = %v, want %v", final, step2)
	}
	if !approx(final, 0.86) {
		t.Errorf("final = %v, want ~0.86", final)
	}
}

func TestCombine_FoldRecordsEveryStep(t *testing.T) {
	singles := []float64{0.2, 0.4, 0.1, 0.8, 0.3}
	final, steps, err := Combine(Major{Name: "IPS"}, singles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(steps) != len(singles)-1 {
		t.Fatalf("len(steps) = %d, want %d", len(steps), len(singles)-1)
	}

	acc := singles[0]
	for i, s := range singles[1:] {
		acc = s + acc*(1-s)
		if !approx(steps[i], acc) {
			t.Errorf("steps[%d] = %v, want %v", i, steps[i], acc)
		}
	}
	if final != steps[len(steps)-1] {
		t.Errorf("final = %v, want last step %v", final, steps[len(steps)-1])
	}
}

func TestCombine_NoRules(t *testing.T) {
	_, _, err := Combine(Major{Code: 7, Name: "Bahasa"}, nil)
	var ir *ErrInsufficientRules
	if !errors.As(err, &ir) {
		t.Fatalf("expected *ErrInsufficientRules, got %v", err)
	}
	if ir.Name != "Bahasa" || ir.Major != 7 || ir.Count != 0 {
		t.Errorf("unexpected error fields: %+v", ir)
	}
}

func TestCombine_MonotonicForNonNegative(t *testing.T) {
	lists := [][]float64{
		{0.1},
		{0.5, 0.2},
		{0.3, 0.3, 0.3},
		{0, 0.9, 0.1, 0.4},
		{1, 0.2, 0},
	}
	extras := []float64{0, 0.05, 0.5, 1}

	for _, base := range lists {
		before, _, err := Combine(Major{Name: "m"}, base)
		if err != nil {
			t.Fatalf("combine %v: %v", base, err)
		}
		for _, x := range extras {
			extended := append(append([]float64{}, base...), x)
			after, _, err := Combine(Major{Name: "m"}, extended)
			if err != nil {
				t.Fatalf("combine %v: %v", extended, err)
			}
			if after < before-eps {
				t.Errorf("appending %v to %v decreased final CF: %v -> %v", x, base, before, after)
			}
		}
	}
}

func TestCombine_NegativeTermDecreasesBelief(t *testing.T) {
	without, _, err := Combine(Major{Name: "m"}, []float64{0.6, 0.4})
	if err != nil {
		t.Fatal(err)
	}
	with, _, err := Combine(Major{Name: "m"}, []float64{0.6, 0.4, -0.5})
	if err != nil {
		t.Fatal(err)
	}
	if with >= without {
		t.Errorf("negative evidence should lower belief: without=%v with=%v", without, with)
	}
}

func TestCombine_AllZero(t *testing.T) {
	for n := 1; n <= 4; n++ {
		final, steps, err := Combine(Major{Name: "m"}, make([]float64, n))
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if final != 0 {
			t.Errorf("n=%d: final = %v, want 0", n, final)
		}
		for i, s := range steps {
			if s != 0 {
				t.Errorf("n=%d: steps[%d] = %v, want 0", n, i, s)
			}
		}
	}
}

func TestCombineRules_AbortsOnEmptyMajor(t *testing.T) {
	in := []MajorConclusion{
		{Major: Major{Code: 1, Name: "IPA"}, SingleRuleCF: []float64{0.4, 0.2}},
		{Major: Major{Code: 2, Name: "IPS"}, SingleRuleCF: nil},
		{Major: Major{Code: 3, Name: "Bahasa"}, SingleRuleCF: []float64{0.9}},
	}

	out, err := CombineRules(in)
	if out != nil {
		t.Errorf("expected no partial result, got %d conclusions", len(out))
	}
	var ir *ErrInsufficientRules
	if !errors.As(err, &ir) {
		t.Fatalf("expected *ErrInsufficientRules, got %v", err)
	}
	if ir.Name != "IPS" {
		t.Errorf("error names %q, want IPS", ir.Name)
	}
}

func TestCombineRules_DoesNotMutateInput(t *testing.T) {
	in := []MajorConclusion{
		{Major: Major{Name: "IPA"}, SingleRuleCF: []float64{0.4, 0.2, 0.1}},
	}
	out, err := CombineRules(in)
	if err != nil {
		t.Fatal(err)
	}
	if in[0].FinalCF != 0 || in[0].CombinationCF != nil {
		t.Errorf("input was modified: %+v", in[0])
	}
	out[0].SingleRuleCF[0] = 99
	if in[0].SingleRuleCF[0] != 0.4 {
		t.Errorf("output aliases input single-rule slice")
	}
}
