package inference

import "testing"

func conclusions(cfs ...float64) []MajorConclusion {
	out := make([]MajorConclusion, len(cfs))
	for i, cf := range cfs {
		out[i] = MajorConclusion{
			Major:   Major{Code: MajorCode(i + 1), Name: string(rune('A' + i))},
			FinalCF: cf,
		}
	}
	return out
}

func TestSelectTop(t *testing.T) {
	tests := []struct {
		name     string
		cfs      []float64
		wantCode MajorCode
	}{
		{"distinct", []float64{0.3, 0.9, 0.5}, 2},
		{"tie first wins", []float64{0.7, 0.7, 0.2}, 1},
		{"later tie loses", []float64{0.2, 0.8, 0.8}, 2},
		{"all negative", []float64{-0.5, -0.1, -0.3}, 2},
		{"all zero", []float64{0, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := SelectTop(conclusions(tt.cfs...))
			if top == nil {
				t.Fatal("expected a conclusion")
			}
			if top.Major.Code != tt.wantCode {
				t.Errorf("top = %d, want %d", top.Major.Code, tt.wantCode)
			}
		})
	}

	if SelectTop(nil) != nil {
		t.Error("expected nil for empty input")
	}
}

func TestSelectLegacy(t *testing.T) {
	tests := []struct {
		name     string
		cfs      []float64
		wantCode MajorCode // 0 means no selection
	}{
		{"distinct", []float64{0.3, 0.9, 0.5}, 2},
		{"tie first wins", []float64{0.7, 0.7}, 1},
		{"all negative", []float64{-0.5, -0.1}, 0},
		{"all zero", []float64{0, 0}, 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := SelectLegacy(conclusions(tt.cfs...))
			if tt.wantCode == 0 {
				if top != nil {
					t.Fatalf("expected no selection, got %d", top.Major.Code)
				}
				return
			}
			if top == nil || top.Major.Code != tt.wantCode {
				t.Fatalf("top = %v, want %d", top, tt.wantCode)
			}
		})
	}
}

func TestRank_StableDescending(t *testing.T) {
	in := conclusions(0.2, 0.9, 0.2, 0.5)
	ranked := Rank(in)

	want := []MajorCode{2, 4, 1, 3}
	for i, c := range ranked {
		if c.Major.Code != want[i] {
			t.Errorf("ranked[%d] = %d, want %d", i, c.Major.Code, want[i])
		}
	}
	if in[0].Major.Code != 1 {
		t.Error("Rank reordered its input")
	}
}

func TestParseSelector(t *testing.T) {
	if s, err := ParseSelector(""); err != nil || s != SelectorStrict {
		t.Errorf("empty: got %q, %v", s, err)
	}
	if s, err := ParseSelector("legacy"); err != nil || s != SelectorLegacy {
		t.Errorf("legacy: got %q, %v", s, err)
	}
	if _, err := ParseSelector("max"); err == nil {
		t.Error("expected error for unknown selector")
	}
}
