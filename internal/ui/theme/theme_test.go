package theme

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestBar(t *testing.T) {
	tests := []struct {
		frac   float64
		filled int
	}{
		{0, 0},
		{0.5, 10},
		{1, 20},
		{1.7, 20},
		{-0.4, 0},
		{0.86, 17},
	}
	for _, tt := range tests {
		bar := Bar(tt.frac, 20)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("Bar(%v): %d filled cells, want %d", tt.frac, got, tt.filled)
		}
		if w := lipgloss.Width(bar); w != 20 {
			t.Errorf("Bar(%v): width %d, want 20", tt.frac, w)
		}
	}
}

func TestSeparator(t *testing.T) {
	if w := lipgloss.Width(Separator(12)); w != 12 {
		t.Fatalf("width = %d, want 12", w)
	}
}
