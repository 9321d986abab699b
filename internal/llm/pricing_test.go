package llm

import (
	"math"
	"testing"
)

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		model string
		in    int
		out   int
		want  float64
		known bool
	}{
		{"claude-haiku-4-5-20251001", 1_000_000, 1_000_000, 6, true},
		{"gpt-4o-mini", 2_000_000, 0, 0.3, true},
		{"google/gemini-2.5-flash", 0, 1_000_000, 2.5, true},
		{"mock", 100, 100, 0, false},
	}
	for _, tt := range tests {
		got, known := EstimateCost(tt.model, tt.in, tt.out)
		if known != tt.known {
			t.Errorf("%s: known = %v, want %v", tt.model, known, tt.known)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: cost = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestDefaultModelsArePriced(t *testing.T) {
	cfg := DefaultConfig()
	for _, id := range []string{
		resolveModel(cfg.Anthropic.Model, anthropicModels),
		cfg.OpenAI.Model,
		resolveModel(cfg.Gemini.Model, geminiModels),
		cfg.OpenRouter.Model,
	} {
		if LookupCost(id) == nil {
			t.Errorf("no price for default model %q", id)
		}
	}
}
