package consult

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/jurusan/internal/inference"
	"github.com/abhisek/jurusan/internal/llm"
)

// NarratorConfig tunes explanation requests.
type NarratorConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultNarratorConfig returns the defaults used by the CLI.
func DefaultNarratorConfig() NarratorConfig {
	return NarratorConfig{
		MaxTokens:   600,
		Temperature: 0.3,
	}
}

// Narrator asks a language model to explain a finished recommendation in
// plain Indonesian. It never changes the numbers it is given.
type Narrator struct {
	provider llm.Provider
	cfg      NarratorConfig
}

// NewNarrator creates a Narrator.
func NewNarrator(provider llm.Provider, cfg NarratorConfig) *Narrator {
	return &Narrator{provider: provider, cfg: cfg}
}

// Explanation is the structured narrative returned by the model.
type Explanation struct {
	Summary string   `json:"summary"`
	Reasons []string `json:"reasons"`
	Advice  string   `json:"advice"`
}

// String renders the explanation as plain text.
func (e *Explanation) String() string {
	var b strings.Builder
	b.WriteString(e.Summary)
	if len(e.Reasons) > 0 {
		b.WriteString("\n")
		for _, r := range e.Reasons {
			fmt.Fprintf(&b, "\n- %s", r)
		}
	}
	if e.Advice != "" {
		fmt.Fprintf(&b, "\n\n%s", e.Advice)
	}
	return b.String()
}

// ExplanationSchema constrains the model's output.
var ExplanationSchema = &llm.Schema{
	Name:        "consultation-explanation",
	Description: "A short explanation of a major recommendation for a high-school student",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Two or three sentences explaining why the top major fits",
				"minLength":   1,
			},
			"reasons": map[string]any{
				"type":        "array",
				"description": "The student's strongest answers that support the recommendation",
				"items":       map[string]any{"type": "string"},
				"maxItems":    5,
			},
			"advice": map[string]any{
				"type":        "string",
				"description": "One practical next step for the student",
			},
		},
		"required":             []any{"summary", "reasons", "advice"},
		"additionalProperties": false,
	},
}

// ExplainInput is what the narrator knows about a consultation.
type ExplainInput struct {
	Top      inference.MajorConclusion
	Ranked   []inference.MajorConclusion
	Symptoms map[inference.SymptomCode]string
	Evidence inference.Evidence
}

// Explain requests an explanation of in.Top.
func (n *Narrator) Explain(ctx context.Context, in ExplainInput) (*Explanation, error) {
	ctx = llm.WithPurpose(ctx, ExplanationSchema.Name)

	prompt, err := buildExplainPrompt(in)
	if err != nil {
		return nil, fmt.Errorf("build explanation prompt: %w", err)
	}

	req := llm.UserPrompt(explainSystemPrompt, prompt)
	req.Schema = ExplanationSchema
	req.MaxTokens = n.cfg.MaxTokens
	req.Temperature = n.cfg.Temperature

	resp, err := n.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM explanation failed: %w", err)
	}

	var out Explanation
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation response: %w", err)
	}
	return &out, nil
}

const explainSystemPrompt = `Kamu adalah guru BK (bimbingan konseling) SMA. Sebuah sistem pakar certainty factor sudah menghitung rekomendasi jurusan untuk seorang siswa.

Aturan:
- Jelaskan hasil yang diberikan. Jangan mengubah, membulatkan ulang, atau menghitung ulang angka apa pun.
- Jangan merekomendasikan jurusan lain selain jurusan teratas.
- Sebut jawaban siswa yang paling mendukung sebagai alasan.
- Gunakan bahasa Indonesia yang sederhana dan ramah.`

type promptSymptom struct {
	Info     string
	UserCF   float64
	ExpertCF float64
}

type promptData struct {
	Name        string
	Description string
	Percent     string
	Supporting  []promptSymptom
	Others      []string
}

var explainTemplate = template.Must(template.New("explain").Parse(`Jurusan teratas: {{.Name}} (keyakinan {{.Percent}})
{{- if .Description}}
Deskripsi: {{.Description}}
{{- end}}

Jawaban siswa yang mendukung:
{{range .Supporting}}- {{.Info}} (keyakinan siswa {{printf "%.1f" .UserCF}}, bobot pakar {{printf "%.1f" .ExpertCF}})
{{else}}- (tidak ada)
{{end}}
{{- if .Others}}
Jurusan lain:
{{range .Others}}- {{.}}
{{end}}
{{- end}}`))

func buildExplainPrompt(in ExplainInput) (string, error) {
	data := promptData{
		Name:        in.Top.Major.Name,
		Description: in.Top.Major.Description,
		Percent:     FormatPercent(in.Top.FinalCF),
	}
	for _, r := range in.Top.Rules {
		if r.UserCF <= 0 || r.ExpertCF <= 0 {
			continue
		}
		info := in.Symptoms[r.Symptom]
		if info == "" {
			info = fmt.Sprintf("Ketentuan %d", r.Symptom)
		}
		data.Supporting = append(data.Supporting, promptSymptom{Info: info, UserCF: r.UserCF, ExpertCF: r.ExpertCF})
	}
	for _, c := range in.Ranked {
		if c.Major.Code == in.Top.Major.Code {
			continue
		}
		data.Others = append(data.Others, fmt.Sprintf("%s (%s)", c.Major.Name, FormatPercent(c.FinalCF)))
	}

	var buf bytes.Buffer
	if err := explainTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatPercent renders a certainty factor as a percentage with two
// decimals, e.g. 0.8632 -> "86.32%".
func FormatPercent(cf float64) string {
	return fmt.Sprintf("%.2f%%", cf*100)
}
