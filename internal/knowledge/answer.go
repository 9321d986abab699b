package knowledge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abhisek/jurusan/internal/inference"
	"github.com/abhisek/jurusan/internal/schema"
	"gopkg.in/yaml.v3"
)

// Answer is one step of the questionnaire confidence scale.
type Answer struct {
	Label  string
	Text   string
	UserCF float64
}

// AnswerScale lists the accepted answers, weakest first.
var AnswerScale = []Answer{
	{Label: "tidak", Text: "Sangat tidak yakin", UserCF: 0},
	{Label: "sedikit", Text: "Sedikit yakin", UserCF: 0.2},
	{Label: "cukup", Text: "Cukup yakin", UserCF: 0.4},
	{Label: "yakin", Text: "Yakin", UserCF: 0.6},
	{Label: "sangat", Text: "Sangat yakin", UserCF: 0.8},
	{Label: "pasti", Text: "Pasti", UserCF: 1.0},
}

// ParseAnswer accepts a scale label (case-insensitive) or a number.
// Range checks are left to the engine.
func ParseAnswer(s string) (float64, error) {
	s = strings.TrimSpace(s)
	for _, a := range AnswerScale {
		if strings.EqualFold(s, a.Label) {
			return a.UserCF, nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unknown answer %q (use a number or one of %s)", s, answerLabels())
	}
	return v, nil
}

func answerLabels() string {
	labels := make([]string, len(AnswerScale))
	for i, a := range AnswerScale {
		labels[i] = a.Label
	}
	return strings.Join(labels, ", ")
}

// ParseAssignments parses "code=answer" pairs, e.g. "3=yakin" or "4=0.8".
// Later pairs override earlier ones.
func ParseAssignments(pairs []string) (inference.Evidence, error) {
	ev := make(inference.Evidence, len(pairs))
	for _, p := range pairs {
		key, val, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid answer %q: want <symptom>=<answer>", p)
		}
		code, err := parseSymptomCode(key)
		if err != nil {
			return nil, err
		}
		cf, err := ParseAnswer(val)
		if err != nil {
			return nil, fmt.Errorf("symptom %d: %w", code, err)
		}
		ev[code] = cf
	}
	return ev, nil
}

// DecodeEvidence reads an answers document mapping symptom codes to numbers
// or answer labels.
func DecodeEvidence(r io.Reader, format Format) (inference.Evidence, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}

	var m map[string]any
	if format == FormatJSON {
		err = json.Unmarshal(raw, &m)
	} else {
		err = yaml.Unmarshal(raw, &m)
	}
	if err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}

	normalized, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("normalize answers: %w", err)
	}
	if err := schema.Validate("evidence", EvidenceSchema, normalized); err != nil {
		return nil, err
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(normalized, &entries); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}

	ev := make(inference.Evidence, len(entries))
	for key, val := range entries {
		code, err := parseSymptomCode(key)
		if err != nil {
			return nil, err
		}
		if _, dup := ev[code]; dup {
			return nil, fmt.Errorf("symptom %d is answered more than once", code)
		}
		var cf float64
		if err := json.Unmarshal(val, &cf); err != nil {
			var label string
			if err := json.Unmarshal(val, &label); err != nil {
				return nil, fmt.Errorf("symptom %d: unsupported answer %s", code, bytes.TrimSpace(val))
			}
			if cf, err = ParseAnswer(label); err != nil {
				return nil, fmt.Errorf("symptom %d: %w", code, err)
			}
		}
		ev[code] = cf
	}
	return ev, nil
}

func parseSymptomCode(s string) (inference.SymptomCode, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid symptom code %q", s)
	}
	return inference.SymptomCode(n), nil
}
