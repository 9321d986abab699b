package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/jurusan/internal/consult"
	"github.com/abhisek/jurusan/internal/inference"
	"github.com/abhisek/jurusan/internal/knowledge"
	"github.com/abhisek/jurusan/internal/store"
)

func evidence(strong ...inference.SymptomCode) inference.Evidence {
	ev := make(inference.Evidence)
	for code := inference.SymptomCode(1); code <= 13; code++ {
		ev[code] = 0
	}
	for _, code := range strong {
		ev[code] = 1
	}
	return ev
}

func run(t *testing.T, ev inference.Evidence) *inference.Result {
	t.Helper()
	res, err := inference.Run(knowledge.Default().KnowledgeBase(), ev, inference.DefaultOptions())
	require.NoError(t, err)
	return res
}

func TestOutcome_Supported(t *testing.T) {
	out := &consult.Outcome{
		ID:             7,
		ConsultationID: "c-1",
		Result:         run(t, evidence(1, 2, 3, 4, 5)),
		Explanation: &consult.Explanation{
			Summary: "Kamu cocok di IPA.",
			Reasons: []string{"Suka matematika"},
		},
	}

	var buf bytes.Buffer
	Outcome(&buf, out, true)
	text := buf.String()

	assert.Contains(t, text, "Rekomendasi jurusan: IPA")
	assert.Contains(t, text, "Peringkat")
	assert.Contains(t, text, "Kamu cocok di IPA.")
	assert.Contains(t, text, "Rincian perhitungan")
	assert.Contains(t, text, "Kombinasi:")
	assert.Contains(t, text, "Konsultasi #7 (c-1)")
	assert.NotContains(t, text, "Tidak ada jurusan")
}

func TestOutcome_Unsupported(t *testing.T) {
	kb := knowledge.Default().KnowledgeBase()
	tests := []struct {
		name     string
		selector inference.Selector
		want     []string
		wantNot  []string
	}{
		{
			name:     "strict names the top major",
			selector: inference.SelectorStrict,
			want:     []string{"Jurusan teratas: IPA", "Tidak didukung oleh jawaban ini"},
			wantNot:  []string{"Tidak ada jurusan", "Rekomendasi jurusan"},
		},
		{
			name:     "legacy has no top major",
			selector: inference.SelectorLegacy,
			want:     []string{"Tidak ada jurusan yang didukung"},
			wantNot:  []string{"Jurusan teratas", "Rekomendasi jurusan"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := inference.DefaultOptions()
			opts.Selector = tt.selector
			res, err := inference.Run(kb, evidence(), opts)
			require.NoError(t, err)

			var buf bytes.Buffer
			Outcome(&buf, &consult.Outcome{ID: 1, ConsultationID: "c-2", Result: res}, false)
			text := buf.String()

			for _, w := range tt.want {
				assert.Contains(t, text, w)
			}
			for _, w := range tt.wantNot {
				assert.NotContains(t, text, w)
			}
			assert.NotContains(t, text, "Rincian perhitungan")
			assert.NotContains(t, text, "Penjelasan")
		})
	}
}

func TestQuestions(t *testing.T) {
	var buf bytes.Buffer
	Questions(&buf, knowledge.Default().KnowledgeBase().Symptoms)
	text := buf.String()

	assert.Contains(t, text, " 13. Saya kesulitan memahami rumus dan perhitungan")
	for _, a := range knowledge.AnswerScale {
		assert.Contains(t, text, a.Label)
	}
}

func TestKnowledgeBase(t *testing.T) {
	var buf bytes.Buffer
	KnowledgeBase(&buf, knowledge.Default().KnowledgeBase())
	text := buf.String()

	assert.Contains(t, text, "13 pernyataan, 3 jurusan")
	assert.Contains(t, text, "Bahasa (kode 3)")
	assert.Contains(t, text, "-0.60")
}

func TestHistory(t *testing.T) {
	var buf bytes.Buffer
	History(&buf, nil)
	assert.Contains(t, buf.String(), "Belum ada konsultasi.")

	cf := 0.8632
	code := 1
	buf.Reset()
	History(&buf, []store.ConsultationRecord{
		{
			ID: 2,
			ConsultationEventData: store.ConsultationEventData{
				Requester: "budi-santoso-xii",
				Status:    store.StatusOK,
				MajorCode: &code,
				MajorName: "IPA",
				FinalCF:   &cf,
				Supported: true,
			},
			Timestamp: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		},
		{
			ID: 1,
			ConsultationEventData: store.ConsultationEventData{
				Requester:    "ani",
				Status:       store.StatusFailed,
				ErrorMessage: "boom",
			},
		},
	})
	text := buf.String()

	assert.Contains(t, text, "86.32%")
	assert.Contains(t, text, "budi-santos…")
	assert.Contains(t, text, "didukung")
	assert.Contains(t, text, "gagal")
}

func TestRecord(t *testing.T) {
	cf := 0.5
	rec := &store.ConsultationRecord{
		ID: 3,
		ConsultationEventData: store.ConsultationEventData{
			ConsultationID: "c-3",
			Requester:      "ani",
			Status:         store.StatusOK,
			MajorName:      "Bahasa",
			FinalCF:        &cf,
			Supported:      true,
			Narrative:      "Bahasa cocok.",
			Audit: store.ConsultationAudit{
				Evidence:        map[int]float64{11: 1, 10: 0.5},
				MissingEvidence: "zero",
				Selector:        "strict",
				Conclusions: []store.ConclusionAudit{{
					MajorCode:    3,
					MajorName:    "Bahasa",
					Symptoms:     []int{10},
					ExpertCF:     []float64{0.8},
					UserCF:       []float64{0.5},
					SingleRuleCF: []float64{0.4},
					FinalCF:      0.4,
				}},
			},
		},
	}

	var buf bytes.Buffer
	Record(&buf, rec)
	text := buf.String()

	assert.Contains(t, text, "Konsultasi #3")
	assert.Contains(t, text, "missing=zero selector=strict")
	assert.Contains(t, text, "Bahasa (50.00%)")
	assert.Contains(t, text, "Bahasa (kode 3)")
	assert.Contains(t, text, "Bahasa cocok.")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(" 10: 0.50")), bytes.Index(buf.Bytes(), []byte(" 11: 1.00")))
}
