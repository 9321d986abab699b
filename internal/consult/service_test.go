package consult

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/jurusan/internal/inference"
	"github.com/abhisek/jurusan/internal/llm"
	"github.com/abhisek/jurusan/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(fmt.Sprintf("file:consult_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestService(t *testing.T, opts inference.Options, options ...Option) (*Service, *store.Store) {
	t.Helper()
	s := openTestStore(t)
	ids := 0
	options = append([]Option{WithIDGenerator(func() string {
		ids++
		return fmt.Sprintf("konsultasi-%d", ids)
	})}, options...)
	return NewService(s.KnowledgeRepo(), s.ConsultationRepo(), opts, options...), s
}

// scienceEvidence answers every built-in statement, affirming the science
// ones.
func scienceEvidence() inference.Evidence {
	ev := inference.Evidence{}
	for code := inference.SymptomCode(1); code <= 13; code++ {
		ev[code] = 0
	}
	for code := inference.SymptomCode(1); code <= 5; code++ {
		ev[code] = 1
	}
	return ev
}

func TestEnsureKnowledgeSeedsOnce(t *testing.T) {
	svc, _ := newTestService(t, inference.DefaultOptions())
	ctx := context.Background()

	seeded, err := svc.EnsureKnowledge(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = svc.EnsureKnowledge(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	questions, err := svc.Questions(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 13)
	assert.Equal(t, inference.SymptomCode(1), questions[0].Code)
}

func TestConsult_RecommendsAndRecords(t *testing.T) {
	svc, s := newTestService(t, inference.DefaultOptions())
	ctx := context.Background()

	out, err := svc.Consult(ctx, Request{Requester: "siswa-1", Evidence: scienceEvidence()})
	require.NoError(t, err)

	require.NotNil(t, out.Result.Top)
	assert.Equal(t, "IPA", out.Result.Top.Major.Name)
	assert.True(t, out.Result.Supported())
	assert.Equal(t, "konsultasi-1", out.ConsultationID)
	assert.Nil(t, out.Explanation)

	rec, err := s.ConsultationRepo().Get(ctx, out.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, store.StatusOK, rec.Status)
	assert.Equal(t, "siswa-1", rec.Requester)
	assert.Equal(t, "IPA", rec.MajorName)
	require.NotNil(t, rec.FinalCF)
	assert.InDelta(t, out.Result.Top.FinalCF, *rec.FinalCF, 1e-12)
	assert.Equal(t, "fail", rec.Audit.MissingEvidence)
	assert.Equal(t, "strict", rec.Audit.Selector)
	require.Len(t, rec.Audit.Conclusions, 3)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 13}, rec.Audit.Conclusions[0].Symptoms)
	assert.Len(t, rec.Audit.Evidence, 13)
}

func TestConsult_DefaultRequester(t *testing.T) {
	svc, s := newTestService(t, inference.DefaultOptions())
	ctx := context.Background()

	_, err := svc.Consult(ctx, Request{Evidence: scienceEvidence()})
	require.NoError(t, err)

	recs, err := s.ConsultationRepo().Query(ctx, DefaultRequester, store.QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestConsult_AllZeroRejected(t *testing.T) {
	svc, s := newTestService(t, inference.DefaultOptions())
	ctx := context.Background()

	ev := scienceEvidence()
	for code := range ev {
		ev[code] = 0
	}

	_, err := svc.Consult(ctx, Request{Evidence: ev})
	require.ErrorIs(t, err, ErrNoAffirmedEvidence)

	recs, err := s.ConsultationRepo().Query(ctx, "", store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, store.StatusFailed, recs[0].Status)
	assert.Nil(t, recs[0].MajorCode)
}

func TestConsult_EngineErrorsPassThrough(t *testing.T) {
	tests := []struct {
		name  string
		ev    func() inference.Evidence
		check func(*testing.T, error)
	}{
		{
			name: "out of range",
			ev: func() inference.Evidence {
				ev := scienceEvidence()
				ev[4] = 1.5
				return ev
			},
			check: func(t *testing.T, err error) {
				var rangeErr *inference.ErrInvalidEvidenceRange
				require.ErrorAs(t, err, &rangeErr)
				assert.Equal(t, inference.SymptomCode(4), rangeErr.Symptom)
			},
		},
		{
			name: "missing answer",
			ev: func() inference.Evidence {
				ev := scienceEvidence()
				delete(ev, 13)
				return ev
			},
			check: func(t *testing.T, err error) {
				var missing *inference.ErrMissingEvidence
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, inference.SymptomCode(13), missing.Symptom)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, s := newTestService(t, inference.DefaultOptions())
			ctx := context.Background()

			_, err := svc.Consult(ctx, Request{Evidence: tt.ev()})
			tt.check(t, err)

			recs, qerr := s.ConsultationRepo().Query(ctx, "", store.QueryOpts{})
			require.NoError(t, qerr)
			require.Len(t, recs, 1)
			assert.Equal(t, store.StatusFailed, recs[0].Status)
			assert.Equal(t, err.Error(), recs[0].ErrorMessage)
		})
	}
}

func TestConsult_ZeroPolicyAcceptsPartialAnswers(t *testing.T) {
	opts := inference.Options{MissingEvidence: inference.MissingEvidenceZero}
	svc, _ := newTestService(t, opts)

	out, err := svc.Consult(context.Background(), Request{Evidence: inference.Evidence{10: 1, 11: 0.8}})
	require.NoError(t, err)
	require.NotNil(t, out.Result.Top)
	assert.Equal(t, "Bahasa", out.Result.Top.Major.Name)
}

func TestConsult_WithExplanation(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"summary":"IPA paling sesuai.","reasons":["Senang matematika"],"advice":"Ikuti olimpiade."}`),
	})
	svc, s := newTestService(t, inference.DefaultOptions(), WithNarrator(NewNarrator(mock, DefaultNarratorConfig())))
	ctx := context.Background()

	out, err := svc.Consult(ctx, Request{Evidence: scienceEvidence(), Explain: true})
	require.NoError(t, err)
	require.NotNil(t, out.Explanation)
	assert.Equal(t, "IPA paling sesuai.", out.Explanation.Summary)

	prompt := mock.Calls[0].Messages[0].Content
	assert.Contains(t, prompt, "Jurusan teratas: IPA")
	assert.Contains(t, prompt, "Saya senang mengerjakan soal matematika yang menantang")

	rec, err := s.ConsultationRepo().Get(ctx, out.ID)
	require.NoError(t, err)
	assert.Contains(t, rec.Narrative, "IPA paling sesuai.")
}

func TestConsult_ExplanationFailureKeepsResult(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("offline")})
	svc, _ := newTestService(t, inference.DefaultOptions(), WithNarrator(NewNarrator(mock, DefaultNarratorConfig())))

	out, err := svc.Consult(context.Background(), Request{Evidence: scienceEvidence(), Explain: true})
	require.NoError(t, err)
	assert.Nil(t, out.Explanation)
	assert.Equal(t, "IPA", out.Result.Top.Major.Name)
}

func TestConsult_NoExplanationWithoutSupport(t *testing.T) {
	mock := llm.NewMockProvider()
	opts := inference.Options{MissingEvidence: inference.MissingEvidenceZero}
	svc, _ := newTestService(t, opts, WithNarrator(NewNarrator(mock, DefaultNarratorConfig())))

	// Only an opposing statement is affirmed, so no major gains belief.
	out, err := svc.Consult(context.Background(), Request{Evidence: inference.Evidence{13: 1}, Explain: true})
	require.NoError(t, err)
	assert.False(t, out.Result.Supported())
	assert.Zero(t, mock.CallCount())
}
