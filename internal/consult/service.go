// Package consult runs consultations: it takes a student's answers, runs
// the certainty-factor engine over the stored knowledge base, records the
// outcome in the history, and optionally asks a language model to explain
// the recommendation.
package consult

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/google/uuid"

	"github.com/abhisek/jurusan/internal/inference"
	"github.com/abhisek/jurusan/internal/knowledge"
	"github.com/abhisek/jurusan/internal/store"
)

// ErrNoAffirmedEvidence is returned when every answer is zero.
var ErrNoAffirmedEvidence = errors.New("all answers are zero: affirm at least one statement")

// DefaultRequester labels consultations submitted without a name.
const DefaultRequester = "anonim"

// Service coordinates consultations.
type Service struct {
	knowledge store.KnowledgeRepo
	history   store.ConsultationRepo
	engine    *inference.Engine
	narrator  *Narrator
	newID     func() string
}

// Option configures a Service.
type Option func(*Service)

// WithNarrator enables explanations for requests that ask for one.
func WithNarrator(n *Narrator) Option {
	return func(s *Service) { s.narrator = n }
}

// WithIDGenerator replaces the consultation ID generator.
func WithIDGenerator(f func() string) Option {
	return func(s *Service) { s.newID = f }
}

// NewService creates a Service over the given repositories.
func NewService(kb store.KnowledgeRepo, history store.ConsultationRepo, opts inference.Options, options ...Option) *Service {
	s := &Service{
		knowledge: kb,
		history:   history,
		engine:    inference.NewEngine(kb, opts),
		newID:     uuid.NewString,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Request is one consultation submission.
type Request struct {
	Requester string
	Evidence  inference.Evidence
	Explain   bool
}

// Outcome is a completed consultation.
type Outcome struct {
	// ID is the history row ID.
	ID             int
	ConsultationID string
	Result         *inference.Result

	// Explanation is nil unless one was requested and produced.
	Explanation *Explanation
}

// EnsureKnowledge installs the built-in knowledge base when none is
// stored. It reports whether it did.
func (s *Service) EnsureKnowledge(ctx context.Context) (bool, error) {
	empty, err := s.knowledge.Empty(ctx)
	if err != nil {
		return false, fmt.Errorf("check knowledge base: %w", err)
	}
	if !empty {
		return false, nil
	}

	doc := knowledge.Default()
	if err := knowledge.Validate(doc); err != nil {
		return false, fmt.Errorf("built-in knowledge base: %w", err)
	}
	if err := s.knowledge.Replace(ctx, doc.KnowledgeBase()); err != nil {
		return false, fmt.Errorf("install built-in knowledge base: %w", err)
	}
	return true, nil
}

// Questions returns the statements a student answers, ordered by code.
func (s *Service) Questions(ctx context.Context) ([]inference.Symptom, error) {
	if _, err := s.EnsureKnowledge(ctx); err != nil {
		return nil, err
	}
	return s.knowledge.Symptoms(ctx)
}

// Consult runs the engine over req.Evidence and records the result. A
// failed run is recorded too and its error returned unchanged. A failed
// explanation only produces a warning.
func (s *Service) Consult(ctx context.Context, req Request) (*Outcome, error) {
	if req.Requester == "" {
		req.Requester = DefaultRequester
	}
	opts := s.engine.Options()
	event := store.ConsultationEventData{
		ConsultationID: s.newID(),
		Requester:      req.Requester,
		Status:         store.StatusOK,
		Audit: store.ConsultationAudit{
			Evidence:        auditEvidence(req.Evidence),
			MissingEvidence: string(opts.MissingEvidence),
			Selector:        string(opts.Selector),
		},
	}

	if _, err := s.EnsureKnowledge(ctx); err != nil {
		return nil, err
	}

	res, err := s.infer(ctx, req.Evidence)
	if err != nil {
		event.Status = store.StatusFailed
		event.ErrorMessage = err.Error()
		if _, recErr := s.history.Append(context.WithoutCancel(ctx), event); recErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to record consultation: %v\n", recErr)
		}
		return nil, err
	}

	out := &Outcome{ConsultationID: event.ConsultationID, Result: res}
	event.Audit.Conclusions = auditConclusions(res.Conclusions)
	event.Supported = res.Supported()
	if res.Top != nil {
		code := int(res.Top.Major.Code)
		cf := res.Top.FinalCF
		event.MajorCode = &code
		event.MajorName = res.Top.Major.Name
		event.FinalCF = &cf
	}

	if req.Explain && res.Supported() {
		out.Explanation = s.explain(ctx, req.Evidence, res)
		if out.Explanation != nil {
			event.Narrative = out.Explanation.String()
		}
	}

	id, err := s.history.Append(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("record consultation: %w", err)
	}
	out.ID = id
	return out, nil
}

func (s *Service) infer(ctx context.Context, ev inference.Evidence) (*inference.Result, error) {
	if err := inference.ValidateEvidence(ev); err != nil {
		return nil, err
	}
	if !affirmed(ev) {
		return nil, ErrNoAffirmedEvidence
	}
	return s.engine.Infer(ctx, ev)
}

func (s *Service) explain(ctx context.Context, ev inference.Evidence, res *inference.Result) *Explanation {
	if s.narrator == nil {
		fmt.Fprintln(os.Stderr, "warning: explanation requested but no LLM provider is configured")
		return nil
	}

	symptoms, err := s.knowledge.Symptoms(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: explanation skipped: %v\n", err)
		return nil
	}
	texts := make(map[inference.SymptomCode]string, len(symptoms))
	for _, sym := range symptoms {
		texts[sym.Code] = sym.Info
	}

	exp, err := s.narrator.Explain(ctx, ExplainInput{
		Top:      *res.Top,
		Ranked:   res.Ranked(),
		Symptoms: texts,
		Evidence: ev,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: explanation unavailable: %v\n", err)
		return nil
	}
	return exp
}

// affirmed reports whether any answer is above zero.
func affirmed(ev inference.Evidence) bool {
	for _, v := range ev {
		if v > 0 {
			return true
		}
	}
	return false
}

func auditEvidence(ev inference.Evidence) map[int]float64 {
	out := make(map[int]float64, len(ev))
	for code, v := range ev {
		out[int(code)] = v
	}
	return out
}

func auditConclusions(conclusions []inference.MajorConclusion) []store.ConclusionAudit {
	out := make([]store.ConclusionAudit, len(conclusions))
	for i, c := range conclusions {
		a := store.ConclusionAudit{
			MajorCode:     int(c.Major.Code),
			MajorName:     c.Major.Name,
			SingleRuleCF:  slices.Clone(c.SingleRuleCF),
			CombinationCF: slices.Clone(c.CombinationCF),
			FinalCF:       c.FinalCF,
		}
		for _, r := range c.Rules {
			a.Symptoms = append(a.Symptoms, int(r.Symptom))
			a.ExpertCF = append(a.ExpertCF, r.ExpertCF)
			a.UserCF = append(a.UserCF, r.UserCF)
		}
		out[i] = a
	}
	return out
}
