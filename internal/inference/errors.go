package inference

import "fmt"

// ErrInvalidEvidenceRange indicates a user confidence outside [0, 1] (or NaN).
type ErrInvalidEvidenceRange struct {
	Symptom SymptomCode
	Value   float64
}

func (e *ErrInvalidEvidenceRange) Error() string {
	return fmt.Sprintf("user confidence for symptom %d must be in [0, 1], got %v", e.Symptom, e.Value)
}

// ErrInvalidExpertWeight indicates an expert confidence outside [-1, 1] (or NaN).
type ErrInvalidExpertWeight struct {
	Major   MajorCode
	Name    string
	Symptom SymptomCode
	Value   float64
}

func (e *ErrInvalidExpertWeight) Error() string {
	return fmt.Sprintf("expert confidence for major %q (%d) symptom %d must be in [-1, 1], got %v",
		e.Name, e.Major, e.Symptom, e.Value)
}

// ErrMissingEvidence indicates a rule whose symptom has no user answer.
type ErrMissingEvidence struct {
	Major   MajorCode
	Name    string
	Symptom SymptomCode
}

func (e *ErrMissingEvidence) Error() string {
	return fmt.Sprintf("no user confidence for symptom %d required by major %q (%d)", e.Symptom, e.Name, e.Major)
}

// ErrInsufficientRules indicates a major that cannot be evaluated because it
// has no rules.
type ErrInsufficientRules struct {
	Major MajorCode
	Name  string
	Count int
}

func (e *ErrInsufficientRules) Error() string {
	return fmt.Sprintf("major %q has %d rules, needs at least 1", e.Name, e.Count)
}

// ErrLoad wraps a knowledge-base load failure.
type ErrLoad struct {
	Err error
}

func (e *ErrLoad) Error() string {
	return fmt.Sprintf("load knowledge base: %v", e.Err)
}

func (e *ErrLoad) Unwrap() error { return e.Err }
