package inference

// SymptomCode identifies a diagnostic question (a "ketentuan").
type SymptomCode int

// MajorCode identifies an academic track.
type MajorCode int

// Symptom is a diagnostic question the student answers with a confidence.
type Symptom struct {
	Code     SymptomCode
	Info     string
	ImageURL string // optional
}

// Rule links a major to one symptom with the expert's confidence that the
// symptom supports the major. ExpertCF is in [-1, 1].
type Rule struct {
	Symptom  SymptomCode
	ExpertCF float64
}

// Major is a recommendable academic track with its rules in authored order.
// Solution and Notes are display-only.
type Major struct {
	Code        MajorCode
	Name        string
	Description string
	Solution    string
	Notes       string
	ImageURL    string
	Rules       []Rule
}

// KnowledgeBase is the full read-only reference data for one inference run.
type KnowledgeBase struct {
	Symptoms []Symptom
	Majors   []Major
}

// Evidence maps a symptom to the student's confidence in [0, 1].
type Evidence map[SymptomCode]float64

// EvaluatedRule is a Rule enriched with the student's confidence for its symptom.
type EvaluatedRule struct {
	Rule
	UserCF float64
}

// EvaluatedMajor is a Major whose rules carry user evidence.
type EvaluatedMajor struct {
	Major
	Evaluated []EvaluatedRule
}

// MajorConclusion holds every value derived for one major during a run.
type MajorConclusion struct {
	Major         Major
	Rules         []EvaluatedRule
	SingleRuleCF  []float64 // userCF * expertCF, in rule order
	CombinationCF []float64 // fold steps; empty for one or two rules
	FinalCF       float64
}

// Result is the output of one inference run.
type Result struct {
	// Conclusions are in knowledge-base order.
	Conclusions []MajorConclusion

	// Top is the selected conclusion, or nil when no major qualifies.
	Top *MajorConclusion
}

// Supported reports whether the top conclusion carries positive belief.
func (r *Result) Supported() bool {
	return r != nil && r.Top != nil && r.Top.FinalCF > 0
}

// Ranked returns the conclusions ordered by final CF, highest first.
func (r *Result) Ranked() []MajorConclusion {
	if r == nil {
		return nil
	}
	return Rank(r.Conclusions)
}
