package knowledge

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/mod/semver"
)

// CurrentVersion is the document version written by export.
const CurrentVersion = "v1.0.0"

// supportedMajor is the document major version this build understands.
const supportedMajor = "v1"

// Validate performs the semantic checks the schema cannot express.
// Returns a combined error describing all problems found, or nil if valid.
func Validate(doc *Document) error {
	var errs []string

	switch {
	case !semver.IsValid(doc.Version):
		errs = append(errs, fmt.Sprintf("version %q is not a semantic version (want e.g. %s)", doc.Version, CurrentVersion))
	case semver.Major(doc.Version) != supportedMajor:
		errs = append(errs, fmt.Sprintf("version %s is not supported (want %s.x.x)", doc.Version, supportedMajor))
	}

	symptoms := make(map[int]bool, len(doc.Symptoms))
	for _, s := range doc.Symptoms {
		if s.Code <= 0 {
			errs = append(errs, fmt.Sprintf("symptom code must be > 0, got %d", s.Code))
		}
		if symptoms[s.Code] {
			errs = append(errs, fmt.Sprintf("duplicate symptom code: %d", s.Code))
		}
		symptoms[s.Code] = true
		if strings.TrimSpace(s.Info) == "" {
			errs = append(errs, fmt.Sprintf("symptom %d has no text", s.Code))
		}
	}

	if len(doc.Majors) == 0 {
		errs = append(errs, "no majors defined")
	}

	majors := make(map[int]bool, len(doc.Majors))
	for _, m := range doc.Majors {
		if m.Code <= 0 {
			errs = append(errs, fmt.Sprintf("major code must be > 0, got %d", m.Code))
		}
		if majors[m.Code] {
			errs = append(errs, fmt.Sprintf("duplicate major code: %d", m.Code))
		}
		majors[m.Code] = true
		if strings.TrimSpace(m.Name) == "" {
			errs = append(errs, fmt.Sprintf("major %d has no name", m.Code))
		}

		// A major without rules cannot be evaluated.
		if len(m.Rules) == 0 {
			errs = append(errs, fmt.Sprintf("major %q has no rules", m.Name))
		}

		seen := make(map[int]bool, len(m.Rules))
		for _, r := range m.Rules {
			if !symptoms[r.Symptom] {
				errs = append(errs, fmt.Sprintf("major %q references nonexistent symptom %d", m.Name, r.Symptom))
			}
			if seen[r.Symptom] {
				errs = append(errs, fmt.Sprintf("major %q has more than one rule for symptom %d", m.Name, r.Symptom))
			}
			seen[r.Symptom] = true
			if math.IsNaN(r.ExpertCF) || r.ExpertCF < -1 || r.ExpertCF > 1 {
				errs = append(errs, fmt.Sprintf("major %q symptom %d: expert_cf must be in [-1, 1], got %v", m.Name, r.Symptom, r.ExpertCF))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("knowledge base validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
