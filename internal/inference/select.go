package inference

import (
	"fmt"
	"slices"
)

// Selector picks the top conclusion.
type Selector string

const (
	// SelectorStrict returns the real major with the greatest final CF,
	// even when that CF is not positive.
	SelectorStrict Selector = "strict"

	// SelectorLegacy seeds the comparison with a zero-confidence sentinel,
	// so no major is selected unless one has a positive final CF.
	SelectorLegacy Selector = "legacy"
)

// ParseSelector maps a config string to a Selector. The empty string selects
// SelectorStrict.
func ParseSelector(s string) (Selector, error) {
	switch Selector(s) {
	case "", SelectorStrict:
		return SelectorStrict, nil
	case SelectorLegacy:
		return SelectorLegacy, nil
	}
	return "", fmt.Errorf("unknown selector: %q", s)
}

// SelectTop returns the conclusion with the strictly greatest final CF. Ties
// go to the earliest conclusion. Returns nil only for an empty input.
func SelectTop(conclusions []MajorConclusion) *MajorConclusion {
	if len(conclusions) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(conclusions); i++ {
		if conclusions[i].FinalCF > conclusions[best].FinalCF {
			best = i
		}
	}
	top := conclusions[best]
	return &top
}

// SelectLegacy behaves like SelectTop but starts from a zero sentinel, so it
// returns nil when every final CF is <= 0.
func SelectLegacy(conclusions []MajorConclusion) *MajorConclusion {
	best := -1
	bestCF := 0.0
	for i, c := range conclusions {
		if c.FinalCF > bestCF {
			best, bestCF = i, c.FinalCF
		}
	}
	if best < 0 {
		return nil
	}
	top := conclusions[best]
	return &top
}

func (s Selector) pick(conclusions []MajorConclusion) *MajorConclusion {
	if s == SelectorLegacy {
		return SelectLegacy(conclusions)
	}
	return SelectTop(conclusions)
}

// Rank returns a copy of conclusions ordered by final CF, highest first.
// Equal values keep their input order.
func Rank(conclusions []MajorConclusion) []MajorConclusion {
	ranked := slices.Clone(conclusions)
	slices.SortStableFunc(ranked, func(a, b MajorConclusion) int {
		switch {
		case a.FinalCF > b.FinalCF:
			return -1
		case a.FinalCF < b.FinalCF:
			return 1
		}
		return 0
	})
	return ranked
}
