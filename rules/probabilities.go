package rules

import (
	"fmt"
	"strings"
)

// Rule identifies one of the four transitions of the Game of Life
type Rule int

const (
	// None means no transition applies (a dead cell without exactly three neighbors)
	None Rule = iota
	Underpopulation
	Survival
	Overpopulation
	Reproduction
)

// AllRules lists the rules that carry a probability, in display order
var AllRules = []Rule{Underpopulation, Survival, Overpopulation, Reproduction}

func (r Rule) String() string {
	switch r {
	case None:
		return "none"
	case Underpopulation:
		return "underpopulation"
	case Survival:
		return "survival"
	case Overpopulation:
		return "overpopulation"
	case Reproduction:
		return "reproduction"
	default:
		return fmt.Sprintf("rule(%d)", int(r))
	}
}

// HasProbability reports whether r is one of the four probabilistic rules
func (r Rule) HasProbability() bool {
	return r >= Underpopulation && r <= Reproduction
}

// ParseRule maps a rule name to its Rule
func ParseRule(name string) (Rule, bool) {
	for _, r := range AllRules {
		if strings.EqualFold(name, r.String()) {
			return r, true
		}
	}
	return None, false
}

// Classify returns the rule that governs a cell with the given state and neighbor count
func Classify(neighbors int, alive bool) Rule {
	if !alive {
		if neighbors == 3 {
			return Reproduction
		}
		return None
	}
	switch {
	case neighbors < 2:
		return Underpopulation
	case neighbors <= 3:
		return Survival
	default:
		return Overpopulation
	}
}

// Probabilities holds the firing probability of each rule
type Probabilities struct {
	Underpopulation float64 `json:"underpopulation"`
	Survival        float64 `json:"survival"`
	Overpopulation  float64 `json:"overpopulation"`
	Reproduction    float64 `json:"reproduction"`
}

// Classic returns probabilities that reproduce deterministic Life
func Classic() Probabilities {
	return Uniform(1.0)
}

// Uniform returns probabilities with every rule set to p
func Uniform(p float64) Probabilities {
	return Probabilities{
		Underpopulation: p,
		Survival:        p,
		Overpopulation:  p,
		Reproduction:    p,
	}
}

// Get returns the probability of rule; None always fires
func (p Probabilities) Get(rule Rule) float64 {
	switch rule {
	case Underpopulation:
		return p.Underpopulation
	case Survival:
		return p.Survival
	case Overpopulation:
		return p.Overpopulation
	case Reproduction:
		return p.Reproduction
	default:
		return 1.0
	}
}

// With returns a copy of p with rule set to value. Unknown rules leave p unchanged.
func (p Probabilities) With(rule Rule, value float64) Probabilities {
	switch rule {
	case Underpopulation:
		p.Underpopulation = value
	case Survival:
		p.Survival = value
	case Overpopulation:
		p.Overpopulation = value
	case Reproduction:
		p.Reproduction = value
	}
	return p
}

// InRange reports whether v is a valid probability. NaN is rejected.
func InRange(v float64) bool {
	return v >= 0 && v <= 1
}

// Invalid returns the first rule whose probability is outside [0,1], or None
func (p Probabilities) Invalid() Rule {
	for _, r := range AllRules {
		if !InRange(p.Get(r)) {
			return r
		}
	}
	return None
}

// IsClassic reports whether every rule fires unconditionally
func (p Probabilities) IsClassic() bool {
	return p == Classic()
}
