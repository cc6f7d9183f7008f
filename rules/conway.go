package rules

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

Conway's Game of Life rules: (alive && neighbors == 2) || neighbors == 3
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	return (alive && neighbors == 2) || neighbors == 3
}

// RandomSource yields uniform values in [0,1). *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
}

// ApplyProbabilisticRules returns the next state of a cell under the probabilistic variant.
// Each rule that applies is a Bernoulli trial consuming exactly one draw from src, firing
// when the draw is <= the rule's probability. A dead cell without exactly three neighbors
// stays dead and consumes nothing.
func ApplyProbabilisticRules(neighbors int, alive bool, p Probabilities, src RandomSource) bool {
	rule := Classify(neighbors, alive)
	if rule == None {
		return alive
	}

	fired := src.Float64() <= p.Get(rule)
	switch rule {
	case Survival, Reproduction:
		return fired
	default:
		// death rules: the cell lives on when the roll fails
		return !fired
	}
}
