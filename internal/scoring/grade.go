package scoring

// Tier ranks grades from best to worst.
type Tier int

const (
	TierPerfect Tier = iota
	TierExcellent
	TierGood
	TierPass
	TierPractice
)

// Grade is the player-facing verdict for a score.
type Grade struct {
	Tier    Tier
	Label   string
	Message string
}

var grades = []struct {
	min   int
	grade Grade
}{
	{90, Grade{TierPerfect, "Perfect", "That's a near-perfect circle!"}},
	{80, Grade{TierExcellent, "Excellent", "Very round, great control."}},
	{70, Grade{TierGood, "Good", "Nice loop, keep practicing."}},
	{60, Grade{TierPass, "Pass", "Recognizably a circle."}},
}

var practice = Grade{TierPractice, "Needs practice", "Try a slower, steadier loop."}

// GradeFor maps a score to its grade.
func GradeFor(score int) Grade {
	for _, g := range grades {
		if score >= g.min {
			return g.grade
		}
	}
	return practice
}

// Tiers returns every tier in rank order.
func Tiers() []Tier {
	return []Tier{TierPerfect, TierExcellent, TierGood, TierPass, TierPractice}
}

// String returns the grade label of the tier.
func (t Tier) String() string {
	for _, g := range grades {
		if g.grade.Tier == t {
			return g.grade.Label
		}
	}
	return practice.Label
}
