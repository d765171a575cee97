package ranking

import "github.com/jonathan/candidate-ranker/internal/types"

// Seniority levels
const (
	SeniorityUnknown   = "Unknown"
	SeniorityEntry     = "Entry"
	SeniorityJunior    = "Junior"
	SeniorityMid       = "Mid"
	SenioritySenior    = "Senior"
	SeniorityPrincipal = "Lead/Principal"
)

// ClassifySeniority bands a candidate by the larger of its maximum and mean nonzero
// years of experience. Without experience data the level is Unknown.
func ClassifySeniority(years map[string]float64) types.Seniority {
	var maxYears, sum float64
	var topSkill string
	count := 0
	for skill, y := range years {
		if y <= 0 {
			continue
		}
		count++
		sum += y
		if y > maxYears || (y == maxYears && skill < topSkill) {
			maxYears = y
			topSkill = skill
		}
	}

	if count == 0 {
		return types.Seniority{Level: SeniorityUnknown}
	}

	mean := sum / float64(count)
	signal := max(maxYears, mean)

	return types.Seniority{
		Level:     seniorityBand(signal),
		MaxYears:  maxYears,
		MeanYears: mean,
		TopSkill:  topSkill,
	}
}

func seniorityBand(years float64) string {
	switch {
	case years >= 10:
		return SeniorityPrincipal
	case years >= 7:
		return SenioritySenior
	case years >= 4:
		return SeniorityMid
	case years >= 2:
		return SeniorityJunior
	default:
		return SeniorityEntry
	}
}
