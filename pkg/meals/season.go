package meals

import "time"

// DetectSeason maps the calendar month of t to a season. March to May is
// spring, June to August summer, September to November autumn, the rest
// winter. Year and hemisphere are ignored.
func DetectSeason(t time.Time) Season {
	switch m := t.Month(); {
	case m >= time.March && m <= time.May:
		return Spring
	case m >= time.June && m <= time.August:
		return Summer
	case m >= time.September && m <= time.November:
		return Autumn
	default:
		return Winter
	}
}

var seasonLabels = map[Season]string{
	Spring: "Frühling",
	Summer: "Sommer",
	Autumn: "Herbst",
	Winter: "Winter",
}

var goalLabels = map[Goal]string{
	GoalBalanced:    "Balance & Alltag",
	GoalLeanMass:    "Lean Mass Aufbau",
	GoalHypertrophy: "Hypertrophy",
	GoalFatLoss:     "Body Recomposition",
	GoalEndurance:   "Ausdauer",
	GoalPower:       "Power & HIIT",
	GoalMuscle:      "Muskelaufbau",
	GoalWeightLoss:  "Gewichtsreduktion",
}

// SeasonLabel returns the display name of s, or s itself if unknown.
func SeasonLabel(s Season) string {
	if l, ok := seasonLabels[s]; ok {
		return l
	}
	return string(s)
}

// GoalLabel returns the display name of g, or g itself if unknown.
func GoalLabel(g Goal) string {
	if l, ok := goalLabels[g]; ok {
		return l
	}
	return string(g)
}
