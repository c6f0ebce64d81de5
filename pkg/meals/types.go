// Package meals holds the meal-prep dataset and picks suggestions for a
// season, fitness goal and diet.
package meals

import (
	"errors"
	"fmt"
	"strings"

	"github.com/NERVsystems/localhealth/pkg/stores"
)

// Season of the year, detected from the calendar month.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// Seasons lists all seasons in calendar order starting with spring.
var Seasons = []Season{Spring, Summer, Autumn, Winter}

// Goal is a fitness goal.
type Goal string

const (
	GoalBalanced    Goal = "balanced"
	GoalLeanMass    Goal = "lean-mass"
	GoalHypertrophy Goal = "hypertrophy"
	GoalFatLoss     Goal = "fatloss"
	GoalEndurance   Goal = "endurance"
	GoalPower       Goal = "power"

	// Goals of the legacy dataset.
	GoalMuscle     Goal = "muscle"
	GoalWeightLoss Goal = "weightloss"
)

// Diet is a dietary pattern a meal is compatible with.
type Diet string

const (
	Omnivore    Diet = "omnivore"
	Vegetarian  Diet = "vegetarian"
	Pescetarian Diet = "pescetarian"
	Vegan       Diet = "vegan"
)

// Diets lists the known diets.
var Diets = []Diet{Omnivore, Vegetarian, Pescetarian, Vegan}

var (
	ErrUnknownSeason = errors.New("unknown season")
	ErrUnknownGoal   = errors.New("unknown goal")
	ErrUnknownDiet   = errors.New("unknown diet")
)

var seasonAliases = map[string]Season{
	"spring":    Spring,
	"fruehling": Spring,
	"frühling":  Spring,
	"summer":    Summer,
	"sommer":    Summer,
	"autumn":    Autumn,
	"fall":      Autumn,
	"herbst":    Autumn,
	"winter":    Winter,
}

// ParseSeason accepts English and German season names.
func ParseSeason(s string) (Season, error) {
	if season, ok := seasonAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return season, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSeason, s)
}

// ParseDiet validates a diet name.
func ParseDiet(s string) (Diet, error) {
	d := Diet(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Diets {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDiet, s)
}

// Macros are per-portion nutrition values.
type Macros struct {
	Kcal    int `json:"kcal"`
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// Product is one shopping list line.
type Product struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price,omitempty"`
	Quantity    string  `json:"quantity,omitempty"`
	Store       string  `json:"store,omitempty"`
	Placeholder string  `json:"placeholder,omitempty"`
	Note        string  `json:"note,omitempty"`
	Image       string  `json:"image,omitempty"`
}

// Meal is a single meal-prep record.
type Meal struct {
	ID              string                  `json:"id"`
	Season          Season                  `json:"season"`
	Goal            Goal                    `json:"goal"`
	Diet            []Diet                  `json:"diet"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	CarbonKg        float64                 `json:"carbon_kg"`
	Macros          Macros                  `json:"macros"`
	PricePerPortion *float64                `json:"price_per_portion,omitempty"`
	Products        []Product               `json:"products,omitempty"`
	Tags            []string                `json:"tags,omitempty"`
	ShopNotes       map[stores.Chain]string `json:"shop_notes,omitempty"`
	CarbonSource    string                  `json:"carbon_source"`
}

// Supports reports whether the meal is compatible with diet.
func (m Meal) Supports(diet Diet) bool {
	for _, d := range m.Diet {
		if d == diet {
			return true
		}
	}
	return false
}

// Selection is one meal query.
type Selection struct {
	Season Season       `json:"season"`
	Goal   Goal         `json:"goal"`
	Chain  stores.Chain `json:"chain,omitempty"`
	Diet   Diet         `json:"diet"`
}
