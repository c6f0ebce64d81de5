package tools

import (
	"github.com/NERVsystems/localhealth/pkg/consent"
	"github.com/NERVsystems/localhealth/pkg/geo"
	"github.com/NERVsystems/localhealth/pkg/meals"
	"github.com/NERVsystems/localhealth/pkg/session"
	"github.com/NERVsystems/localhealth/pkg/stores"
)

// LocationOutput is a resolved gazetteer entry.
type LocationOutput struct {
	Label    string         `json:"label"`
	Display  string         `json:"display"`
	Location geo.Coordinate `json:"location"`
}

// ChainOutput is the result of choosing a chain.
type ChainOutput struct {
	Chain       stores.Chain   `json:"chain"`
	Status      session.Status `json:"status"`
	Recommended *stores.Ranked `json:"recommended,omitempty"`
}

// SeasonOutput describes the season of a date.
type SeasonOutput struct {
	Date   string       `json:"date"`
	Season meals.Season `json:"season"`
	Label  string       `json:"label"`
}

// MealsOutput is a list of meal cards for one selection.
type MealsOutput struct {
	Selection   meals.Selection `json:"selection"`
	SeasonLabel string          `json:"season_label"`
	GoalLabel   string          `json:"goal_label"`
	Meals       []meals.Card    `json:"meals"`
}

// MealOutput is a single picked meal.
type MealOutput struct {
	Selection meals.Selection `json:"selection"`
	Meal      meals.Card      `json:"meal"`
}

// ConsentOutput reports the cookie preference and whether the banner
// should be shown.
type ConsentOutput struct {
	Preference    *consent.Preference `json:"preference,omitempty"`
	BannerVisible bool                `json:"banner_visible"`
}
