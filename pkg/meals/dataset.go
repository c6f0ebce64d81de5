package meals

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
)

//go:embed data/*.json
var dataFS embed.FS

// LatestVersion is the dataset version used when none is configured.
const LatestVersion = 2

// Dataset is a validated, read-only table of meals.
type Dataset struct {
	version int
	meals   []Meal
	goals   []Goal
}

type datasetFile struct {
	Version int    `json:"version"`
	Meals   []Meal `json:"meals"`
}

// LoadDataset decodes and validates an embedded dataset version.
// Version 1 is the legacy table, version 2 adds prices and shopping lists.
func LoadDataset(version int) (*Dataset, error) {
	raw, err := dataFS.ReadFile(fmt.Sprintf("data/meals_v%d.json", version))
	if err != nil {
		return nil, fmt.Errorf("meal dataset v%d: %w", version, err)
	}
	return ParseDataset(raw)
}

// ParseDataset decodes a dataset document and validates it.
func ParseDataset(raw []byte) (*Dataset, error) {
	var f datasetFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to decode meal dataset: %w", err)
	}
	return NewDataset(f.Version, f.Meals)
}

// NewDataset validates meals and wraps them in a Dataset.
func NewDataset(version int, meals []Meal) (*Dataset, error) {
	if err := Validate(meals); err != nil {
		return nil, fmt.Errorf("meal dataset v%d invalid: %w", version, err)
	}

	d := &Dataset{version: version, meals: make([]Meal, len(meals))}
	copy(d.meals, meals)

	seen := make(map[Goal]bool)
	for _, m := range meals {
		if !seen[m.Goal] {
			seen[m.Goal] = true
			d.goals = append(d.goals, m.Goal)
		}
	}
	return d, nil
}

// Validate checks the record schema and the omnivore fallback rule: every
// season and goal pair present in the table has an omnivore-compatible meal.
func Validate(meals []Meal) error {
	var errs []error
	if len(meals) == 0 {
		return errors.New("dataset is empty")
	}

	type pair struct {
		season Season
		goal   Goal
	}
	omnivore := make(map[pair]bool)
	ids := make(map[string]bool, len(meals))

	for i, m := range meals {
		if m.ID == "" {
			errs = append(errs, fmt.Errorf("meal %d: missing id", i))
		} else if ids[m.ID] {
			errs = append(errs, fmt.Errorf("meal %q: duplicate id", m.ID))
		}
		ids[m.ID] = true

		if _, err := ParseSeason(string(m.Season)); err != nil {
			errs = append(errs, fmt.Errorf("meal %q: %w", m.ID, err))
		}
		if m.Goal == "" {
			errs = append(errs, fmt.Errorf("meal %q: missing goal", m.ID))
		}
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("meal %q: missing name", m.ID))
		}
		if len(m.Diet) == 0 {
			errs = append(errs, fmt.Errorf("meal %q: empty diet set", m.ID))
		}
		for _, d := range m.Diet {
			if _, err := ParseDiet(string(d)); err != nil {
				errs = append(errs, fmt.Errorf("meal %q: %w", m.ID, err))
			}
		}

		p := pair{m.Season, m.Goal}
		omnivore[p] = omnivore[p] || m.Supports(Omnivore)
	}

	for p, ok := range omnivore {
		if !ok {
			errs = append(errs, fmt.Errorf("no omnivore meal for season %s and goal %s", p.season, p.goal))
		}
	}
	return errors.Join(errs...)
}

// Version returns the dataset version.
func (d *Dataset) Version() int { return d.version }

// Len returns the number of meals.
func (d *Dataset) Len() int { return len(d.meals) }

// Meals returns a copy of all meals in table order.
func (d *Dataset) Meals() []Meal {
	out := make([]Meal, len(d.meals))
	copy(out, d.meals)
	return out
}

// Goals lists the goals present in the dataset, in first-seen order.
func (d *Dataset) Goals() []Goal {
	out := make([]Goal, len(d.goals))
	copy(out, d.goals)
	return out
}

// ParseGoal validates a goal against the dataset.
func (d *Dataset) ParseGoal(s string) (Goal, error) {
	for _, g := range d.goals {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGoal, s)
}

// Lookup finds a meal by id.
func (d *Dataset) Lookup(id string) (Meal, bool) {
	for _, m := range d.meals {
		if m.ID == id {
			return m, true
		}
	}
	return Meal{}, false
}
